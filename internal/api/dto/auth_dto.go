package dto

import (
	"time"

	"github.com/tcnexs/backend/internal/domain"
)

// RegisterRequest payload for company self-registration.
type RegisterRequest struct {
	Email       string   `json:"email" validate:"required,email" message:"Please provide a valid email"`
	Password    string   `json:"password" validate:"required,min=6" message:"Password must be at least 6 characters long"`
	Name        string   `json:"name" validate:"required" message:"Company name is required"`
	Industry    string   `json:"industry" validate:"required" message:"Industry is required"`
	FoundedYear *int     `json:"foundedYear" validate:"required" message:"Founded year must be a number"`
	Services    []string `json:"services" validate:"required" message:"Services must be an array"`
	Description string   `json:"description" validate:"required" message:"Description is required"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" message:"Please provide a valid email"`
	Password string `json:"password" validate:"required" message:"Password is required"`
}

// AuthCompany is the identity block returned by auth endpoints.
type AuthCompany struct {
	ID       int64       `json:"id"`
	Email    string      `json:"email"`
	Name     string      `json:"name"`
	Industry string      `json:"industry"`
	Role     domain.Role `json:"role"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Company   AuthCompany `json:"company"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// NewAuthResponse builds the register/login response.
func NewAuthResponse(c *domain.Company, token string, expiresAt time.Time) AuthResponse {
	return AuthResponse{
		Company: AuthCompany{
			ID:       c.ID,
			Email:    c.Email,
			Name:     c.Name,
			Industry: c.Industry,
			Role:     c.Role,
		},
		Token:     token,
		ExpiresAt: expiresAt,
	}
}
