package dto

import (
	"path"
	"time"

	"github.com/tcnexs/backend/internal/domain"
)

// UploadsPrefix is the public URL prefix for stored photos.
const UploadsPrefix = "/uploads"

// UpdateCompanyRequest lists the profile fields a company may change.
type UpdateCompanyRequest struct {
	Name        *string   `json:"name" validate:"omitnil,min=1" message:"Company name cannot be empty"`
	Industry    *string   `json:"industry" validate:"omitnil,min=1" message:"Industry cannot be empty"`
	Email       *string   `json:"email" validate:"omitnil,email" message:"Please provide a valid email"`
	FoundedYear *int      `json:"foundedYear"`
	Services    *[]string `json:"services"`
	Description *string   `json:"description" validate:"omitnil,min=1" message:"Description cannot be empty"`
}

// CompanyResponse is the public company profile. It never carries the password hash.
type CompanyResponse struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Industry     string      `json:"industry"`
	Email        string      `json:"email"`
	FoundedYear  int         `json:"foundedYear"`
	Services     []string    `json:"services"`
	Description  string      `json:"description"`
	ProfilePhoto *string     `json:"profilePhoto"`
	Role         domain.Role `json:"role"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// CompanySummary is the embedded view of a related company.
type CompanySummary struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Industry     string  `json:"industry"`
	ProfilePhoto *string `json:"profilePhoto"`
}

// NewCompanyResponse maps a company to its public view.
func NewCompanyResponse(c domain.Company) CompanyResponse {
	services := c.Services
	if services == nil {
		services = []string{}
	}
	return CompanyResponse{
		ID:           c.ID,
		Name:         c.Name,
		Industry:     c.Industry,
		Email:        c.Email,
		FoundedYear:  c.FoundedYear,
		Services:     services,
		Description:  c.Description,
		ProfilePhoto: PhotoURL(c.ProfilePhoto),
		Role:         c.Role,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// NewCompanySummary maps a joined company, or nil.
func NewCompanySummary(c *domain.Company) *CompanySummary {
	if c == nil {
		return nil
	}
	return &CompanySummary{
		ID:           c.ID,
		Name:         c.Name,
		Email:        c.Email,
		Industry:     c.Industry,
		ProfilePhoto: PhotoURL(c.ProfilePhoto),
	}
}

// PhotoURL turns a stored artifact path into its public URL.
func PhotoURL(stored *string) *string {
	if stored == nil || *stored == "" {
		return nil
	}
	url := path.Join(UploadsPrefix, path.Base(*stored))
	return &url
}
