package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tcnexs/backend/internal/api/dto"
	"github.com/tcnexs/backend/internal/domain"
	"github.com/tcnexs/backend/internal/service"
)

// AuthHandler exposes registration, login and session endpoints.
type AuthHandler struct {
	service  *service.AuthService
	validate *Validator
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, validate *Validator) *AuthHandler {
	return &AuthHandler{service: authService, validate: validate}
}

// Register POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := h.validate.bind(c, &req); err != nil {
		return err
	}
	company, token, exp, err := h.service.Register(c.UserContext(), service.RegisterInput{
		Name:        req.Name,
		Industry:    req.Industry,
		Email:       req.Email,
		Password:    req.Password,
		FoundedYear: *req.FoundedYear,
		Services:    req.Services,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, dto.NewAuthResponse(company, token, exp))
}

// Login POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := h.validate.bind(c, &req); err != nil {
		return err
	}
	company, token, exp, err := h.service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, dto.NewAuthResponse(company, token, exp))
}

// Logout POST /api/auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx, actor *domain.Company) error {
	if err := h.service.Logout(c.UserContext(), actor); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{"message": "Logged out successfully"})
}

// Me GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx, actor *domain.Company) error {
	company, err := h.service.Me(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, dto.NewCompanyResponse(*company))
}
