package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tcnexs/backend/internal/api/dto"
	"github.com/tcnexs/backend/internal/domain"
	"github.com/tcnexs/backend/internal/listing"
	"github.com/tcnexs/backend/internal/service"
	"github.com/tcnexs/backend/internal/storage"
	apperrors "github.com/tcnexs/backend/pkg/util/errorutil"
)

// CompaniesHandler manages company profile endpoints.
type CompaniesHandler struct {
	service  *service.CompanyService
	files    storage.Store
	validate *Validator
}

// NewCompaniesHandler constructs handler.
func NewCompaniesHandler(companyService *service.CompanyService, files storage.Store, validate *Validator) *CompaniesHandler {
	return &CompaniesHandler{service: companyService, files: files, validate: validate}
}

// List GET /api/companies.
func (h *CompaniesHandler) List(c *fiber.Ctx, actor *domain.Company) error {
	page, err := h.service.List(c.UserContext(), actor, service.CompanyFilter{
		Industry: queryString(c, "industry"),
	}, pageParams(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, listing.Map(page, dto.NewCompanyResponse))
}

// Get GET /api/companies/:id.
func (h *CompaniesHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	company, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, dto.NewCompanyResponse(*company))
}

// Me GET /api/companies/me.
func (h *CompaniesHandler) Me(c *fiber.Ctx, actor *domain.Company) error {
	return respond(c, fiber.StatusOK, dto.NewCompanyResponse(*actor))
}

// UpdateMe PUT /api/companies/me.
func (h *CompaniesHandler) UpdateMe(c *fiber.Ctx, actor *domain.Company) error {
	upd, err := h.bindUpdate(c)
	if err != nil {
		return err
	}
	company, err := h.service.UpdateSelf(c.UserContext(), actor, upd)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, dto.NewCompanyResponse(*company))
}

// Update PUT /api/companies/:id.
func (h *CompaniesHandler) Update(c *fiber.Ctx, actor *domain.Company) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	upd, err := h.bindUpdate(c)
	if err != nil {
		return err
	}
	company, err := h.service.Update(c.UserContext(), actor, id, upd)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, dto.NewCompanyResponse(*company))
}

// UploadPhoto POST /api/companies/:id/photo with multipart field "photo".
func (h *CompaniesHandler) UploadPhoto(c *fiber.Ctx, actor *domain.Company) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	fh, err := c.FormFile("photo")
	if err != nil {
		return apperrors.NewValidationError("Please upload a photo", nil)
	}
	art, err := h.files.Save(fh)
	if err != nil {
		return err
	}
	company, err := h.service.UploadPhoto(c.UserContext(), actor, id, art)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, dto.NewCompanyResponse(*company))
}

func (h *CompaniesHandler) bindUpdate(c *fiber.Ctx) (service.CompanyUpdate, error) {
	var req dto.UpdateCompanyRequest
	if err := h.validate.bind(c, &req); err != nil {
		return service.CompanyUpdate{}, err
	}
	return service.CompanyUpdate{
		Name:        req.Name,
		Industry:    req.Industry,
		Email:       req.Email,
		FoundedYear: req.FoundedYear,
		Services:    req.Services,
		Description: req.Description,
	}, nil
}
