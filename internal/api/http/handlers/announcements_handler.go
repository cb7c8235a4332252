package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tcnexs/backend/internal/api/dto"
	"github.com/tcnexs/backend/internal/domain"
	"github.com/tcnexs/backend/internal/listing"
	"github.com/tcnexs/backend/internal/service"
	apperrors "github.com/tcnexs/backend/pkg/util/errorutil"
)

// AnnouncementsHandler manages announcement endpoints.
type AnnouncementsHandler struct {
	service  *service.AnnouncementService
	validate *Validator
}

// NewAnnouncementsHandler constructs handler.
func NewAnnouncementsHandler(announcementService *service.AnnouncementService, validate *Validator) *AnnouncementsHandler {
	return &AnnouncementsHandler{service: announcementService, validate: validate}
}

// List GET /api/announcements?type=&companyId=&page=&limit=.
func (h *AnnouncementsHandler) List(c *fiber.Ctx, actor *domain.Company) error {
	var filter service.AnnouncementFilter
	if raw := c.Query("type"); raw != "" {
		t := domain.AnnouncementType(raw)
		if !t.Valid() {
			return apperrors.NewValidationError("Type must be either search or offer", map[string]any{"type": raw})
		}
		filter.Type = &t
	}
	companyID, err := queryID(c, "companyId")
	if err != nil {
		return err
	}
	filter.CompanyID = companyID

	page, err := h.service.List(c.UserContext(), actor, filter, pageParams(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, listing.Map(page, dto.NewAnnouncementResponse))
}

// Get GET /api/announcements/:id.
func (h *AnnouncementsHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	a, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, dto.NewAnnouncementResponse(*a))
}

// Create POST /api/announcements.
func (h *AnnouncementsHandler) Create(c *fiber.Ctx, actor *domain.Company) error {
	var req dto.CreateAnnouncementRequest
	if err := h.validate.bind(c, &req); err != nil {
		return err
	}
	a, err := h.service.Create(c.UserContext(), actor, service.AnnouncementInput{
		Title:        req.Title,
		Description:  req.Description,
		Type:         domain.AnnouncementType(req.Type),
		Requirements: req.ListOfRequirementsOrServices,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, dto.NewAnnouncementResponse(*a))
}

// Update PUT /api/announcements/:id.
func (h *AnnouncementsHandler) Update(c *fiber.Ctx, actor *domain.Company) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateAnnouncementRequest
	if err := h.validate.bind(c, &req); err != nil {
		return err
	}
	upd := service.AnnouncementUpdate{
		Title:        req.Title,
		Description:  req.Description,
		Requirements: req.ListOfRequirementsOrServices,
	}
	if req.Type != nil {
		t := domain.AnnouncementType(*req.Type)
		upd.Type = &t
	}
	a, err := h.service.Update(c.UserContext(), actor, id, upd)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, dto.NewAnnouncementResponse(*a))
}

// Delete DELETE /api/announcements/:id.
func (h *AnnouncementsHandler) Delete(c *fiber.Ctx, actor *domain.Company) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), actor, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
