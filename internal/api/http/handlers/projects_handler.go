package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tcnexs/backend/internal/api/dto"
	"github.com/tcnexs/backend/internal/domain"
	"github.com/tcnexs/backend/internal/listing"
	"github.com/tcnexs/backend/internal/service"
	apperrors "github.com/tcnexs/backend/pkg/util/errorutil"
)

// ProjectsHandler manages project endpoints.
type ProjectsHandler struct {
	service  *service.ProjectService
	validate *Validator
}

// NewProjectsHandler constructs handler.
func NewProjectsHandler(projectService *service.ProjectService, validate *Validator) *ProjectsHandler {
	return &ProjectsHandler{service: projectService, validate: validate}
}

// List GET /api/projects?stage=&status=&page=&limit=.
func (h *ProjectsHandler) List(c *fiber.Ctx, actor *domain.Company) error {
	var filter service.ProjectFilter
	if raw := c.Query("stage"); raw != "" {
		stage := domain.ProjectStage(raw)
		if !stage.Valid() {
			return apperrors.NewValidationError("Invalid project stage", map[string]any{"stage": raw})
		}
		filter.Stage = &stage
	}
	filter.Status = queryString(c, "status")

	page, err := h.service.List(c.UserContext(), actor, filter, pageParams(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, listing.Map(page, dto.NewProjectResponse))
}

// Get GET /api/projects/:id.
func (h *ProjectsHandler) Get(c *fiber.Ctx, actor *domain.Company) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	p, err := h.service.Get(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, dto.NewProjectResponse(*p))
}

// Create POST /api/projects.
func (h *ProjectsHandler) Create(c *fiber.Ctx, actor *domain.Company) error {
	var req dto.CreateProjectRequest
	if err := h.validate.bind(c, &req); err != nil {
		return err
	}
	p, err := h.service.Create(c.UserContext(), actor, service.ProjectInput{
		Name:              req.Name,
		Status:            req.Status,
		Description:       req.Description,
		Stage:             domain.ProjectStage(req.Stage),
		ExecutorCompanyID: req.ExecutorCompanyID,
		Functions:         req.Functions,
		ExpectedResult:    req.ExpectedResult,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, dto.NewProjectResponse(*p))
}

// Update PUT /api/projects/:id.
func (h *ProjectsHandler) Update(c *fiber.Ctx, actor *domain.Company) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProjectRequest
	if err := h.validate.bind(c, &req); err != nil {
		return err
	}
	upd := service.ProjectUpdate{
		Name:           req.Name,
		Status:         req.Status,
		Description:    req.Description,
		Functions:      req.Functions,
		ExpectedResult: req.ExpectedResult,
	}
	if req.Stage != nil {
		stage := domain.ProjectStage(*req.Stage)
		upd.Stage = &stage
	}
	p, err := h.service.Update(c.UserContext(), actor, id, upd)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, dto.NewProjectResponse(*p))
}

// Delete DELETE /api/projects/:id.
func (h *ProjectsHandler) Delete(c *fiber.Ctx, actor *domain.Company) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), actor, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
