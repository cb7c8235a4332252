package dto

import (
	"time"

	"github.com/tcnexs/backend/internal/domain"
)

// CreateProjectRequest payload for new projects. The caller becomes the
// customer; only the executor is named.
type CreateProjectRequest struct {
	Name              string   `json:"name" validate:"required" message:"Project name is required"`
	Status            string   `json:"status" validate:"required" message:"Status is required"`
	Description       string   `json:"description" validate:"required" message:"Description is required"`
	Stage             string   `json:"stage" validate:"oneof=PLANNING DEVELOPMENT TESTING DEPLOYMENT COMPLETED" message:"Invalid project stage"`
	ExecutorCompanyID int64    `json:"executorCompanyId" validate:"required,gt=0" message:"Executor company is required"`
	Functions         []string `json:"functions" validate:"required" message:"Functions must be an array"`
	ExpectedResult    string   `json:"expectedResult" validate:"required" message:"Expected result is required"`
}

// UpdateProjectRequest lists the mutable project fields.
type UpdateProjectRequest struct {
	Name           *string   `json:"name" validate:"omitnil,min=1" message:"Project name cannot be empty"`
	Status         *string   `json:"status" validate:"omitnil,min=1" message:"Status cannot be empty"`
	Description    *string   `json:"description" validate:"omitnil,min=1" message:"Description cannot be empty"`
	Stage          *string   `json:"stage" validate:"omitnil,oneof=PLANNING DEVELOPMENT TESTING DEPLOYMENT COMPLETED" message:"Invalid project stage"`
	Functions      *[]string `json:"functions"`
	ExpectedResult *string   `json:"expectedResult" validate:"omitnil,min=1" message:"Expected result cannot be empty"`
}

// ProjectResponse is the project view returned to members.
type ProjectResponse struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Status            string          `json:"status"`
	Description       string          `json:"description"`
	Stage             string          `json:"stage"`
	CustomerCompanyID int64           `json:"customerCompanyId"`
	ExecutorCompanyID int64           `json:"executorCompanyId"`
	CustomerCompany   *CompanySummary `json:"customerCompany,omitempty"`
	ExecutorCompany   *CompanySummary `json:"executorCompany,omitempty"`
	Functions         []string        `json:"functions"`
	ExpectedResult    string          `json:"expectedResult"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// NewProjectResponse maps a project to its view.
func NewProjectResponse(p domain.Project) ProjectResponse {
	functions := p.Functions
	if functions == nil {
		functions = []string{}
	}
	return ProjectResponse{
		ID:                p.ID,
		Name:              p.Name,
		Status:            p.Status,
		Description:       p.Description,
		Stage:             string(p.Stage),
		CustomerCompanyID: p.CustomerCompanyID,
		ExecutorCompanyID: p.ExecutorCompanyID,
		CustomerCompany:   NewCompanySummary(p.CustomerCompany),
		ExecutorCompany:   NewCompanySummary(p.ExecutorCompany),
		Functions:         functions,
		ExpectedResult:    p.ExpectedResult,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}
