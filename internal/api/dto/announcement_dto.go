package dto

import (
	"time"

	"github.com/tcnexs/backend/internal/domain"
)

// CreateAnnouncementRequest payload for new announcements.
type CreateAnnouncementRequest struct {
	Title                        string   `json:"title" validate:"required" message:"Title is required"`
	Description                  string   `json:"description" validate:"required" message:"Description is required"`
	Type                         string   `json:"type" validate:"oneof=search offer" message:"Type must be either search or offer"`
	ListOfRequirementsOrServices []string `json:"listOfRequirementsOrServices" validate:"required" message:"Requirements/Services must be an array"`
}

// UpdateAnnouncementRequest lists the mutable announcement fields.
type UpdateAnnouncementRequest struct {
	Title                        *string   `json:"title" validate:"omitnil,min=1" message:"Title cannot be empty"`
	Description                  *string   `json:"description" validate:"omitnil,min=1" message:"Description cannot be empty"`
	Type                         *string   `json:"type" validate:"omitnil,oneof=search offer" message:"Type must be either search or offer"`
	ListOfRequirementsOrServices *[]string `json:"listOfRequirementsOrServices"`
}

// AnnouncementResponse is the public announcement view.
type AnnouncementResponse struct {
	ID                           int64           `json:"id"`
	Title                        string          `json:"title"`
	Description                  string          `json:"description"`
	Type                         string          `json:"type"`
	ListOfRequirementsOrServices []string        `json:"listOfRequirementsOrServices"`
	CompanyID                    int64           `json:"companyId"`
	Company                      *CompanySummary `json:"company,omitempty"`
	CreatedAt                    time.Time       `json:"createdAt"`
	UpdatedAt                    time.Time       `json:"updatedAt"`
}

// NewAnnouncementResponse maps an announcement to its public view.
func NewAnnouncementResponse(a domain.Announcement) AnnouncementResponse {
	reqs := a.Requirements
	if reqs == nil {
		reqs = []string{}
	}
	return AnnouncementResponse{
		ID:                           a.ID,
		Title:                        a.Title,
		Description:                  a.Description,
		Type:                         string(a.Type),
		ListOfRequirementsOrServices: reqs,
		CompanyID:                    a.CompanyID,
		Company:                      NewCompanySummary(a.Company),
		CreatedAt:                    a.CreatedAt,
		UpdatedAt:                    a.UpdatedAt,
	}
}
