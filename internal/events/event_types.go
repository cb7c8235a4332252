package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCompanyRegistered   EventType = "company_registered"
	EventAnnouncementCreated EventType = "announcement_created"
	EventAnnouncementDeleted EventType = "announcement_deleted"
	EventProjectCreated      EventType = "project_created"
	EventProjectUpdated      EventType = "project_updated"
	EventProjectDeleted      EventType = "project_deleted"
)

// AllEventTypes lists every type the services publish.
var AllEventTypes = []EventType{
	EventCompanyRegistered,
	EventAnnouncementCreated,
	EventAnnouncementDeleted,
	EventProjectCreated,
	EventProjectUpdated,
	EventProjectDeleted,
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	SubjectID int64     `json:"subject_id"`
	ActorID   int64     `json:"actor_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// CompanyRegisteredPayload payload.
type CompanyRegisteredPayload struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Industry string `json:"industry"`
}

// AnnouncementPayload payload for announcement lifecycle events.
type AnnouncementPayload struct {
	Title     string `json:"title"`
	Type      string `json:"type"`
	CompanyID int64  `json:"company_id"`
}

// ProjectPayload payload for project lifecycle events.
type ProjectPayload struct {
	Name              string `json:"name"`
	Stage             string `json:"stage"`
	Status            string `json:"status"`
	CustomerCompanyID int64  `json:"customer_company_id"`
	ExecutorCompanyID int64  `json:"executor_company_id"`
}
