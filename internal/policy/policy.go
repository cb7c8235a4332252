// Package policy decides whether an authenticated company may perform an
// operation on a company, announcement or project. Every function here is
// pure: the verdict depends only on its arguments.
package policy

import (
	"github.com/tcnexs/backend/internal/domain"
	apperrors "github.com/tcnexs/backend/pkg/util/errorutil"
)

// Outcome is the verdict class of a Decision.
type Outcome string

const (
	Permitted       Outcome = "permitted"
	Forbidden       Outcome = "forbidden"
	Unauthenticated Outcome = "unauthenticated"
)

// Resource names a resource family.
type Resource string

const (
	ResourceCompany      Resource = "company"
	ResourceAnnouncement Resource = "announcement"
	ResourceProject      Resource = "project"
)

// Operation names an action on a resource.
type Operation string

const (
	OpRead        Operation = "read"
	OpList        Operation = "list"
	OpCreate      Operation = "create"
	OpUpdate      Operation = "update"
	OpDelete      Operation = "delete"
	OpUploadPhoto Operation = "upload_photo"
)

// Deny reasons returned to callers.
const (
	ReasonUnauthenticated      = "Not authorized to access this route"
	ReasonCompanyUpdate        = "You do not have permission to update this company"
	ReasonAnnouncementUpdate   = "You do not have permission to update this announcement"
	ReasonAnnouncementDelete   = "You do not have permission to delete this announcement"
	ReasonProjectRead          = "You do not have access to this project"
	ReasonProjectUpdate        = "You do not have permission to update this project"
	ReasonProjectDelete        = "Only customer company can delete the project"
	ReasonUnsupportedOperation = "This operation is not permitted"
)

// Decision is the verdict for one (actor, resource, operation) triple.
type Decision struct {
	Resource  Resource
	Operation Operation
	Outcome   Outcome
	Reason    string
}

// Permitted reports whether the operation may proceed.
func (d Decision) Permitted() bool {
	return d.Outcome == Permitted
}

// Err returns the typed error for a denial, or nil when permitted.
func (d Decision) Err() error {
	switch d.Outcome {
	case Permitted:
		return nil
	case Unauthenticated:
		return apperrors.NewUnauthorized(d.Reason)
	default:
		return apperrors.NewForbidden(d.Reason)
	}
}

func permit(res Resource, op Operation) Decision {
	return Decision{Resource: res, Operation: op, Outcome: Permitted}
}

func forbid(res Resource, op Operation, reason string) Decision {
	return Decision{Resource: res, Operation: op, Outcome: Forbidden, Reason: reason}
}

func unauthenticated(res Resource, op Operation) Decision {
	return Decision{Resource: res, Operation: op, Outcome: Unauthenticated, Reason: ReasonUnauthenticated}
}

// Decide dispatches on the concrete resource type. A nil resource pointer is
// accepted for create and list operations.
func Decide(actor *domain.Company, resource any, op Operation) Decision {
	switch r := resource.(type) {
	case *domain.Company:
		return ForCompany(actor, r, op)
	case *domain.Announcement:
		return ForAnnouncement(actor, r, op)
	case *domain.Project:
		return ForProject(actor, r, op)
	default:
		if actor == nil {
			return unauthenticated("", op)
		}
		return forbid("", op, ReasonUnsupportedOperation)
	}
}

// ForCompany evaluates access to a company profile.
func ForCompany(actor, target *domain.Company, op Operation) Decision {
	if actor == nil {
		return unauthenticated(ResourceCompany, op)
	}
	switch op {
	case OpRead, OpList:
		return permit(ResourceCompany, op)
	case OpUpdate, OpUploadPhoto:
		if target != nil && actor.ID == target.ID {
			return permit(ResourceCompany, op)
		}
		return forbid(ResourceCompany, op, ReasonCompanyUpdate)
	}
	return forbid(ResourceCompany, op, ReasonUnsupportedOperation)
}

// ForAnnouncement evaluates access to an announcement. Creation is open to
// any authenticated company; the service assigns ownership to the actor.
func ForAnnouncement(actor *domain.Company, a *domain.Announcement, op Operation) Decision {
	if actor == nil {
		return unauthenticated(ResourceAnnouncement, op)
	}
	switch op {
	case OpRead, OpList, OpCreate:
		return permit(ResourceAnnouncement, op)
	case OpUpdate:
		if a.OwnedBy(actor.ID) {
			return permit(ResourceAnnouncement, op)
		}
		return forbid(ResourceAnnouncement, op, ReasonAnnouncementUpdate)
	case OpDelete:
		if a.OwnedBy(actor.ID) {
			return permit(ResourceAnnouncement, op)
		}
		return forbid(ResourceAnnouncement, op, ReasonAnnouncementDelete)
	}
	return forbid(ResourceAnnouncement, op, ReasonUnsupportedOperation)
}

// ForProject evaluates access to a project. Read and update are symmetric
// between customer and executor; delete belongs to the customer alone.
// OpList is always permitted here; row visibility is applied by ListScope.
func ForProject(actor *domain.Company, p *domain.Project, op Operation) Decision {
	if actor == nil {
		return unauthenticated(ResourceProject, op)
	}
	switch op {
	case OpList, OpCreate:
		return permit(ResourceProject, op)
	case OpRead:
		if p.HasMember(actor.ID) {
			return permit(ResourceProject, op)
		}
		return forbid(ResourceProject, op, ReasonProjectRead)
	case OpUpdate:
		if p.HasMember(actor.ID) {
			return permit(ResourceProject, op)
		}
		return forbid(ResourceProject, op, ReasonProjectUpdate)
	case OpDelete:
		if p.IsCustomer(actor.ID) {
			return permit(ResourceProject, op)
		}
		return forbid(ResourceProject, op, ReasonProjectDelete)
	}
	return forbid(ResourceProject, op, ReasonUnsupportedOperation)
}
