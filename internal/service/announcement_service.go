package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/tcnexs/backend/internal/domain"
	"github.com/tcnexs/backend/internal/events"
	"github.com/tcnexs/backend/internal/listing"
	"github.com/tcnexs/backend/internal/policy"
	"github.com/tcnexs/backend/internal/repository"
	apperrors "github.com/tcnexs/backend/pkg/util/errorutil"
)

const msgInvalidAnnouncementType = "Type must be either search or offer"

// AnnouncementInput describes a new announcement. The owner is always the actor.
type AnnouncementInput struct {
	Title        string
	Description  string
	Type         domain.AnnouncementType
	Requirements []string
}

// AnnouncementUpdate lists the mutable announcement fields.
type AnnouncementUpdate struct {
	Title        *string
	Description  *string
	Type         *domain.AnnouncementType
	Requirements *[]string
}

func (u AnnouncementUpdate) apply(a *domain.Announcement) {
	if u.Title != nil {
		a.Title = strings.TrimSpace(*u.Title)
	}
	if u.Description != nil {
		a.Description = *u.Description
	}
	if u.Type != nil {
		a.Type = *u.Type
	}
	if u.Requirements != nil {
		a.Requirements = nonNil(*u.Requirements)
	}
}

// AnnouncementFilter narrows the announcement listing.
type AnnouncementFilter struct {
	Type      *domain.AnnouncementType
	CompanyID *int64
}

// AnnouncementService manages announcements.
type AnnouncementService struct {
	announcements repository.AnnouncementRepository
	guard         guard
	events        publisher
}

// AnnouncementDependencies bundles collaborators for the announcement service.
type AnnouncementDependencies struct {
	AnnouncementRepo repository.AnnouncementRepository
	Dispatcher       events.Dispatcher
	Decisions        DecisionRecorder
	Logger           *zap.Logger
}

// NewAnnouncementService constructs the service.
func NewAnnouncementService(deps AnnouncementDependencies) *AnnouncementService {
	return &AnnouncementService{
		announcements: deps.AnnouncementRepo,
		guard:         guard{decisions: deps.Decisions},
		events:        publisher{dispatcher: deps.Dispatcher, logger: loggerOrNop(deps.Logger)},
	}
}

// List returns one page of announcements matching filter.
func (s *AnnouncementService) List(ctx context.Context, actor *domain.Company, filter AnnouncementFilter, params listing.Params) (listing.Envelope[domain.Announcement], error) {
	if err := s.guard.check(policy.ForAnnouncement(actor, nil, policy.OpList)); err != nil {
		return listing.Envelope[domain.Announcement]{}, err
	}
	if filter.Type != nil && !filter.Type.Valid() {
		return listing.Envelope[domain.Announcement]{}, apperrors.NewValidationError(msgInvalidAnnouncementType, nil)
	}
	params = listing.NewParams(params.Page, params.Limit)
	items, total, err := s.announcements.List(ctx, repository.AnnouncementFilter{
		Type:      filter.Type,
		CompanyID: filter.CompanyID,
		Limit:     params.Limit,
		Offset:    params.Offset(),
	})
	if err != nil {
		return listing.Envelope[domain.Announcement]{}, mapRepoError(err, "Announcement")
	}
	return listing.NewEnvelope(items, total, params), nil
}

// Get returns one announcement with its owner summary.
func (s *AnnouncementService) Get(ctx context.Context, id int64) (*domain.Announcement, error) {
	a, err := s.announcements.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "Announcement")
	}
	return a, nil
}

// Create stores an announcement owned by actor.
func (s *AnnouncementService) Create(ctx context.Context, actor *domain.Company, in AnnouncementInput) (*domain.Announcement, error) {
	if err := s.guard.check(policy.ForAnnouncement(actor, nil, policy.OpCreate)); err != nil {
		return nil, err
	}
	if !in.Type.Valid() {
		return nil, apperrors.NewValidationError(msgInvalidAnnouncementType, nil)
	}

	a := &domain.Announcement{
		Title:        strings.TrimSpace(in.Title),
		Description:  in.Description,
		Type:         in.Type,
		Requirements: nonNil(in.Requirements),
		CompanyID:    actor.ID,
	}
	if err := s.announcements.Create(ctx, a); err != nil {
		if errors.Is(err, repository.ErrMissingReference) {
			return nil, apperrors.NewUnauthorized(policy.ReasonUnauthenticated)
		}
		return nil, mapRepoError(err, "Announcement")
	}

	created, err := s.announcements.GetByID(ctx, a.ID)
	if err != nil {
		return nil, mapRepoError(err, "Announcement")
	}
	s.events.publish(ctx, events.Event{
		Type:      events.EventAnnouncementCreated,
		SubjectID: created.ID,
		ActorID:   actor.ID,
		Payload:   announcementPayload(created),
	})
	return created, nil
}

// Update changes an announcement owned by actor.
func (s *AnnouncementService) Update(ctx context.Context, actor *domain.Company, id int64, upd AnnouncementUpdate) (*domain.Announcement, error) {
	a, err := s.announcements.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "Announcement")
	}
	if err := s.guard.check(policy.ForAnnouncement(actor, a, policy.OpUpdate)); err != nil {
		return nil, err
	}
	if upd.Type != nil && !upd.Type.Valid() {
		return nil, apperrors.NewValidationError(msgInvalidAnnouncementType, nil)
	}

	upd.apply(a)
	if err := s.announcements.Update(ctx, a); err != nil {
		return nil, mapRepoError(err, "Announcement")
	}
	return a, nil
}

// Delete removes an announcement owned by actor.
func (s *AnnouncementService) Delete(ctx context.Context, actor *domain.Company, id int64) error {
	a, err := s.announcements.GetByID(ctx, id)
	if err != nil {
		return mapRepoError(err, "Announcement")
	}
	if err := s.guard.check(policy.ForAnnouncement(actor, a, policy.OpDelete)); err != nil {
		return err
	}
	if err := s.announcements.Delete(ctx, a.ID, a.Version); err != nil {
		return mapRepoError(err, "Announcement")
	}

	s.events.publish(ctx, events.Event{
		Type:      events.EventAnnouncementDeleted,
		SubjectID: a.ID,
		ActorID:   actor.ID,
		Payload:   announcementPayload(a),
	})
	return nil
}

func announcementPayload(a *domain.Announcement) events.AnnouncementPayload {
	return events.AnnouncementPayload{Title: a.Title, Type: string(a.Type), CompanyID: a.CompanyID}
}
