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

const (
	msgInvalidStage  = "Invalid project stage"
	resourceExecutor = "Executor company"
)

// ProjectInput describes a new project. The customer is always the actor.
type ProjectInput struct {
	Name              string
	Status            string
	Description       string
	Stage             domain.ProjectStage
	ExecutorCompanyID int64
	Functions         []string
	ExpectedResult    string
}

// ProjectUpdate lists the mutable project fields. Neither relationship slot
// can be reassigned.
type ProjectUpdate struct {
	Name           *string
	Status         *string
	Description    *string
	Stage          *domain.ProjectStage
	Functions      *[]string
	ExpectedResult *string
}

func (u ProjectUpdate) apply(p *domain.Project) {
	if u.Name != nil {
		p.Name = strings.TrimSpace(*u.Name)
	}
	if u.Status != nil {
		p.Status = strings.TrimSpace(*u.Status)
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Stage != nil {
		p.Stage = *u.Stage
	}
	if u.Functions != nil {
		p.Functions = nonNil(*u.Functions)
	}
	if u.ExpectedResult != nil {
		p.ExpectedResult = *u.ExpectedResult
	}
}

// ProjectFilter narrows the project listing.
type ProjectFilter struct {
	Stage  *domain.ProjectStage
	Status *string
}

// ProjectService manages projects between a customer and an executor company.
type ProjectService struct {
	projects   repository.ProjectRepository
	companies  repository.CompanyRepository
	visibility policy.ListingVisibility
	guard      guard
	events     publisher
}

// ProjectDependencies bundles collaborators for the project service.
type ProjectDependencies struct {
	ProjectRepo repository.ProjectRepository
	CompanyRepo repository.CompanyRepository
	Visibility  policy.ListingVisibility
	Dispatcher  events.Dispatcher
	Decisions   DecisionRecorder
	Logger      *zap.Logger
}

// NewProjectService constructs the service.
func NewProjectService(deps ProjectDependencies) *ProjectService {
	vis := deps.Visibility
	if vis == "" {
		vis = policy.VisibilityMembership
	}
	return &ProjectService{
		projects:   deps.ProjectRepo,
		companies:  deps.CompanyRepo,
		visibility: vis,
		guard:      guard{decisions: deps.Decisions},
		events:     publisher{dispatcher: deps.Dispatcher, logger: loggerOrNop(deps.Logger)},
	}
}

// List returns one page of the projects visible to actor.
func (s *ProjectService) List(ctx context.Context, actor *domain.Company, filter ProjectFilter, params listing.Params) (listing.Envelope[domain.Project], error) {
	scope, d := policy.ProjectListScope(actor, s.visibility)
	if err := s.guard.check(d); err != nil {
		return listing.Envelope[domain.Project]{}, err
	}
	if filter.Stage != nil && !filter.Stage.Valid() {
		return listing.Envelope[domain.Project]{}, apperrors.NewValidationError(msgInvalidStage, nil)
	}
	params = listing.NewParams(params.Page, params.Limit)
	items, total, err := s.projects.List(ctx, repository.ProjectFilter{
		Stage:    filter.Stage,
		Status:   filter.Status,
		MemberID: scope.MemberID,
		Limit:    params.Limit,
		Offset:   params.Offset(),
	})
	if err != nil {
		return listing.Envelope[domain.Project]{}, mapRepoError(err, "Project")
	}
	return listing.NewEnvelope(items, total, params), nil
}

// Get returns a project to one of its members.
func (s *ProjectService) Get(ctx context.Context, actor *domain.Company, id int64) (*domain.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "Project")
	}
	if err := s.guard.check(policy.ForProject(actor, p, policy.OpRead)); err != nil {
		return nil, err
	}
	return p, nil
}

// Create stores a project with actor as customer and returns it re-read with
// both companies populated.
func (s *ProjectService) Create(ctx context.Context, actor *domain.Company, in ProjectInput) (*domain.Project, error) {
	if err := s.guard.check(policy.ForProject(actor, nil, policy.OpCreate)); err != nil {
		return nil, err
	}
	if !in.Stage.Valid() {
		return nil, apperrors.NewValidationError(msgInvalidStage, nil)
	}
	if _, err := s.companies.GetByID(ctx, in.ExecutorCompanyID); err != nil {
		return nil, mapRepoError(err, resourceExecutor)
	}

	p := &domain.Project{
		Name:              strings.TrimSpace(in.Name),
		Status:            strings.TrimSpace(in.Status),
		Description:       in.Description,
		Stage:             in.Stage,
		CustomerCompanyID: actor.ID,
		ExecutorCompanyID: in.ExecutorCompanyID,
		Functions:         nonNil(in.Functions),
		ExpectedResult:    in.ExpectedResult,
	}
	if err := s.projects.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrMissingReference) {
			return nil, apperrors.NewNotFound(resourceExecutor, nil)
		}
		return nil, mapRepoError(err, "Project")
	}

	created, err := s.projects.GetByID(ctx, p.ID)
	if err != nil {
		return nil, mapRepoError(err, "Project")
	}
	s.events.publish(ctx, projectEvent(events.EventProjectCreated, actor, created))
	return created, nil
}

// Update changes a project on behalf of one of its members.
func (s *ProjectService) Update(ctx context.Context, actor *domain.Company, id int64, upd ProjectUpdate) (*domain.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "Project")
	}
	if err := s.guard.check(policy.ForProject(actor, p, policy.OpUpdate)); err != nil {
		return nil, err
	}
	if upd.Stage != nil && !upd.Stage.Valid() {
		return nil, apperrors.NewValidationError(msgInvalidStage, nil)
	}

	upd.apply(p)
	if err := s.projects.Update(ctx, p); err != nil {
		return nil, mapRepoError(err, "Project")
	}
	s.events.publish(ctx, projectEvent(events.EventProjectUpdated, actor, p))
	return p, nil
}

// Delete removes a project on behalf of its customer.
func (s *ProjectService) Delete(ctx context.Context, actor *domain.Company, id int64) error {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return mapRepoError(err, "Project")
	}
	if err := s.guard.check(policy.ForProject(actor, p, policy.OpDelete)); err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, p.ID, p.Version); err != nil {
		return mapRepoError(err, "Project")
	}
	s.events.publish(ctx, projectEvent(events.EventProjectDeleted, actor, p))
	return nil
}

func projectEvent(t events.EventType, actor *domain.Company, p *domain.Project) events.Event {
	return events.Event{
		Type:      t,
		SubjectID: p.ID,
		ActorID:   actor.ID,
		Payload: events.ProjectPayload{
			Name:              p.Name,
			Stage:             string(p.Stage),
			Status:            p.Status,
			CustomerCompanyID: p.CustomerCompanyID,
			ExecutorCompanyID: p.ExecutorCompanyID,
		},
	}
}
