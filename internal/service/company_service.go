package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/tcnexs/backend/internal/domain"
	"github.com/tcnexs/backend/internal/listing"
	"github.com/tcnexs/backend/internal/policy"
	"github.com/tcnexs/backend/internal/repository"
	"github.com/tcnexs/backend/internal/storage"
)

// CompanyUpdate lists the profile fields a company may change. Nil fields
// are left untouched.
type CompanyUpdate struct {
	Name        *string
	Industry    *string
	Email       *string
	FoundedYear *int
	Services    *[]string
	Description *string
}

func (u CompanyUpdate) apply(c *domain.Company) {
	if u.Name != nil {
		c.Name = strings.TrimSpace(*u.Name)
	}
	if u.Industry != nil {
		c.Industry = strings.TrimSpace(*u.Industry)
	}
	if u.Email != nil {
		c.Email = normalizeEmail(*u.Email)
	}
	if u.FoundedYear != nil {
		c.FoundedYear = *u.FoundedYear
	}
	if u.Services != nil {
		c.Services = nonNil(*u.Services)
	}
	if u.Description != nil {
		c.Description = *u.Description
	}
}

// CompanyFilter narrows the company listing.
type CompanyFilter struct {
	Industry *string
}

// CompanyService manages company profiles.
type CompanyService struct {
	companies repository.CompanyRepository
	files     storage.Store
	guard     guard
	logger    *zap.Logger
}

// CompanyDependencies bundles collaborators for the company service.
type CompanyDependencies struct {
	CompanyRepo repository.CompanyRepository
	Files       storage.Store
	Decisions   DecisionRecorder
	Logger      *zap.Logger
}

// NewCompanyService constructs the service.
func NewCompanyService(deps CompanyDependencies) *CompanyService {
	return &CompanyService{
		companies: deps.CompanyRepo,
		files:     deps.Files,
		guard:     guard{decisions: deps.Decisions},
		logger:    loggerOrNop(deps.Logger),
	}
}

// List returns one page of companies.
func (s *CompanyService) List(ctx context.Context, actor *domain.Company, filter CompanyFilter, params listing.Params) (listing.Envelope[domain.Company], error) {
	if err := s.guard.check(policy.ForCompany(actor, nil, policy.OpList)); err != nil {
		return listing.Envelope[domain.Company]{}, err
	}
	params = listing.NewParams(params.Page, params.Limit)
	items, total, err := s.companies.List(ctx, repository.CompanyFilter{
		Industry: filter.Industry,
		Limit:    params.Limit,
		Offset:   params.Offset(),
	})
	if err != nil {
		return listing.Envelope[domain.Company]{}, mapRepoError(err, "Company")
	}
	return listing.NewEnvelope(items, total, params), nil
}

// Get returns a public company profile.
func (s *CompanyService) Get(ctx context.Context, id int64) (*domain.Company, error) {
	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "Company")
	}
	return company, nil
}

// Update changes the profile of company id on behalf of actor.
func (s *CompanyService) Update(ctx context.Context, actor *domain.Company, id int64, upd CompanyUpdate) (*domain.Company, error) {
	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "Company")
	}
	if err := s.guard.check(policy.ForCompany(actor, company, policy.OpUpdate)); err != nil {
		return nil, err
	}

	upd.apply(company)
	if err := s.companies.Update(ctx, company); err != nil {
		return nil, mapRepoError(err, "Company")
	}
	return company, nil
}

// UpdateSelf changes the actor's own profile.
func (s *CompanyService) UpdateSelf(ctx context.Context, actor *domain.Company, upd CompanyUpdate) (*domain.Company, error) {
	if actor == nil {
		return nil, s.guard.check(policy.ForCompany(nil, nil, policy.OpUpdate))
	}
	return s.Update(ctx, actor, actor.ID, upd)
}

// UploadPhoto points company id at an already stored artifact. The artifact
// is removed on every failure path; on success the previous photo is
// removed best-effort.
func (s *CompanyService) UploadPhoto(ctx context.Context, actor *domain.Company, id int64, art storage.Artifact) (company *domain.Company, err error) {
	keep := false
	defer func() {
		if !keep {
			s.removeFile(art.Path)
		}
	}()

	company, err = s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "Company")
	}
	if err := s.guard.check(policy.ForCompany(actor, company, policy.OpUploadPhoto)); err != nil {
		return nil, err
	}

	previous := company.ProfilePhoto
	path := art.Path
	company.ProfilePhoto = &path
	if err := s.companies.Update(ctx, company); err != nil {
		return nil, mapRepoError(err, "Company")
	}
	keep = true

	if previous != nil && *previous != art.Path {
		s.removeFile(*previous)
	}
	return company, nil
}

func (s *CompanyService) removeFile(path string) {
	if s.files == nil || path == "" {
		return
	}
	if err := s.files.Remove(path); err != nil {
		s.logger.Warn("remove photo", zap.String("path", path), zap.Error(err))
	}
}
