// Package memory provides in-process repository implementations with the
// same observable behaviour as the Postgres ones: unique emails, version
// checks, joined company summaries and filtered totals.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tcnexs/backend/internal/domain"
	"github.com/tcnexs/backend/internal/listing"
	"github.com/tcnexs/backend/internal/repository"
)

// Store holds every table behind one lock so joins see a consistent view.
type Store struct {
	mu sync.RWMutex

	companies     map[int64]domain.Company
	announcements map[int64]domain.Announcement
	projects      map[int64]domain.Project

	sequence int64
	now      func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		companies:     make(map[int64]domain.Company),
		announcements: make(map[int64]domain.Announcement),
		projects:      make(map[int64]domain.Project),
		now:           time.Now,
	}
}

func (s *Store) Companies() repository.CompanyRepository {
	return companyStore{s}
}

func (s *Store) Announcements() repository.AnnouncementRepository {
	return announcementStore{s}
}

func (s *Store) Projects() repository.ProjectRepository {
	return projectStore{s}
}

func (s *Store) nextID() int64 {
	s.sequence++
	return s.sequence
}

func (s *Store) summary(id int64) *domain.Company {
	c, ok := s.companies[id]
	if !ok {
		return nil
	}
	return &domain.Company{
		ID:           c.ID,
		Name:         c.Name,
		Email:        c.Email,
		Industry:     c.Industry,
		ProfilePhoto: c.ProfilePhoto,
		Role:         c.Role,
	}
}

func sortedIDs[T any](rows map[int64]T) []int64 {
	ids := make([]int64, 0, len(rows))
	for id := range rows {
		ids = append(ids, id)
	}
	// ids are monotonic, so descending id is newest first.
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	return ids
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

type companyStore struct{ s *Store }

func (r companyStore) Create(_ context.Context, c *domain.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.companies {
		if existing.Email == c.Email {
			return repository.ErrDuplicateEmail
		}
	}
	now := r.s.now()
	c.ID = r.s.nextID()
	c.Version = 1
	c.CreatedAt, c.UpdatedAt = now, now
	stored := *c
	stored.Services = cloneStrings(c.Services)
	r.s.companies[c.ID] = stored
	return nil
}

func (r companyStore) Update(_ context.Context, c *domain.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.companies[c.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if current.Version != c.Version {
		return repository.ErrVersionConflict
	}
	for id, existing := range r.s.companies {
		if id != c.ID && existing.Email == c.Email {
			return repository.ErrDuplicateEmail
		}
	}
	c.Version++
	c.CreatedAt = current.CreatedAt
	c.UpdatedAt = r.s.now()
	stored := *c
	stored.Services = cloneStrings(c.Services)
	r.s.companies[c.ID] = stored
	return nil
}

func (r companyStore) GetByID(_ context.Context, id int64) (*domain.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.companies[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	c.Services = cloneStrings(c.Services)
	return &c, nil
}

func (r companyStore) GetByEmail(_ context.Context, email string) (*domain.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.companies {
		if c.Email == email {
			c.Services = cloneStrings(c.Services)
			return &c, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r companyStore) List(_ context.Context, f repository.CompanyFilter) ([]domain.Company, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []domain.Company
	for _, id := range sortedIDs(r.s.companies) {
		c := r.s.companies[id]
		if f.Industry != nil && c.Industry != *f.Industry {
			continue
		}
		c.Services = cloneStrings(c.Services)
		matched = append(matched, c)
	}
	return listing.Slice(matched, f.Limit, f.Offset), int64(len(matched)), nil
}

type announcementStore struct{ s *Store }

func (r announcementStore) Create(_ context.Context, a *domain.Announcement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.companies[a.CompanyID]; !ok {
		return repository.ErrMissingReference
	}
	now := r.s.now()
	a.ID = r.s.nextID()
	a.Version = 1
	a.CreatedAt, a.UpdatedAt = now, now
	stored := *a
	stored.Company = nil
	stored.Requirements = cloneStrings(a.Requirements)
	r.s.announcements[a.ID] = stored
	return nil
}

func (r announcementStore) Update(_ context.Context, a *domain.Announcement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.announcements[a.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if current.Version != a.Version {
		return repository.ErrVersionConflict
	}
	current.Title = a.Title
	current.Description = a.Description
	current.Type = a.Type
	current.Requirements = cloneStrings(a.Requirements)
	current.Version++
	current.UpdatedAt = r.s.now()
	r.s.announcements[a.ID] = current

	a.Version, a.UpdatedAt = current.Version, current.UpdatedAt
	return nil
}

func (r announcementStore) Delete(_ context.Context, id, version int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.announcements[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if current.Version != version {
		return repository.ErrVersionConflict
	}
	delete(r.s.announcements, id)
	return nil
}

func (r announcementStore) GetByID(_ context.Context, id int64) (*domain.Announcement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.announcements[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return r.hydrate(a), nil
}

func (r announcementStore) List(_ context.Context, f repository.AnnouncementFilter) ([]domain.Announcement, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []domain.Announcement
	for _, id := range sortedIDs(r.s.announcements) {
		a := r.s.announcements[id]
		if f.Type != nil && a.Type != *f.Type {
			continue
		}
		if f.CompanyID != nil && a.CompanyID != *f.CompanyID {
			continue
		}
		matched = append(matched, *r.hydrate(a))
	}
	return listing.Slice(matched, f.Limit, f.Offset), int64(len(matched)), nil
}

func (r announcementStore) hydrate(a domain.Announcement) *domain.Announcement {
	a.Requirements = cloneStrings(a.Requirements)
	a.Company = r.s.summary(a.CompanyID)
	return &a
}

type projectStore struct{ s *Store }

func (r projectStore) Create(_ context.Context, p *domain.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.companies[p.CustomerCompanyID]; !ok {
		return repository.ErrMissingReference
	}
	if _, ok := r.s.companies[p.ExecutorCompanyID]; !ok {
		return repository.ErrMissingReference
	}
	now := r.s.now()
	p.ID = r.s.nextID()
	p.Version = 1
	p.CreatedAt, p.UpdatedAt = now, now
	stored := *p
	stored.CustomerCompany, stored.ExecutorCompany = nil, nil
	stored.Functions = cloneStrings(p.Functions)
	r.s.projects[p.ID] = stored
	return nil
}

func (r projectStore) Update(_ context.Context, p *domain.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.projects[p.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if current.Version != p.Version {
		return repository.ErrVersionConflict
	}
	current.Name = p.Name
	current.Status = p.Status
	current.Description = p.Description
	current.Stage = p.Stage
	current.Functions = cloneStrings(p.Functions)
	current.ExpectedResult = p.ExpectedResult
	current.Version++
	current.UpdatedAt = r.s.now()
	r.s.projects[p.ID] = current

	p.Version, p.UpdatedAt = current.Version, current.UpdatedAt
	return nil
}

func (r projectStore) Delete(_ context.Context, id, version int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.projects[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if current.Version != version {
		return repository.ErrVersionConflict
	}
	delete(r.s.projects, id)
	return nil
}

func (r projectStore) GetByID(_ context.Context, id int64) (*domain.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.projects[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return r.hydrate(p), nil
}

func (r projectStore) List(_ context.Context, f repository.ProjectFilter) ([]domain.Project, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []domain.Project
	for _, id := range sortedIDs(r.s.projects) {
		p := r.s.projects[id]
		if f.Stage != nil && p.Stage != *f.Stage {
			continue
		}
		if f.Status != nil && p.Status != *f.Status {
			continue
		}
		if f.MemberID != nil && !p.HasMember(*f.MemberID) {
			continue
		}
		matched = append(matched, *r.hydrate(p))
	}
	return listing.Slice(matched, f.Limit, f.Offset), int64(len(matched)), nil
}

func (r projectStore) hydrate(p domain.Project) *domain.Project {
	p.Functions = cloneStrings(p.Functions)
	p.CustomerCompany = r.s.summary(p.CustomerCompanyID)
	p.ExecutorCompany = r.s.summary(p.ExecutorCompanyID)
	return &p
}
