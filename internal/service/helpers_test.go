package service

import (
	"context"
	"mime/multipart"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tcnexs/backend/internal/auth"
	"github.com/tcnexs/backend/internal/domain"
	"github.com/tcnexs/backend/internal/events"
	"github.com/tcnexs/backend/internal/policy"
	"github.com/tcnexs/backend/internal/repository/memory"
	"github.com/tcnexs/backend/internal/storage"
)

type recordedDecisions struct {
	mu   sync.Mutex
	seen []policy.Decision
}

func (r *recordedDecisions) RecordDecision(d policy.Decision) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, d)
}

type fakeFiles struct {
	mu      sync.Mutex
	removed []string
}

func (f *fakeFiles) Save(*multipart.FileHeader) (storage.Artifact, error) {
	return storage.Artifact{}, nil
}

func (f *fakeFiles) Remove(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, path)
	return nil
}

type capturedEvents struct {
	mu     sync.Mutex
	byType map[events.EventType]int
}

func captureEvents(d events.Dispatcher) *capturedEvents {
	c := &capturedEvents{byType: map[events.EventType]int{}}
	for _, t := range events.AllEventTypes {
		d.Subscribe(t, func(_ context.Context, e events.Event) error {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.byType[e.Type]++
			return nil
		})
	}
	return c
}

func (c *capturedEvents) count(t events.EventType) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.byType[t]
}

type fixture struct {
	store         *memory.Store
	tokens        *auth.TokenManager
	dispatcher    events.Dispatcher
	events        *capturedEvents
	decisions     *recordedDecisions
	files         *fakeFiles
	auth          *AuthService
	companies     *CompanyService
	announcements *AnnouncementService
	projects      *ProjectService
}

func newFixture(t *testing.T, vis policy.ListingVisibility) *fixture {
	t.Helper()
	f := &fixture{
		store:      memory.NewStore(),
		tokens:     auth.NewTokenManager("test-secret", time.Hour),
		dispatcher: events.NewInMemoryDispatcher(),
		decisions:  &recordedDecisions{},
		files:      &fakeFiles{},
	}
	f.events = captureEvents(f.dispatcher)
	f.auth = NewAuthService(AuthDependencies{
		CompanyRepo: f.store.Companies(),
		Tokens:      f.tokens,
		BcryptCost:  bcrypt.MinCost,
		Dispatcher:  f.dispatcher,
	})
	f.companies = NewCompanyService(CompanyDependencies{
		CompanyRepo: f.store.Companies(),
		Files:       f.files,
		Decisions:   f.decisions,
	})
	f.announcements = NewAnnouncementService(AnnouncementDependencies{
		AnnouncementRepo: f.store.Announcements(),
		Dispatcher:       f.dispatcher,
		Decisions:        f.decisions,
	})
	f.projects = NewProjectService(ProjectDependencies{
		ProjectRepo: f.store.Projects(),
		CompanyRepo: f.store.Companies(),
		Visibility:  vis,
		Dispatcher:  f.dispatcher,
		Decisions:   f.decisions,
	})
	return f
}

func (f *fixture) company(t *testing.T, email string) *domain.Company {
	t.Helper()
	c, _, _, err := f.auth.Register(context.Background(), RegisterInput{
		Name:        email,
		Industry:    "IT",
		Email:       email,
		Password:    "secret123",
		FoundedYear: 2010,
		Services:    []string{"consulting"},
		Description: "test company",
	})
	require.NoError(t, err)
	return c
}

func (f *fixture) announcement(t *testing.T, owner *domain.Company, typ domain.AnnouncementType) *domain.Announcement {
	t.Helper()
	a, err := f.announcements.Create(context.Background(), owner, AnnouncementInput{
		Title:        "need devs",
		Description:  "details",
		Type:         typ,
		Requirements: []string{"go"},
	})
	require.NoError(t, err)
	return a
}

func (f *fixture) project(t *testing.T, customer, executor *domain.Company) *domain.Project {
	t.Helper()
	p, err := f.projects.Create(context.Background(), customer, ProjectInput{
		Name:              "portal",
		Status:            "active",
		Description:       "customer portal",
		Stage:             domain.ProjectStagePlanning,
		ExecutorCompanyID: executor.ID,
		Functions:         []string{"login"},
		ExpectedResult:    "shipped",
	})
	require.NoError(t, err)
	return p
}

func strPtr(s string) *string { return &s }
