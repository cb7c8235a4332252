package memory

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcnexs/backend/internal/domain"
	"github.com/tcnexs/backend/internal/repository"
)

func seedCompany(t *testing.T, s *Store, email string) *domain.Company {
	t.Helper()
	c := &domain.Company{Name: email, Email: email, Industry: "IT", Role: domain.RoleUser}
	require.NoError(t, s.Companies().Create(context.Background(), c))
	return c
}

func TestCompanies_UniqueEmail(t *testing.T) {
	s := NewStore()
	seedCompany(t, s, "a@x.io")

	err := s.Companies().Create(context.Background(), &domain.Company{Email: "a@x.io"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	_, total, err := s.Companies().List(context.Background(), repository.CompanyFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestCompanies_UpdateChecksVersion(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	c := seedCompany(t, s, "a@x.io")

	stale := *c
	c.Name = "first"
	require.NoError(t, s.Companies().Update(ctx, c))
	assert.Equal(t, int64(2), c.Version)

	stale.Name = "second"
	assert.ErrorIs(t, s.Companies().Update(ctx, &stale), repository.ErrVersionConflict)

	got, err := s.Companies().GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Name)
}

func TestAnnouncements_FilterAndTotal(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	a := seedCompany(t, s, "a@x.io")
	b := seedCompany(t, s, "b@x.io")

	for i, owner := range []int64{a.ID, a.ID, b.ID, a.ID} {
		typ := domain.AnnouncementTypeOffer
		if i == 1 {
			typ = domain.AnnouncementTypeSearch
		}
		require.NoError(t, s.Announcements().Create(ctx, &domain.Announcement{Title: "t", Type: typ, CompanyID: owner}))
	}

	offer := domain.AnnouncementTypeOffer
	items, total, err := s.Announcements().List(ctx, repository.AnnouncementFilter{Type: &offer, CompanyID: &a.ID, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Company)
	assert.Equal(t, "a@x.io", items[0].Company.Email)
	assert.Empty(t, items[0].Company.PasswordHash)
}

func TestAnnouncements_DeleteMissingAndStale(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	owner := seedCompany(t, s, "a@x.io")
	a := &domain.Announcement{Title: "t", Type: domain.AnnouncementTypeSearch, CompanyID: owner.ID}
	require.NoError(t, s.Announcements().Create(ctx, a))

	assert.ErrorIs(t, s.Announcements().Delete(ctx, a.ID, a.Version+1), repository.ErrVersionConflict)
	require.NoError(t, s.Announcements().Delete(ctx, a.ID, a.Version))
	assert.ErrorIs(t, s.Announcements().Delete(ctx, a.ID, a.Version), pgx.ErrNoRows)
}

func TestProjects_MemberScope(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	a := seedCompany(t, s, "a@x.io")
	b := seedCompany(t, s, "b@x.io")
	c := seedCompany(t, s, "c@x.io")

	require.NoError(t, s.Projects().Create(ctx, &domain.Project{Name: "ab", Stage: domain.ProjectStagePlanning, CustomerCompanyID: a.ID, ExecutorCompanyID: b.ID}))
	require.NoError(t, s.Projects().Create(ctx, &domain.Project{Name: "bc", Stage: domain.ProjectStagePlanning, CustomerCompanyID: b.ID, ExecutorCompanyID: c.ID}))

	items, total, err := s.Projects().List(ctx, repository.ProjectFilter{MemberID: &a.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "ab", items[0].Name)
	assert.Equal(t, "b@x.io", items[0].ExecutorCompany.Email)

	_, total, err = s.Projects().List(ctx, repository.ProjectFilter{MemberID: &b.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	err = s.Projects().Create(ctx, &domain.Project{Name: "x", CustomerCompanyID: a.ID, ExecutorCompanyID: 999})
	assert.ErrorIs(t, err, repository.ErrMissingReference)
}
