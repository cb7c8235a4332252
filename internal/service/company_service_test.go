package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcnexs/backend/internal/domain"
	"github.com/tcnexs/backend/internal/listing"
	"github.com/tcnexs/backend/internal/policy"
	"github.com/tcnexs/backend/internal/repository"
	"github.com/tcnexs/backend/internal/storage"
	apperrors "github.com/tcnexs/backend/pkg/util/errorutil"
)

func TestCompanyUpdate_OnlySelf(t *testing.T) {
	f := newFixture(t, "")
	a := f.company(t, "a@x.io")
	b := f.company(t, "b@x.io")
	ctx := context.Background()

	_, err := f.companies.Update(ctx, a, b.ID, CompanyUpdate{Name: strPtr("hijack")})
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, apperrors.CodeForbidden, de.Code)
	assert.Equal(t, policy.ReasonCompanyUpdate, de.Message)

	got, err := f.companies.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "b@x.io", got.Name)

	updated, err := f.companies.UpdateSelf(ctx, a, CompanyUpdate{Name: strPtr(" Acme "), Services: &[]string{"dev", "ops"}})
	require.NoError(t, err)
	assert.Equal(t, "Acme", updated.Name)
	assert.Equal(t, []string{"dev", "ops"}, updated.Services)
	assert.Equal(t, domain.RoleUser, updated.Role)
	assert.Equal(t, a.PasswordHash, updated.PasswordHash)
}

func TestCompanyUpdate_MissingBeforePolicy(t *testing.T) {
	f := newFixture(t, "")
	a := f.company(t, "a@x.io")

	_, err := f.companies.Update(context.Background(), a, 999, CompanyUpdate{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	assert.Empty(t, f.decisions.seen)
}

func TestCompanyUpdate_EmailTaken(t *testing.T) {
	f := newFixture(t, "")
	a := f.company(t, "a@x.io")
	f.company(t, "b@x.io")

	_, err := f.companies.UpdateSelf(context.Background(), a, CompanyUpdate{Email: strPtr("B@x.io")})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
}

func TestCompanyList_IndustryFilter(t *testing.T) {
	f := newFixture(t, "")
	a := f.company(t, "a@x.io")
	b := f.company(t, "b@x.io")
	_, err := f.companies.UpdateSelf(context.Background(), b, CompanyUpdate{Industry: strPtr("Retail")})
	require.NoError(t, err)

	page, err := f.companies.List(context.Background(), a, CompanyFilter{Industry: strPtr("Retail")}, listing.NewParams(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Pagination.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, b.ID, page.Items[0].ID)

	_, err = f.companies.List(context.Background(), nil, CompanyFilter{}, listing.Params{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}

func TestUploadPhoto_Success_RemovesPrevious(t *testing.T) {
	f := newFixture(t, "")
	a := f.company(t, "a@x.io")
	ctx := context.Background()

	first, err := f.companies.UploadPhoto(ctx, a, a.ID, storage.Artifact{Path: "photo-1.png"})
	require.NoError(t, err)
	require.NotNil(t, first.ProfilePhoto)
	assert.Equal(t, "photo-1.png", *first.ProfilePhoto)
	assert.Empty(t, f.files.removed)

	second, err := f.companies.UploadPhoto(ctx, first, a.ID, storage.Artifact{Path: "photo-2.png"})
	require.NoError(t, err)
	assert.Equal(t, "photo-2.png", *second.ProfilePhoto)
	assert.Equal(t, []string{"photo-1.png"}, f.files.removed)
}

func TestUploadPhoto_CleansUpOnFailure(t *testing.T) {
	f := newFixture(t, "")
	a := f.company(t, "a@x.io")
	b := f.company(t, "b@x.io")
	ctx := context.Background()

	_, err := f.companies.UploadPhoto(ctx, a, 999, storage.Artifact{Path: "orphan-1.png"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	_, err = f.companies.UploadPhoto(ctx, a, b.ID, storage.Artifact{Path: "orphan-2.png"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	assert.Equal(t, []string{"orphan-1.png", "orphan-2.png"}, f.files.removed)

	got, err := f.companies.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ProfilePhoto)
}

type conflictingCompanies struct {
	repository.CompanyRepository
}

func (conflictingCompanies) Update(context.Context, *domain.Company) error {
	return repository.ErrVersionConflict
}

func TestUploadPhoto_ConflictCleansUp(t *testing.T) {
	f := newFixture(t, "")
	a := f.company(t, "a@x.io")
	svc := NewCompanyService(CompanyDependencies{
		CompanyRepo: conflictingCompanies{f.store.Companies()},
		Files:       f.files,
	})

	_, err := svc.UploadPhoto(context.Background(), a, a.ID, storage.Artifact{Path: "late.png"})
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, apperrors.CodeConflict, de.Code)
	assert.Equal(t, "resource was modified concurrently", de.Message)
	assert.Equal(t, []string{"late.png"}, f.files.removed)
}
