package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcnexs/backend/internal/domain"
	"github.com/tcnexs/backend/internal/events"
	"github.com/tcnexs/backend/internal/listing"
	"github.com/tcnexs/backend/internal/policy"
	apperrors "github.com/tcnexs/backend/pkg/util/errorutil"
)

func TestAnnouncementCreate_OwnerIsActor(t *testing.T) {
	f := newFixture(t, "")
	a := f.company(t, "a@x.io")

	created := f.announcement(t, a, domain.AnnouncementTypeOffer)
	assert.Equal(t, a.ID, created.CompanyID)
	require.NotNil(t, created.Company)
	assert.Equal(t, "a@x.io", created.Company.Email)
	assert.Empty(t, created.Company.PasswordHash)
	assert.Equal(t, 1, f.events.count(events.EventAnnouncementCreated))

	_, err := f.announcements.Create(context.Background(), a, AnnouncementInput{Title: "x", Type: "rent"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = f.announcements.Create(context.Background(), nil, AnnouncementInput{Title: "x", Type: domain.AnnouncementTypeOffer})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}

func TestAnnouncementCreate_OwnerGone(t *testing.T) {
	f := newFixture(t, "")
	ghost := &domain.Company{ID: 999, Email: "gone@x.io", Role: domain.RoleUser}

	_, err := f.announcements.Create(context.Background(), ghost, AnnouncementInput{
		Title: "x", Description: "d", Type: domain.AnnouncementTypeOffer,
	})
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, apperrors.CodeUnauthorized, de.Code)
	assert.Equal(t, policy.ReasonUnauthenticated, de.Message)
	assert.Equal(t, 0, f.events.count(events.EventAnnouncementCreated))
}

func TestAnnouncementMutations_OnlyOwner(t *testing.T) {
	f := newFixture(t, "")
	owner := f.company(t, "a@x.io")
	other := f.company(t, "b@x.io")
	ctx := context.Background()
	ann := f.announcement(t, owner, domain.AnnouncementTypeSearch)

	_, err := f.announcements.Update(ctx, other, ann.ID, AnnouncementUpdate{Title: strPtr("mine now")})
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, apperrors.CodeForbidden, de.Code)
	assert.Equal(t, policy.ReasonAnnouncementUpdate, de.Message)

	err = f.announcements.Delete(ctx, other, ann.ID)
	de = apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, apperrors.CodeForbidden, de.Code)
	assert.Equal(t, policy.ReasonAnnouncementDelete, de.Message)

	unchanged, err := f.announcements.Get(ctx, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, "need devs", unchanged.Title)
	assert.Equal(t, 0, f.events.count(events.EventAnnouncementDeleted))

	offer := domain.AnnouncementTypeOffer
	updated, err := f.announcements.Update(ctx, owner, ann.ID, AnnouncementUpdate{Type: &offer, Requirements: &[]string{}})
	require.NoError(t, err)
	assert.Equal(t, domain.AnnouncementTypeOffer, updated.Type)
	assert.Equal(t, []string{}, updated.Requirements)
	assert.Equal(t, owner.ID, updated.CompanyID)

	require.NoError(t, f.announcements.Delete(ctx, owner, ann.ID))
	assert.Equal(t, 1, f.events.count(events.EventAnnouncementDeleted))

	_, err = f.announcements.Get(ctx, ann.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestAnnouncementMutations_NotFoundBeforeForbidden(t *testing.T) {
	f := newFixture(t, "")
	other := f.company(t, "b@x.io")

	_, err := f.announcements.Update(context.Background(), other, 404, AnnouncementUpdate{})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	err = f.announcements.Delete(context.Background(), other, 404)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestAnnouncementList_FiltersAndFilteredTotal(t *testing.T) {
	f := newFixture(t, "")
	var owners []*domain.Company
	for _, email := range []string{"a@x.io", "b@x.io", "c@x.io", "d@x.io", "e@x.io", "f@x.io", "g@x.io"} {
		owners = append(owners, f.company(t, email))
	}
	target := owners[6]

	for i := 0; i < 3; i++ {
		f.announcement(t, target, domain.AnnouncementTypeOffer)
	}
	f.announcement(t, target, domain.AnnouncementTypeSearch)
	f.announcement(t, owners[0], domain.AnnouncementTypeOffer)

	offer := domain.AnnouncementTypeOffer
	page, err := f.announcements.List(context.Background(), owners[0],
		AnnouncementFilter{Type: &offer, CompanyID: &target.ID}, listing.NewParams(1, 2))
	require.NoError(t, err)

	assert.Len(t, page.Items, 2)
	for _, item := range page.Items {
		assert.Equal(t, target.ID, item.CompanyID)
		assert.Equal(t, domain.AnnouncementTypeOffer, item.Type)
	}
	assert.Equal(t, listing.Pagination{Total: 3, Page: 1, Limit: 2, Pages: 2}, page.Pagination)
}

func TestAnnouncementList_PageBeyondEnd(t *testing.T) {
	f := newFixture(t, "")
	a := f.company(t, "a@x.io")
	for i := 0; i < 5; i++ {
		f.announcement(t, a, domain.AnnouncementTypeSearch)
	}

	page, err := f.announcements.List(context.Background(), a, AnnouncementFilter{}, listing.NewParams(3, 10))
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Equal(t, listing.Pagination{Total: 5, Page: 3, Limit: 10, Pages: 1}, page.Pagination)
}

func TestAnnouncementList_Defaults(t *testing.T) {
	f := newFixture(t, "")
	a := f.company(t, "a@x.io")

	page, err := f.announcements.List(context.Background(), a, AnnouncementFilter{}, listing.Params{Page: 0, Limit: -5})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Pagination.Page)
	assert.Equal(t, 10, page.Pagination.Limit)
	assert.Equal(t, int64(0), page.Pagination.Pages)
}
