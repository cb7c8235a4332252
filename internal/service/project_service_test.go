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

func TestProjectCreate_ReReadsRelationships(t *testing.T) {
	f := newFixture(t, "")
	customer := f.company(t, "a@x.io")
	executor := f.company(t, "b@x.io")

	p := f.project(t, customer, executor)
	assert.Equal(t, customer.ID, p.CustomerCompanyID)
	require.NotNil(t, p.CustomerCompany)
	require.NotNil(t, p.ExecutorCompany)
	assert.Equal(t, "a@x.io", p.CustomerCompany.Email)
	assert.Equal(t, "b@x.io", p.ExecutorCompany.Email)
	assert.Equal(t, 1, f.events.count(events.EventProjectCreated))
}

func TestProjectCreate_UnknownExecutor(t *testing.T) {
	f := newFixture(t, "")
	customer := f.company(t, "a@x.io")

	_, err := f.projects.Create(context.Background(), customer, ProjectInput{
		Name: "p", Stage: domain.ProjectStagePlanning, ExecutorCompanyID: 999,
	})
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, apperrors.CodeNotFound, de.Code)
	assert.Equal(t, "Executor company not found", de.Message)
	assert.Equal(t, 0, f.events.count(events.EventProjectCreated))
}

func TestProjectDelete_OnlyCustomer(t *testing.T) {
	f := newFixture(t, "")
	customer := f.company(t, "a@x.io")
	executor := f.company(t, "b@x.io")
	stranger := f.company(t, "c@x.io")
	ctx := context.Background()
	p := f.project(t, customer, executor)

	for _, actor := range []*domain.Company{executor, stranger} {
		err := f.projects.Delete(ctx, actor, p.ID)
		de := apperrors.ToDomainError(err)
		require.NotNil(t, de)
		assert.Equal(t, apperrors.CodeForbidden, de.Code)
		assert.Equal(t, policy.ReasonProjectDelete, de.Message)
	}

	_, err := f.projects.Get(ctx, customer, p.ID)
	require.NoError(t, err)

	require.NoError(t, f.projects.Delete(ctx, customer, p.ID))
	_, err = f.projects.Get(ctx, customer, p.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	assert.Equal(t, 1, f.events.count(events.EventProjectDeleted))
}

func TestProjectReadAndUpdate_MembersOnly(t *testing.T) {
	f := newFixture(t, "")
	customer := f.company(t, "a@x.io")
	executor := f.company(t, "b@x.io")
	stranger := f.company(t, "c@x.io")
	ctx := context.Background()
	p := f.project(t, customer, executor)

	_, err := f.projects.Get(ctx, stranger, p.ID)
	assert.Equal(t, policy.ReasonProjectRead, apperrors.ToDomainError(err).Message)

	_, err = f.projects.Update(ctx, stranger, p.ID, ProjectUpdate{Name: strPtr("x")})
	assert.Equal(t, policy.ReasonProjectUpdate, apperrors.ToDomainError(err).Message)

	stage := domain.ProjectStageTesting
	updated, err := f.projects.Update(ctx, executor, p.ID, ProjectUpdate{Stage: &stage, Status: strPtr("qa")})
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectStageTesting, updated.Stage)
	assert.Equal(t, "qa", updated.Status)
	assert.Equal(t, customer.ID, updated.CustomerCompanyID)
	assert.Equal(t, executor.ID, updated.ExecutorCompanyID)
	assert.Equal(t, 1, f.events.count(events.EventProjectUpdated))

	bad := domain.ProjectStage("SHIPPED")
	_, err = f.projects.Update(ctx, customer, p.ID, ProjectUpdate{Stage: &bad})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestProjectList_Visibility(t *testing.T) {
	customer, executor, stranger := "a@x.io", "b@x.io", "c@x.io"

	t.Run("membership", func(t *testing.T) {
		f := newFixture(t, policy.VisibilityMembership)
		a, b, c := f.company(t, customer), f.company(t, executor), f.company(t, stranger)
		f.project(t, a, b)
		f.project(t, b, c)

		page, err := f.projects.List(context.Background(), a, ProjectFilter{}, listing.NewParams(1, 10))
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Pagination.Total)

		page, err = f.projects.List(context.Background(), b, ProjectFilter{}, listing.NewParams(1, 10))
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Pagination.Total)
	})

	t.Run("open", func(t *testing.T) {
		f := newFixture(t, policy.VisibilityOpen)
		a, b, c := f.company(t, customer), f.company(t, executor), f.company(t, stranger)
		f.project(t, a, b)
		f.project(t, b, c)

		page, err := f.projects.List(context.Background(), a, ProjectFilter{}, listing.NewParams(1, 10))
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Pagination.Total)
	})

	t.Run("anonymous", func(t *testing.T) {
		f := newFixture(t, policy.VisibilityOpen)
		_, err := f.projects.List(context.Background(), nil, ProjectFilter{}, listing.Params{})
		assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
	})
}

func TestProjectList_StageFilter(t *testing.T) {
	f := newFixture(t, "")
	a, b := f.company(t, "a@x.io"), f.company(t, "b@x.io")
	first := f.project(t, a, b)
	f.project(t, a, b)

	stage := domain.ProjectStageDeployment
	_, err := f.projects.Update(context.Background(), a, first.ID, ProjectUpdate{Stage: &stage})
	require.NoError(t, err)

	page, err := f.projects.List(context.Background(), a, ProjectFilter{Stage: &stage}, listing.NewParams(1, 10))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, first.ID, page.Items[0].ID)
	assert.Equal(t, int64(1), page.Pagination.Total)
}

func TestDecisionsAreRecorded(t *testing.T) {
	f := newFixture(t, "")
	a, b := f.company(t, "a@x.io"), f.company(t, "b@x.io")
	p := f.project(t, a, b)

	_ = f.projects.Delete(context.Background(), b, p.ID)

	last := f.decisions.seen[len(f.decisions.seen)-1]
	assert.Equal(t, policy.ResourceProject, last.Resource)
	assert.Equal(t, policy.OpDelete, last.Operation)
	assert.Equal(t, policy.Forbidden, last.Outcome)
}
