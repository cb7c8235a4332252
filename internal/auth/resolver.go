package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tcnexs/backend/internal/domain"
	apperrors "github.com/tcnexs/backend/pkg/util/errorutil"
)

// CompanyFinder is the storage lookup the resolver depends on.
type CompanyFinder interface {
	GetByID(ctx context.Context, id int64) (*domain.Company, error)
}

// IdentityResolver loads the current company record behind a verified claim.
// It re-reads storage on every call so role changes apply immediately.
type IdentityResolver struct {
	companies CompanyFinder
}

// NewIdentityResolver constructs a resolver.
func NewIdentityResolver(companies CompanyFinder) *IdentityResolver {
	return &IdentityResolver{companies: companies}
}

// Resolve returns the company or a NOT_FOUND error when it no longer exists.
func (r *IdentityResolver) Resolve(ctx context.Context, companyID int64) (*domain.Company, error) {
	company, err := r.companies.GetByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Company", nil)
		}
		return nil, fmt.Errorf("resolve company %d: %w", companyID, err)
	}
	return company, nil
}
