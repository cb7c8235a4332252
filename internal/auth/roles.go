package auth

import (
	"github.com/tcnexs/backend/internal/domain"
	"github.com/tcnexs/backend/internal/policy"
	apperrors "github.com/tcnexs/backend/pkg/util/errorutil"
)

// ReasonInsufficientRole is returned when the caller lacks a required role.
const ReasonInsufficientRole = "You do not have permission to perform this action"

// RequireRole permits only companies holding one of the allowed roles.
// With no roles it admits any authenticated company.
func RequireRole(allowed ...domain.Role) Check {
	roles := append([]domain.Role(nil), allowed...)

	return func(actor *domain.Company) error {
		if actor == nil {
			return apperrors.NewUnauthorized(policy.ReasonUnauthenticated)
		}
		if len(roles) == 0 {
			return nil
		}
		if !actor.HasRole(roles...) {
			return apperrors.NewForbidden(ReasonInsufficientRole)
		}
		return nil
	}
}
