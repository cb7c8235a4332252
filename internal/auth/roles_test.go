package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tcnexs/backend/internal/domain"
	apperrors "github.com/tcnexs/backend/pkg/util/errorutil"
)

func TestRequireRole(t *testing.T) {
	admin := &domain.Company{ID: 1, Role: domain.RoleAdmin}
	user := &domain.Company{ID: 2, Role: domain.RoleUser}

	adminOnly := RequireRole(domain.RoleAdmin)
	assert.NoError(t, adminOnly(admin))
	assert.True(t, apperrors.HasCode(adminOnly(user), apperrors.CodeForbidden))
	assert.True(t, apperrors.HasCode(adminOnly(nil), apperrors.CodeUnauthorized))

	either := RequireRole(domain.RoleAdmin, domain.RoleUser)
	assert.NoError(t, either(user))

	anyone := RequireRole()
	assert.NoError(t, anyone(user))
	assert.Error(t, anyone(nil))
}
