package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"JWT_SECRET", "JWT_EXPIRES_IN", "RATE_LIMIT_WINDOW", "AUTH_PROJECT_WRITE_ROLES", "MAX_FILE_SIZE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, []string{"admin"}, cfg.Auth.ProjectWriteRoles)
	assert.Equal(t, int64(5<<20), cfg.Upload.MaxFileSize)

	secret, fallback := cfg.Auth.SigningSecret()
	assert.True(t, fallback)
	assert.Equal(t, DevJWTSecret, secret)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRES_IN", "7d")
	t.Setenv("AUTH_PROJECT_WRITE_ROLES", "admin, user")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, []string{"admin", "user"}, cfg.Auth.ProjectWriteRoles)
	secret, fallback := cfg.Auth.SigningSecret()
	assert.False(t, fallback)
	assert.Equal(t, "s3cret", secret)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("JWT_EXPIRES_IN", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{App: AppConfig{Env: "production"}}
	assert.ErrorIs(t, cfg.Validate(), ErrMissingJWTSecret)

	cfg.Auth.JWTSecret = "set"
	assert.NoError(t, cfg.Validate())

	dev := &Config{App: AppConfig{Env: "development"}}
	assert.NoError(t, dev.Validate())

	dev.Access.ProjectListingVisibility = "public"
	assert.Error(t, dev.Validate())
}

func TestValidate_ProjectWriteRoles(t *testing.T) {
	cfg := &Config{Auth: AuthConfig{ProjectWriteRoles: []string{"admin", "user"}}}
	assert.NoError(t, cfg.Validate())

	cfg.Auth.ProjectWriteRoles = []string{"Admin"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Admin"`)
}
