package config_test

import (
	"testing"
	"time"

	"github.com/Kyz7/lingopress/internal/config"
	"github.com/Kyz7/lingopress/internal/locale"
	"github.com/Kyz7/lingopress/internal/rbac"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "lingo")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "lingopress")
}

func TestLoad(t *testing.T) {
	t.Run("Success - Defaults", func(t *testing.T) {
		setRequired(t)

		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, ":8080", cfg.ServerAddr)
		assert.Equal(t, "5432", cfg.DBPort)
		assert.Equal(t, 30*time.Minute, cfg.DBConnMaxLifetime)
		assert.False(t, cfg.IsDevelopment())
		assert.False(t, cfg.SMTPEnabled())
		assert.Equal(t, locale.Supported(), cfg.SitemapCodes())
		assert.Equal(t, "host=db user=lingo password=secret dbname=lingopress port=5432 sslmode=disable", cfg.DSN())
	})

	t.Run("Error - Missing required connection settings", func(t *testing.T) {
		t.Setenv("DB_HOST", "")
		t.Setenv("DB_USER", "")
		t.Setenv("DB_PASSWORD", "")
		t.Setenv("DB_NAME", "")

		_, err := config.Load()
		assert.Error(t, err)
	})

	t.Run("Error - Unknown fallback role", func(t *testing.T) {
		setRequired(t)
		t.Setenv("RBAC_FALLBACK_ROLE", "ROOT")

		_, err := config.Load()
		assert.Error(t, err)
	})

	t.Run("Error - Unsupported sitemap language", func(t *testing.T) {
		setRequired(t)
		t.Setenv("SITEMAP_LANGUAGES", "en,xx")

		_, err := config.Load()
		assert.Error(t, err)
	})

	t.Run("Error - Short JWT secret", func(t *testing.T) {
		setRequired(t)
		t.Setenv("JWT_SECRET", "too-short")

		_, err := config.Load()
		assert.Error(t, err)
	})

	t.Run("Success - S3 without bucket falls back to local", func(t *testing.T) {
		setRequired(t)
		t.Setenv("USE_S3", "true")

		cfg, err := config.Load()
		require.NoError(t, err)
		assert.False(t, cfg.UseS3)
	})
}

func TestDefaultFallbackRole(t *testing.T) {
	t.Run("Success - No signal resolves to ADMIN by default", func(t *testing.T) {
		setRequired(t)

		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, "ADMIN", cfg.RBACFallbackRole)
		assert.Equal(t, rbac.Admin, cfg.RoleResolver().Resolve(rbac.Metadata{}))
	})

	t.Run("Success - Explicit ANON fallback", func(t *testing.T) {
		setRequired(t)
		t.Setenv("RBAC_FALLBACK_ROLE", "ANON")

		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, rbac.Anon, cfg.RoleResolver().Resolve(rbac.Metadata{}))
		assert.Equal(t, rbac.Editor, cfg.RoleResolver().Resolve(rbac.Metadata{RoleHeader: "editor"}))
	})
}

func TestRoleResolver(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "development")
	t.Setenv("RBAC_BYPASS", "yes")
	t.Setenv("RBAC_FALLBACK_ROLE", "editor")

	cfg, err := config.Load()
	require.NoError(t, err)

	r := cfg.RoleResolver()
	assert.True(t, r.Bypass)
	assert.True(t, r.DevMode)
	assert.Equal(t, rbac.Editor, r.Fallback)
}
