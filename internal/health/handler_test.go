package health_test

import (
	"testing"

	"github.com/Kyz7/lingopress/internal/database"
	"github.com/Kyz7/lingopress/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	t.Run("Success - Liveness", func(t *testing.T) {
		env := testutils.SetupTestApp(t)

		resp, err := testutils.MakeRequest(env.App, "GET", "/api/health", nil, "")
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)
		assert.Equal(t, "OK", resp.Body.String())
		assert.Equal(t, "no-cache", resp.Header().Get("Cache-Control"))
		assert.Contains(t, resp.Header().Get("Content-Type"), "text/plain")
	})

	t.Run("Success - Liveness with the database down", func(t *testing.T) {
		env := testutils.SetupTestApp(t)
		require.NoError(t, database.Close(env.DB))

		resp, err := testutils.MakeRequest(env.App, "GET", "/api/health", nil, "")
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)
	})

	t.Run("Success - Readiness", func(t *testing.T) {
		env := testutils.SetupTestApp(t)

		resp, err := testutils.MakeRequest(env.App, "GET", "/api/health/db", nil, "")
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)
	})

	t.Run("Error - Readiness with the database down", func(t *testing.T) {
		env := testutils.SetupTestApp(t)
		require.NoError(t, database.Close(env.DB))

		resp, err := testutils.MakeRequest(env.App, "GET", "/api/health/db", nil, "")
		require.NoError(t, err)
		assert.Equal(t, 503, resp.Code)
		testutils.AssertError(t, resp, "SERVICE_UNAVAILABLE")
	})
}
