package tag_test

import (
	"testing"

	"github.com/Kyz7/lingopress/internal/models"
	"github.com/Kyz7/lingopress/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func translations(t *testing.T, db *gorm.DB, tagID string) map[string]string {
	t.Helper()
	var rows []models.TagTranslation
	require.NoError(t, db.Where("tag_id = ?", tagID).Find(&rows).Error)

	out := make(map[string]string, len(rows))
	for _, r := range rows {
		_, dup := out[r.LanguageCode]
		assert.False(t, dup, "duplicate translation for %s", r.LanguageCode)
		out[r.LanguageCode] = r.Name
	}
	return out
}

func TestReplaceTranslationsHandler(t *testing.T) {
	env := testutils.SetupTestApp(t)
	tag := testutils.CreateTestTag(t, env.DB, "science")
	url := "/api/admin/tags/" + tag.ID + "/translations"

	payload := map[string]interface{}{
		"translations": []map[string]string{
			{"languageCode": "ar", "name": "علوم"},
			{"languageCode": "de", "name": "Wissenschaft"},
			{"languageCode": "fr", "name": "Science"},
		},
	}

	t.Run("Success - Replace is idempotent", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			resp, err := testutils.MakeRequest(env.App, "POST", url, payload, "EDITOR")
			require.NoError(t, err)
			assert.Equal(t, 200, resp.Code)
			assert.JSONEq(t, `{"success":true}`, resp.Body.String())
		}

		got := translations(t, env.DB, tag.ID)
		assert.Equal(t, map[string]string{"ar": "علوم", "de": "Wissenschaft", "fr": "Science"}, got)
	})

	t.Run("Success - Smaller set removes old rows", func(t *testing.T) {
		body := map[string]interface{}{
			"translations": []map[string]string{{"languageCode": "RU", "name": "Наука"}},
		}
		resp, err := testutils.MakeRequest(env.App, "POST", url, body, "ADMIN")
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		assert.Equal(t, map[string]string{"ru": "Наука"}, translations(t, env.DB, tag.ID))
	})

	t.Run("Error - Duplicate language leaves rows untouched", func(t *testing.T) {
		body := map[string]interface{}{
			"translations": []map[string]string{
				{"languageCode": "en", "name": "Science"},
				{"languageCode": "en", "name": "Sciences"},
			},
		}
		resp, err := testutils.MakeRequest(env.App, "POST", url, body, "ADMIN")
		require.NoError(t, err)
		assert.Equal(t, 400, resp.Code)
		testutils.AssertError(t, resp, "BAD_REQUEST")

		assert.Equal(t, map[string]string{"ru": "Наука"}, translations(t, env.DB, tag.ID))
	})

	t.Run("Error - Unsupported language", func(t *testing.T) {
		body := map[string]interface{}{
			"translations": []map[string]string{{"languageCode": "xx", "name": "?"}},
		}
		resp, err := testutils.MakeRequest(env.App, "POST", url, body, "ADMIN")
		require.NoError(t, err)
		assert.Equal(t, 400, resp.Code)
	})

	t.Run("Error - Missing translations field", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "POST", url, map[string]interface{}{}, "ADMIN")
		require.NoError(t, err)
		assert.Equal(t, 400, resp.Code)
	})

	t.Run("Error - Unknown tag", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "POST", "/api/admin/tags/missing/translations", payload, "ADMIN")
		require.NoError(t, err)
		assert.Equal(t, 404, resp.Code)
		testutils.AssertError(t, resp, "NOT_FOUND")
	})

	t.Run("Error - Anonymous is forbidden", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "POST", url, payload, "")
		require.NoError(t, err)
		assert.Equal(t, 403, resp.Code)

		assert.Equal(t, map[string]string{"ru": "Наука"}, translations(t, env.DB, tag.ID))
	})
}

func TestTagHandlers(t *testing.T) {
	env := testutils.SetupTestApp(t)

	t.Run("Success - Create and list", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "POST", "/api/admin/tags", map[string]string{"slug": "Travel", "name": "Travel"}, "EDITOR")
		require.NoError(t, err)
		assert.Equal(t, 201, resp.Code)

		resp, err = testutils.MakeRequest(env.App, "GET", "/api/admin/tags", nil, "EDITOR")
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)
		assert.Contains(t, resp.Body.String(), `"slug":"travel"`)
	})

	t.Run("Error - Duplicate slug", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "POST", "/api/admin/tags", map[string]string{"slug": "travel", "name": "Trips"}, "EDITOR")
		require.NoError(t, err)
		assert.Equal(t, 409, resp.Code)
	})

	t.Run("Error - Missing fields", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "POST", "/api/admin/tags", map[string]string{"slug": "x"}, "EDITOR")
		require.NoError(t, err)
		assert.Equal(t, 422, resp.Code)
		testutils.AssertError(t, resp, "VALIDATION_ERROR")
	})
}
