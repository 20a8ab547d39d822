package workflow_test

import (
	"testing"

	"github.com/Kyz7/lingopress/internal/database"
	"github.com/Kyz7/lingopress/internal/locale"
	"github.com/Kyz7/lingopress/internal/models"
	"github.com/Kyz7/lingopress/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishResponse struct {
	Success     bool           `json:"success"`
	Message     string         `json:"message"`
	Article     models.Article `json:"article"`
	EmailResult *struct {
		Success    bool   `json:"success"`
		Skipped    bool   `json:"skipped"`
		Recipients int    `json:"recipients"`
		Error      string `json:"error"`
	} `json:"emailResult"`
}

func TestPublishHandler(t *testing.T) {
	t.Run("Error - Editor cannot publish", func(t *testing.T) {
		env := testutils.SetupTestApp(t)
		testutils.CreateTestArticle(t, env.DB, "A1", "first", locale.English, models.StatusDraft)

		resp, err := testutils.MakeRequest(env.App, "POST", "/api/articles/A1/publish", nil, "EDITOR")
		require.NoError(t, err)
		assert.Equal(t, 403, resp.Code)
		testutils.AssertError(t, resp, "FORBIDDEN")

		var a models.Article
		require.NoError(t, env.DB.First(&a, "id = ?", "A1").Error)
		assert.Equal(t, models.StatusDraft, a.Status)
		assert.Nil(t, a.PublishedAt)
		assert.Zero(t, env.Notifier.Count())
	})

	t.Run("Error - Anonymous cannot publish", func(t *testing.T) {
		env := testutils.SetupTestApp(t)
		testutils.CreateTestArticle(t, env.DB, "A1", "first", locale.English, models.StatusDraft)

		resp, err := testutils.MakeRequest(env.App, "POST", "/api/articles/A1/publish", nil, "")
		require.NoError(t, err)
		assert.Equal(t, 403, resp.Code)
	})

	t.Run("Success - Admin publishes a draft", func(t *testing.T) {
		env := testutils.SetupTestApp(t)
		testutils.CreateTestArticle(t, env.DB, "A1", "first", locale.English, models.StatusDraft)
		testutils.CreateTestSubscriber(t, env.DB, "reader@example.com")

		resp, err := testutils.MakeRequest(env.App, "POST", "/api/articles/A1/publish", nil, "admin")
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result publishResponse
		testutils.ParseResponse(t, resp, &result)
		assert.True(t, result.Success)
		assert.Equal(t, "A1", result.Article.ID)
		assert.Equal(t, models.StatusPublished, result.Article.Status)
		assert.NotNil(t, result.Article.PublishedAt)
		require.NotNil(t, result.EmailResult)
		assert.True(t, result.EmailResult.Success)
		assert.Equal(t, 1, result.EmailResult.Recipients)

		var a models.Article
		require.NoError(t, env.DB.First(&a, "id = ?", "A1").Error)
		assert.Equal(t, models.StatusPublished, a.Status)

		require.Equal(t, 1, env.Notifier.Count())
		assert.Equal(t, testutils.SiteURL+"/en/articles/first", env.Notifier.Messages[0].URL)

		var history []models.WorkflowHistory
		require.NoError(t, env.DB.Where("article_id = ?", "A1").Find(&history).Error)
		require.Len(t, history, 1)
		assert.Equal(t, models.StatusDraft, history[0].FromStatus)
		assert.Equal(t, models.StatusPublished, history[0].ToStatus)
		assert.Equal(t, "ADMIN", history[0].Role)
	})

	t.Run("Success - Second publish is a no-op", func(t *testing.T) {
		env := testutils.SetupTestApp(t)
		testutils.CreateTestArticle(t, env.DB, "A1", "first", locale.English, models.StatusDraft)

		first, err := testutils.MakeRequest(env.App, "POST", "/api/articles/A1/publish", nil, "ADMIN")
		require.NoError(t, err)
		require.Equal(t, 200, first.Code)

		var published models.Article
		require.NoError(t, env.DB.First(&published, "id = ?", "A1").Error)

		second, err := testutils.MakeRequest(env.App, "POST", "/api/articles/A1/publish", nil, "ADMIN")
		require.NoError(t, err)
		assert.Equal(t, 200, second.Code)

		var result publishResponse
		testutils.ParseResponse(t, second, &result)
		assert.True(t, result.Success)
		assert.Equal(t, models.StatusPublished, result.Article.Status)
		require.NotNil(t, result.EmailResult)
		assert.True(t, result.EmailResult.Skipped)

		var again models.Article
		require.NoError(t, env.DB.First(&again, "id = ?", "A1").Error)
		assert.True(t, published.PublishedAt.Equal(*again.PublishedAt))
		assert.Equal(t, 1, env.Notifier.Count())

		var count int64
		env.DB.Model(&models.WorkflowHistory{}).Where("article_id = ?", "A1").Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Success - Notification failure keeps the publication", func(t *testing.T) {
		env := testutils.SetupTestApp(t)
		env.Notifier.Fail = true
		testutils.CreateTestArticle(t, env.DB, "A1", "first", locale.English, models.StatusDraft)
		testutils.CreateTestSubscriber(t, env.DB, "reader@example.com")

		resp, err := testutils.MakeRequest(env.App, "POST", "/api/articles/A1/publish", nil, "ADMIN")
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result publishResponse
		testutils.ParseResponse(t, resp, &result)
		assert.True(t, result.Success)
		require.NotNil(t, result.EmailResult)
		assert.False(t, result.EmailResult.Success)
		assert.NotEmpty(t, result.EmailResult.Error)

		var a models.Article
		require.NoError(t, env.DB.First(&a, "id = ?", "A1").Error)
		assert.Equal(t, models.StatusPublished, a.Status)
	})

	t.Run("Error - Unknown article", func(t *testing.T) {
		env := testutils.SetupTestApp(t)

		resp, err := testutils.MakeRequest(env.App, "POST", "/api/articles/missing/publish", nil, "ADMIN")
		require.NoError(t, err)
		assert.Equal(t, 404, resp.Code)
		testutils.AssertError(t, resp, "NOT_FOUND")
		assert.Zero(t, env.Notifier.Count())
	})

	t.Run("Error - Blank id", func(t *testing.T) {
		env := testutils.SetupTestApp(t)

		resp, err := testutils.MakeRequest(env.App, "POST", "/api/articles/%20/publish", nil, "ADMIN")
		require.NoError(t, err)
		assert.Equal(t, 400, resp.Code)
		testutils.AssertError(t, resp, "BAD_REQUEST")
	})

	t.Run("Error - Storage failure", func(t *testing.T) {
		env := testutils.SetupTestApp(t)
		require.NoError(t, database.Close(env.DB))

		resp, err := testutils.MakeRequest(env.App, "POST", "/api/articles/A1/publish", nil, "ADMIN")
		require.NoError(t, err)
		assert.Equal(t, 500, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		assert.NotEmpty(t, result.Error)
		assert.Zero(t, env.Notifier.Count())
	})
}

func TestHistoryHandler(t *testing.T) {
	env := testutils.SetupTestApp(t)
	testutils.CreateTestArticle(t, env.DB, "A1", "first", locale.English, models.StatusDraft)

	_, err := testutils.MakeRequest(env.App, "POST", "/api/articles/A1/publish", nil, "ADMIN")
	require.NoError(t, err)

	t.Run("Success - Editor reads history", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "GET", "/api/articles/A1/history", nil, "EDITOR")
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		assert.Len(t, result.Data, 1)
	})

	t.Run("Error - Unknown article", func(t *testing.T) {
		resp, err := testutils.MakeRequest(env.App, "GET", "/api/articles/nope/history", nil, "EDITOR")
		require.NoError(t, err)
		assert.Equal(t, 404, resp.Code)
	})
}
