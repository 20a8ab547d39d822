package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"

	"github.com/Kyz7/lingopress/internal/config"
	"github.com/Kyz7/lingopress/internal/database"
	"github.com/Kyz7/lingopress/internal/locale"
	"github.com/Kyz7/lingopress/internal/models"
	"github.com/Kyz7/lingopress/internal/notify"
	"github.com/Kyz7/lingopress/internal/server"
	"github.com/Kyz7/lingopress/internal/utils"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const SiteURL = "https://example.com"

// TestDB opens a private in-memory database. The pool is pinned to a single
// connection so every query sees the same database.
func TestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db), "Failed to migrate test database")
	require.NoError(t, database.SeedLanguages(db), "Failed to seed languages")

	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func TestConfig() *config.Config {
	return &config.Config{
		SiteURL:          SiteURL,
		AppEnv:           "test",
		RBACFallbackRole: "ANON",
		SitemapLanguages: []string{"en", "ar", "zh", "ru", "de", "fr", "hi"},
	}
}

// RecordingNotifier captures notifications instead of sending them.
type RecordingNotifier struct {
	mu       sync.Mutex
	Messages []notify.Message
	Fail     bool
}

func (n *RecordingNotifier) NotifyPublished(ctx context.Context, msg notify.Message, recipients []string) notify.Result {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Messages = append(n.Messages, msg)

	if n.Fail {
		return notify.Result{Recipients: len(recipients), Failed: len(recipients), Error: "smtp: connection refused"}
	}
	return notify.Result{Success: true, Recipients: len(recipients)}
}

func (n *RecordingNotifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Messages)
}

type Env struct {
	App      *fiber.App
	DB       *gorm.DB
	Notifier *RecordingNotifier
	Storage  *utils.Storage
}

func SetupTestApp(t *testing.T) *Env {
	db := TestDB(t)

	storage, err := utils.NewLocalStorage(t.TempDir())
	require.NoError(t, err, "Failed to initialize storage")

	notifier := &RecordingNotifier{}
	app := server.New(server.Deps{
		DB:       db,
		Config:   TestConfig(),
		Storage:  storage,
		Notifier: notifier,
	})
	return &Env{App: app, DB: db, Notifier: notifier, Storage: storage}
}

func CreateTestArticle(t *testing.T, db *gorm.DB, id, slug string, lang locale.Code, status models.WorkflowStatus) *models.Article {
	a := &models.Article{
		ID:           id,
		Slug:         slug,
		LanguageCode: string(lang),
		Title:        "Title " + slug,
		Summary:      "Summary " + slug,
		Body:         "<p>Body</p>",
		Status:       status,
	}
	require.NoError(t, db.Create(a).Error, "Failed to create test article")
	return a
}

func CreateTestTag(t *testing.T, db *gorm.DB, slug string) *models.Tag {
	tag := &models.Tag{Slug: slug, Name: slug}
	require.NoError(t, db.Create(tag).Error, "Failed to create test tag")
	return tag
}

func CreateTestSubscriber(t *testing.T, db *gorm.DB, email string) {
	require.NoError(t, db.Create(&models.Subscriber{Email: email, LanguageCode: "en", Active: true}).Error)
}

// MakeRequest sends a JSON request. role, when set, goes into the x-role
// header.
func MakeRequest(app *fiber.App, method, url string, body interface{}, role string) (*httptest.ResponseRecorder, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(jsonBody)
	}

	req := httptest.NewRequest(method, url, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("x-role", role)
	}

	return do(app, req)
}

func MakeRequestWithHeaders(app *fiber.App, method, url string, headers map[string]string) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(method, url, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return do(app, req)
}

// MakeMultipartRequestWithFile uploads content as the "file" field.
func MakeMultipartRequestWithFile(app *fiber.App, method, url string, fields map[string]string, filename, contentType string, content []byte, role string) (*httptest.ResponseRecorder, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, val := range fields {
		if err := writer.WriteField(key, val); err != nil {
			return nil, err
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := writer.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(content); err != nil {
		return nil, err
	}
	writer.Close()

	req := httptest.NewRequest(method, url, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if role != "" {
		req.Header.Set("x-role", role)
	}

	return do(app, req)
}

func do(app *fiber.App, req *http.Request) (*httptest.ResponseRecorder, error) {
	rec := httptest.NewRecorder()

	resp, err := app.Test(req, -1)
	if err != nil {
		return rec, err
	}

	rec.Code = resp.StatusCode
	for k, v := range resp.Header {
		for _, val := range v {
			rec.Header().Add(k, val)
		}
	}

	io.Copy(rec.Body, resp.Body)
	resp.Body.Close()

	return rec, nil
}

func ParseResponse(t *testing.T, resp *httptest.ResponseRecorder, v interface{}) {
	if resp.Body.Len() == 0 {
		t.Log("Warning: Response body is empty")
		return
	}

	err := json.Unmarshal(resp.Body.Bytes(), v)
	if err != nil {
		t.Logf("Response body: %s", resp.Body.String())
		assert.NoError(t, err, "Failed to parse response")
	}
}

type StandardResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error"`
	Code    string      `json:"code"`
	Details interface{} `json:"details"`
}

func AssertSuccess(t *testing.T, resp *httptest.ResponseRecorder) {
	var result StandardResponse
	ParseResponse(t, resp, &result)
	assert.True(t, result.Success, "Expected success response")
	assert.Empty(t, result.Error, "Expected no error")
}

func AssertError(t *testing.T, resp *httptest.ResponseRecorder, expectedCode string) {
	var result StandardResponse
	ParseResponse(t, resp, &result)
	assert.False(t, result.Success, "Expected error response")
	assert.NotEmpty(t, result.Error, "Expected error message")
	assert.Equal(t, expectedCode, result.Code, "Error code mismatch")
}
