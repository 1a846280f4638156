package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/propmarket/backend/internal/config"
	"github.com/propmarket/backend/internal/database"
	"github.com/propmarket/backend/internal/metrics"
	"github.com/propmarket/backend/internal/models"
	"github.com/propmarket/backend/internal/services"
	"github.com/propmarket/backend/pkg/logger"
	"github.com/propmarket/backend/pkg/utils"
	"gorm.io/gorm"
)

type testEnv struct {
	app      *fiber.App
	db       *gorm.DB
	store    *memoryStore
	verifier *stubVerifier
}

var testSetupOnce sync.Once

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	testSetupOnce.Do(func() {
		logger.SetOutput(io.Discard)
		utils.ConfigureJWT("handlers-access", "handlers-refresh", 15*time.Minute, time.Hour)
	})

	db, err := database.Open(config.DBConfig{Driver: "sqlite", Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB from gorm: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed migrating schema: %v", err)
	}

	cfg := &config.Config{
		Server: config.ServerConfig{
			FrontendURL: "http://localhost:5173",
			BodyLimitMB: 10,
		},
	}

	store := &memoryStore{objects: map[string][]byte{}}
	verifier := &stubVerifier{identities: map[string]*services.ExternalIdentity{}}

	app := NewApp(Dependencies{
		Config:   cfg,
		DB:       db,
		Store:    store,
		Verifier: verifier,
		Metrics:  metrics.NewHTTPMetrics("propmarket-test"),
	})

	return &testEnv{app: app, db: db, store: store, verifier: verifier}
}

type memoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memoryStore) Upload(_ context.Context, objectName string, r io.Reader, _ int64, _ string) (string, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	url := "https://images.test/property-images/" + objectName
	m.objects[url] = body
	return url, nil
}

func (m *memoryStore) Delete(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, url)
	return nil
}

func (m *memoryStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// stubVerifier accepts the raw tokens it was told about.
type stubVerifier struct {
	identities map[string]*services.ExternalIdentity
}

func (s *stubVerifier) Verify(_ context.Context, raw string) (*services.ExternalIdentity, error) {
	identity, ok := s.identities[raw]
	if !ok {
		return nil, errors.New("unknown token")
	}
	return identity, nil
}

func createTestUser(t *testing.T, db *gorm.DB, email string, admin bool) (*models.User, string) {
	t.Helper()

	hash, err := utils.HashPassword("Secret!1")
	if err != nil {
		t.Fatalf("failed hashing password: %v", err)
	}
	user := &models.User{Name: "Test User", Email: email, PasswordHash: &hash, IsAdmin: admin}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed creating test user: %v", err)
	}

	token, _, err := utils.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("failed generating auth token: %v", err)
	}
	return user, token
}

func authHeaders(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func performRequest(t *testing.T, app *fiber.App, method, path string, body io.Reader, headers map[string]string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := app.Test(req, int((10 * time.Second).Milliseconds()))
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	return resp
}

func performJSONRequest(t *testing.T, app *fiber.App, method, path string, payload any, headers map[string]string) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	requestHeaders := map[string]string{}
	for key, value := range headers {
		requestHeaders[key] = value
	}
	if payload != nil {
		requestHeaders["Content-Type"] = "application/json"
	}
	return performRequest(t, app, method, path, body, requestHeaders)
}

type testFile struct {
	name        string
	contentType string
	content     string
}

// performMultipartRequest sends fields and files the way the listing form
// does. Repeated field values are written as repeated parts.
func performMultipartRequest(t *testing.T, app *fiber.App, method, path string, fields map[string][]string, files []testFile, headers map[string]string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, values := range fields {
		for _, v := range values {
			if err := writer.WriteField(key, v); err != nil {
				t.Fatalf("failed writing field: %v", err)
			}
		}
	}
	for _, f := range files {
		header := make(map[string][]string)
		header["Content-Disposition"] = []string{`form-data; name="images"; filename="` + f.name + `"`}
		header["Content-Type"] = []string{f.contentType}
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("failed creating part: %v", err)
		}
		_, _ = part.Write([]byte(f.content))
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed closing multipart writer: %v", err)
	}

	requestHeaders := map[string]string{"Content-Type": writer.FormDataContentType()}
	for key, value := range headers {
		requestHeaders[key] = value
	}
	return performRequest(t, app, method, path, &buf, requestHeaders)
}

func decodeJSONMap(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed reading response body: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("failed decoding JSON response: %v body=%q", err, string(raw))
	}
	return payload
}

func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Fatalf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

func assertEnvelopeError(t *testing.T, body map[string]any, expected string) {
	t.Helper()
	if success, _ := body["success"].(bool); success {
		t.Fatalf("expected success=false, got %+v", body)
	}
	if got, _ := body["error"].(string); got != expected {
		t.Fatalf("expected error %q, got %q", expected, got)
	}
}

func dataMap(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected object data, got %+v", body["data"])
	}
	return data
}

func dataList(t *testing.T, body map[string]any) []any {
	t.Helper()
	data, ok := body["data"].([]any)
	if !ok {
		t.Fatalf("expected list data, got %+v", body["data"])
	}
	return data
}

func responseCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
