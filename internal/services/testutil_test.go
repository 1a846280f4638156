package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/propmarket/backend/internal/config"
	"github.com/propmarket/backend/internal/database"
	"github.com/propmarket/backend/internal/models"
	"github.com/propmarket/backend/pkg/logger"
	"github.com/propmarket/backend/pkg/utils"
	"gorm.io/gorm"
)

var testSetupOnce sync.Once

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	testSetupOnce.Do(func() {
		logger.SetOutput(io.Discard)
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
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := utils.HashPassword("Secret!1")
	if err != nil {
		t.Fatalf("failed hashing password: %v", err)
	}
	user := &models.User{Name: "Test User", Email: email, PasswordHash: &hash}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed creating test user: %v", err)
	}
	return user
}

const fakeStoreBase = "https://images.test/property-images/"

// fakeStore keeps uploads in memory. failOn makes the upload of a matching
// filename fail.
type fakeStore struct {
	mu      sync.Mutex
	objects map[string]string
	deleted []string
	failOn  string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string]string{}}
}

func (f *fakeStore) Upload(_ context.Context, objectName string, r io.Reader, _ int64, _ string) (string, error) {
	if f.failOn != "" && strings.HasSuffix(objectName, "/"+f.failOn) {
		return "", errors.New("storage unavailable")
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	url := fakeStoreBase + objectName
	f.objects[url] = string(body)
	return url, nil
}

func (f *fakeStore) Delete(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, url)
	f.deleted = append(f.deleted, url)
	return nil
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

func (f *fakeStore) wasDeleted(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.deleted {
		if d == url {
			return true
		}
	}
	return false
}

func testUpload(name string) ImageUpload {
	content := "image:" + name
	return ImageUpload{
		Filename:    name,
		ContentType: "image/jpeg",
		Size:        int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

func requireValidationField(t *testing.T, err error, field string) {
	t.Helper()
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error on %q, got %v", field, err)
	}
	if verr.Field != field {
		t.Fatalf("expected validation error on %q, got %q (%s)", field, verr.Field, verr.Message)
	}
}
