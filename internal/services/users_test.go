package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		ok       bool
	}{
		{"Ab!", false},
		{"abcdef!", false},
		{"Abcdefg", false},
		{"Abcde!", true},
		{"Secret(1", true},
	}
	for _, tt := range tests {
		err := ValidatePassword(tt.password)
		if (err == nil) != tt.ok {
			t.Errorf("ValidatePassword(%q) = %v, want ok=%v", tt.password, err, tt.ok)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	for _, email := range []string{"a@b.co", "first.last@example.com"} {
		if err := ValidateEmail(email); err != nil {
			t.Errorf("expected %q valid, got %v", email, err)
		}
	}
	for _, email := range []string{"", "plain", "Name <a@b.co>", "a@"} {
		if err := ValidateEmail(email); err == nil {
			t.Errorf("expected %q invalid", email)
		}
	}
}

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewUserService(db)

	user, err := svc.Register(ctx, " Priya ", " Priya@Example.com ", "Secret!1")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "priya@example.com" || user.Name != "Priya" || user.IsAdmin {
		t.Fatalf("unexpected user %+v", user)
	}

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, "Other", "priya@example.com", "Secret!1")
		if !errors.Is(err, ErrEmailTaken) {
			t.Fatalf("expected ErrEmailTaken, got %v", err)
		}
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := svc.Register(ctx, "Weak", "weak@example.com", "secret")
		requireValidationField(t, err, "password")
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := svc.Register(ctx, " ", "noname@example.com", "Secret!1")
		requireValidationField(t, err, "name")
	})

	t.Run("login succeeds", func(t *testing.T) {
		got, err := svc.Authenticate(ctx, "PRIYA@example.com", "Secret!1")
		if err != nil {
			t.Fatalf("authenticate failed: %v", err)
		}
		if got.ID != user.ID {
			t.Fatal("expected the registered user")
		}
	})

	t.Run("login failures", func(t *testing.T) {
		if _, err := svc.Authenticate(ctx, "priya@example.com", "Wrong!1"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
		if _, err := svc.Authenticate(ctx, "nobody@example.com", "Secret!1"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("get by id", func(t *testing.T) {
		if _, err := svc.GetByID(ctx, user.ID); err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if _, err := svc.GetByID(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestFindOrCreateExternalUser(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a password-less user", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewUserService(db)

		user, err := svc.FindOrCreateExternalUser(ctx, &ExternalIdentity{
			Subject:       "g-1",
			Email:         "new@example.com",
			EmailVerified: true,
			Picture:       "https://pics.test/a.png",
		})
		if err != nil {
			t.Fatalf("find or create failed: %v", err)
		}
		if user.HasPassword() || user.GoogleID == nil || *user.GoogleID != "g-1" {
			t.Fatalf("unexpected user %+v", user)
		}
		if user.Name != "new" {
			t.Fatalf("expected name from email, got %q", user.Name)
		}
		if user.IsAdmin {
			t.Fatal("external users must not be admin")
		}

		again, err := svc.FindOrCreateExternalUser(ctx, &ExternalIdentity{Subject: "g-1", Email: "new@example.com", EmailVerified: true})
		if err != nil {
			t.Fatalf("second sign-in failed: %v", err)
		}
		if again.ID != user.ID {
			t.Fatal("expected the same user on second sign-in")
		}

		if _, err := svc.Authenticate(ctx, "new@example.com", ""); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected password login to fail, got %v", err)
		}
	})

	t.Run("links an existing account by email", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewUserService(db)
		existing := createTestUser(t, db, "linked@example.com")

		user, err := svc.FindOrCreateExternalUser(ctx, &ExternalIdentity{Subject: "g-2", Email: "Linked@example.com", EmailVerified: true, Name: "Linked"})
		if err != nil {
			t.Fatalf("find or create failed: %v", err)
		}
		if user.ID != existing.ID {
			t.Fatal("expected the existing account")
		}
		if user.GoogleID == nil || *user.GoogleID != "g-2" || !user.HasPassword() {
			t.Fatalf("expected both credentials, got %+v", user)
		}
	})

	t.Run("unverified email is refused", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewUserService(db)
		createTestUser(t, db, "victim@example.com")

		_, err := svc.FindOrCreateExternalUser(ctx, &ExternalIdentity{Subject: "g-3", Email: "victim@example.com"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestGrantAdmin(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewUserService(db)
	createTestUser(t, db, "boss@example.com")

	user, err := svc.GrantAdmin(ctx, "Boss@example.com")
	if err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	if !user.IsAdmin {
		t.Fatal("expected admin")
	}
	reloaded, err := svc.GetByID(ctx, user.ID)
	if err != nil || !reloaded.IsAdmin {
		t.Fatalf("expected admin persisted, got %v %+v", err, reloaded)
	}

	if _, err := svc.GrantAdmin(ctx, "ghost@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
