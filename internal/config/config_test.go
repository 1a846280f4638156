package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	if val, ok := os.LookupEnv(key); ok {
		t.Cleanup(func() { os.Setenv(key, val) })
	}
	os.Unsetenv(key)
}

func TestLoad(t *testing.T) {
	t.Run("returns config with defaults when no env vars set", func(t *testing.T) {
		for _, key := range []string{"DB_HOST", "SERVER_PORT", "JWT_ACCESS_TTL", "JWT_REFRESH_TTL", "STORAGE_BUCKET", "GOOGLE_CLIENT_ID", "ADMIN_EMAIL"} {
			unsetEnv(t, key)
		}

		cfg := Load()
		if cfg == nil {
			t.Fatal("expected non-nil config")
		}
		if cfg.DB.Host != "localhost" {
			t.Errorf("expected DB.Host 'localhost', got %s", cfg.DB.Host)
		}
		if cfg.Server.Port != "8080" {
			t.Errorf("expected Server.Port '8080', got %s", cfg.Server.Port)
		}
		if cfg.JWT.AccessTTL != 15*time.Minute {
			t.Errorf("expected JWT.AccessTTL 15m, got %v", cfg.JWT.AccessTTL)
		}
		if cfg.JWT.RefreshTTL != 7*24*time.Hour {
			t.Errorf("expected JWT.RefreshTTL 168h, got %v", cfg.JWT.RefreshTTL)
		}
		if cfg.Storage.Bucket != "property-images" {
			t.Errorf("expected Storage.Bucket 'property-images', got %s", cfg.Storage.Bucket)
		}
		if cfg.Google.Enabled() {
			t.Error("expected Google sign-in to be disabled without a client id")
		}
		if cfg.Admin.Email != "" {
			t.Errorf("expected no seeded admin by default, got %s", cfg.Admin.Email)
		}
	})

	t.Run("reads environment variables", func(t *testing.T) {
		t.Setenv("DB_HOST", "custom-host")
		t.Setenv("DB_SSLMODE", "require")
		t.Setenv("SERVER_PORT", "9090")
		t.Setenv("FRONTEND_URL", "https://app.example.com")
		t.Setenv("SECURE_COOKIES", "true")
		t.Setenv("JWT_ACCESS_SECRET", "a-secret")
		t.Setenv("JWT_REFRESH_SECRET", "r-secret")
		t.Setenv("JWT_ACCESS_TTL", "5m")
		t.Setenv("GOOGLE_CLIENT_ID", "client-id")

		cfg := Load()

		if cfg.DB.Host != "custom-host" {
			t.Errorf("expected DB.Host 'custom-host', got %s", cfg.DB.Host)
		}
		if cfg.DB.SSLMode != "require" {
			t.Errorf("expected DB.SSLMode 'require', got %s", cfg.DB.SSLMode)
		}
		if cfg.Server.Port != "9090" {
			t.Errorf("expected Server.Port '9090', got %s", cfg.Server.Port)
		}
		if cfg.Server.FrontendURL != "https://app.example.com" {
			t.Errorf("expected Server.FrontendURL, got %s", cfg.Server.FrontendURL)
		}
		if !cfg.Server.SecureCookies {
			t.Error("expected Server.SecureCookies to be true")
		}
		if cfg.JWT.AccessSecret != "a-secret" || cfg.JWT.RefreshSecret != "r-secret" {
			t.Errorf("expected JWT secrets from env, got %q / %q", cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret)
		}
		if cfg.JWT.AccessTTL != 5*time.Minute {
			t.Errorf("expected JWT.AccessTTL 5m, got %v", cfg.JWT.AccessTTL)
		}
		if !cfg.Google.Enabled() {
			t.Error("expected Google sign-in to be enabled")
		}
	})

	t.Run("storage public endpoint defaults to endpoint", func(t *testing.T) {
		t.Setenv("STORAGE_ENDPOINT", "minio.local:9000")
		unsetEnv(t, "STORAGE_PUBLIC_ENDPOINT")

		cfg := Load()

		if cfg.Storage.PublicEndpoint != "minio.local:9000" {
			t.Errorf("expected Storage.PublicEndpoint 'minio.local:9000', got %s", cfg.Storage.PublicEndpoint)
		}
	})
}

func TestGoogleConfig_ClientConfig(t *testing.T) {
	cfg := GoogleConfig{
		ClientID:     "my-client-id",
		ClientSecret: "my-client-secret",
		RedirectURL:  "https://example.com/callback",
	}

	oauthConfig := cfg.ClientConfig()
	if oauthConfig.ClientID != "my-client-id" {
		t.Errorf("expected ClientID 'my-client-id', got %s", oauthConfig.ClientID)
	}
	if oauthConfig.RedirectURL != "https://example.com/callback" {
		t.Errorf("expected RedirectURL, got %s", oauthConfig.RedirectURL)
	}
	if oauthConfig.Endpoint.AuthURL == "" || oauthConfig.Endpoint.TokenURL == "" {
		t.Error("expected Google endpoint to be populated")
	}
	if len(oauthConfig.Scopes) != 3 {
		t.Errorf("expected 3 scopes, got %d", len(oauthConfig.Scopes))
	}
}

func TestLoadDotEnv(t *testing.T) {
	t.Run("loads values from file without overriding existing env", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ".env")
		content := "DOTENV_ONLY=from-file\nDOTENV_SHARED=from-file\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}

		unsetEnv(t, "DOTENV_ONLY")
		t.Cleanup(func() { os.Unsetenv("DOTENV_ONLY") })
		t.Setenv("DOTENV_SHARED", "from-env")

		if err := LoadDotEnv(path); err != nil {
			t.Fatalf("expected LoadDotEnv to succeed, got %v", err)
		}

		if got := os.Getenv("DOTENV_ONLY"); got != "from-file" {
			t.Errorf("expected DOTENV_ONLY 'from-file', got %q", got)
		}
		if got := os.Getenv("DOTENV_SHARED"); got != "from-env" {
			t.Errorf("expected DOTENV_SHARED to keep 'from-env', got %q", got)
		}
	})

	t.Run("ignores missing file", func(t *testing.T) {
		if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
			t.Fatalf("expected missing file to be ignored, got %v", err)
		}
	})
}

func TestGetEnvAsInt(t *testing.T) {
	t.Run("returns parsed int", func(t *testing.T) {
		t.Setenv("TEST_INT", "42")
		if got := getEnvAsInt("TEST_INT", 0); got != 42 {
			t.Errorf("expected 42, got %d", got)
		}
	})

	t.Run("returns fallback for invalid int", func(t *testing.T) {
		t.Setenv("TEST_INT_BAD", "not-a-number")
		if got := getEnvAsInt("TEST_INT_BAD", 10); got != 10 {
			t.Errorf("expected 10, got %d", got)
		}
	})
}

func TestGetEnvAsBool(t *testing.T) {
	t.Run("returns parsed bool", func(t *testing.T) {
		t.Setenv("TEST_BOOL", "true")
		if got := getEnvAsBool("TEST_BOOL", false); !got {
			t.Error("expected true")
		}
	})

	t.Run("returns fallback for invalid bool", func(t *testing.T) {
		t.Setenv("TEST_BOOL_BAD", "maybe")
		if got := getEnvAsBool("TEST_BOOL_BAD", true); !got {
			t.Error("expected true (fallback)")
		}
	})
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Run("returns parsed duration", func(t *testing.T) {
		t.Setenv("TEST_DUR", "5m")
		if got := getEnvAsDuration("TEST_DUR", time.Hour); got != 5*time.Minute {
			t.Errorf("expected 5m, got %v", got)
		}
	})

	t.Run("returns fallback for invalid duration", func(t *testing.T) {
		t.Setenv("TEST_DUR_BAD", "invalid")
		if got := getEnvAsDuration("TEST_DUR_BAD", time.Hour); got != time.Hour {
			t.Errorf("expected 1h (fallback), got %v", got)
		}
	})
}
