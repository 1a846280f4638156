package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type Config struct {
	DB      DBConfig
	Storage StorageConfig
	JWT     JWTConfig
	Server  ServerConfig
	Google  GoogleConfig
	Admin   AdminConfig
	Metrics MetricsConfig
}

type DBConfig struct {
	Driver   string
	Path     string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type StorageConfig struct {
	Endpoint       string
	PublicEndpoint string
	AccessKey      string
	SecretKey      string
	Bucket         string
	Region         string
	UseSSL         bool
	PublicUseSSL   bool
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type ServerConfig struct {
	Port          string
	FrontendURL   string
	BodyLimitMB   int
	SecureCookies bool
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Enabled reports whether Google sign-in can verify tokens at all.
func (g GoogleConfig) Enabled() bool {
	return g.ClientID != ""
}

func (g GoogleConfig) ClientConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     g.ClientID,
		ClientSecret: g.ClientSecret,
		RedirectURL:  g.RedirectURL,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}
}

type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

type MetricsConfig struct {
	Enabled bool
}

// LoadDotEnv reads KEY=VALUE pairs from the given files into the process
// environment. Variables that are already set win. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

func Load() *Config {
	storageEndpoint := getEnv("STORAGE_ENDPOINT", "localhost:9000")
	storageSSL := getEnvAsBool("STORAGE_USE_SSL", false)

	return &Config{
		DB: DBConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Path:     getEnv("DB_PATH", "propmarket.db"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "propmarket"),
			Password: getEnv("DB_PASSWORD", "propmarket_secret"),
			Name:     getEnv("DB_NAME", "propmarket"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Storage: StorageConfig{
			Endpoint:       storageEndpoint,
			PublicEndpoint: getEnv("STORAGE_PUBLIC_ENDPOINT", storageEndpoint),
			AccessKey:      getEnv("STORAGE_ACCESS_KEY", "propmarket"),
			SecretKey:      getEnv("STORAGE_SECRET_KEY", "propmarket_secret"),
			Bucket:         getEnv("STORAGE_BUCKET", "property-images"),
			Region:         getEnv("STORAGE_REGION", ""),
			UseSSL:         storageSSL,
			PublicUseSSL:   getEnvAsBool("STORAGE_PUBLIC_USE_SSL", storageSSL),
		},
		JWT: JWTConfig{
			AccessSecret:  getEnv("JWT_ACCESS_SECRET", "change-me-access"),
			RefreshSecret: getEnv("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessTTL:     getEnvAsDuration("JWT_ACCESS_TTL", 15*time.Minute),
			RefreshTTL:    getEnvAsDuration("JWT_REFRESH_TTL", 7*24*time.Hour),
		},
		Server: ServerConfig{
			Port:          getEnv("SERVER_PORT", "8080"),
			FrontendURL:   getEnv("FRONTEND_URL", "http://localhost:5173"),
			BodyLimitMB:   getEnvAsInt("BODY_LIMIT_MB", 50),
			SecureCookies: getEnvAsBool("SECURE_COOKIES", false),
		},
		Google: GoogleConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/auth/google/callback"),
		},
		Admin: AdminConfig{
			Email:    getEnv("ADMIN_EMAIL", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
			Name:     getEnv("ADMIN_NAME", "Administrator"),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvAsBool("METRICS_ENABLED", true),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}
