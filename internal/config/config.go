package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type DatabaseDriver string

const (
	DatabaseDriverSQLite   DatabaseDriver = "sqlite"
	DatabaseDriverPostgres DatabaseDriver = "postgres"
)

type SessionStore string

const (
	SessionStoreDatabase SessionStore = "database" // Same database as the credential store (default)
	SessionStoreRedis    SessionStore = "redis"
	SessionStoreMemory   SessionStore = "memory" // Process-local, lost on restart
)

type (
	Config struct {
		HTTP
		Global
		Database
		Session
		Redis
		Auth
		CORS
		Providers
		Logging
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Driver DatabaseDriver
		URL    string // File path for sqlite, connection string for postgres
	}
	Session struct {
		Store           SessionStore
		Secret          string
		Lifetime        time.Duration
		CookieName      string
		SecureCookies   bool   // Set to false for local dev without HTTPS
		CleanupSchedule string // Cron format, database store only
	}
	Redis struct {
		URL string
	}
	Auth struct {
		BcryptCost  int
		FrontendURL string // Where a successful login redirects to
		CSRFEnabled bool
	}
	CORS struct {
		AllowedOrigins []string
	}
	Providers struct {
		Timeout time.Duration // Zero means no client-side timeout
		Gemini  Provider
		Mistral Provider
		OpenAI  Provider
	}
	Provider struct {
		APIKey  string
		Model   string
		BaseURL string
	}
	Logging struct {
		Level string
		File  string // Rotated with lumberjack when set
	}
)

// Enabled reports whether the provider has credentials configured.
func (p Provider) Enabled() bool {
	return strings.TrimSpace(p.APIKey) != ""
}

// loadDotEnv reads .env from the working directory when present.
// Variables already set in the environment win.
func loadDotEnv() {
	wd, err := os.Getwd()
	if err != nil {
		return
	}
	if err := godotenv.Load(filepath.Join(wd, ".env")); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.WithError(err).Warn("failed to load .env file")
		}
	}
}

// splitList parses a comma-separated env value, dropping empty entries.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func NewConfig() *Config {
	loadDotEnv()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 3000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	// Database defaults
	v.SetDefault("database_driver", string(DatabaseDriverSQLite))
	v.SetDefault("database_url", DefaultDatabasePath)

	// Session defaults
	v.SetDefault("session_store", string(SessionStoreDatabase))
	v.SetDefault("session_secret", "") // Auto-generated if empty
	v.SetDefault("session_lifetime", "24h")
	v.SetDefault("session_cookie_name", "session")
	v.SetDefault("session_secure_cookies", false)
	v.SetDefault("session_cleanup_schedule", "*/15 * * * *") // Every 15 minutes
	v.SetDefault("redis_url", "redis://localhost:6379/0")

	// Auth defaults
	v.SetDefault("auth_bcrypt_cost", 10)
	v.SetDefault("frontend_url", "http://localhost:3000")
	v.SetDefault("csrf_enabled", false)
	v.SetDefault("allowed_origins", "http://localhost:3000,http://127.0.0.1:5500")

	// Provider defaults; API keys have no default on purpose
	v.SetDefault("provider_timeout", "0s")
	v.SetDefault("gemini_model", "gemini-1.5-flash")
	v.SetDefault("gemini_base_url", DefaultGeminiBaseURL)
	v.SetDefault("mistral_model", "mistral-small-latest")
	v.SetDefault("mistral_base_url", DefaultMistralBaseURL)
	v.SetDefault("openai_model", "gpt-4o-mini")
	v.SetDefault("openai_base_url", DefaultOpenAIBaseURL)

	// Logging defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Driver: DatabaseDriver(strings.ToLower(v.GetString("DATABASE_DRIVER"))),
			URL:    v.GetString("DATABASE_URL"),
		},
		Session: Session{
			Store:           SessionStore(strings.ToLower(v.GetString("SESSION_STORE"))),
			Secret:          v.GetString("SESSION_SECRET"),
			Lifetime:        v.GetDuration("SESSION_LIFETIME"),
			CookieName:      v.GetString("SESSION_COOKIE_NAME"),
			SecureCookies:   v.GetBool("SESSION_SECURE_COOKIES"),
			CleanupSchedule: v.GetString("SESSION_CLEANUP_SCHEDULE"),
		},
		Redis: Redis{
			URL: v.GetString("REDIS_URL"),
		},
		Auth: Auth{
			BcryptCost:  v.GetInt("AUTH_BCRYPT_COST"),
			FrontendURL: v.GetString("FRONTEND_URL"),
			CSRFEnabled: v.GetBool("CSRF_ENABLED"),
		},
		CORS: CORS{
			AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
		},
		Providers: Providers{
			Timeout: v.GetDuration("PROVIDER_TIMEOUT"),
			Gemini: Provider{
				APIKey:  v.GetString("GOOGLE_API_KEY"),
				Model:   v.GetString("GEMINI_MODEL"),
				BaseURL: v.GetString("GEMINI_BASE_URL"),
			},
			Mistral: Provider{
				APIKey:  v.GetString("MISTRAL_API_KEY"),
				Model:   v.GetString("MISTRAL_MODEL"),
				BaseURL: v.GetString("MISTRAL_BASE_URL"),
			},
			OpenAI: Provider{
				APIKey:  v.GetString("OPENAI_API_KEY"),
				Model:   v.GetString("OPENAI_MODEL"),
				BaseURL: v.GetString("OPENAI_BASE_URL"),
			},
		},
		Logging: Logging{
			Level: v.GetString("LOG_LEVEL"),
			File:  v.GetString("LOG_FILE"),
		},
	}
}
