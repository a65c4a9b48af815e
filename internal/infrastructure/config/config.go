package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the service. It is resolved once at
// startup and passed into constructors; no component reads the environment
// on its own.
type Config struct {
	// App
	AppVersion string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// PostgreSQL (internal booking store)
	PostgresDSN string

	// MongoDB (sync-run audit trail, optional)
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// External booking source
	SourceBaseURL    string
	SourceAPIKey     string
	// SourceAuthMethod only extends the fixed auth cascade (bearer,
	// X-API-Key header, api_key query); "basic" appends HTTP basic auth as
	// a final fallback.
	SourceAuthMethod string
	SourceCustomPath string

	// Optional client-credentials token minting for the bearer strategy
	SourceOAuthTokenURL     string
	SourceOAuthClientID     string
	SourceOAuthClientSecret string

	// Sync run tuning
	SyncFetchLimit    int
	SyncWorkers       int
	SyncRecordTimeout time.Duration
	SyncRunTimeout    time.Duration
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 300)) * time.Second,

		PostgresDSN: getEnv("POSTGRES_DSN", "postgres://localhost:5432/bookings?sslmode=disable"),

		MongoURI:      getEnv("MONGODB_DSN", ""),
		MongoDB:       getEnv("MONGO_DB", "bookingsync"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		SourceBaseURL:    getEnv("SOURCE_API_URL", ""),
		SourceAPIKey:     getEnv("SOURCE_API_KEY", ""),
		SourceAuthMethod: getEnv("SOURCE_AUTH_METHOD", ""),
		SourceCustomPath: getEnv("SOURCE_API_CUSTOM_PATH", ""),

		SourceOAuthTokenURL:     getEnv("SOURCE_OAUTH_TOKEN_URL", ""),
		SourceOAuthClientID:     getEnv("SOURCE_OAUTH_CLIENT_ID", ""),
		SourceOAuthClientSecret: getEnv("SOURCE_OAUTH_CLIENT_SECRET", ""),

		SyncFetchLimit:    getEnvAsInt("SYNC_FETCH_LIMIT", 1000),
		SyncWorkers:       getEnvAsInt("SYNC_WORKERS", 8),
		SyncRecordTimeout: time.Duration(getEnvAsInt("SYNC_RECORD_TIMEOUT", 15)) * time.Second,
		SyncRunTimeout:    time.Duration(getEnvAsInt("SYNC_RUN_TIMEOUT", 300)) * time.Second,
	}

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
