package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port            string
	Env             string
	CORSOrigins     string
	RateLimitPerMin int

	// Database configuration
	DBType            string // sqlite, sqlite-pure, mysql, postgres, sqlserver
	DBHost            string
	DBPort            string
	DBDatabase        string
	DBUser            string
	DBPassword        string
	DBConnectionLimit int
	DBLogSQL          bool

	// Owner resolution
	JWTSecret     string
	AuthzURL      string
	AuthzClientID string

	// Snapshot cache
	RedisURL        string
	CacheTTLSeconds int

	// Tracing exporter: none or stdout
	TracesExporter string

	// Owner used by the MCP tool server
	StudyOwnerID string
}

// Load loads configuration from the environment, after merging a .env file when one exists
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "3000"),
		Env:               getEnv("ENV", "development"),
		CORSOrigins:       getEnv("CORS_ORIGINS", "*"),
		RateLimitPerMin:   getEnvAsInt("RATE_LIMIT_PER_MINUTE", 300),
		DBType:            strings.ToLower(getEnv("DB_TYPE", "sqlite")),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "3306"),
		DBDatabase:        getEnv("DB_DATABASE", ""),
		DBUser:            getEnv("DB_USER", ""),
		DBPassword:        getEnv("DB_PASSWORD", ""),
		DBConnectionLimit: getEnvAsInt("DB_CONNECTION_LIMIT", 5),
		DBLogSQL:          getEnvAsBool("DB_LOG_SQL", false),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		AuthzURL:          getEnv("AUTHZ_URL", ""),
		AuthzClientID:     getEnv("AUTHZ_CLIENT_ID", ""),
		RedisURL:          getEnv("REDIS_URL", ""),
		CacheTTLSeconds:   getEnvAsInt("CACHE_TTL_SECONDS", 60),
		TracesExporter:    strings.ToLower(getEnv("OTEL_TRACES_EXPORTER", "none")),
		StudyOwnerID:      getEnv("STUDY_OWNER_ID", ""),
	}

	// Validate required fields
	if cfg.DBDatabase == "" {
		return nil, fmt.Errorf("DB_DATABASE is required")
	}
	if cfg.DBConnectionLimit < 1 {
		cfg.DBConnectionLimit = 1
	}

	return cfg, nil
}

// ValidateServer checks the settings only the HTTP server needs
func (c *Config) ValidateServer() error {
	if c.JWTSecret == "" && !c.AuthorizerEnabled() {
		return errors.New("JWT_SECRET or AUTHZ_URL and AUTHZ_CLIENT_ID are required")
	}
	if (c.AuthzURL == "") != (c.AuthzClientID == "") {
		return errors.New("AUTHZ_URL and AUTHZ_CLIENT_ID must be set together")
	}
	return nil
}

// AuthorizerEnabled reports whether session cookies are validated against an Authorizer service
func (c *Config) AuthorizerEnabled() bool {
	return c.AuthzURL != "" && c.AuthzClientID != ""
}

// IsProduction reports whether ENV names a production deployment
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
