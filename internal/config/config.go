package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Observability
	SentryDSN         string
	AppEnv            string
	LogRetentionDays  int
	RecipeListMaximum int

	// Server
	Port          string
	CORSOrigins   string
	RateLimit     int
	AuthRateLimit int
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "cuisineo"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"), 15*time.Minute),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"), 168*time.Hour),

		SentryDSN:         getEnv("SENTRY_DSN", ""),
		AppEnv:            getEnv("APP_ENV", "development"),
		LogRetentionDays:  parseInt(getEnv("LOG_RETENTION_DAYS", "30"), 30),
		RecipeListMaximum: parseInt(getEnv("RECIPE_LIST_MAX", "500"), 500),

		Port:          getEnv("PORT", "8080"),
		CORSOrigins:   getEnv("CORS_ORIGINS", "*"),
		RateLimit:     parseInt(getEnv("RATE_LIMIT", "60"), 60),
		AuthRateLimit: parseInt(getEnv("AUTH_RATE_LIMIT", "10"), 10),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// ClientConfig configures the cuisineo terminal application.
type ClientConfig struct {
	APIURL      string
	CachePath   string
	HTTPTimeout time.Duration
}

func LoadClient() *ClientConfig {
	return &ClientConfig{
		APIURL:      getEnv("CUISINEO_API_URL", "http://localhost:8080"),
		CachePath:   getEnv("CUISINEO_CACHE", defaultCachePath()),
		HTTPTimeout: parseDuration(getEnv("CUISINEO_HTTP_TIMEOUT", "10s"), 10*time.Second),
	}
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".cuisineo", "cache.db")
	}
	return filepath.Join(home, ".cuisineo", "cache.db")
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
