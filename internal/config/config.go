// Package config handles configuration loading for the member portal.
package config

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// CookieConfig controls how the session cookie is written.
type CookieConfig struct {
	Path     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

// Config holds all configuration for the member portal. It is built once
// at process start and passed by reference; nothing mutates it afterwards.
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	SessionSecret    string
	SessionMaxAge    time.Duration
	SessionUpdateAge time.Duration

	LockoutMaxAttempts int
	LockoutWindow      time.Duration

	AttemptRetention time.Duration

	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string

	AllowedOrigins []string
	Cookie         CookieConfig

	Port        string
	Environment string
	SwaggerHost string
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		DBHost:     getEnvRequired("DB_HOST"),
		DBPort:     getEnvRequired("DB_PORT"),
		DBUser:     getEnvRequired("DB_USER"),
		DBPassword: getEnvRequired("DB_PASSWORD"),
		DBName:     getEnvRequired("DB_NAME"),

		RedisHost:     getEnvRequired("REDIS_HOST"),
		RedisPort:     getEnvRequired("REDIS_PORT"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		SessionSecret:    getEnvRequired("SESSION_SECRET"),
		SessionMaxAge:    parseDuration(getEnv("SESSION_MAX_AGE", "1h"), time.Hour),
		SessionUpdateAge: parseDuration(getEnv("SESSION_UPDATE_AGE", "24h"), 24*time.Hour),

		LockoutMaxAttempts: getEnvInt("LOCKOUT_MAX_ATTEMPTS", 5),
		LockoutWindow:      time.Duration(getEnvInt("LOCKOUT_WINDOW_MINUTES", 30)) * time.Minute,

		AttemptRetention: time.Duration(getEnvInt("ATTEMPT_RETENTION_DAYS", 30)) * 24 * time.Hour,

		S3Bucket:       getEnv("S3_BUCKET", ""),
		S3Region:       getEnv("S3_REGION", "us-east-1"),
		S3BaseEndpoint: getEnv("S3_ENDPOINT", ""),
		S3AccessKey:    getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:    getEnv("S3_SECRET_KEY", ""),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		Cookie: CookieConfig{
			Path:     "/",
			Domain:   getEnv("COOKIE_DOMAIN", ""),
			Secure:   getEnv("COOKIE_SECURE", "false") == "true",
			SameSite: http.SameSiteLaxMode,
		},

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		SwaggerHost: getEnv("SWAGGER_HOST", ""),
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getEnvRequired(key string) string {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		log.Fatalf("required environment variable %s is not set", key)
	}
	return val
}

func getEnvInt(key string, fallback int) int {
	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}

func parseDuration(value string, defaultValue time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
