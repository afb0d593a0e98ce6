// Package config reads the server configuration from the environment.
package config

import (
	"os"
	"strings"
)

type Config struct {
	HTTPAddr       string
	DBPath         string
	AllowedOrigins []string
	UploadDir      string
	AvatarURLPath  string
	InsecureHTTP   bool
	SentryDSN      string
	Environment    string
	SessionHashKey string
	SessionBlock   string
}

// NewConfig builds a Config from environment variables, falling back to
// local development defaults.
func NewConfig() *Config {
	return &Config{
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		DBPath:         getEnv("DB_PATH", "fashionhub.db"),
		AllowedOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		UploadDir:      getEnv("UPLOAD_DIR", "data/uploads/avatars"),
		AvatarURLPath:  getEnv("AVATAR_URL_PATH", "/uploads/avatars"),
		InsecureHTTP:   getEnv("INSECURE_HTTP", "true") == "true",
		SentryDSN:      getEnv("SENTRY_DSN", ""),
		Environment:    getEnv("APP_ENV", "development"),
		SessionHashKey: getEnv("SESSION_HASH_KEY", ""),
		SessionBlock:   getEnv("SESSION_BLOCK_KEY", ""),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
