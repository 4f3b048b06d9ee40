// Package config loads server configuration from environment variables,
// falling back to development defaults.
package config

import (
	"os"
	"strings"
)

// Config holds the runtime settings for the chat server.
type Config struct {
	Port           string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	UploadDir      string
	AllowedOrigins []string
}

// FromEnv creates a Config populated from environment variables.
// Unset variables fall back to default values.
func FromEnv() *Config {
	return &Config{
		Port:           getEnv("PORT", "8000"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", "postgres"),
		DBName:         getEnv("DB_NAME", "chat_app"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "*")),
	}
}

// ConnString builds the lib/pq connection string for the configured database.
func (c *Config) ConnString() string {
	return "host=" + c.DBHost +
		" port=" + c.DBPort +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" sslmode=disable"
}

func getEnv(key string, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func parseOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
