package config

import (
	"strings"
	"testing"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "UPLOAD_DIR", "ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %q", cfg.Port)
	}
	if cfg.UploadDir != "uploads" {
		t.Errorf("expected default upload dir, got %q", cfg.UploadDir)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Errorf("expected default origins [*], got %v", cfg.AllowedOrigins)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "chat_prod")
	t.Setenv("ALLOWED_ORIGINS", "https://chat.example.com, https://chat2.example.com")

	cfg := FromEnv()
	if cfg.Port != "9000" {
		t.Errorf("expected port 9000, got %q", cfg.Port)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.AllowedOrigins)
	}
	if cfg.AllowedOrigins[1] != "https://chat2.example.com" {
		t.Errorf("expected trimmed origin, got %q", cfg.AllowedOrigins[1])
	}

	conn := cfg.ConnString()
	for _, part := range []string{"host=db.internal", "dbname=chat_prod", "sslmode=disable"} {
		if !strings.Contains(conn, part) {
			t.Errorf("expected connection string to contain %q, got %q", part, conn)
		}
	}
}
