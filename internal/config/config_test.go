package config

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/docuvault/docuvault/pkg/logger"
)

func TestLoadConfig(t *testing.T) {
	os.Setenv("MONGODB_URI", "mongodb://localhost:27017/testdb")
	os.Setenv("MONGODB_DATABASE", "docuvault_test")
	os.Setenv("REDIS_HOST", "localhost")
	os.Setenv("REDIS_PORT", "6379")
	os.Setenv("JWT_SECRET", "testsecret123456789012345678901234")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.MongoDB.URI == "" || cfg.Redis.Host == "" {
		t.Fatalf("unexpected empty config values: %+v", cfg)
	}
	if cfg.Auth.AdminRoleID != 1 {
		t.Fatalf("expected default admin role id 1, got %d", cfg.Auth.AdminRoleID)
	}
}

func TestLoadConfig_AdminRoleOverride(t *testing.T) {
	os.Setenv("ADMIN_ROLE_ID", "7")
	defer os.Unsetenv("ADMIN_ROLE_ID")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Auth.AdminRoleID != 7 {
		t.Fatalf("expected admin role id 7, got %d", cfg.Auth.AdminRoleID)
	}
}

func TestLoadConfig_WarnsWhenSecretMissing(t *testing.T) {
	os.Unsetenv("JWT_SECRET")

	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(os.Stdout)

	if _, err := LoadConfig(); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "[WARN]") || !strings.Contains(out, "JWT_SECRET") {
		t.Fatalf("expected a JWT_SECRET warning, got %q", out)
	}
}
