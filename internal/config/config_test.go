package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("PORT")
	os.Unsetenv("DATA_DIR")
	os.Unsetenv("SESSION_TTL_MINUTES")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.DataDir != "./data" {
		t.Errorf("expected default data dir ./data, got %s", cfg.DataDir)
	}
	if cfg.SessionTTLMinutes != 120 {
		t.Errorf("expected default session TTL 120, got %d", cfg.SessionTTLMinutes)
	}
	if cfg.OTPTTLMinutes != 5 {
		t.Errorf("expected default OTP TTL 5, got %d", cfg.OTPTTLMinutes)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	os.Setenv("PORT", "9090")
	os.Setenv("DATA_DIR", "/tmp/medirecord-test")
	os.Setenv("ADMIN_IDENTITY_ID", "999999999999")
	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("DATA_DIR")
		os.Unsetenv("ADMIN_IDENTITY_ID")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.DataDir != "/tmp/medirecord-test" {
		t.Errorf("expected data dir /tmp/medirecord-test, got %s", cfg.DataDir)
	}
	if cfg.AdminIdentityID != "999999999999" {
		t.Errorf("expected admin identity to be set, got %s", cfg.AdminIdentityID)
	}
}

func TestConfig_IsDev(t *testing.T) {
	c := &Config{Env: "development"}
	if !c.IsDev() {
		t.Error("expected IsDev() to return true for development")
	}

	c.Env = "production"
	if c.IsDev() {
		t.Error("expected IsDev() to return false for production")
	}
}

func TestValidate_RequiresSecretOutsideDev(t *testing.T) {
	c := &Config{Env: "production", SessionTTLMinutes: 120, OTPTTLMinutes: 5}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error when SESSION_SECRET missing in production")
	}

	c.SessionSecret = "super-secret"
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_DevAllowsEmptySecret(t *testing.T) {
	c := &Config{Env: "development", SessionTTLMinutes: 120, OTPTTLMinutes: 5}
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_RejectsBadTTL(t *testing.T) {
	c := &Config{Env: "development", SessionTTLMinutes: 0, OTPTTLMinutes: 5}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for non-positive session TTL")
	}
}
