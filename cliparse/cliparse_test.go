// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"testing"
	"time"
)

func TestParseFlags_EnvVars(t *testing.T) {
	// Set env vars
	os.Setenv("PORT", "9000")
	os.Setenv("DATABASE_URL", "postgres://test")
	os.Setenv("DATABASE_TYPE", "postgres")
	os.Setenv("ADMIN_KEY_SALT", "test-salt")
	os.Setenv("ELECTION_SLUG_SALT", "test-slug")
	os.Setenv("SCHEDULER_INTERVAL", "30s")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("expected postgres, got %s", cfg.DatabaseType)
	}
	if cfg.SchedulerInterval != 30*time.Second {
		t.Errorf("expected 30s interval, got %s", cfg.SchedulerInterval)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	os.Setenv("PORT", "9000")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-admin-salt", "s1", "-slug-salt", "s2"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	// Defaults when neither flag nor env is set
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected default sqlite, got %s", cfg.DatabaseType)
	}
	if cfg.SchedulerInterval != time.Minute {
		t.Errorf("expected default 1m interval, got %s", cfg.SchedulerInterval)
	}
}

func TestParseFlags_MemoryStoreNeedsNoURL(t *testing.T) {
	os.Clearenv()

	cfg, err := ParseFlags([]string{"-t", "memory", "-admin-salt", "s1", "-slug-salt", "s2"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DatabaseType != "memory" {
		t.Errorf("expected memory, got %s", cfg.DatabaseType)
	}
}

func TestParseFlags_Validation(t *testing.T) {
	os.Clearenv()

	tests := []struct {
		name string
		args []string
	}{
		{"missing database url", []string{"-admin-salt", "s1", "-slug-salt", "s2"}},
		{"missing admin salt", []string{"-t", "memory", "-slug-salt", "s2"}},
		{"missing slug salt", []string{"-t", "memory", "-admin-salt", "s1"}},
		{"unknown database type", []string{"-t", "oracle", "-d", "x", "-admin-salt", "s1", "-slug-salt", "s2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
