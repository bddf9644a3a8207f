package config

import (
	"os"
	"path/filepath"
	"testing"
)

var managedVars = []string{
	"STOREOPS_CONFIG_FILE",
	"STOREOPS_HTTP_PORT",
	"STOREOPS_SQLITE_DSN",
	"STOREOPS_LOG_LEVEL",
	"STOREOPS_EXPANSION_HORIZON_DAYS",
	"STOREOPS_EXPANSION_SCHEDULE",
}

func clearEnvironment(t *testing.T) {
	t.Helper()
	for _, key := range managedVars {
		if value, ok := os.LookupEnv(key); ok {
			t.Setenv(key, value)
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("failed to unset %s: %v", key, err)
			}
		}
	}
}

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		clearEnvironment(t)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:storeops.db" {
			t.Fatalf("unexpected default DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.LogLevel != "info" {
			t.Fatalf("unexpected default log level: %q", cfg.LogLevel)
		}
		if cfg.ExpansionHorizonDays != 28 {
			t.Fatalf("expected default horizon of 28 days, got %d", cfg.ExpansionHorizonDays)
		}
		if cfg.ExpansionSchedule != "30 2 * * *" {
			t.Fatalf("unexpected default schedule: %q", cfg.ExpansionSchedule)
		}
	})

	t.Run("reads overrides from the environment", func(t *testing.T) {
		clearEnvironment(t)
		t.Setenv("STOREOPS_HTTP_PORT", "9090")
		t.Setenv("STOREOPS_SQLITE_DSN", "file:/var/lib/storeops/store.db")
		t.Setenv("STOREOPS_LOG_LEVEL", "DEBUG")
		t.Setenv("STOREOPS_EXPANSION_HORIZON_DAYS", "14")
		t.Setenv("STOREOPS_EXPANSION_SCHEDULE", "0 4 * * *")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:/var/lib/storeops/store.db" {
			t.Fatalf("unexpected DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.LogLevel != "debug" {
			t.Fatalf("expected log level lowered to debug, got %q", cfg.LogLevel)
		}
		if cfg.ExpansionHorizonDays != 14 {
			t.Fatalf("expected horizon 14, got %d", cfg.ExpansionHorizonDays)
		}
		if cfg.ExpansionSchedule != "0 4 * * *" {
			t.Fatalf("unexpected schedule: %q", cfg.ExpansionSchedule)
		}
	})

	t.Run("errors on invalid values", func(t *testing.T) {
		clearEnvironment(t)
		t.Setenv("STOREOPS_HTTP_PORT", "not-a-port")
		t.Setenv("STOREOPS_EXPANSION_HORIZON_DAYS", "-3")

		_, err := Load()
		if err == nil {
			t.Fatal("expected error for invalid values")
		}
		expected := "invalid configuration values: STOREOPS_HTTP_PORT, STOREOPS_EXPANSION_HORIZON_DAYS"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("rejects unknown log levels", func(t *testing.T) {
		clearEnvironment(t)
		t.Setenv("STOREOPS_LOG_LEVEL", "verbose")

		if _, err := Load(); err == nil {
			t.Fatal("expected error for unknown log level")
		}
	})
}

func TestLoader_ConfigFile(t *testing.T) {

	t.Run("file values override defaults", func(t *testing.T) {
		clearEnvironment(t)
		path := filepath.Join(t.TempDir(), "storeops.yaml")
		contents := "http_port: 9191\nlog_level: warn\nexpansion_horizon_days: 7\n"
		if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}
		t.Setenv("STOREOPS_CONFIG_FILE", path)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9191 {
			t.Fatalf("expected port 9191 from file, got %d", cfg.HTTPPort)
		}
		if cfg.LogLevel != "warn" {
			t.Fatalf("expected log level warn from file, got %q", cfg.LogLevel)
		}
		if cfg.ExpansionHorizonDays != 7 {
			t.Fatalf("expected horizon 7 from file, got %d", cfg.ExpansionHorizonDays)
		}
		if cfg.SQLiteDSN != "file:storeops.db" {
			t.Fatalf("untouched values should keep defaults, got %q", cfg.SQLiteDSN)
		}
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		clearEnvironment(t)
		path := filepath.Join(t.TempDir(), "storeops.yaml")
		if err := os.WriteFile(path, []byte("http_port: 9191\n"), 0o600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}
		t.Setenv("STOREOPS_CONFIG_FILE", path)
		t.Setenv("STOREOPS_HTTP_PORT", "9393")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.HTTPPort != 9393 {
			t.Fatalf("expected environment to win, got %d", cfg.HTTPPort)
		}
	})

	t.Run("errors when the file is missing", func(t *testing.T) {
		clearEnvironment(t)
		t.Setenv("STOREOPS_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

		if _, err := Load(); err == nil {
			t.Fatal("expected error for missing config file")
		}
	})

	t.Run("errors when the file is malformed", func(t *testing.T) {
		clearEnvironment(t)
		path := filepath.Join(t.TempDir(), "storeops.yaml")
		if err := os.WriteFile(path, []byte("http_port: [nope\n"), 0o600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}
		t.Setenv("STOREOPS_CONFIG_FILE", path)

		if _, err := Load(); err == nil {
			t.Fatal("expected error for malformed config file")
		}
	})
}
