package shared

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Server.Port != 8501 {
			t.Errorf("expected server port 8501, got %d", config.Server.Port)
		}
		if config.Sessions.Path != "./walkerbrain.db" {
			t.Errorf("expected sessions path ./walkerbrain.db, got %s", config.Sessions.Path)
		}
		if config.Database.QueryCacheTTL != 300 {
			t.Errorf("expected query cache ttl 300, got %d", config.Database.QueryCacheTTL)
		}
		if config.Database.OptionsCacheTTL != 3600 {
			t.Errorf("expected options cache ttl 3600, got %d", config.Database.OptionsCacheTTL)
		}
		if config.Sessions.IdleTimeout() != 8*time.Hour {
			t.Errorf("expected idle timeout 8h, got %s", config.Sessions.IdleTimeout())
		}
		if !config.Metrics.Enabled || config.Metrics.Path != "/metrics" {
			t.Errorf("expected metrics enabled at /metrics, got %+v", config.Metrics)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "secrets.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		info, err := os.Stat(configPath)
		if err != nil {
			t.Fatalf("config file should exist: %v", err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}
		if config.Server.Addr() != DefaultConfig().Server.Addr() {
			t.Errorf("created config address doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "secrets.toml")

		testConfig := `[auth]
password = "team-pass"
admin_password = "admin-pass"

[database]
url = "https://example.supabase.co"
key = "anon-key"
timeout_seconds = 5

[server]
host = "0.0.0.0"
port = 8080
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Auth.Password != "team-pass" || config.Auth.AdminPassword != "admin-pass" {
			t.Errorf("unexpected auth config: %+v", config.Auth)
		}
		if config.Database.URL != "https://example.supabase.co" {
			t.Errorf("expected database url, got %s", config.Database.URL)
		}
		if config.Database.Timeout() != 5*time.Second {
			t.Errorf("expected 5s timeout, got %s", config.Database.Timeout())
		}
		if config.Server.Addr() != "0.0.0.0:8080" {
			t.Errorf("expected 0.0.0.0:8080, got %s", config.Server.Addr())
		}
		if config.Database.QueryCacheTTL != 300 {
			t.Errorf("unset keys should keep defaults, got query ttl %d", config.Database.QueryCacheTTL)
		}
		if err := config.Validate(); err != nil {
			t.Errorf("expected valid config, got %v", err)
		}
	})

	t.Run("LoadConfig Invalid", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "secrets.toml")
		if err := os.WriteFile(configPath, []byte("[auth\npassword="), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); err == nil {
			t.Error("expected parse error for malformed toml")
		}

		if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("Validate", func(t *testing.T) {
		config := DefaultConfig()
		err := config.Validate()
		if !errors.Is(err, ErrMissingConfig) {
			t.Fatalf("expected ErrMissingConfig, got %v", err)
		}
		for _, key := range []string{"auth.password", "auth.admin_password", "database.url", "database.key"} {
			if !strings.Contains(err.Error(), key) {
				t.Errorf("expected %s in %q", key, err.Error())
			}
		}

		config.Auth = AuthConfig{Password: "a", AdminPassword: "b"}
		config.Database.URL = "https://example.supabase.co"
		config.Database.Key = "k"
		config.Server.Port = 70000
		if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig for bad port, got %v", err)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		envPath := filepath.Join(t.TempDir(), ".env")
		env := "WB_DATABASE_URL=https://from-file.supabase.co\nWB_DATABASE_KEY=file-key\n"
		if err := os.WriteFile(envPath, []byte(env), 0644); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}

		t.Setenv("WB_DATABASE_URL", "")
		t.Setenv("WB_DATABASE_KEY", "")
		os.Unsetenv("WB_DATABASE_URL")
		os.Unsetenv("WB_DATABASE_KEY")
		t.Setenv("WB_AUTH_PASSWORD", "env-pass")
		t.Setenv("WB_SERVER_PORT", "9090")

		config := DefaultConfig()
		if err := config.ApplyEnv(envPath); err != nil {
			t.Fatalf("ApplyEnv failed: %v", err)
		}

		if config.Auth.Password != "env-pass" {
			t.Errorf("expected password from env, got %q", config.Auth.Password)
		}
		if config.Database.URL != "https://from-file.supabase.co" || config.Database.Key != "file-key" {
			t.Errorf("expected database settings from env file, got %+v", config.Database)
		}
		if config.Server.Port != 9090 {
			t.Errorf("expected port 9090, got %d", config.Server.Port)
		}
	})

	t.Run("ApplyEnv Bad Port", func(t *testing.T) {
		t.Setenv("WB_SERVER_PORT", "eighty")

		config := DefaultConfig()
		if err := config.ApplyEnv(""); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}
