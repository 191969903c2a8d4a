package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Client.GetTimeout() != 30*time.Second {
		t.Errorf("Client timeout default = %v, want 30s", cfg.Client.GetTimeout())
	}
	if cfg.Client.RateLimit != 2 {
		t.Errorf("Client.RateLimit default = %d, want 2", cfg.Client.RateLimit)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level default = %q, want info", cfg.Logging.Level)
	}
}

func TestConfig_DataPathDefault(t *testing.T) {
	cfg := NewDefaultConfig()
	path, err := cfg.DataPath()
	if err != nil {
		t.Fatalf("DataPath() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	want := filepath.Join(home, ".ofxpostern")
	if path != want {
		t.Errorf("DataPath() = %q, want %q", path, want)
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("OFXPOSTERN_DATA_PATH", "/tmp/postern-data")
	t.Setenv("OFXPOSTERN_LOG_LEVEL", "debug")
	t.Setenv("OFXPOSTERN_CLIENT_TIMEOUT", "5s")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Storage.Path != "/tmp/postern-data" {
		t.Errorf("Storage.Path = %q after env override, want /tmp/postern-data", cfg.Storage.Path)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q after env override, want debug", cfg.Logging.Level)
	}
	if cfg.Client.GetTimeout() != 5*time.Second {
		t.Errorf("Client timeout = %v after env override, want 5s", cfg.Client.GetTimeout())
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := []byte("[client]\ntimeout = \"10s\"\nrate_limit = 1\n\n[logging]\nlevel = \"warn\"\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("failed to write config fixture: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Client.GetTimeout() != 10*time.Second {
		t.Errorf("Client timeout = %v, want 10s", cfg.Client.GetTimeout())
	}
	if cfg.Client.RateLimit != 1 {
		t.Errorf("Client.RateLimit = %d, want 1", cfg.Client.RateLimit)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
}

func TestLoadConfig_MissingFileIsSkipped(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("LoadConfig() error for missing file: %v", err)
	}
	if cfg.Client.RateLimit != 2 {
		t.Error("missing config file should fall back to defaults")
	}
}
