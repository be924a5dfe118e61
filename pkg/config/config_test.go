package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.MinQueryLength != 1 {
		t.Errorf("Expected default min_query_length 1, got %d", cfg.MinQueryLength)
	}
	if cfg.ListenAddr != DefaultListenAddr {
		t.Errorf("Expected default listen addr, got %q", cfg.ListenAddr)
	}
	if _, ok := cfg.Providers["dash"]; !ok {
		t.Error("Default config should register the dash provider")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
min_query_length = 2
listen_addr = "127.0.0.1:9000"

[providers.zeal]
type = "dash"

[providers.zeal.config]
docsets_dir = "/tmp/docsets"
result_limit = 10
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Writing config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.MinQueryLength != 2 {
		t.Errorf("Expected min_query_length 2, got %d", cfg.MinQueryLength)
	}
	if cfg.ListenAddr != "127.0.0.1:9000" {
		t.Errorf("Expected listen addr override, got %q", cfg.ListenAddr)
	}

	providerType, raw, err := cfg.GetProviderConfig("zeal")
	if err != nil {
		t.Fatalf("GetProviderConfig failed: %v", err)
	}
	if providerType != "dash" {
		t.Errorf("Expected provider type dash, got %q", providerType)
	}
	if raw == nil {
		t.Error("Expected raw provider config to be present")
	}

	if _, _, err := cfg.GetProviderConfig("missing"); err == nil {
		t.Error("Expected error for unknown provider")
	}
}

func TestLoadConfigClampsMinQueryLength(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("min_query_length = 0\n"), 0644); err != nil {
		t.Fatalf("Writing config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.MinQueryLength != 1 {
		t.Errorf("min_query_length below 1 should be raised to 1, got %d", cfg.MinQueryLength)
	}
}

func TestSaveAndReloadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := GetDefaultConfig()
	cfg.MinQueryLength = 3
	if err := cfg.SaveConfig(path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	reloaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if reloaded.MinQueryLength != 3 {
		t.Errorf("Expected min_query_length 3 after reload, got %d", reloaded.MinQueryLength)
	}
}

func TestSaveTemplateConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	if err := GetDefaultConfig().SaveTemplateConfig(path); err != nil {
		t.Fatalf("SaveTemplateConfig failed: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Template config should be loadable: %v", err)
	}
	if _, ok := cfg.Providers["dash"]; !ok {
		t.Error("Template config should configure the dash provider")
	}
}
