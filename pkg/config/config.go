package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

//go:embed config.toml.sample
var configTemplate string

// DefaultListenAddr is where the serve command binds its HTTP host.
const DefaultListenAddr = "127.0.0.1:8847"

type Config struct {
	// MinQueryLength is the minimum leading-token length required before
	// any query fans out to providers.
	MinQueryLength int `toml:"min_query_length"`

	// ListenAddr is the address the HTTP host binds to.
	ListenAddr string `toml:"listen_addr"`

	Providers map[string]ProviderInfo `toml:"providers"`
}

type ProviderInfo struct {
	Type   string      `toml:"type"`
	Config interface{} `toml:"config"`
}

func GetDefaultConfig() *Config {
	return &Config{
		MinQueryLength: 1,
		ListenAddr:     DefaultListenAddr,
		Providers: map[string]ProviderInfo{
			"dash": {Type: "dash"},
		},
	}
}

func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if config.MinQueryLength < 1 {
		config.MinQueryLength = 1
	}
	if config.ListenAddr == "" {
		config.ListenAddr = DefaultListenAddr
	}
	if config.Providers == nil {
		config.Providers = make(map[string]ProviderInfo)
	}

	return &config, nil
}

func (c *Config) SaveConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// SaveTemplateConfig writes the annotated sample configuration, used by
// the init command so a fresh config file documents every option.
func (c *Config) SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return os.WriteFile(configPath, []byte(configTemplate), 0644)
}

func (c *Config) GetProviderConfig(name string) (string, interface{}, error) {
	info, exists := c.Providers[name]
	if !exists {
		return "", nil, fmt.Errorf("provider %s not found", name)
	}

	return info.Type, info.Config, nil
}

func (c *Config) ListProviders() []string {
	names := make([]string, 0, len(c.Providers))
	for name := range c.Providers {
		names = append(names, name)
	}
	return names
}

// GetConfigDir returns the configuration directory for docdex
func GetConfigDir() (string, error) {
	// Use XDG_CONFIG_HOME if set, otherwise use ~/.config
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	docdexConfigDir := filepath.Join(configDir, "docdex")

	if err := os.MkdirAll(docdexConfigDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory %s: %w", docdexConfigDir, err)
	}

	return docdexConfigDir, nil
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// GetDefaultDataDir returns the XDG data directory for the current user,
// used by providers to locate docsets installed by other tools.
func GetDefaultDataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}
	return dataDir, nil
}
