package cmd

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/docdex/docdex/pkg/config"
	"github.com/docdex/docdex/pkg/core"
)

// createProvidersFromConfig instantiates every provider declared in the
// config file into the registry.
func createProvidersFromConfig(registry *core.Registry, cfg *config.Config) error {
	for name := range cfg.Providers {
		providerType, rawConfig, err := cfg.GetProviderConfig(name)
		if err != nil {
			return fmt.Errorf("getting config for provider %s: %w", name, err)
		}

		typedConfig, err := convertRawConfigToType(registry, providerType, rawConfig)
		if err != nil {
			return fmt.Errorf("converting config for provider %s: %w", name, err)
		}

		if err := registry.CreateProvider(name, providerType, typedConfig); err != nil {
			return fmt.Errorf("creating provider %s: %w", name, err)
		}
	}

	return nil
}

// convertRawConfigToType converts the raw TOML config section into the
// provider prototype's expected config type by marshaling through TOML.
func convertRawConfigToType(registry *core.Registry, providerType string, rawConfig interface{}) (interface{}, error) {
	prototype, err := registry.GetPrototype(providerType)
	if err != nil {
		return nil, err
	}

	configType := prototype.ConfigType()
	if rawConfig == nil || configType == nil {
		return configType, nil
	}

	configData, err := toml.Marshal(rawConfig)
	if err != nil {
		return nil, fmt.Errorf("marshaling config data: %w", err)
	}

	if err := toml.Unmarshal(configData, configType); err != nil {
		return nil, fmt.Errorf("unmarshaling provider config: %w", err)
	}

	return configType, nil
}
