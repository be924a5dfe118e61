package integration_tests

import (
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/docdex/docdex/pkg/config"
	"github.com/docdex/docdex/pkg/core"
)

// createProviders instantiates every provider declared in cfg, converting
// each raw TOML section into the prototype's config type the same way the
// CLI does.
func createProviders(t *testing.T, registry *core.Registry, cfg *config.Config) {
	t.Helper()

	for name := range cfg.Providers {
		providerType, rawConfig, err := cfg.GetProviderConfig(name)
		if err != nil {
			t.Fatalf("Getting config for provider %s: %v", name, err)
		}

		prototype, err := registry.GetPrototype(providerType)
		if err != nil {
			t.Fatalf("Looking up prototype %s: %v", providerType, err)
		}

		typedConfig := prototype.ConfigType()
		if rawConfig != nil && typedConfig != nil {
			data, err := toml.Marshal(rawConfig)
			if err != nil {
				t.Fatalf("Marshaling config for provider %s: %v", name, err)
			}
			if err := toml.Unmarshal(data, typedConfig); err != nil {
				t.Fatalf("Unmarshaling config for provider %s: %v", name, err)
			}
		}

		if err := registry.CreateProvider(name, providerType, typedConfig); err != nil {
			t.Fatalf("Creating provider %s: %v", name, err)
		}
	}
}
