package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"qset.lopezb.com/internal/quickset"
)

// FileConfig is the optional YAML configuration of the server.
//
//	defaults:
//	  mode: winsum
//	  slot: 16
//	sets:
//	  ports:
//	    span: 65535
//	    slot: 32
//
// Defaults apply to every set a write command creates on a missing key.
// Each entry under sets is created at startup; fields it leaves out are
// taken from defaults.
type FileConfig struct {
	Defaults quickset.Config
	Sets     map[string]quickset.Config
}

type rawFileConfig struct {
	Defaults yaml.Node            `yaml:"defaults"`
	Sets     map[string]yaml.Node `yaml:"sets"`
}

// serverDefaults is the set configuration used when no file overrides it.
func serverDefaults() quickset.Config {
	cfg := quickset.DefaultConfig()
	cfg.Slot = quickset.RecommendedSlots
	return cfg
}

// LoadConfig reads and validates the configuration file at filePath. An
// empty path yields the built-in defaults and no preset sets.
func LoadConfig(filePath string) (*FileConfig, error) {
	cfg := &FileConfig{
		Defaults: serverDefaults(),
		Sets:     make(map[string]quickset.Config),
	}
	if filePath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var raw rawFileConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	// Decoding onto a populated struct keeps the fields a node omits.
	if !raw.Defaults.IsZero() {
		if err := raw.Defaults.Decode(&cfg.Defaults); err != nil {
			return nil, fmt.Errorf("failed to decode defaults: %w", err)
		}
	}
	for name, node := range raw.Sets {
		set := cfg.Defaults
		if err := node.Decode(&set); err != nil {
			return nil, fmt.Errorf("failed to decode set %q: %w", name, err)
		}
		cfg.Sets[name] = set
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every configured set can be built. Nothing is
// allocated; createSets builds the sets.
func (c *FileConfig) Validate() error {
	if err := c.Defaults.Validate(); err != nil {
		return fmt.Errorf("invalid defaults: %w", err)
	}
	for name, set := range c.Sets {
		if err := set.Validate(); err != nil {
			return fmt.Errorf("invalid set %q: %w", name, err)
		}
	}
	return nil
}
