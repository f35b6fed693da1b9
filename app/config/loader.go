package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader is the narrow interface the core depends on; production TOML
// parsing and config-file discovery are an external, non-goal concern that
// only needs to produce a *Config this way.
type Loader interface {
	Load(path string) (*Config, error)
}

// YAMLLoader reads a Config from a single YAML document, following the
// teacher's feed_config.Loader.loadFile idiom (gopkg.in/yaml.v3, read then
// unmarshal then validate) for the demo entrypoint and tests; it is not
// the production TOML loader spec §1 carves out as an external collaborator.
type YAMLLoader struct{}

var _ Loader = YAMLLoader{}

func (YAMLLoader) Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config: invalid %s: %w", path, err)
	}
	return &cfg, nil
}
