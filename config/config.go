// Package config loads the bundle settings of the icnspack command from
// a YAML file and the environment.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by ParseEnv.
const EnvPrefix = "ICNSPACK_"

// Config represents the bundle configuration.
type Config struct {
	ProductName  string        `yaml:"product_name" env:"PRODUCT_NAME"`
	OutDir       string        `yaml:"out_dir" env:"OUT_DIR"`
	Icons        []string      `yaml:"icons" env:"ICONS" envSeparator:","`
	Workers      int           `yaml:"workers" env:"WORKERS"`
	DeferResized bool          `yaml:"defer_resized" env:"DEFER_RESIZED"`
	Catalog      CatalogConfig `yaml:"catalog" envPrefix:"CATALOG_"`
}

// CatalogConfig configures the asset catalog compiler path.
type CatalogConfig struct {
	Actool     string `yaml:"actool" env:"ACTOOL"`
	Assetutil  string `yaml:"assetutil" env:"ASSETUTIL"`
	MinVersion string `yaml:"min_version" env:"MIN_VERSION"`
	// Exclusive makes catalog failures fatal instead of warnings.
	Exclusive bool `yaml:"exclusive" env:"EXCLUSIVE"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		ProductName: "icon",
		OutDir:      ".",
		Catalog: CatalogConfig{
			MinVersion: "26.0",
		},
	}
}

// Load reads and parses the configuration file on top of the defaults,
// then applies the environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ParseEnv overrides the fields of cfg for which an ICNSPACK_ variable is set.
func ParseEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks if the configuration fields hold usable values.
func (c *Config) Validate() error {
	if c.ProductName == "" {
		return fmt.Errorf("product_name is required")
	}
	if c.OutDir == "" {
		return fmt.Errorf("out_dir is required")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	return nil
}
