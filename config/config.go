package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. VERSIONPANEL_SITE_ROOT or
// VERSIONPANEL_HTTP__ADDR for nested keys.
const EnvPrefix = "VERSIONPANEL_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.SiteRoot == "" {
		return fmt.Errorf("site_root is required")
	}
	if c.VersionsFile == "" {
		return fmt.Errorf("versions_file is required")
	}
	if strings.TrimSpace(c.ContainerClass) == "" || len(strings.Fields(c.ContainerClass)) != 1 {
		return fmt.Errorf("invalid container_class %q: must be a single class name", c.ContainerClass)
	}
	if len(c.Include) == 0 {
		return fmt.Errorf("include must not be empty")
	}
	for _, pattern := range append(append([]string{}, c.Include...), c.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid glob pattern %q", pattern)
		}
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}
	if !strings.HasPrefix(c.HTTP.Endpoint, "/") || c.HTTP.Endpoint == "/" {
		return fmt.Errorf("invalid http.endpoint %q: must be a path below /", c.HTTP.Endpoint)
	}
	return nil
}

// VersionsPath returns the versions file path, resolved against the site root.
func (c *Config) VersionsPath() string {
	if filepath.IsAbs(c.VersionsFile) {
		return c.VersionsFile
	}
	return filepath.Join(c.SiteRoot, c.VersionsFile)
}
