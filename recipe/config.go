package recipe

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the conventional recipe configuration file name.
const ConfigFile = "camp.yaml"

// Config is the on-disk recipe configuration.
type Config struct {
	Name    string  `yaml:"name"`
	Version string  `yaml:"version"`
	Options Options `yaml:"options"`

	Build  BuildConfig  `yaml:"build"`
	Python PythonConfig `yaml:"python"`
}

// BuildConfig selects how the native build is driven.
type BuildConfig struct {
	System    string `yaml:"system"`    // "cmake" (default) or "autotools"
	Type      string `yaml:"type"`      // CMAKE_BUILD_TYPE, default Release
	Generator string `yaml:"generator"` // cmake generator, optional
	Source    string `yaml:"source"`    // source dir, default "."
}

// PythonConfig declares a packaged interpreter. When CustomVersion is set,
// live version discovery is skipped and the executable comes from the named
// dependency.
type PythonConfig struct {
	CustomVersion string `yaml:"custom_version"`
	Dependency    string `yaml:"dependency"`
}

// LoadConfig reads and parses a recipe configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig parses a recipe configuration and fills defaults.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.Name == "" {
		return nil, fmt.Errorf("recipe config: name is required")
	}
	if cfg.Options == nil {
		cfg.Options = Options{}
	}
	switch cfg.Build.System {
	case "":
		cfg.Build.System = "cmake"
	case "cmake", "autotools":
	default:
		return nil, fmt.Errorf("recipe config: unknown build system %q", cfg.Build.System)
	}
	if cfg.Build.Type == "" {
		cfg.Build.Type = "Release"
	}
	if cfg.Build.Source == "" {
		cfg.Build.Source = "."
	}
	return &cfg, nil
}
