package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file name inside the config directory.
const FileName = "frontline.yaml"

// Load loads the engine configuration.
// Search order: customPath -> <configDir>/frontline.yaml -> ./configs/frontline.yaml -> embedded default
func Load(customPath, configDir string) (Config, error) {
	cfg := Default()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		cfg.Normalize()
		return cfg, nil
	}

	// Try user config directory
	if configDir != "" {
		if data, err := os.ReadFile(filepath.Join(configDir, FileName)); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				cfg.Normalize()
				return cfg, nil
			}
			cfg = Default()
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", FileName)); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			cfg.Normalize()
			return cfg, nil
		}
		cfg = Default()
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	cfg.Normalize()
	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func Save(cfg Config, path string) error {
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// Saver persists a configuration to a fixed path. The engine calls it on
// application quit.
type Saver struct {
	Path   string
	Config *Config
	// Sync, when set, copies live settings into Config before writing.
	Sync func(*Config)
}

// SaveConfig writes the current configuration.
func (s Saver) SaveConfig() error {
	if s.Config == nil || s.Path == "" {
		return nil
	}
	if s.Sync != nil {
		s.Sync(s.Config)
	}
	return Save(*s.Config, s.Path)
}
