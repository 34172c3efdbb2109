package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"stereo3d/internal/configdir"
)

const systemConfigFile = "config.yaml"

// Load builds the configuration.
// Priority: defaults < system config < explicit file (when path is non-empty)
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	systemPath := SystemConfigPath()
	if err := mergeConfigFile(&cfg, systemPath); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("failed to load system config: %w", err)
		}
		// System config not existing is OK, continue with defaults
	}

	if path != "" {
		if err := mergeConfigFile(&cfg, path); err != nil {
			return cfg, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	}

	cfg.normalize()

	if validationErrors := cfg.Validate(); len(validationErrors) > 0 {
		return cfg, fmt.Errorf("config.validation.error: %v", formatValidationErrors(validationErrors))
	}

	return cfg, nil
}

// mergeConfigFile decodes a YAML file over cfg. Keys absent from the file keep
// their current values; lists present in the file replace the current list.
func mergeConfigFile(cfg *Config, path string) error {
	data, err := os.ReadFile(filepath.Clean(path)) // #nosec G304 -- path is the system config or an operator supplied flag
	if err != nil {
		return err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	return nil
}

// normalize canonicalizes case-insensitive values before validation.
func (c *Config) normalize() {
	c.Registry.Hive = strings.ToUpper(strings.TrimSpace(c.Registry.Hive))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
}

// SystemConfigPath returns the path to the system configuration file
func SystemConfigPath() string {
	return filepath.Join(configdir.ConfigDir(), systemConfigFile)
}
