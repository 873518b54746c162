// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
	"github.com/pelletier/go-toml/v2"
)

// Loader loads configuration from TOML files.
type Loader struct {
	dataDir       string // Per-instance data directory
	globalConfDir string // Global config directory (e.g., ~/.config/taskflow)
}

// NewLoader creates a new Loader.
func NewLoader(dataDir string) *Loader {
	return &Loader{
		dataDir:       dataDir,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config
// directory. This is useful for testing.
func NewLoaderWithGlobalDir(dataDir, globalConfDir string) *Loader {
	return &Loader{
		dataDir:       dataDir,
		globalConfDir: globalConfDir,
	}
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "taskflow")
}

// Load returns the merged configuration: defaults, overlaid by the global
// file, overlaid by the data-dir file. Missing files are fine; a malformed
// file is an error the caller surfaces.
func (l *Loader) Load() (*domain.Config, error) {
	cfg := domain.DefaultConfig()

	if l.globalConfDir != "" {
		if err := mergeFile(filepath.Join(l.globalConfDir, domain.ConfigFileName), cfg); err != nil {
			return nil, err
		}
	}
	if l.dataDir != "" {
		if err := mergeFile(filepath.Join(l.dataDir, domain.ConfigFileName), cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// mergeFile unmarshals path over cfg when the file exists.
func mergeFile(path string, cfg *domain.Config) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(content, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// WriteDefault writes the default configuration to the data directory if no
// config file exists there yet.
func (l *Loader) WriteDefault() error {
	path := filepath.Join(l.dataDir, domain.ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	content, err := toml.Marshal(domain.DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	if err := os.MkdirAll(l.dataDir, 0o750); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	return nil
}
