package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/andyrewlee/carousel/internal/store"
)

// KeyMapConfig holds user overrides for keybindings.
type KeyMapConfig struct {
	Bindings map[string][]string `json:"bindings,omitempty"`
}

// BindingFor returns the configured keys for an action, if present.
func (k KeyMapConfig) BindingFor(action string) ([]string, bool) {
	if len(k.Bindings) == 0 {
		return nil, false
	}
	if keys, ok := k.Bindings[action]; ok {
		return keys, true
	}
	if keys, ok := k.Bindings[strings.ToLower(action)]; ok {
		return keys, true
	}
	return nil, false
}

// PersistenceConfig selects where offsets are saved.
type PersistenceConfig struct {
	Backend store.Backend `json:"backend,omitempty"`
	// Key is the persist key. Empty derives one per instance.
	Key string `json:"key,omitempty"`
}

// Path returns the storage path for the configured backend.
func (p PersistenceConfig) Path(paths *Paths) string {
	if paths == nil {
		return ""
	}
	if p.Backend == store.BackendSQLite {
		return paths.OffsetsDB
	}
	return paths.StatePath
}

// Config holds the application configuration
type Config struct {
	Paths       *Paths
	Tunables    Tunables
	KeyMap      KeyMapConfig
	UI          UISettings
	Persistence PersistenceConfig
}

// DefaultConfig returns the default configuration
func DefaultConfig() (*Config, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return nil, err
	}
	return defaultConfigAt(paths), nil
}

func defaultConfigAt(paths *Paths) *Config {
	return &Config{
		Paths:       paths,
		Tunables:    DefaultTunables(),
		KeyMap:      KeyMapConfig{},
		UI:          defaultUISettings(),
		Persistence: PersistenceConfig{Backend: store.BackendFile},
	}
}

// Load loads config overrides from ~/.carousel/config.json if present.
func Load() (*Config, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return nil, err
	}
	return LoadFrom(paths)
}

// LoadFrom loads config overrides from paths.ConfigPath if present.
func LoadFrom(paths *Paths) (*Config, error) {
	cfg := defaultConfigAt(paths)

	data, err := os.ReadFile(paths.ConfigPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	user := struct {
		Tunables    Tunables          `json:"tunables"`
		KeyMap      KeyMapConfig      `json:"keymap,omitempty"`
		Persistence PersistenceConfig `json:"persistence"`
	}{
		Tunables:    cfg.Tunables,
		Persistence: cfg.Persistence,
	}
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("parse %s: %w", paths.ConfigPath, err)
	}

	cfg.Tunables = user.Tunables.Normalize()
	if len(user.KeyMap.Bindings) > 0 {
		cfg.KeyMap = user.KeyMap
	}
	cfg.Persistence = user.Persistence
	if cfg.Persistence.Backend == "" {
		cfg.Persistence.Backend = store.BackendFile
	}
	cfg.UI = loadUISettings(paths.ConfigPath)
	return cfg, nil
}
