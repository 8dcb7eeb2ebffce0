package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nissyi-gh/tareas/internal/view"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultPath returns $XDG_CONFIG_HOME/tareas/config.yaml, falling back to
// ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "tareas", "config.yaml"), nil
}

// Load returns the defaults overlaid with the file at path. An empty path
// means DefaultPath; a missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return cfg, nil // no home dir, defaults only
		}
	}

	if err := loadFile(path, cfg); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return err
	}

	return v.Unmarshal(cfg)
}

func (c *Config) validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %s", c.TickInterval)
	}
	if strings.TrimSpace(c.OverdueLabel) == "" {
		return fmt.Errorf("overdue_label must not be empty")
	}
	if _, err := view.ParseFilter(c.DefaultFilter); err != nil {
		return fmt.Errorf("default_filter: %w", err)
	}
	return nil
}

// WriteDefault writes the default configuration to path as YAML.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	doc := map[string]any{
		"db_path":        cfg.DBPath,
		"overdue_label":  cfg.OverdueLabel,
		"tick_interval":  cfg.TickInterval.String(),
		"default_filter": cfg.DefaultFilter,
	}
	b, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
