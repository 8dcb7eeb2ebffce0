package config

import "time"

// Config holds user-tunable settings.
type Config struct {
	// DBPath is the SQLite file. Empty means $XDG_DATA_HOME/tareas/tareas.db.
	DBPath string `yaml:"db_path" mapstructure:"db_path"`

	// OverdueLabel replaces the countdown once a due date has passed.
	OverdueLabel string `yaml:"overdue_label" mapstructure:"overdue_label"`

	// TickInterval is how often countdowns are recomputed.
	TickInterval time.Duration `yaml:"tick_interval" mapstructure:"tick_interval"`

	// DefaultFilter is the status filter the TUI starts with.
	DefaultFilter string `yaml:"default_filter" mapstructure:"default_filter"`
}
