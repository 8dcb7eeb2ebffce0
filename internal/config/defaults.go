package config

import (
	"github.com/nissyi-gh/tareas/internal/countdown"
	"github.com/nissyi-gh/tareas/internal/view"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		OverdueLabel:  countdown.DefaultOverdueLabel,
		TickInterval:  countdown.DefaultPeriod,
		DefaultFilter: string(view.FilterAll),
	}
}
