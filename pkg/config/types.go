// pkg/config/types.go
package config

import "time"

// Config is the root configuration structure for uihost.
// It aggregates all other specific configuration structs.
type Config struct {
	Log    LogConfig    `description:"Logging configuration" koanf:"log" yaml:"log"`
	Server ServerConfig `description:"Server configuration" koanf:"server" yaml:"server"`
}

// LogConfig holds logging related configuration.
type LogConfig struct {
	Level  string `description:"Log level (trace, debug, info, warn, error)" koanf:"level" yaml:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	Format string `description:"Log format: json | text" koanf:"format" yaml:"format" validate:"omitempty,oneof=json text"`
	File   string `description:"Log file path (optional, rotated)" koanf:"file" yaml:"file"`

	// Rotation settings, only used when File is set.
	MaxSizeMB  int `description:"Rotate the log file after this many megabytes" koanf:"max_size_mb" yaml:"max_size_mb" validate:"min=0"`
	MaxBackups int `description:"Number of rotated log files to keep" koanf:"max_backups" yaml:"max_backups" validate:"min=0"`
	MaxAgeDays int `description:"Days to keep rotated log files" koanf:"max_age_days" yaml:"max_age_days" validate:"min=0"`
}

// ServerConfig holds configuration for the static asset server.
type ServerConfig struct {
	// Port acquisition: the first free port of [PortStart, PortStart+PortRange] is used.
	PortStart int `description:"First port to probe" koanf:"port_start" yaml:"port_start" validate:"min=1,max=65535"`
	PortRange int `description:"Number of additional ports to probe" koanf:"port_range" yaml:"port_range" validate:"min=0,max=65534"`

	// AllowLocalAccess binds all interfaces instead of loopback only.
	AllowLocalAccess bool `description:"Bind on all interfaces instead of loopback" koanf:"allow_local_access" yaml:"allow_local_access"`

	// Args are passed through from the command line untouched.
	Args []string `description:"Passthrough process arguments" koanf:"args" yaml:"args,omitempty"`

	// HTTP timeouts
	ReadTimeout     time.Duration `description:"HTTP read timeout" koanf:"read_timeout" yaml:"read_timeout" validate:"min=0"`
	WriteTimeout    time.Duration `description:"HTTP write timeout" koanf:"write_timeout" yaml:"write_timeout" validate:"min=0"`
	ShutdownTimeout time.Duration `description:"Graceful shutdown timeout" koanf:"shutdown_timeout" yaml:"shutdown_timeout" validate:"min=0"`

	// MetricsAddr enables a separate Prometheus listener when set.
	MetricsAddr string `description:"Metrics listen address (empty disables)" koanf:"metrics_addr" yaml:"metrics_addr" validate:"omitempty,hostname_port"`

	UI UIConfig `description:"UI asset configuration" koanf:"ui" yaml:"ui"`
}

// UIConfig holds asset serving configuration.
type UIConfig struct {
	Root            string `description:"Directory of the embedded bundle to serve" koanf:"root" yaml:"root" validate:"required"`
	DefaultDocument string `description:"Document served for directory requests" koanf:"default_document" yaml:"default_document" validate:"required,excludesall=/"`
	SPAFallback     bool   `description:"Serve the default document for unknown extension-less routes" koanf:"spa_fallback" yaml:"spa_fallback"`
}
