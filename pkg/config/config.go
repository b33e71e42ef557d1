// pkg/config/config.go
package config

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/knadh/koanf/v2"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
)

// Manager handles loading and accessing application configuration.
type Manager struct {
	koanfInstance *koanf.Koanf
	currentConfig Config
	sources       []ConfigSource
	mu            sync.RWMutex // To protect currentConfig during runtime updates
}

// NewManager creates a new Manager with an empty koanf instance.
func NewManager() *Manager {
	return &Manager{
		koanfInstance: koanf.New("."),
		currentConfig: DefaultConfig(),
	}
}

// DefaultConfig returns a new Config struct populated with hardcoded default values.
// These serve as the baseline configuration if no other sources override them.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			File:       "",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Server: DefaultServerConfig(),
	}
}

// Load loads configuration from the default sources:
// defaults -> file -> env -> flags.
func (m *Manager) Load(flags *pflag.FlagSet, customConfigFilePath string) error {
	debug := false
	if flags != nil {
		if f := flags.Lookup("debug"); f != nil && f.Value.String() == "true" {
			debug = true
		}
	}
	return m.LoadWithSources(DefaultSources(customConfigFilePath, flags, debug))
}

// LoadWithSources loads the given sources in ascending priority order into a
// fresh koanf instance and replaces the current configuration.
func (m *Manager) LoadWithSources(sources []ConfigSource) error {
	ordered := make([]ConfigSource, len(sources))
	copy(ordered, sources)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority() < ordered[j].Priority()
	})

	k := koanf.New(".")
	for _, src := range ordered {
		if err := src.Load(k); err != nil {
			return fmt.Errorf("config source %s: %w", src.Name(), err)
		}
	}

	var newCfg Config
	if err := k.UnmarshalWithConf("", &newCfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fmt.Errorf("error unmarshaling final config: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.koanfInstance = k
	m.currentConfig = newCfg
	m.sources = ordered
	return nil
}

// Reload re-reads the sources of the last successful load.
func (m *Manager) Reload() error {
	m.mu.RLock()
	sources := m.sources
	m.mu.RUnlock()

	if len(sources) == 0 {
		return fmt.Errorf("config not loaded")
	}
	return m.LoadWithSources(sources)
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cfgCopy := m.currentConfig
	cfgCopy.Server.Args = append([]string(nil), m.currentConfig.Server.Args...)
	return cfgCopy
}

// Koanf exposes the merged key space (read-only use).
func (m *Manager) Koanf() *koanf.Koanf {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.koanfInstance
}

// UpdateRuntimeValue updates a value that is safe to change while serving.
// Only logging keys are mutable; port and bind settings are fixed at startup.
func (m *Manager) UpdateRuntimeValue(key string, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch key {
	case "log.level":
		level, err := cast.ToStringE(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		level = strings.ToLower(strings.TrimSpace(level))
		if err := validate.Var(level, "oneof=trace debug info warn error fatal panic disabled"); err != nil {
			return fmt.Errorf("%s: invalid level %q", key, level)
		}
		m.currentConfig.Log.Level = level
	case "log.format":
		format, err := cast.ToStringE(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if err := validate.Var(format, "oneof=json text"); err != nil {
			return fmt.Errorf("%s: invalid format %q", key, format)
		}
		m.currentConfig.Log.Format = format
	case "log.max_size_mb":
		n, err := cast.ToIntE(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%s: invalid size %v", key, value)
		}
		m.currentConfig.Log.MaxSizeMB = n
	default:
		return fmt.Errorf("%s: not a runtime-updatable key", key)
	}

	return m.koanfInstance.Set(key, value)
}

// DefaultConfigAsMap converts the DefaultConfig struct to a map[string]interface{}
// for Koanf's confmap.Provider. This is a bit manual but ensures Koanf knows all keys.
func DefaultConfigAsMap() map[string]interface{} {
	def := DefaultConfig()
	return map[string]interface{}{
		// Log configuration
		"log.level":        def.Log.Level,
		"log.format":       def.Log.Format,
		"log.file":         def.Log.File,
		"log.max_size_mb":  def.Log.MaxSizeMB,
		"log.max_backups":  def.Log.MaxBackups,
		"log.max_age_days": def.Log.MaxAgeDays,

		// Server configuration
		"server.port_start":         def.Server.PortStart,
		"server.port_range":         def.Server.PortRange,
		"server.allow_local_access": def.Server.AllowLocalAccess,
		"server.read_timeout":       def.Server.ReadTimeout,
		"server.write_timeout":      def.Server.WriteTimeout,
		"server.shutdown_timeout":   def.Server.ShutdownTimeout,
		"server.metrics_addr":       def.Server.MetricsAddr,

		// UI configuration
		"server.ui.root":             def.Server.UI.Root,
		"server.ui.default_document": def.Server.UI.DefaultDocument,
		"server.ui.spa_fallback":     def.Server.UI.SPAFallback,
	}
}

// BindFlags defines global command-line flags corresponding to configuration settings.
func BindFlags(flags *pflag.FlagSet) {
	var flagvar bool
	flags.BoolVar(&flagvar, "debug", false, "Enable debug logging")

	// Note: The main --config / -c flag for specifying the config file path
	// is defined directly on the root Cobra command's PersistentFlags.
}
