package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
)

var validate = validator.New()

// DefaultServerConfig returns the default server configuration.
// These are sensible defaults for a desktop shell and can be overridden
// via flags, environment variables, or config files.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		PortStart:        8000,
		PortRange:        100,
		AllowLocalAccess: false,
		ReadTimeout:      30 * time.Second,
		WriteTimeout:     30 * time.Second,
		ShutdownTimeout:  10 * time.Second,
		UI: UIConfig{
			Root:            "wwwroot",
			DefaultDocument: "index.html",
		},
	}
}

// PortEnd returns the last port of the scan range (inclusive).
func (c ServerConfig) PortEnd() int {
	return c.PortStart + c.PortRange
}

// Validate checks field constraints and the combined port range.
func (c ServerConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.PortEnd() > 65535 {
		return fmt.Errorf("port range %d - %d exceeds 65535", c.PortStart, c.PortEnd())
	}
	return nil
}

// Validate checks the whole configuration.
func (c Config) Validate() error {
	if err := validate.Struct(c.Log); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// BindServerFlags binds server-specific flags to the provided FlagSet.
//
// Flags are namespaced under 'server.' so posflag maps them straight onto
// koanf keys. Example: --server.port_start, --server.allow_local_access
func BindServerFlags(flags *pflag.FlagSet) {
	defaults := DefaultServerConfig()

	flags.Int("server.port_start", defaults.PortStart, "First port to probe")
	flags.Int("server.port_range", defaults.PortRange, "Number of additional ports to probe")
	flags.Bool("server.allow_local_access", defaults.AllowLocalAccess, "Bind on all interfaces (reachable from the local network)")
	flags.Duration("server.read_timeout", defaults.ReadTimeout, "HTTP read timeout")
	flags.Duration("server.write_timeout", defaults.WriteTimeout, "HTTP write timeout")
	flags.Duration("server.shutdown_timeout", defaults.ShutdownTimeout, "Graceful shutdown timeout")
	flags.String("server.metrics_addr", defaults.MetricsAddr, "Prometheus metrics listen address (empty disables)")
	flags.String("server.ui.default_document", defaults.UI.DefaultDocument, "Document served for directory requests")
	flags.Bool("server.ui.spa_fallback", defaults.UI.SPAFallback, "Serve the default document for unknown routes")
}
