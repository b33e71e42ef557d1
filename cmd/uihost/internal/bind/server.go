package bind

import (
	"github.com/spf13/cobra"

	"github.com/vulntor/uihost/pkg/config"
	"github.com/vulntor/uihost/pkg/portalloc"
	srv "github.com/vulntor/uihost/pkg/server"
)

// BindServeFlags registers the flags read by BindServerOptions.
func BindServeFlags(cmd *cobra.Command) {
	defaults := config.DefaultServerConfig()

	cmd.Flags().Int("port-start", defaults.PortStart, "First port to probe")
	cmd.Flags().Int("port-range", defaults.PortRange, "Number of additional ports to probe after --port-start")
	cmd.Flags().Bool("allow-local-access", defaults.AllowLocalAccess, "Bind on all interfaces instead of loopback")
	cmd.Flags().String("metrics-addr", defaults.MetricsAddr, "Serve /metrics, /healthz and /readyz on this address")
	cmd.Flags().Bool("spa", defaults.UI.SPAFallback, "Serve the default document for unknown extension-less routes")
	cmd.Flags().String("default-document", defaults.UI.DefaultDocument, "Document served for directory requests")
}

// BindServerOptions overlays the serve command flags onto base.
//
// base is the configuration resolved from defaults, file, environment and the
// namespaced root flags. Only flags set explicitly on the command line
// override it, so a config file value survives an unset --port-start.
//
// Flags read:
//   - --port-start: first port to probe (1-65535)
//   - --port-range: additional ports to probe (>= 0)
//   - --allow-local-access: bind the wildcard address
//   - --metrics-addr: diagnostics listener address
//   - --spa: SPA fallback to the default document
//   - --default-document: document served for directory requests
//
// Arguments after "--" are kept as passthrough Args.
func BindServerOptions(cmd *cobra.Command, args []string, base config.ServerConfig) (config.ServerConfig, error) {
	cfg := base
	flags := cmd.Flags()

	if flags.Changed("port-start") {
		cfg.PortStart, _ = flags.GetInt("port-start")
	}
	if flags.Changed("port-range") {
		cfg.PortRange, _ = flags.GetInt("port-range")
	}
	if flags.Changed("allow-local-access") {
		cfg.AllowLocalAccess, _ = flags.GetBool("allow-local-access")
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr, _ = flags.GetString("metrics-addr")
	}
	if flags.Changed("spa") {
		cfg.UI.SPAFallback, _ = flags.GetBool("spa")
	}
	if flags.Changed("default-document") {
		cfg.UI.DefaultDocument, _ = flags.GetString("default-document")
	}

	if dash := cmd.ArgsLenAtDash(); dash >= 0 && dash <= len(args) {
		cfg.Args = append([]string(nil), args[dash:]...)
	}

	if cfg.PortStart < 1 || cfg.PortStart > portalloc.MaxPort {
		return config.ServerConfig{}, srv.NewInvalidPortError(cfg.PortStart)
	}
	if _, err := portalloc.Bounds(cfg.PortStart, cfg.PortRange); err != nil {
		return config.ServerConfig{}, srv.NewInvalidPortRangeError(cfg.PortStart, cfg.PortRange)
	}

	return cfg, nil
}
