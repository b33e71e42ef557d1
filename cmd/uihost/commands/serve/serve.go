// Package serve provides the Cobra command that hosts the embedded UI bundle.
// It wires CLI flags to the server runtime and blocks until interrupted.
package serve

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vulntor/uihost/cmd/uihost/internal/bind"
	"github.com/vulntor/uihost/cmd/uihost/internal/format"
	"github.com/vulntor/uihost/pkg/appctx"
	"github.com/vulntor/uihost/pkg/assets"
	"github.com/vulntor/uihost/pkg/config"
	"github.com/vulntor/uihost/pkg/logging"
	"github.com/vulntor/uihost/pkg/paths"
	"github.com/vulntor/uihost/pkg/server"
	"github.com/vulntor/uihost/pkg/server/app"
	"github.com/vulntor/uihost/pkg/ui"
)

// NewCommand creates the 'uihost serve' command.
func NewCommand() *cobra.Command {
	return newCommand(nil)
}

// newCommand builds the command. onReady, when set, runs after the banner is
// printed and before the command blocks.
//
// Configuration is loaded from:
//   - Global flags (--config, --server.port_start, ...)
//   - Serve flags (--port-start, --port-range, --allow-local-access, ...)
//   - Environment variables (UIHOST_*)
//   - Config file (uihost.yaml)
func newCommand(onReady func(*app.App)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [flags] [-- args...]",
		Short: "Serve the embedded UI on the first free port of a range",
		Long: `Serve the embedded UI bundle over HTTP.

The first port of [port-start, port-start+port-range] without an active
listener is bound, on loopback unless --allow-local-access is given. The base
URL is printed as soon as the listener is bound. The server runs until
interrupted (Ctrl+C) and then drains in-flight requests.

Arguments after "--" are passed through untouched.`,
		Example: `  uihost serve
  uihost serve --port-start 9000 --port-range 20
  uihost serve --allow-local-access --metrics-addr 127.0.0.1:9100
  uihost serve -o json -- --profile dev`,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := format.FromCommand(cmd)
			fail := func(err error) error {
				_ = formatter.PrintTotalFailureSummary("start server", err, server.ErrorCode(err))
				return format.Reported(err)
			}

			// Get config manager from context
			cfgMgr, ok := appctx.Config(cmd.Context())
			if !ok {
				return fail(server.ErrConfigUnavailable)
			}

			cfg, err := bind.BindServerOptions(cmd, args, cfgMgr.Get().Server)
			if err != nil {
				return fail(err)
			}
			if err := cfg.Validate(); err != nil {
				return fail(server.WrapInvalidConfig(err))
			}

			// The global level gates output so config reloads take effect.
			logger := logging.NewLogger("server", zerolog.TraceLevel)

			src, err := assets.NewFSSource(ui.DistFS, cfg.UI.Root)
			if err != nil {
				return fail(server.WrapAppInit(err))
			}

			registry := prometheus.NewRegistry()
			registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.NewServer(logger, logging.Rotate)
			srv.Start(ctx)
			defer srv.Close()

			if path := watchPath(cmd); path != "" {
				startWatcher(ctx, cfgMgr, path, logger)
			}

			a, baseURL, err := app.CreateServer(ctx, cfg, &app.Deps{
				Assets:    src,
				Listeners: appctx.Listeners(ctx),
				Registry:  registry,
				Logger:    logger,
			})
			if err != nil {
				return fail(err)
			}

			info := format.ServingInfo{
				URL:         baseURL,
				Addr:        a.Addr().String(),
				Port:        a.Port(),
				LocalAccess: cfg.AllowLocalAccess,
				Args:        cfg.Args,
			}
			if d := a.DiagnosticsAddr(); d != nil {
				info.Metrics = d.String()
			}
			if err := formatter.PrintServing(info); err != nil {
				logger.Warn().Err(err).Msg("Failed to print banner")
			}

			if onReady != nil {
				onReady(a)
			}

			runErr := make(chan error, 1)
			go func() {
				select {
				case err := <-a.Errors():
					runErr <- err
					srv.Stop()
				case <-ctx.Done():
				}
			}()

			// Blocks until a signal, context cancellation or a serve failure.
			srv.Wait()

			if err := a.Shutdown(context.WithoutCancel(cmd.Context())); err != nil {
				logger.Warn().Err(err).Msg("Graceful shutdown incomplete")
			}

			select {
			case err := <-runErr:
				return fail(server.WrapRuntime(err))
			default:
			}
			return nil
		},
	}

	bind.BindServeFlags(cmd)

	return cmd
}

// watchPath returns the config file to watch: --config, or the default file
// when it exists.
func watchPath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path
	}
	if _, err := os.Stat(paths.ConfigFile()); err == nil {
		return paths.ConfigFile()
	}
	return ""
}

// startWatcher re-applies the log level whenever the config file changes.
// Port and bind settings are fixed for the lifetime of the listener.
func startWatcher(ctx context.Context, mgr *config.Manager, path string, logger zerolog.Logger) {
	w, err := config.NewWatcher(mgr, path, func(c config.Config) {
		logging.SetLevel(c.Log.Level)
		logger.Info().Str("level", c.Log.Level).Msg("Log level reloaded")
	}, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("Config watcher unavailable")
		return
	}

	go func() {
		if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn().Err(err).Str("path", path).Msg("Config watcher stopped")
		}
	}()
}
