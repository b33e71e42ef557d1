package commands

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vulntor/uihost/cmd/uihost/commands/serve"
	"github.com/vulntor/uihost/cmd/uihost/internal/format"
	"github.com/vulntor/uihost/pkg/appctx"
	"github.com/vulntor/uihost/pkg/config"
	"github.com/vulntor/uihost/pkg/logging"
	"github.com/vulntor/uihost/pkg/paths"
	"github.com/vulntor/uihost/pkg/server"
)

const cliExecutable = "uihost"

// ErrUsage marks command-line usage errors (bad flags, bad output mode).
var ErrUsage = errors.New("usage error")

// NewCommand constructs the top-level uihost CLI command, wiring global flags,
// configuration loading and logging setup.
func NewCommand() *cobra.Command {
	var (
		configFile     string
		outputMode     string
		verbosityCount int
	)

	cmd := &cobra.Command{
		Use:   cliExecutable,
		Short: "Serve an embedded UI bundle on a free localhost port",
		Long: `uihost exposes the embedded UI bundle over HTTP so a desktop shell
(webview or browser) can load it like a website.

It scans a bounded port range for the first port without an active
listener, binds it and prints the base URL.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := format.ValidateMode(outputMode); err != nil {
				return fmt.Errorf("%w: %w", ErrUsage, err)
			}

			path := configFile
			if path == "" {
				path = paths.ConfigFile()
			}

			mgr := config.NewManager()
			if err := mgr.Load(cmd.Flags(), path); err != nil {
				return server.WrapInvalidConfig(err)
			}

			if level := verbosityLevel(verbosityCount); level != "" {
				if err := mgr.UpdateRuntimeValue("log.level", level); err != nil {
					return err
				}
			}

			cfg := mgr.Get()
			if err := cfg.Validate(); err != nil {
				return server.WrapInvalidConfig(err)
			}
			if err := logging.Configure(cfg.Log); err != nil {
				return server.WrapInvalidConfig(err)
			}
			log.Debug().Str("config_file", path).Msg("configuration loaded")

			ctx := appctx.WithConfig(cmd.Context(), mgr)
			cmd.SetContext(ctx)
			if root := cmd.Root(); root != nil && root != cmd {
				root.SetContext(ctx)
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Close()
		},
	}

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	})

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file path (default: $XDG_CONFIG_HOME/uihost/uihost.yaml)")
	cmd.PersistentFlags().CountVarP(&verbosityCount, "verbosity", "v", "Increase logging verbosity (repeatable)")
	cmd.PersistentFlags().StringVarP(&outputMode, "output", "o", string(format.ModeTable), "Output format: table | json")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Only print essential output")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	config.BindFlags(cmd.PersistentFlags())
	config.BindServerFlags(cmd.PersistentFlags())

	cmd.AddGroup(&cobra.Group{ID: "serve", Title: "Serve Commands"})
	cmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands"})

	serveCmd := serve.NewCommand()
	serveCmd.GroupID = "serve"
	portCmd := newPortCommand()
	portCmd.GroupID = "serve"
	assetsCmd := newAssetsCommand()
	assetsCmd.GroupID = "core"
	configCmd := newConfigCommand()
	configCmd.GroupID = "core"
	versionCmd := newVersionCommand(cliExecutable)
	versionCmd.GroupID = "core"

	cmd.AddCommand(serveCmd, portCmd, assetsCmd, configCmd, versionCmd)

	return cmd
}

// ReportError prints err through the formatter of cmd unless a command already
// printed it. JSON mode keeps the error on stdout so scripts can parse it.
func ReportError(cmd *cobra.Command, err error) {
	if err == nil || format.IsReported(err) {
		return
	}
	_ = format.FromCommand(cmd).PrintError(err)
}

// ExitCode maps an error returned by the root command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, ErrUsage) {
		return 2
	}
	return server.ExitCode(err)
}

// verbosityLevel maps -v counts onto log levels; zero keeps the configured level.
func verbosityLevel(count int) string {
	switch {
	case count <= 0:
		return ""
	case count == 1:
		return "debug"
	default:
		return "trace"
	}
}
