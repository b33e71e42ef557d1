package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vulntor/uihost/cmd/uihost/internal/bind"
	"github.com/vulntor/uihost/cmd/uihost/internal/format"
	"github.com/vulntor/uihost/pkg/appctx"
	"github.com/vulntor/uihost/pkg/portalloc"
	"github.com/vulntor/uihost/pkg/server"
)

// newPortCommand runs only the allocator and prints the port it picked.
// Nothing is bound, so the port may be taken by the time a caller uses it.
func newPortCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "port",
		Short: "Print the first free port of the configured range",
		Example: `  uihost port
  uihost port --port-start 9000 --port-range 10 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := format.FromCommand(cmd)
			fail := func(err error) error {
				_ = formatter.PrintTotalFailureSummary("allocate port", err, server.ErrorCode(err))
				return format.Reported(err)
			}

			mgr, ok := appctx.Config(cmd.Context())
			if !ok {
				return fail(server.ErrConfigUnavailable)
			}

			cfg, err := bind.BindServerOptions(cmd, args, mgr.Get().Server)
			if err != nil {
				return fail(err)
			}

			src := appctx.Listeners(cmd.Context())
			if src == nil {
				src = portalloc.SystemListeners{}
			}

			allocator := portalloc.New(src, portalloc.WithLogger(log.Logger))
			port, err := allocator.Allocate(cmd.Context(), cfg.PortStart, cfg.PortRange)
			if err != nil {
				return fail(&server.BindError{Err: err})
			}

			if formatter.IsJSON() {
				return formatter.PrintJSON(map[string]any{
					"port":        port,
					"range_start": cfg.PortStart,
					"range_end":   cfg.PortEnd(),
				})
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), port)
			return err
		},
	}

	bind.BindServeFlags(cmd)
	_ = cmd.Flags().MarkHidden("metrics-addr")
	_ = cmd.Flags().MarkHidden("spa")
	_ = cmd.Flags().MarkHidden("default-document")
	_ = cmd.Flags().MarkHidden("allow-local-access")

	return cmd
}
