package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vulntor/uihost/cmd/uihost/internal/format"
	v "github.com/vulntor/uihost/pkg/version"
)

func newVersionCommand(cliExecutable string) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			formatter := format.FromCommand(cmd)
			info := v.Get()

			if formatter.IsJSON() {
				return formatter.PrintJSON(info)
			}

			out := cmd.OutOrStdout()
			if short {
				_, err := fmt.Fprintln(out, info.Version)
				return err
			}

			fmt.Fprintf(out, "%s version: %s", cliExecutable, info.Version)
			if info.Prerelease {
				fmt.Fprint(out, " (prerelease)")
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Commit: %s\n", info.Commit)
			fmt.Fprintf(out, "Build Date: %s\n", info.BuildDate)
			_, err := fmt.Fprintf(out, "Go Version: %s\n", info.GoVersion)
			return err
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only the version number")

	return cmd
}
