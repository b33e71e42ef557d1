package format

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestFromCommandRespectsFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("output", "table", "")
	cmd.Flags().Bool("quiet", false, "")
	cmd.Flags().Bool("no-color", false, "")

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	require.NoError(t, cmd.Flags().Set("output", "json"))
	require.NoError(t, cmd.Flags().Set("quiet", "true"))
	require.NoError(t, cmd.Flags().Set("no-color", "true"))

	formatter := FromCommand(cmd)
	require.True(t, formatter.IsJSON())
	require.True(t, formatter.IsQuiet())

	require.NoError(t, formatter.PrintSummary("should be suppressed"))
	require.Equal(t, "", out.String())
}

func TestFromCommandDefaults(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	out := &bytes.Buffer{}
	cmd.SetOut(out)

	formatter := FromCommand(cmd)
	require.False(t, formatter.IsJSON())
	require.False(t, formatter.IsQuiet())
}

func TestFromCommandSeesFlagsParsedBySubcommand(t *testing.T) {
	root := &cobra.Command{Use: "root"}
	root.PersistentFlags().StringP("output", "o", "table", "")
	root.PersistentFlags().Bool("quiet", false, "")

	child := &cobra.Command{Use: "child", RunE: func(*cobra.Command, []string) error { return nil }}
	root.AddCommand(child)
	root.SetArgs([]string{"child", "-o", "json", "--quiet"})
	require.NoError(t, root.Execute())

	formatter := FromCommand(root)
	require.True(t, formatter.IsJSON())
	require.True(t, formatter.IsQuiet())
}
