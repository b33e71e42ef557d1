package bind

import (
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/vulntor/uihost/pkg/config"
	srv "github.com/vulntor/uihost/pkg/server"
)

func newServeCmd(t *testing.T, argv ...string) (*cobra.Command, []string) {
	t.Helper()

	var got []string
	cmd := &cobra.Command{
		Use: "serve",
		RunE: func(_ *cobra.Command, args []string) error {
			got = args
			return nil
		},
	}
	BindServeFlags(cmd)
	cmd.SetArgs(append([]string{}, argv...))
	require.NoError(t, cmd.Execute())
	return cmd, got
}

func TestBindServerOptions_Defaults(t *testing.T) {
	cmd, args := newServeCmd(t)

	base := config.DefaultServerConfig()
	cfg, err := BindServerOptions(cmd, args, base)
	require.NoError(t, err)
	require.Equal(t, base, cfg)
}

func TestBindServerOptions_FlagsOverrideBase(t *testing.T) {
	cmd, args := newServeCmd(t,
		"--port-start", "9000",
		"--port-range", "5",
		"--allow-local-access",
		"--metrics-addr", "127.0.0.1:9100",
		"--spa",
		"--default-document", "home.html",
	)

	cfg, err := BindServerOptions(cmd, args, config.DefaultServerConfig())
	require.NoError(t, err)
	require.Equal(t, 9000, cfg.PortStart)
	require.Equal(t, 5, cfg.PortRange)
	require.True(t, cfg.AllowLocalAccess)
	require.Equal(t, "127.0.0.1:9100", cfg.MetricsAddr)
	require.True(t, cfg.UI.SPAFallback)
	require.Equal(t, "home.html", cfg.UI.DefaultDocument)
}

func TestBindServerOptions_UnsetFlagsKeepBase(t *testing.T) {
	cmd, args := newServeCmd(t, "--port-range", "3")

	base := config.DefaultServerConfig()
	base.PortStart = 12000
	base.AllowLocalAccess = true

	cfg, err := BindServerOptions(cmd, args, base)
	require.NoError(t, err)
	require.Equal(t, 12000, cfg.PortStart)
	require.Equal(t, 3, cfg.PortRange)
	require.True(t, cfg.AllowLocalAccess)
}

func TestBindServerOptions_PassthroughArgs(t *testing.T) {
	cmd, args := newServeCmd(t, "--port-start", "9000", "--", "--profile", "dev", "extra")

	cfg, err := BindServerOptions(cmd, args, config.DefaultServerConfig())
	require.NoError(t, err)
	require.Equal(t, []string{"--profile", "dev", "extra"}, cfg.Args)
}

func TestBindServerOptions_Invalid(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want error
	}{
		{"port zero", []string{"--port-start", "0"}, srv.ErrInvalidPort},
		{"port too large", []string{"--port-start", "70000"}, srv.ErrInvalidPort},
		{"negative range", []string{"--port-range", "-1"}, srv.ErrInvalidPortRange},
		{"range past max port", []string{"--port-start", "65530", "--port-range", "10"}, srv.ErrInvalidPortRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := newServeCmd(t, tt.argv...)

			_, err := BindServerOptions(cmd, args, config.DefaultServerConfig())
			require.Error(t, err)
			require.True(t, errors.Is(err, tt.want), "got %v", err)
			require.Equal(t, 2, srv.ExitCode(err))
		})
	}
}
