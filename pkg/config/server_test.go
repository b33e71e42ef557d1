package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestDefaultServerConfig(t *testing.T) {
	cfg := DefaultServerConfig()

	require.Equal(t, 8000, cfg.PortStart)
	require.Equal(t, 100, cfg.PortRange)
	require.Equal(t, 8100, cfg.PortEnd())
	require.False(t, cfg.AllowLocalAccess)

	require.Equal(t, 30*time.Second, cfg.ReadTimeout)
	require.Equal(t, 30*time.Second, cfg.WriteTimeout)
	require.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	require.Equal(t, "wwwroot", cfg.UI.Root)
	require.Equal(t, "index.html", cfg.UI.DefaultDocument)
	require.False(t, cfg.UI.SPAFallback)
	require.Empty(t, cfg.MetricsAddr)
	require.Empty(t, cfg.Args)
}

func TestServerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr bool
	}{
		{"defaults", func(*ServerConfig) {}, false},
		{"zero range", func(c *ServerConfig) { c.PortRange = 0 }, false},
		{"max port", func(c *ServerConfig) { c.PortStart = 65535; c.PortRange = 0 }, false},
		{"metrics addr", func(c *ServerConfig) { c.MetricsAddr = "127.0.0.1:9090" }, false},
		{"zero start", func(c *ServerConfig) { c.PortStart = 0 }, true},
		{"start above max", func(c *ServerConfig) { c.PortStart = 70000 }, true},
		{"negative range", func(c *ServerConfig) { c.PortRange = -1 }, true},
		{"range overflow", func(c *ServerConfig) { c.PortStart = 65500; c.PortRange = 100 }, true},
		{"bad metrics addr", func(c *ServerConfig) { c.MetricsAddr = "not an address" }, true},
		{"empty default document", func(c *ServerConfig) { c.UI.DefaultDocument = "" }, true},
		{"nested default document", func(c *ServerConfig) { c.UI.DefaultDocument = "a/index.html" }, true},
		{"empty root", func(c *ServerConfig) { c.UI.Root = "" }, true},
		{"negative timeout", func(c *ServerConfig) { c.ShutdownTimeout = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultServerConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestConfig_Validate_Log(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Format = "xml"
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Log.Level = "verbose"
	require.Error(t, cfg.Validate())
}

func TestBindServerFlags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindServerFlags(flags)

	err := flags.Parse([]string{
		"--server.port_start=9090",
		"--server.port_range=7",
		"--server.allow_local_access",
		"--server.ui.spa_fallback",
	})
	require.NoError(t, err)

	start, err := flags.GetInt("server.port_start")
	require.NoError(t, err)
	require.Equal(t, 9090, start)

	span, err := flags.GetInt("server.port_range")
	require.NoError(t, err)
	require.Equal(t, 7, span)

	local, err := flags.GetBool("server.allow_local_access")
	require.NoError(t, err)
	require.True(t, local)

	spa, err := flags.GetBool("server.ui.spa_fallback")
	require.NoError(t, err)
	require.True(t, spa)
}

func TestBindServerFlags_Defaults(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindServerFlags(flags)

	defaults := DefaultServerConfig()

	start, err := flags.GetInt("server.port_start")
	require.NoError(t, err)
	require.Equal(t, defaults.PortStart, start)

	timeout, err := flags.GetDuration("server.shutdown_timeout")
	require.NoError(t, err)
	require.Equal(t, defaults.ShutdownTimeout, timeout)

	doc, err := flags.GetString("server.ui.default_document")
	require.NoError(t, err)
	require.Equal(t, defaults.UI.DefaultDocument, doc)
}
