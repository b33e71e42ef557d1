package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_ReturnsExpectedDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "info", cfg.Log.Level, "Default log level should be 'info'")
	assert.Equal(t, "text", cfg.Log.Format, "Default log format should be 'text'")
	assert.Equal(t, "", cfg.Log.File, "Default log file should be empty")
	assert.Equal(t, DefaultServerConfig(), cfg.Server)
	require.NoError(t, cfg.Validate())
}

func TestDefaultConfigAsMap_CoversEveryKey(t *testing.T) {
	m := DefaultConfigAsMap()
	for _, key := range []string{
		"log.level", "log.format", "log.file",
		"server.port_start", "server.port_range", "server.allow_local_access",
		"server.ui.root", "server.ui.default_document", "server.ui.spa_fallback",
	} {
		assert.Contains(t, m, key)
	}
	assert.Equal(t, 8000, m["server.port_start"])
	assert.Equal(t, 100, m["server.port_range"])
}

func TestManager_Load_DefaultsOnly(t *testing.T) {
	manager := NewManager()
	require.NoError(t, manager.Load(nil, ""))

	assert.Equal(t, DefaultConfig(), manager.Get())
}

func TestManager_Load_WithFlagsOverridesDefaults(t *testing.T) {
	manager := NewManager()
	flags := newTestFlagSet()
	_ = flags.Set("log.level", "error")
	_ = flags.Set("log.format", "json")
	_ = flags.Set("server.port_start", "9100")
	_ = flags.Set("server.allow_local_access", "true")

	require.NoError(t, manager.Load(flags, ""))

	cfg := manager.Get()
	assert.Equal(t, "error", cfg.Log.Level, "Flag should override log level")
	assert.Equal(t, "json", cfg.Log.Format, "Flag should override log format")
	assert.Equal(t, 9100, cfg.Server.PortStart)
	assert.True(t, cfg.Server.AllowLocalAccess)
	assert.Equal(t, 100, cfg.Server.PortRange, "Unset flag keeps default")
}

func TestManager_Load_UnchangedFlagsDoNotOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uihost.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port_start: 7000\n  port_range: 3\n"), 0o644))

	manager := NewManager()
	flags := newTestFlagSet()
	require.NoError(t, manager.Load(flags, path))

	cfg := manager.Get()
	assert.Equal(t, 7000, cfg.Server.PortStart)
	assert.Equal(t, 3, cfg.Server.PortRange)
}

func TestManager_Load_DebugFlagSetsLogLevelToDebug(t *testing.T) {
	manager := NewManager()
	flags := newTestFlagSet()
	_ = flags.Set("debug", "true")
	require.NoError(t, manager.Load(flags, ""))
	assert.Equal(t, "debug", manager.Get().Log.Level, "Debug flag should set log level to debug")
}

func TestManager_Load_DurationsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uihost.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  shutdown_timeout: 2s\n"), 0o644))

	manager := NewManager()
	require.NoError(t, manager.Load(nil, path))
	assert.Equal(t, 2*time.Second, manager.Get().Server.ShutdownTimeout)
}

func TestManager_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uihost.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o644))

	manager := NewManager()
	require.Error(t, manager.Reload(), "Reload before Load should fail")

	require.NoError(t, manager.Load(nil, path))
	assert.Equal(t, "warn", manager.Get().Log.Level)

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644))
	require.NoError(t, manager.Reload())
	assert.Equal(t, "debug", manager.Get().Log.Level)
}

func TestManager_Get_ReturnsCopy(t *testing.T) {
	manager := NewManager()
	require.NoError(t, manager.Load(nil, ""))

	cfg := manager.Get()
	cfg.Server.PortStart = 1
	cfg.Server.Args = append(cfg.Server.Args, "--x")

	again := manager.Get()
	assert.Equal(t, 8000, again.Server.PortStart)
	assert.Empty(t, again.Server.Args)
}

func TestManager_UpdateRuntimeValue(t *testing.T) {
	manager := NewManager()
	require.NoError(t, manager.Load(nil, ""))

	require.NoError(t, manager.UpdateRuntimeValue("log.level", " WARN "))
	assert.Equal(t, "warn", manager.Get().Log.Level)

	require.NoError(t, manager.UpdateRuntimeValue("log.max_size_mb", "25"))
	assert.Equal(t, 25, manager.Get().Log.MaxSizeMB)

	require.Error(t, manager.UpdateRuntimeValue("log.level", "loud"))
	require.Error(t, manager.UpdateRuntimeValue("log.format", "xml"))
	require.Error(t, manager.UpdateRuntimeValue("server.port_start", 9000), "port is fixed at startup")
	assert.Equal(t, 8000, manager.Get().Server.PortStart)
}

func TestBindFlags_AddsDebugFlag(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(flags)
	debugFlag := flags.Lookup("debug")
	require.NotNil(t, debugFlag, "BindFlags should add a 'debug' flag")
	assert.Equal(t, "Enable debug logging", debugFlag.Usage)
	assert.Equal(t, "false", debugFlag.DefValue)
}

func newTestFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log.level", "info", "")
	flags.String("log.format", "text", "")
	flags.String("log.file", "", "")
	flags.Bool("debug", false, "")
	BindServerFlags(flags)
	return flags
}
