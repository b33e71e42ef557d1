package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// ConfigFileName is the name of the configuration file looked up in ConfigDir.
const ConfigFileName = "uihost.yaml"

// ConfigDir returns the config directory for uihost.
// Order: XDG_CONFIG_HOME/uihost, platform-specific fallback.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "uihost")
	}
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("AppData"); appData != "" {
			return filepath.Join(appData, "uihost")
		}
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "uihost")
}

// ConfigFile returns the default configuration file path. The file may not exist.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), ConfigFileName)
}
