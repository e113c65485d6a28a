package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvConfigDir overrides the XDG config directory for weld
	EnvConfigDir = "WELD_CONFIG_DIR"

	// EnvStateDir overrides the XDG state directory for weld
	EnvStateDir = "WELD_STATE_DIR"
)

const (
	// AppDirName is the directory name used under the XDG base directories
	AppDirName = "nitrolaunch-weld"

	// ConfigFileName is the name of the user configuration file
	ConfigFileName = "config.toml"

	// LogFileName is the name of the log file
	LogFileName = "weld.log"
)

// ConfigDir returns the directory holding the user configuration
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return expandHome(dir)
	}
	return filepath.Join(xdg.ConfigHome, AppDirName)
}

// StateDir returns the directory holding the log file
func StateDir() string {
	if dir := os.Getenv(EnvStateDir); dir != "" {
		return expandHome(dir)
	}
	return filepath.Join(xdg.StateHome, AppDirName)
}

// ConfigFile returns the path of the user configuration file. The file may not exist.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), ConfigFileName)
}

// LogFile returns the path of the log file
func LogFile() string {
	return filepath.Join(StateDir(), LogFileName)
}

// Reload re-reads the XDG environment variables
func Reload() {
	xdg.Reload()
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
