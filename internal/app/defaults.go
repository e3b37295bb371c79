package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// Defaults locates the config file and the data directory used by
// `sawiku config init`.
type Defaults struct {
	ConfigPath string // SAWIKU_CONFIG_PATH, else ~/.config/sawiku.toml
	BaseDir    string // SAWIKU_HOME, else ~/.local/share/sawiku
}

func GetDefaults() (Defaults, error) {
	configPath, err := envOrHome("SAWIKU_CONFIG_PATH", ".config", "sawiku.toml")
	if err != nil {
		return Defaults{}, err
	}
	baseDir, err := envOrHome("SAWIKU_HOME", ".local", "share", "sawiku")
	if err != nil {
		return Defaults{}, err
	}
	return Defaults{ConfigPath: configPath, BaseDir: baseDir}, nil
}

func envOrHome(env string, elem ...string) (string, error) {
	if v := os.Getenv(env); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%s unset and no home directory: %w", env, err)
	}
	return filepath.Join(append([]string{home}, elem...)...), nil
}
