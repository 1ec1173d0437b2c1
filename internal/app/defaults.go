package app

import (
	"fmt"
	"os"
	"path/filepath"

	"destiny2-go/internal/config"
)

// Environment variables read by the CLI. A .env file in the working
// directory is loaded into the environment before they are consulted.
const (
	EnvConfigPath  = "D2_CONFIG_PATH"
	EnvHome        = "D2_HOME"
	EnvAPIKey      = "D2_API_KEY"
	EnvAccessToken = "D2_ACCESS_TOKEN"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - D2_CONFIG_PATH: config file location (default: ~/.config/d2.toml)
//   - D2_HOME: base directory for d2 data (default: ~/.local/share/d2)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

// getConfigPath returns the config file path, checking D2_CONFIG_PATH env var first,
// then falling back to the default ~/.config/d2.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "d2.toml"), nil
}

// getBaseDir returns the base directory for d2 data, checking D2_HOME env var first,
// then falling back to the XDG default ~/.local/share/d2.
func getBaseDir() (string, error) {
	if path := os.Getenv(EnvHome); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "d2"), nil
}

// ApplyEnv overrides config values with D2_API_KEY when it is set.
func ApplyEnv(cfg *config.Config) {
	if key := os.Getenv(EnvAPIKey); key != "" {
		cfg.API.APIKey = key
	}
}

// ResolveAccessToken picks the OAuth access token for a call. flag "-"
// asks prompt; any other non-empty flag is used as is; otherwise
// D2_ACCESS_TOKEN is used. An empty result means the call is anonymous.
func ResolveAccessToken(flag string, prompt func() (string, error)) (string, error) {
	switch flag {
	case "-":
		token, err := prompt()
		if err != nil {
			return "", fmt.Errorf("reading access token: %w", err)
		}
		return token, nil
	case "":
		return os.Getenv(EnvAccessToken), nil
	default:
		return flag, nil
	}
}
