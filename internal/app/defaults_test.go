package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"destiny2-go/internal/config"
)

func TestGetDefaults(t *testing.T) {
	t.Run("uses env vars when set", func(t *testing.T) {
		t.Setenv("D2_CONFIG_PATH", "/custom/config.toml")
		t.Setenv("D2_HOME", "/custom/d2")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		if defaults["config_path"] != "/custom/config.toml" {
			t.Errorf("config_path = %q, want %q", defaults["config_path"], "/custom/config.toml")
		}
		if defaults["base_dir"] != "/custom/d2" {
			t.Errorf("base_dir = %q, want %q", defaults["base_dir"], "/custom/d2")
		}
		if defaults["log_dir"] != "/custom/d2/log" {
			t.Errorf("log_dir = %q, want %q", defaults["log_dir"], "/custom/d2/log")
		}
	})

	t.Run("falls back to home dir defaults", func(t *testing.T) {
		t.Setenv("D2_CONFIG_PATH", "")
		t.Setenv("D2_HOME", "")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		homeDir, _ := os.UserHomeDir()

		wantConfig := filepath.Join(homeDir, ".config", "d2.toml")
		if defaults["config_path"] != wantConfig {
			t.Errorf("config_path = %q, want %q", defaults["config_path"], wantConfig)
		}

		wantBase := filepath.Join(homeDir, ".local", "share", "d2")
		if defaults["base_dir"] != wantBase {
			t.Errorf("base_dir = %q, want %q", defaults["base_dir"], wantBase)
		}

		wantLog := filepath.Join(wantBase, "log")
		if defaults["log_dir"] != wantLog {
			t.Errorf("log_dir = %q, want %q", defaults["log_dir"], wantLog)
		}
	})
}

func TestApplyEnv(t *testing.T) {
	t.Run("overrides api key", func(t *testing.T) {
		t.Setenv("D2_API_KEY", "from-env")
		cfg := config.NewConfig(t.TempDir())
		cfg.API.APIKey = "from-file"

		ApplyEnv(cfg)

		if cfg.API.APIKey != "from-env" {
			t.Errorf("APIKey = %q, want %q", cfg.API.APIKey, "from-env")
		}
	})

	t.Run("keeps config when unset", func(t *testing.T) {
		t.Setenv("D2_API_KEY", "")
		cfg := config.NewConfig(t.TempDir())
		cfg.API.APIKey = "from-file"

		ApplyEnv(cfg)

		if cfg.API.APIKey != "from-file" {
			t.Errorf("APIKey = %q, want %q", cfg.API.APIKey, "from-file")
		}
	})
}

func TestResolveAccessToken(t *testing.T) {
	prompt := func() (string, error) { return "typed", nil }
	failing := func() (string, error) { return "", errors.New("not a terminal") }

	tests := []struct {
		name    string
		flag    string
		env     string
		prompt  func() (string, error)
		want    string
		wantErr bool
	}{
		{name: "flag wins over env", flag: "flag-token", env: "env-token", prompt: prompt, want: "flag-token"},
		{name: "env when no flag", env: "env-token", prompt: prompt, want: "env-token"},
		{name: "anonymous", prompt: prompt, want: ""},
		{name: "dash prompts", flag: "-", env: "env-token", prompt: prompt, want: "typed"},
		{name: "prompt failure", flag: "-", prompt: failing, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("D2_ACCESS_TOKEN", tt.env)

			got, err := ResolveAccessToken(tt.flag, tt.prompt)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveAccessToken() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResolveAccessToken() = %q, want %q", got, tt.want)
			}
		})
	}
}
