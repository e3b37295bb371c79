package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	tests := []struct {
		name       string
		configEnv  string
		homeEnv    string
		wantConfig string
		wantBase   string
	}{
		{"env overrides", "/custom/sawiku.toml", "/srv/sawiku", "/custom/sawiku.toml", "/srv/sawiku"},
		{"home fallbacks", "", "", filepath.Join(home, ".config", "sawiku.toml"), filepath.Join(home, ".local", "share", "sawiku")},
		{"mixed", "", "/srv/sawiku", filepath.Join(home, ".config", "sawiku.toml"), "/srv/sawiku"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SAWIKU_CONFIG_PATH", tt.configEnv)
			t.Setenv("SAWIKU_HOME", tt.homeEnv)

			d, err := GetDefaults()
			if err != nil {
				t.Fatalf("GetDefaults() error = %v", err)
			}
			if d.ConfigPath != tt.wantConfig || d.BaseDir != tt.wantBase {
				t.Errorf("GetDefaults() = %+v, want config %q base %q", d, tt.wantConfig, tt.wantBase)
			}
		})
	}
}
