package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setConfigHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("RAKSHANETRA_HOME", dir)
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	setConfigHome(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want default", cfg.BaseURL)
	}
	if cfg.Language != "English" {
		t.Errorf("Language = %q, want English", cfg.Language)
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout())
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := setConfigHome(t)

	content := "base_url: https://staging.example.com\nlanguage: Hindi\ntimeout_seconds: 10\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.BaseURL != "https://staging.example.com" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Language != "Hindi" {
		t.Errorf("Language = %q", cfg.Language)
	}
	if cfg.Timeout() != 10*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout())
	}
}

func TestLoadConfigFillsEmptyFields(t *testing.T) {
	dir := setConfigHome(t)

	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("language: Tamil\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want default filled in", cfg.BaseURL)
	}
	if cfg.Language != "Tamil" {
		t.Errorf("Language = %q", cfg.Language)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	setConfigHome(t)

	want := &Config{BaseURL: "https://local.test", Language: "Bengali", TimeoutSeconds: 7}
	if err := SaveConfig(want); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	got, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.BaseURL != want.BaseURL || got.Language != want.Language || got.TimeoutSeconds != want.TimeoutSeconds {
		t.Errorf("got = %+v, want %+v", got, want)
	}
}

func TestConfigDirHonorsEnvOverride(t *testing.T) {
	dir := setConfigHome(t)
	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir: %v", err)
	}
	if got != dir {
		t.Errorf("ConfigDir = %q, want %q", got, dir)
	}
}
