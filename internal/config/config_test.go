package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/marginalia-app/marginalia/internal/config"
)

func writeConfig(t *testing.T, home string, cfgData map[string]any) {
	t.Helper()

	configPath := config.GetConfigPath(home)
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("failed to create config directory: %v", err)
	}

	data, err := yaml.Marshal(cfgData)
	if err != nil {
		t.Fatalf("failed to marshal config data: %v", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, map[string]any{})

	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.NotesDir != filepath.Join(home, "marginalia-notes") {
		t.Errorf("unexpected default notes dir: %q", cfg.NotesDir)
	}
	if cfg.APIBase != "http://localhost:6474" {
		t.Errorf("unexpected default api base: %q", cfg.APIBase)
	}
	if cfg.AutosaveDelay() != 2*time.Second {
		t.Errorf("unexpected autosave delay: %v", cfg.AutosaveDelay())
	}
	if cfg.ImageMaxBytes() != 10<<20 {
		t.Errorf("unexpected image ceiling: %d", cfg.ImageMaxBytes())
	}
	if cfg.CacheTTL.Papers != 300 || cfg.CacheTTL.Tags != 600 || cfg.CacheTTL.Stats != 30 {
		t.Errorf("unexpected cache TTLs: %+v", cfg.CacheTTL)
	}
}

func TestLoadKeepsExplicitValues(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, map[string]any{
		"notesdir":         filepath.Join(home, "elsewhere"),
		"api_base":         "http://localhost:9999",
		"token":            "secret",
		"autosave_seconds": 5,
		"image_max_mb":     2,
		"cache_ttl":        map[string]any{"papers": 60},
	})

	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.NotesDir != filepath.Join(home, "elsewhere") {
		t.Errorf("notes dir overridden: %q", cfg.NotesDir)
	}
	if cfg.APIBase != "http://localhost:9999" {
		t.Errorf("api base overridden: %q", cfg.APIBase)
	}
	if cfg.Token != "secret" {
		t.Errorf("token overridden: %q", cfg.Token)
	}
	if cfg.AutosaveDelay() != 5*time.Second {
		t.Errorf("unexpected autosave delay: %v", cfg.AutosaveDelay())
	}
	if cfg.ImageMaxBytes() != 2<<20 {
		t.Errorf("unexpected image ceiling: %d", cfg.ImageMaxBytes())
	}
	if cfg.CacheTTL.Papers != 60 {
		t.Errorf("explicit papers TTL overridden: %d", cfg.CacheTTL.Papers)
	}
	if cfg.CacheTTL.Tags != 600 {
		t.Errorf("expected default tags TTL alongside explicit papers: %d", cfg.CacheTTL.Tags)
	}
}

func TestEnsureConfigExistsCreatesDefaults(t *testing.T) {
	home := t.TempDir()

	if err := config.EnsureConfigExists(home); err != nil {
		t.Fatalf("EnsureConfigExists returned error: %v", err)
	}

	if _, err := os.Stat(config.GetConfigPath(home)); err != nil {
		t.Fatalf("expected config file to exist: %v", err)
	}

	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.NotesDir == "" {
		t.Fatal("expected notes dir to be populated")
	}
}

func TestInitErrorNamesTheField(t *testing.T) {
	t.Parallel()

	err := &config.InitError{Field: "notesdir"}
	if got := err.Error(); !strings.Contains(got, `"notesdir"`) {
		t.Errorf("expected the offending field in the message, got %q", got)
	}
}

func TestSaveRoundTrips(t *testing.T) {
	home := t.TempDir()

	cfg := &config.Config{
		NotesDir:        filepath.Join(home, "notes"),
		APIBase:         "http://localhost:6474",
		Token:           "tok",
		AutosaveSeconds: 3,
	}

	if err := cfg.Save(home); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	reloaded, err := config.Load(home)
	if err != nil {
		t.Fatalf("reloading config: %v", err)
	}

	if reloaded.NotesDir != cfg.NotesDir {
		t.Errorf("notes dir not persisted: %q", reloaded.NotesDir)
	}
	if reloaded.Token != "tok" {
		t.Errorf("token not persisted: %q", reloaded.Token)
	}
	if reloaded.AutosaveSeconds != 3 {
		t.Errorf("autosave not persisted: %d", reloaded.AutosaveSeconds)
	}
}
