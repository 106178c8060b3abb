package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// CacheTTLConfig holds per-resource cache lifetimes, in seconds.
type CacheTTLConfig struct {
	Papers int `yaml:"papers" json:"papers"`
	Tags   int `yaml:"tags"   json:"tags"`
	Stats  int `yaml:"stats"  json:"stats"`
}

// S3Config describes the optional backup target. Access keys may be
// left empty to use the ambient credential chain.
type S3Config struct {
	Bucket    string `yaml:"bucket"     json:"bucket"`
	Region    string `yaml:"region"     json:"region"`
	Prefix    string `yaml:"prefix"     json:"prefix"`
	AccessKey string `yaml:"access_key" json:"access_key"`
	SecretKey string `yaml:"secret_key" json:"secret_key"`
}

type Config struct {
	NotesDir        string         `yaml:"notesdir"         json:"notes_dir"`
	APIBase         string         `yaml:"api_base"         json:"api_base"`
	Token           string         `yaml:"token"            json:"token"`
	AutosaveSeconds int            `yaml:"autosave_seconds" json:"autosave_seconds"`
	ImageMaxMB      int            `yaml:"image_max_mb"     json:"image_max_mb"`
	CacheTTL        CacheTTLConfig `yaml:"cache_ttl"        json:"cache_ttl"`
	Backup          S3Config       `yaml:"backup"           json:"backup"`
}

const (
	defaultAPIBase         = "http://localhost:6474"
	defaultAutosaveSeconds = 2
	defaultImageMaxMB      = 10
)

func defaultNotesDir(homeDir string) string {
	return filepath.Join(homeDir, "marginalia-notes")
}

func (cfg *Config) ensureDefaults(homeDir string) {
	if strings.TrimSpace(cfg.NotesDir) == "" {
		cfg.NotesDir = defaultNotesDir(homeDir)
	}
	if strings.TrimSpace(cfg.APIBase) == "" {
		cfg.APIBase = defaultAPIBase
	}
	if cfg.AutosaveSeconds <= 0 {
		cfg.AutosaveSeconds = defaultAutosaveSeconds
	}
	if cfg.ImageMaxMB <= 0 {
		cfg.ImageMaxMB = defaultImageMaxMB
	}
	if cfg.CacheTTL.Papers <= 0 {
		cfg.CacheTTL.Papers = 300
	}
	if cfg.CacheTTL.Tags <= 0 {
		cfg.CacheTTL.Tags = 600
	}
	if cfg.CacheTTL.Stats <= 0 {
		cfg.CacheTTL.Stats = 30
	}
}

// AutosaveDelay converts the configured autosave window to a duration.
func (cfg *Config) AutosaveDelay() time.Duration {
	return time.Duration(cfg.AutosaveSeconds) * time.Second
}

// ImageMaxBytes converts the configured image ceiling to bytes.
func (cfg *Config) ImageMaxBytes() int64 {
	return int64(cfg.ImageMaxMB) << 20
}

func Load(homeDir string) (*Config, error) {
	path := GetConfigPath(homeDir)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	cfg.ensureDefaults(homeDir)
	return cfg, nil
}

func (cfg *Config) Save(homeDir string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	configPath := GetConfigPath(homeDir)
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}
