package state

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/marginalia-app/marginalia/internal/cache"
	"github.com/marginalia-app/marginalia/internal/config"
	"github.com/marginalia-app/marginalia/internal/constants"
	"github.com/marginalia-app/marginalia/internal/library"
	"github.com/marginalia-app/marginalia/internal/store"
)

// State is the shared dependency bundle handed to every command.
type State struct {
	Config *config.Config
	Store  *store.Store
	Cache  *cache.Cache
	Client *library.Client
	Home   string
}

func NewState() (*State, error) {
	home, err := GetHomeDir()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadConfig(home)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.NotesDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create notes directory: %w", err)
	}

	c := cache.New(
		cache.WithTTL("papers", time.Duration(cfg.CacheTTL.Papers)*time.Second),
		cache.WithTTL("paper", time.Duration(cfg.CacheTTL.Papers)*time.Second),
		cache.WithTTL("tags", time.Duration(cfg.CacheTTL.Tags)*time.Second),
		cache.WithTTL("stats", time.Duration(cfg.CacheTTL.Stats)*time.Second),
	)

	return &State{
		Config: cfg,
		Store:  store.New(cfg.NotesDir, store.WithMaxImageSize(cfg.ImageMaxBytes())),
		Cache:  c,
		Client: library.NewClient(cfg.APIBase, cfg.Token, c),
		Home:   home,
	}, nil
}

func GetHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory. err: %s", err)
	}

	return home, nil
}

func LoadConfig(home string) (*config.Config, error) {
	viper.AddConfigPath(home + constants.ConfigDir)
	viper.SetConfigName(constants.ConfigFile)
	viper.SetConfigType(constants.ConfigFileType)
	viper.ReadInConfig()

	err := config.EnsureConfigExists(home)
	if err != nil {
		return nil, err
	}

	return config.Load(home)
}
