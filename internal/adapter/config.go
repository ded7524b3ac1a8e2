package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	appName   = "arcade"
	envPrefix = "ARCADE"

	DefaultCatalogURL = "https://api.rawg.io/api"
)

// Config holds all application configuration
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	Library LibraryConfig `mapstructure:"library"`
	Sync    SyncConfig    `mapstructure:"sync"`
	Storage StorageConfig `mapstructure:"storage"`
	Browser BrowserConfig `mapstructure:"browser"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// CatalogConfig holds the remote game catalog settings
type CatalogConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	APIKey            string        `mapstructure:"api_key"`
	PageSize          int           `mapstructure:"page_size"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"` // 0 disables client-side limiting
	Burst             int           `mapstructure:"burst"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

// LibraryConfig holds the remote user library settings
type LibraryConfig struct {
	BaseURL string `mapstructure:"base_url"` // Empty disables the remote library
	Token   string `mapstructure:"token"`    // Bearer token from the identity provider
}

// SyncConfig holds orchestration timings
type SyncConfig struct {
	FallbackDelay  time.Duration `mapstructure:"fallback_delay"`  // Delay before the local-only toggle
	SearchDebounce time.Duration `mapstructure:"search_debounce"` // Quiescence window for free-text search
}

// StorageConfig holds local persistence settings
type StorageConfig struct {
	Path string `mapstructure:"path"` // BoltDB file; empty = memory-only
}

// BrowserConfig holds the command used to open game pages
type BrowserConfig struct {
	Command string   `mapstructure:"command"` // Empty uses the system default
	Args    []string `mapstructure:"args"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL:           DefaultCatalogURL,
			PageSize:          12,
			RequestsPerSecond: 5,
			Burst:             5,
			Timeout:           30 * time.Second,
		},
		Sync: SyncConfig{
			FallbackDelay:  100 * time.Millisecond,
			SearchDebounce: 300 * time.Millisecond,
		},
		Storage: StorageConfig{
			Path: filepath.Join(defaultDataPath(), "arcade.db"),
		},
		Browser: BrowserConfig{
			Args: []string{},
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "arcade.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", appName)
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", appName)
	}
}

// LoadConfig loads configuration from .env, the config file and environment
func LoadConfig() (*Config, error) {
	return loadConfig(viper.GetViper(), defaultConfigPath(), ".")
}

// LoadConfigFrom loads configuration using only dir for .env and config.yaml
func LoadConfigFrom(dir string) (*Config, error) {
	return loadConfig(viper.New(), dir)
}

func loadConfig(v *viper.Viper, dirs ...string) (*Config, error) {
	// .env never overrides variables already set in the environment
	for _, dir := range dirs {
		envFile := filepath.Join(dir, ".env")
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error reading %s: %w", envFile, err)
		}
	}

	setDefaults(v, DefaultConfig())

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}

	// Environment variable overrides: ARCADE_CATALOG_API_KEY -> catalog.api_key
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.Storage.Path = ExpandHome(cfg.Storage.Path)
	cfg.Logging.File = ExpandHome(cfg.Logging.File)
	return cfg, nil
}

// setDefaults registers every key so env overrides reach Unmarshal
func setDefaults(v *viper.Viper, cfg *Config) {
	for key, value := range settings(cfg) {
		v.SetDefault(key, value)
	}
}

func settings(cfg *Config) map[string]any {
	return map[string]any{
		"catalog.base_url":            cfg.Catalog.BaseURL,
		"catalog.api_key":             cfg.Catalog.APIKey,
		"catalog.page_size":           cfg.Catalog.PageSize,
		"catalog.requests_per_second": cfg.Catalog.RequestsPerSecond,
		"catalog.burst":               cfg.Catalog.Burst,
		"catalog.timeout":             cfg.Catalog.Timeout.String(),
		"library.base_url":            cfg.Library.BaseURL,
		"library.token":               cfg.Library.Token,
		"sync.fallback_delay":         cfg.Sync.FallbackDelay.String(),
		"sync.search_debounce":        cfg.Sync.SearchDebounce.String(),
		"storage.path":                cfg.Storage.Path,
		"browser.command":             cfg.Browser.Command,
		"browser.args":                cfg.Browser.Args,
		"logging.file":                cfg.Logging.File,
		"logging.level":               cfg.Logging.Level,
	}
}

// SaveConfig saves the configuration to the default config file
func SaveConfig(cfg *Config) error {
	return saveConfig(viper.GetViper(), cfg, defaultConfigPath())
}

// SaveConfigTo saves the configuration to dir/config.yaml
func SaveConfigTo(cfg *Config, dir string) error {
	return saveConfig(viper.New(), cfg, dir)
}

func saveConfig(v *viper.Viper, cfg *Config, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	for key, value := range settings(cfg) {
		v.Set(key, value)
	}

	configFile := filepath.Join(dir, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// IsConfigured returns true if a catalog API key is set
func (c *Config) IsConfigured() bool {
	return c.Catalog.APIKey != ""
}

// HasLibrary returns true if a remote library is configured
func (c *Config) HasLibrary() bool {
	return c.Library.BaseURL != ""
}

// ClearStorage removes the local database file
func ClearStorage(cfg *Config) error {
	if cfg.Storage.Path == "" {
		return nil
	}
	if err := os.Remove(cfg.Storage.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear storage: %w", err)
	}
	return nil
}

// ExpandHome expands a leading ~ to the user's home directory
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
