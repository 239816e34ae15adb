package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	TMDBBaseURL        string        `mapstructure:"tmdb_base_url"`
	TMDBAPIKey         string        `mapstructure:"tmdb_api_key"`
	TMDBAccessToken    string        `mapstructure:"tmdb_access_token"`
	TMDBLanguage       string        `mapstructure:"tmdb_language"`
	TMDBTimeoutSeconds int64         `mapstructure:"tmdb_timeout_seconds"`
	TMDBRetryCount     int           `mapstructure:"tmdb_retry_count"`
	TMDBTimeout        time.Duration `mapstructure:"-"`

	FeedsFile           string        `mapstructure:"feeds_file"`
	PublishersFile      string        `mapstructure:"publishers_file"`
	SyncIntervalSeconds int64         `mapstructure:"sync_interval"`
	SyncInterval        time.Duration `mapstructure:"-"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`

	MetricsAddr string `mapstructure:"metrics_addr"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "tmdb-people")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("tmdb_base_url", "https://api.themoviedb.org/3")
	v.SetDefault("tmdb_api_key", "")
	v.SetDefault("tmdb_access_token", "")
	v.SetDefault("tmdb_language", "")
	v.SetDefault("tmdb_timeout_seconds", 15)
	v.SetDefault("tmdb_retry_count", 2)
	v.SetDefault("feeds_file", "./configs/feeds.yaml")
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("sync_interval", int64((6*time.Hour)/time.Second))
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/people.db")
	v.SetDefault("storage_ttl_seconds", int64((7*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))
	v.SetDefault("metrics_addr", "")
}

func (cfg *Config) normalize() error {
	cfg.TMDBBaseURL = strings.TrimSpace(cfg.TMDBBaseURL)
	if cfg.TMDBBaseURL == "" {
		return fmt.Errorf("tmdb_base_url must not be empty")
	}
	if cfg.TMDBTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid tmdb_timeout_seconds (must be positive seconds)")
	}
	if cfg.TMDBRetryCount < 0 {
		return fmt.Errorf("invalid tmdb_retry_count (must not be negative)")
	}
	cfg.TMDBTimeout = time.Duration(cfg.TMDBTimeoutSeconds) * time.Second

	if cfg.SyncIntervalSeconds <= 0 {
		return fmt.Errorf("invalid sync_interval (must be positive seconds)")
	}
	cfg.SyncInterval = time.Duration(cfg.SyncIntervalSeconds) * time.Second

	if cfg.StorageTTLSeconds <= 0 {
		return fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return nil
}

// HasCredentials reports whether an API key or access token is configured.
func (cfg *Config) HasCredentials() bool {
	return strings.TrimSpace(cfg.TMDBAPIKey) != "" || strings.TrimSpace(cfg.TMDBAccessToken) != ""
}
