package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	Sources SourcesConfig
	Cache   CacheConfig
	Search  SearchConfig
	Live    LiveConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SourcesConfig holds the upstream product database endpoints
type SourcesConfig struct {
	RegionalBaseURL string        `mapstructure:"regional_base_url"`
	GlobalBaseURL   string        `mapstructure:"global_base_url"`
	AttemptTimeout  time.Duration `mapstructure:"attempt_timeout"`
	PageSize        int           `mapstructure:"page_size"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	ResultTTL     time.Duration `mapstructure:"result_ttl"`
	ResponseTTL   time.Duration `mapstructure:"response_ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// SearchConfig holds orchestrator tunables
type SearchConfig struct {
	EnableDebugLogging bool `mapstructure:"enable_debug_logging"`
}

// LiveConfig holds interactive search session tunables
type LiveConfig struct {
	Debounce       time.Duration `mapstructure:"debounce"`
	MinQueryLength int           `mapstructure:"min_query_length"`
	BarcodeTTL     time.Duration `mapstructure:"barcode_ttl"`
	TextTTL        time.Duration `mapstructure:"text_ttl"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/foodscan/")

	// Environment variable settings
	v.SetEnvPrefix("FOODSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Source defaults: regional instance preferred for locality, global as
	// the fallback / second fan-out target
	v.SetDefault("sources.regional_base_url", "https://in.openfoodfacts.org")
	v.SetDefault("sources.global_base_url", "https://world.openfoodfacts.org")
	v.SetDefault("sources.attempt_timeout", "2s")
	v.SetDefault("sources.page_size", 15)

	// Cache defaults: short result expiry rather than process-lifetime
	// retention; response memo is longer-lived
	v.SetDefault("cache.result_ttl", "10m")
	v.SetDefault("cache.response_ttl", "15m")
	v.SetDefault("cache.sweep_interval", "5m")

	// Search defaults
	v.SetDefault("search.enable_debug_logging", false)

	// Live session defaults
	v.SetDefault("live.debounce", "150ms")
	v.SetDefault("live.min_query_length", 2)
	v.SetDefault("live.barcode_ttl", "10m")
	v.SetDefault("live.text_ttl", "5m")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Sources.RegionalBaseURL == "" {
		return fmt.Errorf("regional source base URL is required (set FOODSCAN_SOURCES_REGIONAL_BASE_URL)")
	}
	if config.Sources.GlobalBaseURL == "" {
		return fmt.Errorf("global source base URL is required (set FOODSCAN_SOURCES_GLOBAL_BASE_URL)")
	}
	if config.Sources.PageSize < 1 || config.Sources.PageSize > 20 {
		return fmt.Errorf("source page size must be between 1 and 20, got: %d", config.Sources.PageSize)
	}
	if config.Cache.ResultTTL <= 0 {
		return fmt.Errorf("cache result TTL must be positive, got: %s", config.Cache.ResultTTL)
	}
	return nil
}
