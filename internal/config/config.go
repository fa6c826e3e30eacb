package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"

	"github.com/axellelanca/dynamiclinks/internal/models"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the main structure mapping the entire application configuration.
// This struct uses mapstructure tags to map YAML keys to Go struct fields.
type Config struct {
	// Server configuration section containing HTTP server settings
	Server struct {
		Port    int    `mapstructure:"port"`     // HTTP server port (default: 8080)
		BaseURL string `mapstructure:"base_url"` // Base URL used by the CLI to print short links
	} `mapstructure:"server"`

	// Store selects the Link Store backend: "sqlite" or "memory"
	Store struct {
		Driver string `mapstructure:"driver"`
	} `mapstructure:"store"`

	// Database configuration section for SQLite settings
	Database struct {
		Name string `mapstructure:"name"` // SQLite database file name
	} `mapstructure:"database"`

	// Links configuration for token generation
	Links struct {
		TokenLength      int `mapstructure:"token_length"`
		MaxCreateRetries int `mapstructure:"max_create_retries"`
	} `mapstructure:"links"`

	// Purge configuration for expired link garbage collection
	Purge struct {
		IntervalMinutes int `mapstructure:"interval_minutes"`
		GraceMinutes    int `mapstructure:"grace_minutes"`
	} `mapstructure:"purge"`

	// Interstitial holds the defaults of the app-opening page
	Interstitial struct {
		DefaultTitle       string `mapstructure:"default_title"`
		DefaultDescription string `mapstructure:"default_description"`
		DefaultImageURL    string `mapstructure:"default_image_url"`
		FallbackDelayMS    int    `mapstructure:"fallback_delay_ms"`
	} `mapstructure:"interstitial"`
}

// LoadConfig loads the application configuration using Viper.
// A .env file is applied to the process environment first, then the YAML file
// in ./configs, then environment variable overrides.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	v := viper.New()

	// e.g., "server.port" becomes "SERVER_PORT"
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.AddConfigPath("./configs")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("database.name", "dynamic_links.db")
	v.SetDefault("links.token_length", 7)
	v.SetDefault("links.max_create_retries", 5)
	v.SetDefault("purge.interval_minutes", 1)
	v.SetDefault("purge.grace_minutes", 0)
	v.SetDefault("interstitial.default_title", "Open in app")
	v.SetDefault("interstitial.default_description", "Open this link in the app")
	v.SetDefault("interstitial.default_image_url", models.DefaultSocialImageLink)
	v.SetDefault("interstitial.fallback_delay_ms", 2000)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Config file not found, using default values")
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if cfg.Store.Driver != "sqlite" && cfg.Store.Driver != "memory" {
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
	if cfg.Purge.IntervalMinutes <= 0 {
		log.Printf("Warning: purge.interval_minutes=%d is not positive, using 1", cfg.Purge.IntervalMinutes)
		cfg.Purge.IntervalMinutes = 1
	}
	if cfg.Purge.GraceMinutes < 0 {
		log.Printf("Warning: purge.grace_minutes=%d is negative, using 0", cfg.Purge.GraceMinutes)
		cfg.Purge.GraceMinutes = 0
	}

	log.Printf("Configuration loaded: Server Port=%d, Store=%s, DB Name=%s, Token Length=%d, Purge Interval=%dmin",
		cfg.Server.Port, cfg.Store.Driver, cfg.Database.Name, cfg.Links.TokenLength, cfg.Purge.IntervalMinutes)

	return &cfg, nil
}
