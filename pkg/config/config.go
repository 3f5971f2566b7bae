package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	once    sync.Once
	initErr error
)

// Init initializes the configuration system
// This should be called once at application startup
func Init() error {
	once.Do(func() {
		// Set default values
		setDefaults()

		// Set up environment variable reading for overrides
		viper.SetEnvPrefix("ONOMA")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		// Load config from fixed location (cleaned for safety)
		configPath := filepath.Clean("./config/settings.yaml")
		viper.SetConfigFile(configPath)

		// Try to read the config file
		if err := viper.ReadInConfig(); err != nil {
			// If the config file doesn't exist, just use defaults and env vars
			if !os.IsNotExist(err) {
				initErr = fmt.Errorf("error reading config file %s: %w", configPath, err)
				return
			}
		}

		// Validate the configuration
		if err := validate(); err != nil {
			initErr = fmt.Errorf("invalid configuration: %w", err)
		}
	})

	return initErr
}

// GetConfig returns the current configuration as a struct
// Init() must be called before using this
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a time.Duration config value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// validate validates the configuration using Viper values
func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %d", port)
	}

	if viper.GetString("database.path") == "" {
		fmt.Println("Warning: No database path configured")
	}

	if viper.GetString("google.spreadsheet_id") == "" {
		fmt.Println("Warning: No spreadsheet id configured; remote persistence will fail")
	}

	ttl := viper.GetDuration("google.token_cache_ttl")
	if ttl <= 0 || ttl >= time.Hour {
		// Provider-side expiry is one hour; the cache must turn over before that.
		viper.Set("google.token_cache_ttl", 50*time.Minute)
	}

	if viper.GetInt64("audio.max_bytes") <= 0 {
		viper.Set("audio.max_bytes", int64(10*1024*1024))
	}

	return nil
}

// Validate validates a Config struct (for testing)
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Google.TokenCacheTTL <= 0 || c.Google.TokenCacheTTL >= time.Hour {
		c.Google.TokenCacheTTL = 50 * time.Minute
	}

	if c.Audio.MaxBytes <= 0 {
		c.Audio.MaxBytes = 10 * 1024 * 1024
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("environment", "development")

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)

	// Database defaults
	viper.SetDefault("database.path", "./data/survey.db")
	viper.SetDefault("database.verbose", false)

	// Google defaults
	viper.SetDefault("google.participant_sheet", "Participants")
	viper.SetDefault("google.onomatopoeia_sheet", "Onomatopoeia")
	viper.SetDefault("google.video_sheet", "SelectedVideos")
	viper.SetDefault("google.sheets_base_url", "https://sheets.googleapis.com/v4/spreadsheets")
	viper.SetDefault("google.token_cache_ttl", 50*time.Minute)
	viper.SetDefault("google.token_timeout", 10*time.Second)
	viper.SetDefault("google.drive_audio_folder", "Audio")

	// Catalog defaults
	viper.SetDefault("catalog.extension", ".mp4")
	viper.SetDefault("catalog.locale", "en")

	// Participant defaults
	viper.SetDefault("participants.case_insensitive_email", true)

	// Audio defaults
	viper.SetDefault("audio.max_bytes", int64(10*1024*1024))

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "console")
}
