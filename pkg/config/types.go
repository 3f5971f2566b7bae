package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Google       GoogleConfig       `mapstructure:"google"`
	Catalog      CatalogConfig      `mapstructure:"catalog"`
	Participants ParticipantsConfig `mapstructure:"participants"`
	Audio        AudioConfig        `mapstructure:"audio"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
}

// DatabaseConfig contains settings for the local sqlite mirror
type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	Verbose bool   `mapstructure:"verbose"`
}

// GoogleConfig contains spreadsheet, Drive and credential settings
type GoogleConfig struct {
	SpreadsheetID     string        `mapstructure:"spreadsheet_id"`
	ParticipantSheet  string        `mapstructure:"participant_sheet"`
	OnomatopoeiaSheet string        `mapstructure:"onomatopoeia_sheet"`
	VideoSheet        string        `mapstructure:"video_sheet"`
	SheetsBaseURL     string        `mapstructure:"sheets_base_url"`
	TokenEndpoint     string        `mapstructure:"token_endpoint"`
	CredentialsFile   string        `mapstructure:"credentials_file"`
	TokenCacheTTL     time.Duration `mapstructure:"token_cache_ttl"`
	TokenTimeout      time.Duration `mapstructure:"token_timeout"`
	DriveVideoFolder  string        `mapstructure:"drive_video_folder"`
	DriveAudioFolder  string        `mapstructure:"drive_audio_folder"`
}

// CatalogConfig contains stimulus video catalog settings
type CatalogConfig struct {
	Extension string `mapstructure:"extension"`
	Locale    string `mapstructure:"locale"`
}

// ParticipantsConfig contains participant store settings
type ParticipantsConfig struct {
	CaseInsensitiveEmail bool `mapstructure:"case_insensitive_email"`
}

// AudioConfig contains voice recording intake settings
type AudioConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
