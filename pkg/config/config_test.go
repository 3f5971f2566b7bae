package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestConfigDefaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	setDefaults()

	assert.Equal(t, 8080, GetInt("server.port"))
	assert.Equal(t, "Participants", GetString("google.participant_sheet"))
	assert.Equal(t, "Onomatopoeia", GetString("google.onomatopoeia_sheet"))
	assert.Equal(t, "SelectedVideos", GetString("google.video_sheet"))
	assert.Equal(t, 50*time.Minute, GetDuration("google.token_cache_ttl"))
	assert.Equal(t, ".mp4", GetString("catalog.extension"))
	assert.True(t, GetBool("participants.case_insensitive_email"))
	assert.Equal(t, int64(10*1024*1024), viper.GetInt64("audio.max_bytes"))
}

func TestConfigEnvironmentOverride(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	setDefaults()
	os.Setenv("ONOMA_SERVER_PORT", "9090")
	defer os.Unsetenv("ONOMA_SERVER_PORT")
	viper.BindEnv("server.port", "ONOMA_SERVER_PORT")

	assert.Equal(t, 9090, GetInt("server.port"))
}

func TestValidateCorrectsTokenTTL(t *testing.T) {
	tests := []struct {
		name string
		ttl  time.Duration
		want time.Duration
	}{
		{name: "zero ttl falls back to 50 minutes", ttl: 0, want: 50 * time.Minute},
		{name: "ttl beyond provider expiry falls back", ttl: 2 * time.Hour, want: 50 * time.Minute},
		{name: "valid ttl kept", ttl: 30 * time.Minute, want: 30 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			defer viper.Reset()

			setDefaults()
			viper.Set("google.token_cache_ttl", tt.ttl)

			err := validate()
			assert.NoError(t, err)
			assert.Equal(t, tt.want, GetDuration("google.token_cache_ttl"))
		})
	}
}

func TestConfigStructValidate(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 8080

	err := cfg.Validate()
	assert.NoError(t, err)
	assert.Equal(t, 50*time.Minute, cfg.Google.TokenCacheTTL)
	assert.Equal(t, int64(10*1024*1024), cfg.Audio.MaxBytes)

	cfg.Server.Port = -1
	assert.Error(t, cfg.Validate())
}
