package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "tok")
	t.Setenv("GUILD_ID", "guild-1")
	t.Setenv("ANNOUNCEMENTS_CHANNEL_ID", "chan-announce")
	t.Setenv("OPS_LOG_CHANNEL_ID", "chan-ops")
	t.Setenv("CLUB_VOICE_CHANNEL_ID", "voice-club")
	t.Setenv("GENERAL_VOICE_CHANNEL_ID", "voice-general")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "")
	t.Setenv("OPS_PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "America/Argentina/Buenos_Aires", cfg.Timezone.String())
	assert.Equal(t, time.Hour, cfg.PollInterval)
	assert.Equal(t, 20, cfg.ScraperRequestsPerMinute)
	assert.Equal(t, 8000, cfg.OpsPort)
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_MissingRequiredVarsAreAllNamed(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("GUILD_ID", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DISCORD_TOKEN")
	assert.Contains(t, err.Error(), "GUILD_ID")
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("POLL_INTERVAL_MINUTES", "30")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.PollInterval)
	assert.Equal(t, time.UTC, cfg.Timezone)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigins)
}

func TestLoad_InvalidTimezone(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TIMEZONE", "Not/AZone")

	_, err := Load()
	assert.Error(t, err)
}
