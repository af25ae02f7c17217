// Package config provides centralized configuration loaded from environment
// variables. Shared by cmd/bot and cmd/matchdayctl.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Discord
	DiscordToken           string
	GuildID                string
	AnnouncementsChannelID string
	OpsLogChannelID        string
	ClubVoiceChannelID     string
	GeneralVoiceChannelID  string

	// Scheduling
	Timezone     *time.Location
	PollInterval time.Duration

	// Scraper
	ScraperRequestsPerMinute int

	// Ops server
	OpsHost          string
	OpsPort          int
	CORSAllowOrigins []string

	Environment string // development, staging, production
	Debug       bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	var missing []string
	required := func(key string) string {
		v := os.Getenv(key)
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	token := required("DISCORD_TOKEN")
	guildID := required("GUILD_ID")
	announceID := required("ANNOUNCEMENTS_CHANNEL_ID")
	opsLogID := required("OPS_LOG_CHANNEL_ID")
	clubVoiceID := required("CLUB_VOICE_CHANNEL_ID")
	generalVoiceID := required("GENERAL_VOICE_CHANNEL_ID")
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	tzName := envOr("TIMEZONE", "America/Argentina/Buenos_Aires")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tzName, err)
	}

	return &Config{
		DiscordToken:           token,
		GuildID:                guildID,
		AnnouncementsChannelID: announceID,
		OpsLogChannelID:        opsLogID,
		ClubVoiceChannelID:     clubVoiceID,
		GeneralVoiceChannelID:  generalVoiceID,

		Timezone:     loc,
		PollInterval: time.Duration(envInt("POLL_INTERVAL_MINUTES", 60)) * time.Minute,

		ScraperRequestsPerMinute: envInt("SCRAPER_REQUESTS_PER_MINUTE", 20),

		OpsHost: envOr("OPS_HOST", "0.0.0.0"),
		OpsPort: envInt("OPS_PORT", envInt("PORT", 8000)),
		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
		}),

		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),
	}, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
