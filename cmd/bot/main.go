// Command bot is the Matchday Discord bot. It polls promiedos for each
// squad's next fixture, mirrors fixtures into guild scheduled events, and
// arms start/end timers around each event.
//
// Usage:
//
//	matchday-bot
//	POLL_INTERVAL_MINUTES=30 matchday-bot
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	"github.com/diablorojo/matchday/internal/config"
	"github.com/diablorojo/matchday/internal/fixture"
	"github.com/diablorojo/matchday/internal/lifecycle"
	"github.com/diablorojo/matchday/internal/ops"
	"github.com/diablorojo/matchday/internal/platform/discord"
	"github.com/diablorojo/matchday/internal/poll"
	"github.com/diablorojo/matchday/internal/promiedos"
	"github.com/diablorojo/matchday/internal/syncer"
	"github.com/diablorojo/matchday/internal/team"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.Debug {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
		slog.SetDefault(logger)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Connect to Discord
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		logger.Error("Failed to create Discord session", "error", err)
		os.Exit(1)
	}
	session.Identify.Intents = discordgo.IntentGuilds | discordgo.IntentGuildScheduledEvents
	if err := session.Open(); err != nil {
		logger.Error("Failed to open Discord gateway", "error", err)
		os.Exit(1)
	}
	defer session.Close()
	logger.Info("Discord gateway connected", "guild", cfg.GuildID)

	adapter := discord.New(session, cfg.GuildID, cfg.AnnouncementsChannelID, cfg.OpsLogChannelID, logger)

	// Core pipeline: scraper -> sync engine -> lifecycle timers
	scraper := promiedos.NewClient(cfg.ScraperRequestsPerMinute, cfg.Timezone, logger)
	scheduler := lifecycle.New(adapter, adapter, adapter, adapter, logger)
	engine := syncer.New(syncer.Params{
		Scraper:   scraper,
		Events:    adapter,
		Announcer: adapter,
		Scheduler: scheduler,
		Sink:      adapter,
		Codec:     fixture.NewCodec(cfg.Timezone),
		Logger:    logger,
	})

	// Poll loop over the squad registry
	poller := poll.New(engine, team.Registry(cfg), cfg.PollInterval, logger)
	go poller.Start(ctx)

	// Ops HTTP server
	router := ops.New(ctx, poller, scheduler, cfg, logger).Router()
	addr := fmt.Sprintf("%s:%d", cfg.OpsHost, cfg.OpsPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("Starting ops server", "addr", addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Ops server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	scheduler.Unload()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ops server shutdown failed", "error", err)
	}
	logger.Info("Goodbye")
}
