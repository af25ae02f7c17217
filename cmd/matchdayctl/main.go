// Command matchdayctl is the Matchday operations CLI.
//
// Usage:
//
//	matchdayctl teams
//	matchdayctl sync
//	matchdayctl sync profesional
//	matchdayctl decode < description.txt
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/diablorojo/matchday/internal/config"
	"github.com/diablorojo/matchday/internal/fixture"
	"github.com/diablorojo/matchday/internal/platform/discord"
	"github.com/diablorojo/matchday/internal/promiedos"
	"github.com/diablorojo/matchday/internal/syncer"
	"github.com/diablorojo/matchday/internal/team"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "matchdayctl",
		Short: "Matchday bot operations CLI",
	}

	root.AddCommand(teamsCmd())
	root.AddCommand(syncCmd())
	root.AddCommand(decodeCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// teams command
// --------------------------------------------------------------------------

func teamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "teams",
		Short: "List the squads the bot tracks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			for _, t := range team.Registry(cfg) {
				fmt.Printf("%-12s %-32s %s\n", t.ID, t.Name, t.SourceURL)
			}
			return nil
		},
	}
}

// --------------------------------------------------------------------------
// sync command
// --------------------------------------------------------------------------

// syncCmd runs one synchronization pass over the REST API only; no gateway
// connection and no lifecycle timers. The bot re-arms timers for any event
// this pass touches on its next poll cycle.
func syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync [team-id]",
		Short: "Run one fixture synchronization pass (all squads, or one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			teams := team.Registry(cfg)
			if len(args) == 1 {
				t, ok := team.Lookup(cfg, args[0])
				if !ok {
					return fmt.Errorf("unknown team %q", args[0])
				}
				teams = []team.Team{t}
			}

			session, err := discordgo.New("Bot " + cfg.DiscordToken)
			if err != nil {
				return fmt.Errorf("creating Discord session: %w", err)
			}
			adapter := discord.New(session, cfg.GuildID, cfg.AnnouncementsChannelID, cfg.OpsLogChannelID, logger)

			engine := syncer.New(syncer.Params{
				Scraper:   promiedos.NewClient(cfg.ScraperRequestsPerMinute, cfg.Timezone, logger),
				Events:    adapter,
				Announcer: adapter,
				Scheduler: noopScheduler{},
				Sink:      adapter,
				Codec:     fixture.NewCodec(cfg.Timezone),
				Logger:    logger,
			})

			start := time.Now()
			counts := make(map[string]int)
			for _, t := range teams {
				outcome := engine.UpsertNextFixture(ctx, t)
				counts[outcome.String()]++
				logger.Info("team synchronized", "team", t.ID, "outcome", outcome.String())
			}
			logger.Info("Sync finished",
				"duration", time.Since(start).Round(time.Second), "counts", counts)
			return nil
		},
	}
}

type noopScheduler struct{}

func (noopScheduler) Schedule(eventID string, startTime, endTime time.Time, channelID, eventName string) {
}

// --------------------------------------------------------------------------
// decode command
// --------------------------------------------------------------------------

func decodeCmd() *cobra.Command {
	var tz string
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode an event description read from stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := time.LoadLocation(tz)
			if err != nil {
				return fmt.Errorf("invalid timezone %q: %w", tz, err)
			}
			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}

			f, err := fixture.NewCodec(loc).Decode(string(raw))
			if err != nil {
				return fmt.Errorf("decoding description: %w", err)
			}

			fmt.Printf("Local:       %s\n", f.LocalTeam)
			fmt.Printf("Visiting:    %s\n", f.VisitingTeam)
			fmt.Printf("Competition: %s\n", orDash(f.Competition))
			fmt.Printf("Kickoff:     %s\n", f.DateTime.Format("02/01/2006 15:04 MST"))
			fmt.Printf("Stadium:     %s\n", orDash(f.Stadium))
			fmt.Printf("Referee:     %s\n", orDash(f.Referee))
			fmt.Printf("TV:          %s\n", orDash(f.TVChannels))
			return nil
		},
	}
	cmd.Flags().StringVar(&tz, "tz", "America/Argentina/Buenos_Aires", "Timezone for the kickoff timestamp")
	return cmd
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
