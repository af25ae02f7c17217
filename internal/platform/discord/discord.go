// Package discord implements the platform contracts on top of a discordgo
// session. All calls target a single guild.
package discord

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/diablorojo/matchday/internal/platform"
)

// Discord hard-caps message content at 2000 characters.
const maxMessageLen = 2000

// Adapter implements platform.EventStore, platform.ChannelResolver,
// platform.Announcer and platform.LogSink against one guild.
type Adapter struct {
	session           *discordgo.Session
	guildID           string
	announceChannelID string
	opsLogChannelID   string
	logger            *slog.Logger
}

var (
	_ platform.EventStore      = (*Adapter)(nil)
	_ platform.ChannelResolver = (*Adapter)(nil)
	_ platform.Announcer       = (*Adapter)(nil)
	_ platform.LogSink         = (*Adapter)(nil)
)

// New creates an adapter bound to the given guild and channels.
func New(session *discordgo.Session, guildID, announceChannelID, opsLogChannelID string, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{
		session:           session,
		guildID:           guildID,
		announceChannelID: announceChannelID,
		opsLogChannelID:   opsLogChannelID,
		logger:            logger,
	}
}

// ---- Scheduled events ----

func (a *Adapter) ListScheduledEvents(ctx context.Context) ([]platform.ScheduledEvent, error) {
	raw, err := a.session.GuildScheduledEvents(a.guildID, false, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("listing scheduled events: %w", err)
	}
	events := make([]platform.ScheduledEvent, 0, len(raw))
	for _, e := range raw {
		events = append(events, fromGuildEvent(e))
	}
	return events, nil
}

func (a *Adapter) GetScheduledEvent(ctx context.Context, eventID string) (*platform.ScheduledEvent, error) {
	e, err := a.session.GuildScheduledEvent(a.guildID, eventID, false, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetching scheduled event %s: %w", eventID, err)
	}
	ev := fromGuildEvent(e)
	return &ev, nil
}

func (a *Adapter) CreateScheduledEvent(ctx context.Context, params platform.CreateEventParams) (*platform.ScheduledEvent, error) {
	start := params.StartTime
	end := params.EndTime
	req := &discordgo.GuildScheduledEventParams{
		Name:               params.Name,
		Description:        params.Description,
		ScheduledStartTime: &start,
		ScheduledEndTime:   &end,
		EntityType:         discordgo.GuildScheduledEventEntityTypeVoice,
		ChannelID:          params.ChannelID,
		PrivacyLevel:       discordgo.GuildScheduledEventPrivacyLevelGuildOnly,
	}
	if len(params.Image) > 0 {
		req.Image = imageDataURI(params.Image)
	}
	e, err := a.session.GuildScheduledEventCreate(a.guildID, req, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("creating scheduled event %q: %w", params.Name, err)
	}
	ev := fromGuildEvent(e)
	return &ev, nil
}

func (a *Adapter) EditScheduledEvent(ctx context.Context, eventID string, params platform.EditEventParams) error {
	start := params.StartTime
	end := params.EndTime
	req := &discordgo.GuildScheduledEventParams{
		Description:        params.Description,
		ScheduledStartTime: &start,
		ScheduledEndTime:   &end,
		ChannelID:          params.ChannelID,
	}
	if _, err := a.session.GuildScheduledEventEdit(a.guildID, eventID, req, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("editing scheduled event %s: %w", eventID, err)
	}
	return nil
}

func (a *Adapter) DeleteScheduledEvent(ctx context.Context, eventID string) error {
	if err := a.session.GuildScheduledEventDelete(a.guildID, eventID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("deleting scheduled event %s: %w", eventID, err)
	}
	return nil
}

func fromGuildEvent(e *discordgo.GuildScheduledEvent) platform.ScheduledEvent {
	ev := platform.ScheduledEvent{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		StartTime:   e.ScheduledStartTime,
		ChannelID:   e.ChannelID,
	}
	if e.ScheduledEndTime != nil {
		ev.EndTime = *e.ScheduledEndTime
	}
	return ev
}

// imageDataURI encodes a cover image as the data URI the events API expects.
func imageDataURI(img []byte) string {
	return "data:" + http.DetectContentType(img) + ";base64," +
		base64.StdEncoding.EncodeToString(img)
}

// ---- Channels and invites ----

func (a *Adapter) ResolveVoiceChannel(ctx context.Context, channelID string) (*platform.VoiceChannel, error) {
	ch, err := a.session.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetching channel %s: %w", channelID, err)
	}
	if ch.Type != discordgo.ChannelTypeGuildVoice {
		return nil, fmt.Errorf("channel %s is not a voice channel", channelID)
	}
	return &platform.VoiceChannel{ID: ch.ID, Name: ch.Name}, nil
}

func (a *Adapter) CreateVoiceInvite(ctx context.Context, channelID string) (string, error) {
	inv, err := a.session.ChannelInviteCreate(channelID, discordgo.Invite{
		MaxAge:  int((3 * time.Hour).Seconds()),
		MaxUses: 0,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("creating invite for channel %s: %w", channelID, err)
	}
	return "https://discord.gg/" + inv.Code, nil
}

// ---- Announcements ----

func (a *Adapter) Announce(ctx context.Context, msg string) error {
	_, err := a.session.ChannelMessageSend(a.announceChannelID, truncate(msg), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("announcing: %w", err)
	}
	return nil
}

func (a *Adapter) AnnounceEventLink(ctx context.Context, msg, eventID string) error {
	url := fmt.Sprintf("https://discord.com/events/%s/%s", a.guildID, eventID)
	return a.announceWithButton(ctx, msg, "Ver evento", url)
}

func (a *Adapter) AnnounceJoinVoice(ctx context.Context, msg, inviteURL string) error {
	return a.announceWithButton(ctx, msg, "Unirse", inviteURL)
}

func (a *Adapter) announceWithButton(ctx context.Context, msg, label, url string) error {
	_, err := a.session.ChannelMessageSendComplex(a.announceChannelID, &discordgo.MessageSend{
		Content: truncate(msg),
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label: label,
						Style: discordgo.LinkButton,
						URL:   url,
					},
				},
			},
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("announcing with link button: %w", err)
	}
	return nil
}

// ---- Ops log sink ----

// Log mirrors a message to the ops channel. Failures go to the process log
// only; the sink never fails its caller.
func (a *Adapter) Log(ctx context.Context, msg string) {
	if a.opsLogChannelID == "" {
		return
	}
	if _, err := a.session.ChannelMessageSend(a.opsLogChannelID, truncate(msg), discordgo.WithContext(ctx)); err != nil {
		a.logger.Warn("ops log message dropped", "error", err)
	}
}

func truncate(msg string) string {
	if len(msg) <= maxMessageLen {
		return msg
	}
	runes := []rune(msg)
	if len(runes) <= maxMessageLen {
		return msg
	}
	return string(runes[:maxMessageLen-1]) + "…"
}
