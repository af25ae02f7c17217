// Package platform defines the narrow interfaces the bot consumes from the
// messaging platform. The sync engine and lifecycle scheduler receive these
// as explicit dependencies so they are testable with fakes; the discord
// subpackage provides the real implementation.
package platform

import (
	"context"
	"time"
)

// ScheduledEvent is the platform's native calendar entity. Its description
// carries the encoded fixture and is the durable record.
type ScheduledEvent struct {
	ID          string
	Name        string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	ChannelID   string
}

// CreateEventParams are the fields for a new scheduled event.
type CreateEventParams struct {
	Name        string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	ChannelID   string
	Image       []byte // optional cover image, attached when non-nil
}

// EditEventParams are the mutable fields of an existing scheduled event.
type EditEventParams struct {
	Description string
	StartTime   time.Time
	EndTime     time.Time
	ChannelID   string
}

// EventStore is the scheduled-event CRUD surface of the guild.
type EventStore interface {
	ListScheduledEvents(ctx context.Context) ([]ScheduledEvent, error)
	GetScheduledEvent(ctx context.Context, eventID string) (*ScheduledEvent, error)
	CreateScheduledEvent(ctx context.Context, params CreateEventParams) (*ScheduledEvent, error)
	EditScheduledEvent(ctx context.Context, eventID string, params EditEventParams) error
	DeleteScheduledEvent(ctx context.Context, eventID string) error
}

// VoiceChannel is a resolved guild voice channel.
type VoiceChannel struct {
	ID   string
	Name string
}

// ChannelResolver resolves guild voice channels and creates invites into
// them. ResolveVoiceChannel fails when the id no longer points at a voice
// channel (it may have been deleted or converted out-of-band).
type ChannelResolver interface {
	ResolveVoiceChannel(ctx context.Context, channelID string) (*VoiceChannel, error)
	CreateVoiceInvite(ctx context.Context, channelID string) (inviteURL string, err error)
}

// Announcer posts to the community announcements channel.
type Announcer interface {
	Announce(ctx context.Context, msg string) error

	// AnnounceEventLink attaches a button linking to the scheduled event.
	AnnounceEventLink(ctx context.Context, msg, eventID string) error

	// AnnounceJoinVoice attaches a button that joins the voice channel
	// through the given invite.
	AnnounceJoinVoice(ctx context.Context, msg, inviteURL string) error
}

// LogSink mirrors operational messages to the ops text channel. Sink
// failures are swallowed by implementations; logging must never take the
// caller down.
type LogSink interface {
	Log(ctx context.Context, msg string)
}
