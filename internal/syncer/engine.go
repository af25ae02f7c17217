// Package syncer keeps the guild's scheduled events in step with scraped
// fixture data. For each team it decides whether the freshly scraped
// fixture creates a new event, updates an existing one, or changes
// nothing, and keeps the lifecycle scheduler armed for the event window.
package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/diablorojo/matchday/internal/fixture"
	"github.com/diablorojo/matchday/internal/platform"
	"github.com/diablorojo/matchday/internal/team"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	// horizon is how far ahead an event gets created. Venue, referee and
	// broadcaster only firm up close to kickoff; creating earlier would
	// mean an edit churn on every poll.
	horizon = 7 * 24 * time.Hour

	// preKickoffLead opens the voice channel slightly before kickoff.
	preKickoffLead = 15 * time.Minute

	// eventWindow covers a normal match duration plus the lead.
	eventWindow = 2*time.Hour + 15*time.Minute
)

// --------------------------------------------------------------------------
// Outcome
// --------------------------------------------------------------------------

// Outcome classifies one per-team synchronization pass.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeSkipped
	OutcomeUnchanged
	OutcomeUpdated
	OutcomeCreated
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeUpdated:
		return "updated"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// --------------------------------------------------------------------------
// Collaborators
// --------------------------------------------------------------------------

// Scraper produces the next fixture listed for a team page, or nil when
// none is listed.
type Scraper interface {
	NextMatch(ctx context.Context, teamURL string) (*fixture.Fixture, error)
}

// LifecycleScheduler arms the start/end timers for a synchronized event.
type LifecycleScheduler interface {
	Schedule(eventID string, startTime, endTime time.Time, channelID, eventName string)
}

// Params are the engine's injected collaborators.
type Params struct {
	Scraper   Scraper
	Events    platform.EventStore
	Announcer platform.Announcer
	Scheduler LifecycleScheduler
	Sink      platform.LogSink
	Codec     *fixture.Codec
	Logger    *slog.Logger
}

// Engine is the fixture synchronization engine.
type Engine struct {
	scraper   Scraper
	events    platform.EventStore
	announcer platform.Announcer
	scheduler LifecycleScheduler
	sink      platform.LogSink
	codec     *fixture.Codec
	logger    *slog.Logger

	// now and readBanner are swappable for tests.
	now        func() time.Time
	readBanner func(path string) ([]byte, error)
}

// New creates a synchronization engine.
func New(p Params) *Engine {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		scraper:    p.Scraper,
		events:     p.Events,
		announcer:  p.Announcer,
		scheduler:  p.Scheduler,
		sink:       p.Sink,
		codec:      p.Codec,
		logger:     logger,
		now:        time.Now,
		readBanner: os.ReadFile,
	}
}

// --------------------------------------------------------------------------
// UpsertNextFixture
// --------------------------------------------------------------------------

// UpsertNextFixture synchronizes one team's next fixture against the
// guild's scheduled events. Every failure is absorbed here and reported as
// OutcomeFailed so one team's trouble never aborts the caller's per-team
// loop.
func (e *Engine) UpsertNextFixture(ctx context.Context, t team.Team) Outcome {
	outcome, err := e.upsert(ctx, t)
	if err != nil {
		e.logger.Error("fixture sync failed", "team", t.ID, "error", err)
		e.sink.Log(ctx, fmt.Sprintf("Error creando/actualizando evento del partido de %s: %v", t.Name, err))
		return OutcomeFailed
	}
	return outcome
}

func (e *Engine) upsert(ctx context.Context, t team.Team) (Outcome, error) {
	f, err := e.scraper.NextMatch(ctx, t.SourceURL)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("scrape %s: %w", t.SourceURL, err)
	}
	if f == nil {
		e.logger.Info("no upcoming fixture", "team", t.ID)
		return OutcomeSkipped, nil
	}

	now := e.now()
	if now.Add(horizon).Before(f.DateTime) {
		e.logger.Info("fixture beyond horizon, skipping",
			"team", t.ID, "kickoff", f.DateTime)
		return OutcomeSkipped, nil
	}

	name := f.EventName()
	startTime := f.DateTime.Add(-preKickoffLead)
	endTime := startTime.Add(eventWindow)

	existing, err := e.findByName(ctx, name)
	if err != nil {
		return OutcomeFailed, err
	}
	if existing != nil {
		return e.updateExisting(ctx, t, existing, *f, startTime, endTime)
	}
	return e.createNew(ctx, t, *f, startTime, endTime)
}

// findByName scans the guild's scheduled events for the deterministic
// event name. Linear: event volume is tens, not thousands.
func (e *Engine) findByName(ctx context.Context, name string) (*platform.ScheduledEvent, error) {
	events, err := e.events.ListScheduledEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list scheduled events: %w", err)
	}
	for i := range events {
		if events[i].Name == name {
			return &events[i], nil
		}
	}
	return nil, nil
}

// updateExisting diffs the event's stored snapshot against the scraped
// fixture and edits in place when they differ. An undecodable description
// (older schema, hand edit) is assumed different rather than fatal.
func (e *Engine) updateExisting(ctx context.Context, t team.Team,
	existing *platform.ScheduledEvent, f fixture.Fixture, startTime, endTime time.Time) (Outcome, error) {

	name := f.EventName()
	old, decodeErr := e.codec.Decode(existing.Description)
	if decodeErr != nil {
		e.logger.Warn("existing event description undecodable, assuming changed",
			"event_id", existing.ID, "error", decodeErr)
	} else if old.Equal(f) {
		return OutcomeUnchanged, nil
	}

	err := e.events.EditScheduledEvent(ctx, existing.ID, platform.EditEventParams{
		Description: e.codec.Encode(f),
		StartTime:   startTime,
		EndTime:     endTime,
		ChannelID:   t.VoiceChannelID,
	})
	if err != nil {
		return OutcomeFailed, fmt.Errorf("edit event %s: %w", existing.ID, err)
	}

	// The platform window moved, so the armed timers go with it.
	e.scheduler.Schedule(existing.ID, startTime, endTime, t.VoiceChannelID, name)

	var changes string
	if decodeErr != nil {
		// The old snapshot is unreadable; announce the full new card.
		changes = e.codec.Encode(f)
	} else {
		changes = strings.Join(e.codec.Diff(old, f), "\n")
	}
	msg := fmt.Sprintf("Cambios en **%s**:\n%s", name, changes)
	if err := e.announcer.AnnounceEventLink(ctx, msg, existing.ID); err != nil {
		return OutcomeFailed, fmt.Errorf("announce update: %w", err)
	}

	e.logger.Info("event updated", "team", t.ID, "event_id", existing.ID)
	return OutcomeUpdated, nil
}

// createNew creates the scheduled event, arms its lifecycle timers and
// announces it. A missing banner is logged and creation proceeds bare.
func (e *Engine) createNew(ctx context.Context, t team.Team,
	f fixture.Fixture, startTime, endTime time.Time) (Outcome, error) {

	name := f.EventName()

	var image []byte
	if t.BannerPath != "" {
		img, err := e.readBanner(t.BannerPath)
		if err != nil {
			e.sink.Log(ctx, fmt.Sprintf("Imagen no encontrada en: %s", t.BannerPath))
		} else {
			image = img
		}
	}

	created, err := e.events.CreateScheduledEvent(ctx, platform.CreateEventParams{
		Name:        name,
		Description: e.codec.Encode(f),
		StartTime:   startTime,
		EndTime:     endTime,
		ChannelID:   t.VoiceChannelID,
		Image:       image,
	})
	if err != nil {
		return OutcomeFailed, fmt.Errorf("create event: %w", err)
	}

	e.scheduler.Schedule(created.ID, startTime, endTime, t.VoiceChannelID, name)

	msg := "** *¡Nuevo evento!* **\n\n" + e.codec.Encode(f)
	if err := e.announcer.AnnounceEventLink(ctx, msg, created.ID); err != nil {
		return OutcomeFailed, fmt.Errorf("announce creation: %w", err)
	}

	e.logger.Info("event created", "team", t.ID, "event_id", created.ID, "kickoff", f.DateTime)
	return OutcomeCreated, nil
}
