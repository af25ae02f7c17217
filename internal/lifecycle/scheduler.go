// Package lifecycle owns the pair of delayed tasks tied to each scheduled
// event: a start timer that opens the watch party (voice invite plus
// announcement) and an end timer that cleans the event up afterwards.
//
// The job registry is keyed by event id and holds at most one live task
// pair per event; re-scheduling an id cancels its previous pair first.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/diablorojo/matchday/internal/platform"
)

// callbackTimeout bounds the platform calls made from a fired timer.
const callbackTimeout = 30 * time.Second

// Scheduler arms and cancels event lifecycle timers.
type Scheduler struct {
	events    platform.EventStore
	channels  platform.ChannelResolver
	announcer platform.Announcer
	sink      platform.LogSink
	logger    *slog.Logger

	mu   sync.Mutex
	jobs map[string]*job

	// now is swappable for tests; defaults to time.Now.
	now func() time.Time
}

// job is the task pair for one event id.
type job struct {
	start *task
	end   *task
}

func (j *job) cancel() {
	j.start.cancel()
	j.end.cancel()
}

// task is a single cancellable delayed callback. Cancellation preempts the
// wait only; a callback already running completes.
type task struct {
	done chan struct{}
	once sync.Once
}

func newTask() *task {
	return &task{done: make(chan struct{})}
}

func (t *task) cancel() {
	t.once.Do(func() { close(t.done) })
}

// run sleeps for delay and then invokes fn, unless cancelled first.
func (t *task) run(delay time.Duration, fn func()) {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		fn()
	case <-t.done:
	}
}

// New creates a scheduler with no armed jobs.
func New(events platform.EventStore, channels platform.ChannelResolver,
	announcer platform.Announcer, sink platform.LogSink, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		events:    events,
		channels:  channels,
		announcer: announcer,
		sink:      sink,
		logger:    logger,
		jobs:      make(map[string]*job),
		now:       time.Now,
	}
}

// Schedule installs the task pair for an event. Any existing pair for the
// same event id is cancelled first, so re-arming is idempotent. Delays are
// computed once, at call time; a target already in the past fires
// immediately.
func (s *Scheduler) Schedule(eventID string, startTime, endTime time.Time, channelID, eventName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.jobs[eventID]; ok {
		existing.cancel()
	}

	now := s.now()
	startDelay := max(0, startTime.Sub(now))
	endDelay := max(0, endTime.Sub(now))

	j := &job{start: newTask(), end: newTask()}
	go j.start.run(startDelay, func() { s.onEventStart(eventID, channelID, eventName) })
	go j.end.run(endDelay, func() { s.onEventEnd(eventID, j) })
	s.jobs[eventID] = j

	s.logger.Info("event lifecycle armed",
		"event_id", eventID, "event", eventName,
		"start_in", startDelay.Round(time.Second), "end_in", endDelay.Round(time.Second))
}

// Unload cancels every outstanding task and clears the registry. Called
// once at process teardown.
func (s *Scheduler) Unload() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, j := range s.jobs {
		j.cancel()
	}
	s.jobs = make(map[string]*job)
	s.logger.Info("event lifecycle scheduler unloaded")
}

// TrackedEvents returns the event ids with an installed job pair, for the
// ops status endpoint.
func (s *Scheduler) TrackedEvents() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.jobs))
	for id := range s.jobs {
		ids = append(ids, id)
	}
	return ids
}

// --------------------------------------------------------------------------
// Timer callbacks — failures never propagate past this boundary
// --------------------------------------------------------------------------

// onEventStart opens the watch party: creates a reusable voice invite and
// announces kickoff with a join button. When the channel no longer resolves
// to a voice channel the callback aborts quietly; the target may have been
// deleted out-of-band.
func (s *Scheduler) onEventStart(eventID, channelID, eventName string) {
	ctx, cancel := context.WithTimeout(context.Background(), callbackTimeout)
	defer cancel()

	ch, err := s.channels.ResolveVoiceChannel(ctx, channelID)
	if err != nil {
		s.logger.Warn("voice channel no longer resolves, skipping kickoff announcement",
			"event_id", eventID, "channel_id", channelID, "error", err)
		return
	}

	inviteURL, err := s.channels.CreateVoiceInvite(ctx, ch.ID)
	if err != nil {
		s.sink.Log(ctx, fmt.Sprintf("Error al iniciar evento %s: %v", eventID, err))
		return
	}

	msg := fmt.Sprintf("**¡Arranca el partido!**\nSumate a <#%s> para ver **%s**", ch.ID, eventName)
	if err := s.announcer.AnnounceJoinVoice(ctx, msg, inviteURL); err != nil {
		s.sink.Log(ctx, fmt.Sprintf("Error al iniciar evento %s: %v", eventID, err))
	}
}

// onEventEnd deletes the scheduled event. Best effort: the platform or a
// moderator may have cleaned it up already, so every failure is swallowed.
func (s *Scheduler) onEventEnd(eventID string, j *job) {
	ctx, cancel := context.WithTimeout(context.Background(), callbackTimeout)
	defer cancel()

	if _, err := s.events.GetScheduledEvent(ctx, eventID); err != nil {
		s.logger.Debug("event already gone, skipping cleanup", "event_id", eventID, "error", err)
	} else if err := s.events.DeleteScheduledEvent(ctx, eventID); err != nil {
		s.logger.Debug("event cleanup failed", "event_id", eventID, "error", err)
	}

	// The pair is over; drop the registry entry — but only if it is still
	// ours. A re-schedule racing this callback past its cancel point may
	// have installed a new pair under the same id.
	s.mu.Lock()
	if s.jobs[eventID] == j {
		delete(s.jobs, eventID)
	}
	s.mu.Unlock()
}
