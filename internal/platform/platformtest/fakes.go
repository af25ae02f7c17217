// Package platformtest provides in-memory fakes for the platform contracts,
// shared by the sync engine and lifecycle scheduler tests.
package platformtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/diablorojo/matchday/internal/platform"
)

// --------------------------------------------------------------------------
// FakeEventStore
// --------------------------------------------------------------------------

// FakeEventStore keeps scheduled events in memory and records call counts.
type FakeEventStore struct {
	mu     sync.Mutex
	nextID int
	Events map[string]platform.ScheduledEvent

	ListCalls   int
	CreateCalls int
	EditCalls   int
	DeleteCalls int

	// Err, when set, is returned by every method.
	Err error
}

func NewFakeEventStore() *FakeEventStore {
	return &FakeEventStore{Events: make(map[string]platform.ScheduledEvent)}
}

func (s *FakeEventStore) ListScheduledEvents(_ context.Context) ([]platform.ScheduledEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ListCalls++
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]platform.ScheduledEvent, 0, len(s.Events))
	for _, ev := range s.Events {
		out = append(out, ev)
	}
	return out, nil
}

func (s *FakeEventStore) GetScheduledEvent(_ context.Context, eventID string) (*platform.ScheduledEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	ev, ok := s.Events[eventID]
	if !ok {
		return nil, fmt.Errorf("event %s not found", eventID)
	}
	return &ev, nil
}

func (s *FakeEventStore) CreateScheduledEvent(_ context.Context, params platform.CreateEventParams) (*platform.ScheduledEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CreateCalls++
	if s.Err != nil {
		return nil, s.Err
	}
	s.nextID++
	ev := platform.ScheduledEvent{
		ID:          fmt.Sprintf("event-%d", s.nextID),
		Name:        params.Name,
		Description: params.Description,
		StartTime:   params.StartTime,
		EndTime:     params.EndTime,
		ChannelID:   params.ChannelID,
	}
	s.Events[ev.ID] = ev
	return &ev, nil
}

func (s *FakeEventStore) EditScheduledEvent(_ context.Context, eventID string, params platform.EditEventParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.EditCalls++
	if s.Err != nil {
		return s.Err
	}
	ev, ok := s.Events[eventID]
	if !ok {
		return fmt.Errorf("event %s not found", eventID)
	}
	ev.Description = params.Description
	ev.StartTime = params.StartTime
	ev.EndTime = params.EndTime
	ev.ChannelID = params.ChannelID
	s.Events[eventID] = ev
	return nil
}

func (s *FakeEventStore) DeleteScheduledEvent(_ context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DeleteCalls++
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.Events[eventID]; !ok {
		return fmt.Errorf("event %s not found", eventID)
	}
	delete(s.Events, eventID)
	return nil
}

// --------------------------------------------------------------------------
// FakeChannelResolver
// --------------------------------------------------------------------------

// FakeChannelResolver resolves a fixed set of voice channels.
type FakeChannelResolver struct {
	mu       sync.Mutex
	Channels map[string]string // id -> name

	InviteURL   string
	ResolveErr  error
	InviteErr   error
	InviteCalls int
}

func NewFakeChannelResolver(channels map[string]string) *FakeChannelResolver {
	if channels == nil {
		channels = make(map[string]string)
	}
	return &FakeChannelResolver{Channels: channels, InviteURL: "https://discord.gg/test"}
}

func (r *FakeChannelResolver) ResolveVoiceChannel(_ context.Context, channelID string) (*platform.VoiceChannel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ResolveErr != nil {
		return nil, r.ResolveErr
	}
	name, ok := r.Channels[channelID]
	if !ok {
		return nil, fmt.Errorf("channel %s is not a voice channel", channelID)
	}
	return &platform.VoiceChannel{ID: channelID, Name: name}, nil
}

func (r *FakeChannelResolver) CreateVoiceInvite(_ context.Context, channelID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.InviteCalls++
	if r.InviteErr != nil {
		return "", r.InviteErr
	}
	return r.InviteURL, nil
}

// --------------------------------------------------------------------------
// FakeAnnouncer
// --------------------------------------------------------------------------

// FakeAnnouncer records every announcement.
type FakeAnnouncer struct {
	mu sync.Mutex

	Plain      []string
	EventLinks []string // messages announced with an event link button
	JoinVoice  []string // messages announced with a join-voice button

	Err error
}

func (a *FakeAnnouncer) Announce(_ context.Context, msg string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return a.Err
	}
	a.Plain = append(a.Plain, msg)
	return nil
}

func (a *FakeAnnouncer) AnnounceEventLink(_ context.Context, msg, eventID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return a.Err
	}
	a.EventLinks = append(a.EventLinks, msg)
	return nil
}

func (a *FakeAnnouncer) AnnounceJoinVoice(_ context.Context, msg, inviteURL string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return a.Err
	}
	a.JoinVoice = append(a.JoinVoice, msg)
	return nil
}

// JoinVoiceCount returns how many join-voice announcements were posted.
func (a *FakeAnnouncer) JoinVoiceCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.JoinVoice)
}

// --------------------------------------------------------------------------
// FakeLogSink
// --------------------------------------------------------------------------

// FakeLogSink records operational log messages.
type FakeLogSink struct {
	mu       sync.Mutex
	Messages []string
}

func (s *FakeLogSink) Log(_ context.Context, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Messages = append(s.Messages, msg)
}

// Count returns how many messages were logged.
func (s *FakeLogSink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Messages)
}
