package ops

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diablorojo/matchday/internal/config"
	"github.com/diablorojo/matchday/internal/poll"
)

type fakeRunner struct {
	triggers  atomic.Int64
	cancelled atomic.Bool // whether the last cycle saw a cancelled context
	last      *poll.CycleResult
}

func (f *fakeRunner) TryRunCycle(ctx context.Context) bool {
	f.cancelled.Store(ctx.Err() != nil)
	f.triggers.Add(1)
	return true
}

func (f *fakeRunner) LastCycle() *poll.CycleResult { return f.last }

type fakeTracker struct{ events []string }

func (f *fakeTracker) TrackedEvents() []string { return f.events }

func newTestServer(t *testing.T, runner *fakeRunner, tracker *fakeTracker) *Server {
	cfg := &config.Config{Environment: "test", CORSAllowOrigins: []string{"*"}}
	return New(context.Background(), runner, tracker, cfg, slog.Default())
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t, &fakeRunner{}, &fakeTracker{})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestServer_StatusBeforeFirstCycle(t *testing.T) {
	srv := newTestServer(t, &fakeRunner{}, &fakeTracker{})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Nil(t, body["last_cycle"])
}

func TestServer_StatusReportsLastCycle(t *testing.T) {
	runner := &fakeRunner{last: &poll.CycleResult{
		StartedAt: time.Date(2025, 4, 28, 12, 0, 0, 0, time.UTC),
		Duration:  1500 * time.Millisecond,
		Outcomes:  map[string]string{"profesional": "created"},
		Counts:    map[string]int{"created": 1},
	}}
	tracker := &fakeTracker{events: []string{"event-1", "event-2"}}
	srv := newTestServer(t, runner, tracker)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		TrackedEvents []string `json:"tracked_events"`
		LastCycle     struct {
			StartedAt  string            `json:"started_at"`
			DurationMS int64             `json:"duration_ms"`
			Outcomes   map[string]string `json:"outcomes"`
		} `json:"last_cycle"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"event-1", "event-2"}, body.TrackedEvents)
	assert.Equal(t, "2025-04-28T12:00:00Z", body.LastCycle.StartedAt)
	assert.Equal(t, int64(1500), body.LastCycle.DurationMS)
	assert.Equal(t, "created", body.LastCycle.Outcomes["profesional"])
}

func TestServer_SyncTriggersCycle(t *testing.T) {
	runner := &fakeRunner{}
	srv := newTestServer(t, runner, &fakeTracker{})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sync", nil))

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Eventually(t, func() bool {
		return runner.triggers.Load() == 1
	}, time.Second, 10*time.Millisecond)
	assert.False(t, runner.cancelled.Load())
}

func TestServer_SyncCycleIsBoundedByServerLifetime(t *testing.T) {
	runner := &fakeRunner{}
	cfg := &config.Config{Environment: "test", CORSAllowOrigins: []string{"*"}}

	ctx, cancel := context.WithCancel(context.Background())
	srv := New(ctx, runner, &fakeTracker{}, cfg, slog.Default())
	cancel() // process shutdown

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sync", nil))

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Eventually(t, func() bool {
		return runner.triggers.Load() == 1
	}, time.Second, 10*time.Millisecond)
	assert.True(t, runner.cancelled.Load(), "the triggered cycle should observe shutdown")
}
