package poll

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diablorojo/matchday/internal/syncer"
	"github.com/diablorojo/matchday/internal/team"
)

type fakeEngine struct {
	mu       sync.Mutex
	calls    []string
	outcomes map[string]syncer.Outcome
	block    chan struct{} // when set, UpsertNextFixture waits for a close
}

func (f *fakeEngine) UpsertNextFixture(ctx context.Context, t team.Team) syncer.Outcome {
	f.mu.Lock()
	f.calls = append(f.calls, t.ID)
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
	if o, ok := f.outcomes[t.ID]; ok {
		return o
	}
	return syncer.OutcomeUnchanged
}

func (f *fakeEngine) callIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func testTeams(ids ...string) []team.Team {
	teams := make([]team.Team, 0, len(ids))
	for _, id := range ids {
		teams = append(teams, team.Team{ID: id, Name: id})
	}
	return teams
}

func TestPoller_CycleWalksTeamsInOrder(t *testing.T) {
	engine := &fakeEngine{outcomes: map[string]syncer.Outcome{
		"profesional": syncer.OutcomeCreated,
		"reserva":     syncer.OutcomeSkipped,
	}}
	p := New(engine, testTeams("profesional", "reserva", "femenino"), time.Hour, slog.Default())

	ok := p.TryRunCycle(context.Background())

	require.True(t, ok)
	assert.Equal(t, []string{"profesional", "reserva", "femenino"}, engine.callIDs())

	last := p.LastCycle()
	require.NotNil(t, last)
	assert.Equal(t, "created", last.Outcomes["profesional"])
	assert.Equal(t, "skipped", last.Outcomes["reserva"])
	assert.Equal(t, "unchanged", last.Outcomes["femenino"])
	assert.Equal(t, map[string]int{"created": 1, "skipped": 1, "unchanged": 1}, last.Counts)
}

func TestPoller_OverlappingTriggerIsDropped(t *testing.T) {
	engine := &fakeEngine{block: make(chan struct{})}
	p := New(engine, testTeams("profesional"), time.Hour, slog.Default())

	first := make(chan bool, 1)
	go func() { first <- p.TryRunCycle(context.Background()) }()

	// Wait for the first cycle to be inside the engine call.
	assert.Eventually(t, func() bool {
		return len(engine.callIDs()) == 1
	}, time.Second, 10*time.Millisecond)

	assert.False(t, p.TryRunCycle(context.Background()), "second trigger should be dropped")

	close(engine.block)
	assert.True(t, <-first)
	assert.Len(t, engine.callIDs(), 1)
}

func TestPoller_NoResultBeforeFirstCycle(t *testing.T) {
	p := New(&fakeEngine{}, testTeams("profesional"), time.Hour, slog.Default())
	assert.Nil(t, p.LastCycle())
}

func TestPoller_CancelledContextStopsMidCycle(t *testing.T) {
	engine := &fakeEngine{}
	p := New(engine, testTeams("profesional", "reserva"), time.Hour, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.TryRunCycle(ctx)

	assert.Empty(t, engine.callIDs())
	assert.Nil(t, p.LastCycle(), "aborted cycle should not publish a result")
}
