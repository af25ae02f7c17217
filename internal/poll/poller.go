// Package poll drives the periodic fixture synchronization pass. Each
// cycle walks the team registry in order, one team completing before the
// next is considered. Cycles are serialized: a tick that arrives while a
// cycle is still running is dropped.
package poll

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/diablorojo/matchday/internal/syncer"
	"github.com/diablorojo/matchday/internal/team"
)

// Engine is the per-team synchronization operation.
type Engine interface {
	UpsertNextFixture(ctx context.Context, t team.Team) syncer.Outcome
}

// CycleResult summarizes one completed poll cycle.
type CycleResult struct {
	StartedAt time.Time         `json:"started_at"`
	Duration  time.Duration     `json:"duration"`
	Outcomes  map[string]string `json:"outcomes"` // team id -> outcome
	Counts    map[string]int    `json:"counts"`   // outcome -> count
}

// Poller owns the poll loop.
type Poller struct {
	engine   Engine
	teams    []team.Team
	interval time.Duration
	logger   *slog.Logger

	// running serializes cycles; TryLock failure means one is in flight.
	running sync.Mutex

	mu   sync.Mutex
	last *CycleResult
}

// New creates a poller over the given teams.
func New(engine Engine, teams []team.Team, interval time.Duration, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		engine:   engine,
		teams:    teams,
		interval: interval,
		logger:   logger,
	}
}

// Start runs an immediate first cycle and then one per tick. Blocks until
// ctx is cancelled. Intended to be called with `go`.
func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("fixture poll loop started",
		"interval", p.interval, "teams", len(p.teams))

	p.TryRunCycle(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.TryRunCycle(ctx)
		case <-ctx.Done():
			p.logger.Info("fixture poll loop stopped")
			return
		}
	}
}

// TryRunCycle runs a full cycle unless one is already in flight, in which
// case the trigger is dropped and false is returned. Also the entry point
// for manual triggers (CLI, ops endpoint).
func (p *Poller) TryRunCycle(ctx context.Context) bool {
	if !p.running.TryLock() {
		p.logger.Warn("poll cycle still running, dropping trigger")
		return false
	}
	defer p.running.Unlock()

	p.runCycle(ctx)
	return true
}

func (p *Poller) runCycle(ctx context.Context) {
	start := time.Now()
	result := CycleResult{
		StartedAt: start,
		Outcomes:  make(map[string]string, len(p.teams)),
		Counts:    make(map[string]int),
	}

	for _, t := range p.teams {
		if ctx.Err() != nil {
			return
		}
		outcome := p.engine.UpsertNextFixture(ctx, t)
		result.Outcomes[t.ID] = outcome.String()
		result.Counts[outcome.String()]++
	}
	result.Duration = time.Since(start)

	p.mu.Lock()
	p.last = &result
	p.mu.Unlock()

	p.logger.Info("poll cycle complete",
		"duration", result.Duration.Round(time.Millisecond), "counts", result.Counts)
}

// LastCycle returns the most recent completed cycle, or nil before the
// first one finishes.
func (p *Poller) LastCycle() *CycleResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}
