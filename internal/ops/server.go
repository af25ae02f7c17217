// Package ops exposes the bot's operational HTTP surface: liveness,
// last-cycle status, and a manual sync trigger.
package ops

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"

	"github.com/diablorojo/matchday/internal/config"
	"github.com/diablorojo/matchday/internal/poll"
)

// CycleRunner triggers and reports on poll cycles.
type CycleRunner interface {
	TryRunCycle(ctx context.Context) bool
	LastCycle() *poll.CycleResult
}

// EventTracker reports the scheduled events with armed lifecycle timers.
type EventTracker interface {
	TrackedEvents() []string
}

// Server holds shared dependencies for the ops endpoints.
type Server struct {
	baseCtx   context.Context
	runner    CycleRunner
	tracker   EventTracker
	cfg       *config.Config
	logger    *slog.Logger
	startedAt time.Time
}

// New creates an ops server. baseCtx bounds background work detached from
// any single request, so process shutdown interrupts a manual sync cycle.
func New(baseCtx context.Context, runner CycleRunner, tracker EventTracker, cfg *config.Config, logger *slog.Logger) *Server {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		baseCtx:   baseCtx,
		runner:    runner,
		tracker:   tracker,
		cfg:       cfg,
		logger:    logger,
		startedAt: time.Now(),
	}
}

// Router builds the Chi router with all middleware and routes.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   s.cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// --- Routes ---
	r.Get("/", s.root)
	r.Get("/health", s.health)
	r.Get("/status", s.status)
	r.Post("/sync", s.sync)

	return r
}

func (s *Server) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"name":        "Matchday Bot",
		"status":      "running",
		"environment": s.cfg.Environment,
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "healthy",
		"uptime_seconds": int(time.Since(s.startedAt).Seconds()),
	})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"tracked_events": s.tracker.TrackedEvents(),
		"last_cycle":     nil,
	}
	if last := s.runner.LastCycle(); last != nil {
		resp["last_cycle"] = map[string]interface{}{
			"started_at":  last.StartedAt.UTC().Format(time.RFC3339),
			"duration_ms": last.Duration.Milliseconds(),
			"outcomes":    last.Outcomes,
			"counts":      last.Counts,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// sync triggers a poll cycle in the background. The cycle runs detached
// from the request context but bounded by the server's lifetime; an
// in-flight cycle absorbs the trigger.
func (s *Server) sync(w http.ResponseWriter, r *http.Request) {
	s.logger.Info("manual sync requested", "remote", r.RemoteAddr)
	go s.runner.TryRunCycle(s.baseCtx)
	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"status": "accepted",
	})
}
