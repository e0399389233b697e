// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	service "github.com/auxcord/auxcord/internal/app"
	"github.com/auxcord/auxcord/internal/domain/aggregate"
	"github.com/auxcord/auxcord/internal/domain/archetype"
	"github.com/auxcord/auxcord/internal/domain/gravity"
	"github.com/auxcord/auxcord/internal/domain/model"
	"github.com/auxcord/auxcord/internal/domain/radar"
	"github.com/auxcord/auxcord/internal/domain/reflex"
	"github.com/auxcord/auxcord/internal/domain/window"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Ingest submits a raw reaction event for async processing.
	Ingest(ctx context.Context, sub model.Submission) service.IngestStatus

	// Seeding operations used by the simulator and integration setups.
	SeedGroup(ctx context.Context, g model.Group, members []model.Member, shares []model.Share) error
	AddShare(ctx context.Context, sh model.Share) error

	// Read operations expose the analytics views.
	Profiles(ctx context.Context, groupID string, w window.Window) (reflex.GroupReport, error)
	Radar(ctx context.Context, groupID string, w window.Window) ([]radar.Profile, error)
	Archetypes(ctx context.Context, groupID string, w window.Window) ([]archetype.MemberArchetypes, error)
	Superlatives(ctx context.Context, groupID string, w window.Window) ([]aggregate.SuperlativeResult, error)
	Timeline(ctx context.Context, groupID string, w window.Window) ([]aggregate.TimelineBucket, error)
	Engagement(ctx context.Context, groupID string, w window.Window) ([]aggregate.MemberEngagement, error)
	Gravity(ctx context.Context, groupID string, w window.Window) (gravity.Graph, error)
	GroupOverview(ctx context.Context, groupID string, w window.Window) (service.Overview, error)
}

// Server wires HTTP routes for the analytics API.
type Server struct {
	deps          Dependencies
	statsProvider StatsProvider
	ingestLimit   *rateLimiter
}

// NewServer creates an API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	s := &Server{
		deps:          deps,
		statsProvider: statsProvider,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to the router.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", MetricsMiddleware(s.handleHealth, "healthz"))
	r.Get("/stats", MetricsMiddleware(s.handleStats, "stats"))

	postEvent := MetricsMiddleware(s.handlePostEvent, "events")
	if s.ingestLimit != nil {
		postEvent = s.ingestLimit.middleware(postEvent)
	}
	r.Post("/events", postEvent)

	r.Post("/groups", MetricsMiddleware(s.handleSeedGroup, "groups"))
	r.Post("/groups/{groupID}/shares", MetricsMiddleware(s.handleAddShare, "shares"))

	r.Route("/groups/{groupID}/analytics", func(r chi.Router) {
		r.Get("/profiles", MetricsMiddleware(s.analyticsHandler("profiles"), "analytics_profiles"))
		r.Get("/radar", MetricsMiddleware(s.analyticsHandler("radar"), "analytics_radar"))
		r.Get("/archetypes", MetricsMiddleware(s.analyticsHandler("archetypes"), "analytics_archetypes"))
		r.Get("/superlatives", MetricsMiddleware(s.analyticsHandler("superlatives"), "analytics_superlatives"))
		r.Get("/timeline", MetricsMiddleware(s.analyticsHandler("timeline"), "analytics_timeline"))
		r.Get("/engagement", MetricsMiddleware(s.analyticsHandler("engagement"), "analytics_engagement"))
		r.Get("/gravity", MetricsMiddleware(s.analyticsHandler("gravity"), "analytics_gravity"))
		r.Get("/overview", MetricsMiddleware(s.analyticsHandler("overview"), "analytics_overview"))
	})
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
