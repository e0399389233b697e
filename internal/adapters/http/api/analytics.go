package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/auxcord/auxcord/internal/adapters/repository"
	"github.com/auxcord/auxcord/internal/domain/window"
	"github.com/auxcord/auxcord/pkg/metrics"
)

// analyticsHandler builds the GET handler for one analytics view. The window
// is validated before any computation so a bad window never costs a query.
func (s *Server) analyticsHandler(view string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "api.analytics"
		groupID := chi.URLParam(r, "groupID")

		win, err := window.Parse(r.URL.Query().Get("window"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_window", WrapKind(op, ErrBadRequest, err))
			return
		}

		start := time.Now()
		metrics.RecordAnalyticsQuery(view)

		result, err := s.computeView(r, view, groupID, win)
		metrics.RecordAnalyticsQueryDuration(view, float64(time.Since(start).Milliseconds()))
		if err != nil {
			if errors.Is(err, repository.ErrGroupNotFound) {
				metrics.RecordAnalyticsError(view, "not_found")
				writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
				return
			}
			metrics.RecordAnalyticsError(view, "internal")
			writeError(w, http.StatusInternalServerError, "internal", Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Server) computeView(r *http.Request, view, groupID string, win window.Window) (any, error) {
	ctx := r.Context()
	switch view {
	case "profiles":
		return s.deps.Profiles(ctx, groupID, win)
	case "radar":
		return s.deps.Radar(ctx, groupID, win)
	case "archetypes":
		return s.deps.Archetypes(ctx, groupID, win)
	case "superlatives":
		return s.deps.Superlatives(ctx, groupID, win)
	case "timeline":
		return s.deps.Timeline(ctx, groupID, win)
	case "engagement":
		return s.deps.Engagement(ctx, groupID, win)
	case "gravity":
		return s.deps.Gravity(ctx, groupID, win)
	default:
		return s.deps.GroupOverview(ctx, groupID, win)
	}
}
