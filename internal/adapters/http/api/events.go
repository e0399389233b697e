package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	service "github.com/auxcord/auxcord/internal/app"
	"github.com/auxcord/auxcord/internal/domain/model"
)

// eventRequest mirrors the OpenAPI schema for POST /events.
type eventRequest struct {
	EventID   string `json:"eventId"`
	GroupID   string `json:"groupId"`
	ShareID   string `json:"shareId"`
	UserID    string `json:"userId"`
	Kind      string `json:"kind"`
	ReactedAt string `json:"reactedAt"`
}

func (e eventRequest) validate() error {
	switch {
	case strings.TrimSpace(e.EventID) == "":
		return errors.New("missing eventId")
	case strings.TrimSpace(e.ShareID) == "":
		return errors.New("missing shareId")
	case strings.TrimSpace(e.UserID) == "":
		return errors.New("missing userId")
	case strings.TrimSpace(e.ReactedAt) == "":
		return errors.New("missing reactedAt")
	}
	if !model.ReactionKind(e.Kind).Valid() {
		return errors.New("kind must be listen or like")
	}
	if _, err := time.Parse(time.RFC3339, e.ReactedAt); err != nil {
		return errors.New("invalid reactedAt; must be RFC3339")
	}
	return nil
}

// handlePostEvent handles POST /events requests.
func (s *Server) handlePostEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_event"

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	reactedAt, _ := time.Parse(time.RFC3339, req.ReactedAt)
	sub := model.Submission{
		EventID:   req.EventID,
		GroupID:   req.GroupID,
		ShareID:   req.ShareID,
		MemberID:  req.UserID,
		Kind:      model.ReactionKind(req.Kind),
		ReactedAt: reactedAt,
	}

	switch s.deps.Ingest(r.Context(), sub) {
	case service.IngestDuplicate:
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
	case service.IngestRejected:
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
	default:
		writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
	}
}
