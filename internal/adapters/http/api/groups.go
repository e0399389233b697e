package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/auxcord/auxcord/internal/adapters/repository"
	"github.com/auxcord/auxcord/internal/domain/model"
)

// seedGroupRequest registers a group with its directory and initial shares.
type seedGroupRequest struct {
	GroupID string         `json:"groupId"`
	Name    string         `json:"name"`
	Members []model.Member `json:"members"`
	Shares  []shareRequest `json:"shares,omitempty"`
}

type shareRequest struct {
	ShareID  string `json:"shareId"`
	UserID   string `json:"userId"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Genre    string `json:"genre,omitempty"`
	SharedAt string `json:"sharedAt"`
}

func (s shareRequest) toModel(groupID string) (model.Share, error) {
	switch {
	case strings.TrimSpace(s.ShareID) == "":
		return model.Share{}, errors.New("missing shareId")
	case strings.TrimSpace(s.UserID) == "":
		return model.Share{}, errors.New("missing userId")
	}
	sharedAt, err := time.Parse(time.RFC3339, s.SharedAt)
	if err != nil {
		return model.Share{}, errors.New("invalid sharedAt; must be RFC3339")
	}
	return model.Share{
		ID:        s.ShareID,
		GroupID:   groupID,
		MemberID:  s.UserID,
		Title:     s.Title,
		Artist:    s.Artist,
		Genre:     s.Genre,
		CreatedAt: sharedAt,
	}, nil
}

// handleSeedGroup handles POST /groups requests.
func (s *Server) handleSeedGroup(w http.ResponseWriter, r *http.Request) {
	const op = "api.seed_group"

	var req seedGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.GroupID) == "" {
		writeError(w, http.StatusBadRequest, "bad_request",
			WrapKind(op, ErrBadRequest, errors.New("missing groupId")))
		return
	}

	shares := make([]model.Share, 0, len(req.Shares))
	for _, sr := range req.Shares {
		sh, err := sr.toModel(req.GroupID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		shares = append(shares, sh)
	}

	g := model.Group{ID: req.GroupID, Name: req.Name}
	if err := s.deps.SeedGroup(r.Context(), g, req.Members, shares); err != nil {
		writeError(w, http.StatusInternalServerError, "internal", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

// handleAddShare handles POST /groups/{groupID}/shares requests.
func (s *Server) handleAddShare(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_share"
	groupID := chi.URLParam(r, "groupID")

	var req shareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	sh, err := req.toModel(groupID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	if err := s.deps.AddShare(r.Context(), sh); err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}
