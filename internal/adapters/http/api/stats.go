package api

import (
	"encoding/json"
	"net/http"
)

// StatsProvider defines the interface for service statistics.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// handleStats handles GET /stats requests.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(s.statsProvider.GetStats())
}
