// Package simulate seeds a synthetic group and replays realistic reaction
// traffic against a running server.
package simulate

import "time"

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL   string        // Base URL of the service
	GroupID   string        // Group id to seed and target
	Members   int           // Number of synthetic members
	Shares    int           // Number of shares to seed
	Span      time.Duration // Time span the shares are spread over
	RateRPS   float64       // Event submission rate
	Timeout   time.Duration // HTTP request timeout
	Verbose   bool          // Enable verbose logging
}

// Stats holds simulation statistics.
type Stats struct {
	SharesSeeded    int
	EventsGenerated int
	EventsAccepted  int
	EventsDuplicate int
	EventsFailed    int
	StartTime       time.Time
	Duration        time.Duration
}

// eventPayload mirrors the POST /events schema.
type eventPayload struct {
	EventID   string `json:"eventId"`
	GroupID   string `json:"groupId"`
	ShareID   string `json:"shareId"`
	UserID    string `json:"userId"`
	Kind      string `json:"kind"`
	ReactedAt string `json:"reactedAt"`
}

// ackResponse mirrors the ingest acknowledgement.
type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}
