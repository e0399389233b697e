// Package config defines service configuration structures and loading hooks.
package config

import "runtime"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBPath locates the SQLite database. ":memory:" keeps state in process.
	DBPath string `koanf:"db_path"`

	// EventQueueSize bounds the in-memory submission queue.
	EventQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of persistence workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MinRadarSamples is the reaction count below which radar profiles are
	// flagged as low data.
	MinRadarSamples int `koanf:"min_radar_samples"`

	// IngestRateRPS caps POST /events requests per second. Zero disables
	// the limiter.
	IngestRateRPS float64 `koanf:"ingest_rate_rps"`

	// IngestRateBurst is the token bucket burst for the ingest limiter.
	IngestRateBurst int `koanf:"ingest_rate_burst"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":8080",
		DBPath:          "auxcord.db",
		EventQueueSize:  100_000,
		WorkerCount:     runtime.NumCPU() * 2,
		DedupeSize:      50_000,
		MinRadarSamples: 3,
		IngestRateRPS:   0,
		IngestRateBurst: 100,
	}
}
