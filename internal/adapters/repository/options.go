package repository

import "github.com/auxcord/auxcord/pkg/logger"

// SQLiteOption applies a configuration option to the SQLiteStore.
type SQLiteOption func(*SQLiteStore)

// WithLogger sets a custom logger for the store.
func WithLogger(l logger.Logger) SQLiteOption {
	return func(s *SQLiteStore) {
		if l != nil {
			s.logger = l
		}
	}
}
