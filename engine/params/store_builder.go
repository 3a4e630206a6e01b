package params

import (
	"github.com/Carmen-Shannon/reject-ocean/engine/material"
	"github.com/Carmen-Shannon/reject-ocean/internal/log"
)

// StoreBuilderOption is a function that configures a Store during construction.
type StoreBuilderOption func(*store)

// WithLogger sets the logger used to report parameter changes.
func WithLogger(logger *log.Logger) StoreBuilderOption {
	return func(s *store) {
		if logger != nil {
			s.logger = logger.Named("params")
		}
	}
}

// WithInitial sets the starting snapshot instead of the defaults.
//
// Parameters:
//   - cfg: the starting parameters, assumed normalized
//
// Returns:
//   - StoreBuilderOption: a function that applies the snapshot to a store
func WithInitial(cfg material.Config) StoreBuilderOption {
	return func(s *store) {
		s.current = cfg
	}
}
