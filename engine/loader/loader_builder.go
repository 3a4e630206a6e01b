package loader

import (
	"github.com/Carmen-Shannon/reject-ocean/engine/model"
	"github.com/Carmen-Shannon/reject-ocean/internal/log"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithLogger is an option builder that sets the logger used by the Loader.
//
// Parameters:
//   - logger: the logger; nil keeps the no-op logger
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(logger *log.Logger) LoaderBuilderOption {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger.Named("loader")
		}
	}
}

// WithBundle is an option builder that pre-populates the bundle cache.
//
// Parameters:
//   - key: the cache key for the bundle
//   - b: the bundle to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the bundle option to a loader
func WithBundle(key string, b model.AssetBundle) LoaderBuilderOption {
	return func(l *loader) {
		l.bundleCache[key] = b
	}
}
