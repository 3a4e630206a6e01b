package scene

import (
	"github.com/Carmen-Shannon/reject-ocean/engine/environment"
	"github.com/Carmen-Shannon/reject-ocean/engine/text"
	"github.com/Carmen-Shannon/reject-ocean/internal/log"
)

// SceneBuilderOption is a functional option for configuring a Scene.
type SceneBuilderOption func(s *scene)

// WithLogger sets the logger used to report compositions.
//
// Parameters:
//   - logger: the logger; nil keeps the no-op logger
//
// Returns:
//   - SceneBuilderOption: a function that applies the logger to a scene
func WithLogger(logger *log.Logger) SceneBuilderOption {
	return func(s *scene) {
		if logger != nil {
			s.logger = logger.Named("scene")
		}
	}
}

// WithEnvironment attaches the decoded backdrop panorama.
func WithEnvironment(env *environment.Environment) SceneBuilderOption {
	return func(s *scene) {
		s.env = env
	}
}

// WithFont attaches the typeface the label is laid out with.
func WithFont(font *text.Font) SceneBuilderOption {
	return func(s *scene) {
		s.font = font
	}
}

// WithAspect sets the initial camera aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio
//
// Returns:
//   - SceneBuilderOption: a function that applies the aspect ratio to a scene
func WithAspect(aspect float32) SceneBuilderOption {
	return func(s *scene) {
		if aspect > 0 {
			s.aspect = aspect
		}
	}
}

// WithShadowSeed sets the seed of the shadow jitter sequence.
//
// Parameters:
//   - seed: the seed
//
// Returns:
//   - SceneBuilderOption: a function that applies the seed to a scene
func WithShadowSeed(seed uint64) SceneBuilderOption {
	return func(s *scene) {
		s.seed = seed
	}
}
