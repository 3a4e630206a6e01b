package engine

import (
	"time"

	"github.com/Carmen-Shannon/reject-ocean/engine/params"
	"github.com/Carmen-Shannon/reject-ocean/engine/renderer"
	"github.com/Carmen-Shannon/reject-ocean/engine/scene"
	"github.com/Carmen-Shannon/reject-ocean/engine/window"
	"github.com/Carmen-Shannon/reject-ocean/internal/log"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.pendingProfiling = enabled
	}
}

// WithTickRate sets the engine tick rate in ticks per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60.0
		}
		e.engineTickRate = time.Duration(float64(time.Second) / fps)
	}
}

// WithWindow sets the window the engine presents to and takes input from.
//
// Parameters:
//   - w: a created Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithScene sets the scene the engine drives.
//
// Parameters:
//   - s: the Scene to host
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScene(s scene.Scene) EngineBuilderOption {
	return func(e *engine) {
		e.scene = s
	}
}

// WithRenderer sets the renderer frames are presented with.
//
// Parameters:
//   - r: the Renderer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithParams sets the parameter store read once per tick.
//
// Parameters:
//   - p: the Store
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithParams(p params.Store) EngineBuilderOption {
	return func(e *engine) {
		e.params = p
	}
}

// WithLogger sets the logger for engine and profiler output.
//
// Parameters:
//   - logger: the logger (nil keeps the no-op logger)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLogger(logger *log.Logger) EngineBuilderOption {
	return func(e *engine) {
		if logger != nil {
			e.logger = logger.Named("engine")
		}
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.renderFrameLimit = frameDuration(fps)
	}
}
