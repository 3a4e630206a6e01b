package renderer

import (
	"github.com/Carmen-Shannon/reject-ocean/common"
	"github.com/Carmen-Shannon/reject-ocean/internal/log"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.presentMode = mode
	}
}

// WithMSAA sets the multisample anti-aliasing sample count for the renderer.
// When not specified, the default is MSAA4x. Use MSAAOff to disable MSAA entirely.
//
// Parameters:
//   - count: the MSAASampleCount to use
//
// Returns:
//   - RendererBuilderOption: a function that applies the MSAA option to a renderer
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		r.msaa = count
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithClearColor sets the initial clear colour.
//
// Parameters:
//   - c: the linear RGBA clear colour
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear colour to a renderer
func WithClearColor(c common.Color) RendererBuilderOption {
	return func(r *renderer) {
		r.clear = c
	}
}

// WithSize sets the surface size used by the headless backend.
// The wgpu backend takes its size from the window instead.
//
// Parameters:
//   - width: surface width in pixels
//   - height: surface height in pixels
//
// Returns:
//   - RendererBuilderOption: a function that applies the size to a renderer
func WithSize(width, height int) RendererBuilderOption {
	return func(r *renderer) {
		r.width, r.height = width, height
	}
}

// WithRecordLimit caps how many frames the headless backend keeps (default 120).
func WithRecordLimit(n int) RendererBuilderOption {
	return func(r *renderer) {
		r.recordLimit = n
	}
}

// WithLogger sets the logger used for renderer diagnostics.
//
// Parameters:
//   - logger: the logger (nil keeps the no-op logger)
//
// Returns:
//   - RendererBuilderOption: a function that applies the logger to a renderer
func WithLogger(logger *log.Logger) RendererBuilderOption {
	return func(r *renderer) {
		if logger != nil {
			r.logger = logger.Named("renderer")
		}
	}
}
