package environment

import "github.com/Carmen-Shannon/reject-ocean/internal/log"

type loadOptions struct {
	background   bool
	blurriness   float32
	previewWidth int
	logger       *log.Logger
}

func defaultOptions() *loadOptions {
	return &loadOptions{
		previewWidth: 256,
		logger:       log.NewNop(),
	}
}

// EnvironmentOption configures how a panorama is prepared.
type EnvironmentOption func(*loadOptions)

// WithBackground sets whether the panorama is drawn behind the scene.
//
// Parameters:
//   - background: true to draw the backdrop
//
// Returns:
//   - EnvironmentOption: the option
func WithBackground(background bool) EnvironmentOption {
	return func(o *loadOptions) {
		o.background = background
	}
}

// WithBlurriness sets the backdrop blur in [0, 1]. At 1 the blur radius is
// 1/32 of the preview width.
//
// Parameters:
//   - blurriness: the blur amount, clamped to [0, 1]
//
// Returns:
//   - EnvironmentOption: the option
func WithBlurriness(blurriness float32) EnvironmentOption {
	return func(o *loadOptions) {
		o.blurriness = min(max(blurriness, 0), 1)
	}
}

// WithPreviewWidth sets the width in pixels of the downsampled backdrop.
func WithPreviewWidth(width int) EnvironmentOption {
	return func(o *loadOptions) {
		o.previewWidth = width
	}
}

// WithLogger sets the logger used to report decoded panoramas.
func WithLogger(logger *log.Logger) EnvironmentOption {
	return func(o *loadOptions) {
		if logger != nil {
			o.logger = logger.Named("environment")
		}
	}
}
