package light

import "github.com/Carmen-Shannon/reject-ocean/common"

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithPosition is an option builder that sets the world-space position of the light.
//
// Parameters:
//   - position: the position as (x, y, z)
//
// Returns:
//   - LightBuilderOption: a function that applies the position option to a lightImpl
func WithPosition(position [3]float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = position
	}
}

// WithDirection is an option builder that sets the direction of the light.
// The direction is normalized before storing.
//
// Parameters:
//   - direction: the direction as (x, y, z)
//
// Returns:
//   - LightBuilderOption: a function that applies the direction option to a lightImpl
func WithDirection(direction [3]float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.direction = common.Normalize3(direction)
	}
}

// WithColor is an option builder that sets the RGB color of the light.
//
// Parameters:
//   - color: the colour; alpha is ignored
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a lightImpl
func WithColor(color common.Color) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = [3]float32{color[0], color[1], color[2]}
	}
}

// WithIntensity is an option builder that sets the intensity multiplier of the light.
//
// Parameters:
//   - intensity: the intensity value
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity option to a lightImpl
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = intensity
	}
}

// WithEnabled is an option builder that sets whether the light is active.
func WithEnabled(enabled bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.enabled = enabled
	}
}

// WithCastsShadows is an option builder that sets whether the light is eligible for
// shadow map generation, and the depth bias it uses.
//
// Parameters:
//   - castsShadows: true to enable shadow casting
//   - bias: the depth bias
//
// Returns:
//   - LightBuilderOption: a function that applies the shadow casting option to a lightImpl
func WithCastsShadows(castsShadows bool, bias float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.castsShadows = castsShadows
		l.shadowBias = bias
	}
}
