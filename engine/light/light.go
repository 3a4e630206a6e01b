package light

import "fmt"

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeAmbient lights every surface uniformly, with no position or direction.
	LightTypeAmbient LightType = iota

	// LightTypeDirectional represents a light with no position, only direction.
	// The sub-lights of a randomized area light are directional lights aimed at the origin.
	LightTypeDirectional

	// LightTypePoint represents a light that emits in all directions from a position.
	LightTypePoint
)

func (t LightType) String() string {
	switch t {
	case LightTypeAmbient:
		return "ambient"
	case LightTypeDirectional:
		return "directional"
	case LightTypePoint:
		return "point"
	default:
		return fmt.Sprintf("LightType(%d)", int(t))
	}
}

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	lightType    LightType
	position     [3]float32
	direction    [3]float32
	color        [3]float32
	intensity    float32
	enabled      bool
	castsShadows bool
	shadowBias   float32
}

// Light defines the interface for a light source in the scene.
// Lights are immutable once built; the composer creates fresh lights on every composition.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type (ambient, directional or point)
	Type() LightType

	// Position returns the world-space position of the light.
	// Meaningless for ambient lights.
	//
	// Returns:
	//   - [3]float32: position as (x, y, z)
	Position() [3]float32

	// Direction returns the normalized direction of a directional light.
	//
	// Returns:
	//   - [3]float32: normalized direction as (x, y, z)
	Direction() [3]float32

	// Color returns the RGB color of the light.
	//
	// Returns:
	//   - [3]float32: color as (r, g, b)
	Color() [3]float32

	// Intensity returns the scalar intensity multiplier for the light.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// Enabled returns whether this light is active for rendering.
	//
	// Returns:
	//   - bool: true if the light is enabled
	Enabled() bool

	// CastsShadows returns whether this light renders into shadow maps.
	//
	// Returns:
	//   - bool: true if the light casts shadows
	CastsShadows() bool

	// ShadowBias returns the depth bias applied to this light's shadow comparisons.
	//
	// Returns:
	//   - float32: the bias
	ShadowBias() float32
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the given type with the provided options applied.
// Defaults are a white, enabled, non-shadow-casting light of intensity 1 pointing down.
//
// Parameters:
//   - lightType: the kind of light to create
//   - options: functional options to configure the light
//
// Returns:
//   - Light: the newly created light
func NewLight(lightType LightType, options ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType:  lightType,
		direction:  [3]float32{0, -1, 0},
		color:      [3]float32{1, 1, 1},
		intensity:  1,
		enabled:    true,
		shadowBias: DefaultShadowBias,
	}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() [3]float32 {
	return l.position
}

func (l *lightImpl) Direction() [3]float32 {
	return l.direction
}

func (l *lightImpl) Color() [3]float32 {
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) CastsShadows() bool {
	return l.castsShadows
}

func (l *lightImpl) ShadowBias() float32 {
	return l.shadowBias
}
