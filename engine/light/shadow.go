package light

import (
	"math/rand/v2"

	"github.com/Carmen-Shannon/reject-ocean/common"
	"github.com/chewxy/math32"
)

// DefaultShadowBias is the constant depth bias applied to shadow comparisons
// to reduce shadow acne artifacts.
const DefaultShadowBias float32 = 0.001

// DefaultShadowMapSize is the default width and height in texels of each
// randomized sub-light's depth texture.
const DefaultShadowMapSize = 512

// DefaultShadowNear and DefaultShadowFar bound the orthographic projection of
// each randomized sub-light.
const (
	DefaultShadowNear float32 = 0.5
	DefaultShadowFar  float32 = 500
)

// AccumulativeShadows configures a ground-plane shadow catcher that accumulates
// many jittered light samples over successive frames into a soft shadow texture.
type AccumulativeShadows struct {
	Temporal   bool
	Frames     int
	Blend      int
	AlphaTest  float32
	Color      common.Color
	ColorBlend float32
	Opacity    float32
	Scale      float32
}

// DefaultAccumulativeShadows returns the shadow catcher defaults: 40 frames, a
// blend window of 20, black shadows at full opacity.
//
// Returns:
//   - AccumulativeShadows: the defaults
func DefaultAccumulativeShadows() AccumulativeShadows {
	return AccumulativeShadows{
		Frames:     40,
		Blend:      20,
		AlphaTest:  0.75,
		Color:      common.Color{0, 0, 0, 1},
		ColorBlend: 2,
		Opacity:    1,
		Scale:      10,
	}
}

// RandomizedLight configures the cluster of shadow-casting directional lights
// whose positions are re-jittered on every accumulation frame.
type RandomizedLight struct {
	Radius    float32
	Ambient   float32
	Intensity float32
	Position  [3]float32
	Bias      float32
	Amount    int
	MapSize   int
	Size      float32
}

// DefaultRandomizedLight returns the randomized light defaults.
//
// Returns:
//   - RandomizedLight: the defaults
func DefaultRandomizedLight() RandomizedLight {
	return RandomizedLight{
		Radius:    1,
		Ambient:   0.5,
		Intensity: 1,
		Position:  [3]float32{0, 0, 0},
		Bias:      DefaultShadowBias,
		Amount:    8,
		MapSize:   DefaultShadowMapSize,
		Size:      5,
	}
}

// Lights builds the Amount directional sub-lights of r at the given sample
// positions. Each sub-light carries Intensity/Amount and aims at the origin.
//
// Parameters:
//   - positions: one world position per sub-light, as returned by ShadowAccumulator.Step
//
// Returns:
//   - []Light: the sub-lights
func (r RandomizedLight) Lights(positions [][3]float32) []Light {
	lights := make([]Light, 0, len(positions))
	share := r.Intensity / float32(max(r.Amount, 1))
	for _, p := range positions {
		lights = append(lights, NewLight(LightTypeDirectional,
			WithPosition(p),
			WithDirection([3]float32{-p[0], -p[1], -p[2]}),
			WithIntensity(share),
			WithCastsShadows(true, r.Bias),
		))
	}
	return lights
}

// ShadowSample is one accumulation frame: the sub-light positions rendered into
// the shadow texture and the weight the frame is blended in with.
type ShadowSample struct {
	Frame     int
	Positions [][3]float32
	Weight    float32
}

// ShadowAccumulator drives progressive shadow accumulation. It is not safe for
// concurrent use; the scene host owns it.
type ShadowAccumulator struct {
	shadows AccumulativeShadows
	light   RandomizedLight
	seed    uint64
	rng     *rand.Rand
	frame   int
}

// NewShadowAccumulator creates an accumulator for the given catcher and light.
// The same seed always yields the same sample sequence.
//
// Parameters:
//   - shadows: the catcher configuration
//   - light: the randomized light configuration
//   - seed: the jitter seed
//
// Returns:
//   - *ShadowAccumulator: the accumulator, at frame zero
func NewShadowAccumulator(shadows AccumulativeShadows, light RandomizedLight, seed uint64) *ShadowAccumulator {
	a := &ShadowAccumulator{shadows: shadows, light: light, seed: seed}
	a.Reset()
	return a
}

// Shadows returns the catcher configuration.
func (a *ShadowAccumulator) Shadows() AccumulativeShadows {
	return a.shadows
}

// Light returns the randomized light configuration.
func (a *ShadowAccumulator) Light() RandomizedLight {
	return a.light
}

// Frame returns the number of frames accumulated so far.
func (a *ShadowAccumulator) Frame() int {
	return a.frame
}

// Done reports whether all configured frames have been accumulated.
func (a *ShadowAccumulator) Done() bool {
	return a.frame >= a.shadows.Frames
}

// Blend returns the weight of the next frame: a running average until the
// blend window is reached, then a fixed 1/Blend.
func (a *ShadowAccumulator) Blend() float32 {
	n := a.frame + 1
	if a.shadows.Blend > 0 && n > a.shadows.Blend {
		n = a.shadows.Blend
	}
	return 1 / float32(n)
}

// Reset discards the accumulated frames and restarts the jitter sequence.
func (a *ShadowAccumulator) Reset() {
	a.frame = 0
	a.rng = rand.New(rand.NewPCG(a.seed, a.seed^0x9e3779b97f4a7c15))
}

// Step advances the accumulation. A temporal accumulator yields one frame per
// call; a non-temporal one yields every remaining frame at once. Once Done,
// Step returns nil.
//
// Returns:
//   - []ShadowSample: the frames to render, in order
func (a *ShadowAccumulator) Step() []ShadowSample {
	if a.Done() {
		return nil
	}
	count := 1
	if !a.shadows.Temporal {
		count = a.shadows.Frames - a.frame
	}
	samples := make([]ShadowSample, 0, count)
	for range count {
		samples = append(samples, ShadowSample{
			Frame:     a.frame,
			Positions: a.jitter(),
			Weight:    a.Blend(),
		})
		a.frame++
	}
	return samples
}

// jitter places each sub-light either inside a cube of side Radius around the
// light position, or with probability Ambient on the upper hemisphere whose
// radius is the light's distance from the origin.
func (a *ShadowAccumulator) jitter() [][3]float32 {
	l := a.light
	length := common.Length3(l.Position)
	positions := make([][3]float32, 0, l.Amount)
	for range l.Amount {
		if a.rng.Float32() > l.Ambient {
			positions = append(positions, [3]float32{
				l.Position[0] + l.Radius*(0.5-a.rng.Float32()),
				l.Position[1] + l.Radius*(0.5-a.rng.Float32()),
				l.Position[2] + l.Radius*(0.5-a.rng.Float32()),
			})
			continue
		}
		lambda := math32.Acos(2*a.rng.Float32()-1) - math32.Pi/2
		phi := 2 * math32.Pi * a.rng.Float32()
		positions = append(positions, [3]float32{
			math32.Cos(lambda) * math32.Cos(phi) * length,
			math32.Abs(math32.Cos(lambda) * math32.Sin(phi) * length),
			math32.Sin(lambda) * length,
		})
	}
	return positions
}
