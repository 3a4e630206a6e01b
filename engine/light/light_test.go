package light

import (
	"testing"

	"github.com/Carmen-Shannon/reject-ocean/common"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sceneShadows() (AccumulativeShadows, RandomizedLight) {
	s := DefaultAccumulativeShadows()
	s.Temporal = true
	s.Frames = 100
	s.AlphaTest = 0.9
	s.Color = common.MustParseHexColor("#3ead5d")
	s.ColorBlend = 1
	s.Opacity = 0.8
	s.Scale = 40

	l := DefaultRandomizedLight()
	l.Radius = 10
	l.Intensity = math32.Pi
	l.Position = [3]float32{2.5, 8, -2.5}
	l.MapSize = 1024
	return s, l
}

func TestNewLightDefaults(t *testing.T) {
	l := NewLight(LightTypeAmbient, WithIntensity(math32.Pi))
	assert.Equal(t, LightTypeAmbient, l.Type())
	assert.Equal(t, [3]float32{1, 1, 1}, l.Color())
	assert.Equal(t, math32.Pi, l.Intensity())
	assert.True(t, l.Enabled())
	assert.False(t, l.CastsShadows())
	assert.Equal(t, "ambient", l.Type().String())
}

func TestWithDirectionNormalizes(t *testing.T) {
	l := NewLight(LightTypeDirectional, WithDirection([3]float32{0, -4, 3}))
	d := l.Direction()
	assert.InDelta(t, 1, common.Length3(d), 1e-6)
	assert.InDelta(t, -0.8, d[1], 1e-6)
}

func TestTemporalAccumulatorStepsOneFrame(t *testing.T) {
	s, l := sceneShadows()
	acc := NewShadowAccumulator(s, l, 1)

	samples := acc.Step()
	require.Len(t, samples, 1)
	assert.Len(t, samples[0].Positions, 8)
	assert.Equal(t, float32(1), samples[0].Weight)
	assert.Equal(t, 1, acc.Frame())
	assert.Equal(t, float32(0.5), acc.Blend())

	for !acc.Done() {
		acc.Step()
	}
	assert.Equal(t, 100, acc.Frame())
	assert.Nil(t, acc.Step())
	// past the blend window the weight stays fixed
	assert.Equal(t, float32(1)/20, acc.Blend())
}

func TestNonTemporalAccumulatorRunsAllFrames(t *testing.T) {
	s, l := sceneShadows()
	s.Temporal = false
	s.Frames = 5
	acc := NewShadowAccumulator(s, l, 1)

	samples := acc.Step()
	require.Len(t, samples, 5)
	for i, sample := range samples {
		assert.Equal(t, i, sample.Frame)
	}
	assert.True(t, acc.Done())
}

func TestAccumulatorIsDeterministicAndResets(t *testing.T) {
	s, l := sceneShadows()
	a := NewShadowAccumulator(s, l, 42)
	b := NewShadowAccumulator(s, l, 42)

	first := a.Step()
	assert.Equal(t, first, b.Step())

	a.Step()
	a.Reset()
	assert.Equal(t, 0, a.Frame())
	assert.Equal(t, first, a.Step())
}

func TestJitterStaysInBounds(t *testing.T) {
	s, l := sceneShadows()
	acc := NewShadowAccumulator(s, l, 7)
	length := common.Length3(l.Position)

	for range 20 {
		for _, sample := range acc.Step() {
			for _, p := range sample.Positions {
				inCube := math32.Abs(p[0]-l.Position[0]) <= l.Radius/2 &&
					math32.Abs(p[1]-l.Position[1]) <= l.Radius/2 &&
					math32.Abs(p[2]-l.Position[2]) <= l.Radius/2
				onSphere := math32.Abs(common.Length3(p)-length) < 1e-3 && p[1] >= 0
				assert.True(t, inCube || onSphere, "sample %v", p)
			}
		}
	}
}

func TestRandomizedLightSplitsIntensity(t *testing.T) {
	_, l := sceneShadows()
	lights := l.Lights([][3]float32{{0, 10, 0}, {1, 1, 1}})
	require.Len(t, lights, 2)
	assert.InDelta(t, math32.Pi/8, lights[0].Intensity(), 1e-6)
	assert.True(t, lights[0].CastsShadows())
	assert.Equal(t, float32(0.001), lights[0].ShadowBias())
	assert.InDelta(t, -1, lights[0].Direction()[1], 1e-6)
}
