package material

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/reject-ocean/common"
	"github.com/Carmen-Shannon/reject-ocean/engine/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaDeclaresNineteenFields(t *testing.T) {
	fields := Schema()
	require.Len(t, fields, 19)
	assert.Equal(t, "meshPhysicalMaterial", fields[0].Name)
	assert.Equal(t, "bg", fields[18].Name)

	f, ok := Lookup("resolution")
	require.True(t, ok)
	assert.Equal(t, 256.0, f.Min)
	assert.Equal(t, 2048.0, f.Max)
	assert.Equal(t, 256.0, f.Step)

	_, ok = Lookup("opacity")
	assert.False(t, ok)
}

func TestDefaults(t *testing.T) {
	c := Defaults()
	assert.False(t, c.MeshPhysicalMaterial)
	assert.False(t, c.TransmissionSampler)
	assert.False(t, c.Backside)
	assert.Equal(t, 10, c.Samples)
	assert.Equal(t, 2048, c.Resolution)
	assert.Equal(t, float32(1), c.Transmission)
	assert.Equal(t, float32(0), c.Roughness)
	assert.Equal(t, float32(3.5), c.Thickness)
	assert.Equal(t, float32(1.01), c.IOR)
	assert.Equal(t, float32(0.04), c.ChromaticAberration)
	assert.Equal(t, float32(0.1), c.Anisotropy)
	assert.Equal(t, float32(0.57), c.Distortion)
	assert.Equal(t, float32(0.5), c.DistortionScale)
	assert.Equal(t, float32(0.5), c.TemporalDistortion)
	assert.Equal(t, float32(1), c.Clearcoat)
	assert.Equal(t, float32(0.5), c.AttenuationDistance)
	assert.Equal(t, "#ffffff", c.AttenuationColor)
	assert.Equal(t, "#99ecff", c.Color)
	assert.Equal(t, "#839681", c.Bg)

	// defaults are already normalized
	n, err := Normalize(c)
	require.NoError(t, err)
	assert.Equal(t, c, n)
}

func TestSetClampsAndSnaps(t *testing.T) {
	base := Defaults()

	tests := []struct {
		name  string
		value any
		want  any
	}{
		{"roughness", 1.7, float32(1)},
		{"roughness", -3, float32(0)},
		{"roughness", 0.1234, float32(0.12)},
		{"ior", 0.2, float32(1)},
		{"ior", 7, float32(5)},
		{"distortionScale", 0.0, float32(0.01)},
		{"thickness", float32(3.456), float32(3.46)},
		{"samples", 0, 1},
		{"samples", 40, 32},
		{"samples", 12.6, 13},
		{"resolution", 1000, 1024},
		{"resolution", 100, 256},
		{"resolution", 4096, 2048},
		{"transmission", math.NaN(), float32(0)},
		{"clearcoat", 0.333, float32(0.33)},
		{"backside", true, true},
		{"bg", "#ABCDEF", "#abcdef"},
	}
	for _, tt := range tests {
		got, err := base.Set(tt.name, tt.value)
		require.NoError(t, err, tt.name)
		v, err := got.Get(tt.name)
		require.NoError(t, err)
		assert.Equal(t, tt.want, v, "%s=%v", tt.name, tt.value)
	}

	// the receiver is a snapshot and never changes
	assert.Equal(t, Defaults(), base)
}

func TestSetRejectsBadInput(t *testing.T) {
	base := Defaults()

	_, err := base.Set("opacity", 1)
	assert.ErrorIs(t, err, ErrUnknownParam)

	_, err = base.Set("samples", "ten")
	assert.ErrorIs(t, err, ErrParamType)

	_, err = base.Set("backside", 1)
	assert.ErrorIs(t, err, ErrParamType)

	got, err := base.Set("color", "blue")
	assert.ErrorIs(t, err, common.ErrInvalidColor)
	assert.Equal(t, base, got)

	_, err = base.Get("opacity")
	assert.ErrorIs(t, err, ErrUnknownParam)
}

func TestNormalize(t *testing.T) {
	raw := Defaults()
	raw.Samples = 99
	raw.IOR = 0
	raw.Thickness = 12.3456
	raw.Color = "#FFF"

	n, err := Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, 32, n.Samples)
	assert.Equal(t, float32(1), n.IOR)
	assert.Equal(t, float32(10), n.Thickness)
	assert.Equal(t, "#fff", n.Color)

	raw = Defaults()
	raw.Bg = "green"
	_, err = Normalize(raw)
	assert.Error(t, err)
}

func TestTransmissionSpreadsEveryField(t *testing.T) {
	cfg := Defaults()
	cfg, _ = cfg.Set("roughness", 0.3)
	cfg, _ = cfg.Set("backside", true)

	m, err := NewTransmissionFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, KindTransmission, m.Kind)
	assert.Equal(t, SideDouble, m.Side)

	p := m.Physical
	assert.Equal(t, float32(0.3), p.Roughness)
	assert.Equal(t, float32(1), p.Transmission)
	assert.Equal(t, float32(3.5), p.Thickness)
	assert.Equal(t, float32(1.01), p.IOR)
	assert.Equal(t, float32(0.1), p.Anisotropy)
	assert.Equal(t, float32(1), p.Clearcoat)
	assert.Equal(t, float32(0.5), p.AttenuationDistance)
	assert.Equal(t, common.MustParseHexColor("#99ecff"), p.Color)
	assert.Equal(t, common.MustParseHexColor("#ffffff"), p.AttenuationColor)
	// fields outside the snapshot keep the physical defaults
	assert.Equal(t, float32(1), p.SpecularIntensity)
	assert.Equal(t, float32(0), p.Metalness)

	tr := m.Transmission
	assert.Equal(t, 10, tr.Samples)
	assert.Equal(t, 2048, tr.Resolution)
	assert.True(t, tr.Backside)
	assert.False(t, tr.TransmissionSampler)
	assert.Equal(t, float32(0.04), tr.ChromaticAberration)
	assert.Equal(t, float32(0.57), tr.Distortion)
	assert.Equal(t, float32(0.5), tr.DistortionScale)
	assert.Equal(t, float32(0.5), tr.TemporalDistortion)
	assert.Equal(t, common.MustParseHexColor("#839681"), tr.Background)
}

func TestPhysicalFromConfig(t *testing.T) {
	m, err := NewPhysicalFromConfig(Defaults())
	require.NoError(t, err)
	assert.Equal(t, KindPhysical, m.Kind)
	assert.Equal(t, float32(0), m.Physical.Roughness)
	assert.Equal(t, float32(1.01), m.Physical.IOR)
	assert.Equal(t, TransmissionParams{}, m.Transmission)
}

func TestFromDefinitionSharesBundleMaterial(t *testing.T) {
	def := &model.MaterialDef{Name: "cube_mat"}
	m := FromDefinition(def, SideFront)
	assert.Equal(t, KindBundle, m.Kind)
	assert.Equal(t, "cube_mat", m.Name)
	assert.Same(t, def, m.Definition)
}
