package scene

import (
	"testing"

	"github.com/Carmen-Shannon/reject-ocean/engine/material"
	"github.com/Carmen-Shannon/reject-ocean/engine/text"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSceneBuildsCameraAndAccumulator(t *testing.T) {
	s, err := NewScene("main", testBundle(), material.Defaults(), WithAspect(16.0/9))
	require.NoError(t, err)
	assert.Equal(t, "main", s.Name())
	assert.Equal(t, 24, s.Tree().Len())

	cam := s.Camera()
	require.NotNil(t, cam)
	assert.InDelta(t, 26*math32.Pi/180, cam.Fov(), 1e-6)
	assert.InDelta(t, 16.0/9, cam.Aspect(), 1e-6)
	p := cam.Controller().Position()
	assert.InDelta(t, 55, p[0], 1e-3)

	require.NotNil(t, s.Accumulator())
	assert.Equal(t, 0, s.Accumulator().Frame())
	assert.Nil(t, s.Label())
	assert.Nil(t, s.Environment())
}

func TestNewSceneRejectsIncompleteBundle(t *testing.T) {
	_, err := NewScene("main", testBundle("turtle"), material.Defaults())
	assert.Error(t, err)
}

func TestUpdateRecomposesOnlyOnChange(t *testing.T) {
	s, err := NewScene("main", testBundle(), material.Defaults())
	require.NoError(t, err)
	first := s.Tree()

	changed, err := s.Update(material.Defaults())
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Same(t, first, s.Tree())

	for range 5 {
		s.Tick(1.0 / 60)
	}
	assert.Equal(t, 5, s.Accumulator().Frame())

	cfg, err := material.Defaults().Set("ior", 2)
	require.NoError(t, err)
	changed, err = s.Update(cfg)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.NotSame(t, first, s.Tree())
	assert.Equal(t, cfg, s.Config())
	assert.Equal(t, 0, s.Accumulator().Frame(), "recomposition restarts shadow accumulation")
}

func TestTickRotatesCameraAndStopsAccumulating(t *testing.T) {
	s, err := NewScene("main", testBundle(), material.Defaults())
	require.NoError(t, err)
	ctrl := s.Camera().Controller()
	start := ctrl.Azimuth()
	view := s.Camera().ViewMatrix()

	samples := s.Tick(1)
	require.Len(t, samples, 1)
	assert.Len(t, samples[0].Positions, 8)
	assert.InDelta(t, -2*math32.Pi/60*0.3, ctrl.Azimuth()-start, 1e-5)
	assert.NotEqual(t, view, s.Camera().ViewMatrix())

	for range 99 {
		s.Tick(0)
	}
	assert.True(t, s.Accumulator().Done())
	assert.Nil(t, s.Tick(0))
}

func TestNewSceneLaysOutLabel(t *testing.T) {
	font := &text.Font{
		FamilyName:  "Test",
		Resolution:  1000,
		BoundingBox: text.BoundingBox{YMin: 0, YMax: 1000},
		Glyphs: map[string]text.Glyph{
			"?": {Ha: 500, Outline: "m 0 0 l 400 0 l 400 700 z"},
			" ": {Ha: 250},
		},
	}
	s, err := NewScene("main", testBundle(), material.Defaults(), WithFont(font))
	require.NoError(t, err)

	label := s.Label()
	require.NotNil(t, label)
	assert.Equal(t, LabelText, label.Text)
	// every letter falls back to '?'; only the two spaces exist
	assert.Len(t, label.Missing, len(LabelText)-2)
	assert.InDelta(t, -0.1, label.Min[2], 1e-6)
	assert.InDelta(t, 0.3, label.Max[2], 1e-6)
	off := label.CenterOffset()
	assert.InDelta(t, -(label.Min[0]+label.Max[0])/2, off[0], 1e-6)
}
