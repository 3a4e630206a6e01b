package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Carmen-Shannon/reject-ocean/common"
	"github.com/Carmen-Shannon/reject-ocean/engine/environment"
	"github.com/Carmen-Shannon/reject-ocean/engine/loader"
	"github.com/Carmen-Shannon/reject-ocean/engine/material"
	"github.com/Carmen-Shannon/reject-ocean/engine/model"
	"github.com/Carmen-Shannon/reject-ocean/engine/params"
	"github.com/Carmen-Shannon/reject-ocean/engine/renderer"
	"github.com/Carmen-Shannon/reject-ocean/engine/scene"
	"github.com/Carmen-Shannon/reject-ocean/engine/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBundle() model.AssetBundle {
	opts := []model.AssetBundleOption{model.WithName("test.glb")}
	for _, name := range scene.RequiredMeshes() {
		opts = append(opts, model.WithGeometry(&model.Geometry{
			Name:        name,
			BoundingMin: [3]float32{-1, -1, -1},
			BoundingMax: [3]float32{1, 1, 1},
		}))
	}
	for _, name := range scene.RequiredMaterials() {
		opts = append(opts, model.WithMaterial(&model.MaterialDef{Name: name}))
	}
	return model.NewAssetBundle(opts...)
}

func newTestEngine(t *testing.T, sceneOpts ...scene.SceneBuilderOption) *engine {
	t.Helper()
	s, err := scene.NewScene("test", testBundle(), material.Defaults(), sceneOpts...)
	require.NoError(t, err)
	r, err := renderer.NewRenderer(renderer.BackendTypeHeadless, nil)
	require.NoError(t, err)
	t.Cleanup(r.Release)

	e, err := NewEngine(WithScene(s), WithRenderer(r), WithTickRate(120))
	require.NoError(t, err)
	return e.(*engine)
}

func TestNewEngineRequiresSceneAndRenderer(t *testing.T) {
	_, err := NewEngine()
	assert.ErrorIs(t, err, errNoScene)

	s, err := scene.NewScene("test", testBundle(), material.Defaults())
	require.NoError(t, err)
	_, err = NewEngine(WithScene(s))
	assert.ErrorIs(t, err, errNoRenderer)
}

func TestNewEngineDefaults(t *testing.T) {
	e := newTestEngine(t)
	assert.Nil(t, e.Window())
	assert.Equal(t, time.Second/120, e.engineTickRate)
	require.NotNil(t, e.Params())
	assert.Equal(t, e.Scene().Config(), e.Params().Snapshot())

	// the initial tree is submitted and cleared to the configured background
	require.NoError(t, e.RenderFrame())
	frames := e.Renderer().Frames()
	require.Len(t, frames, 1)
	assert.Len(t, frames[0].Draws, 19)
	assert.Equal(t, common.MustParseHexColor("#839681"), frames[0].Clear)
}

func TestTickRecomposesOnParameterChange(t *testing.T) {
	e := newTestEngine(t)
	before := e.Scene().Tree()

	require.NoError(t, e.Tick(0.016))
	assert.Same(t, before, e.Scene().Tree(), "unchanged parameters keep the tree")

	_, err := e.Params().Set("bg", "#000000")
	require.NoError(t, err)
	require.NoError(t, e.Tick(0.016))
	assert.NotSame(t, before, e.Scene().Tree())
	assert.Equal(t, "#000000", e.Scene().Config().Bg)

	require.NoError(t, e.RenderFrame())
	frames := e.Renderer().Frames()
	assert.Equal(t, common.Color{0, 0, 0, 1}, frames[len(frames)-1].Clear)
}

func TestTickAdvancesCameraAndShadows(t *testing.T) {
	e := newTestEngine(t)
	ctrl := e.Scene().Camera().Controller()
	az := ctrl.Azimuth()

	calls := 0
	e.SetTickCallback(func(float32) { calls++ })
	require.NoError(t, e.Tick(1))

	assert.NotEqual(t, az, ctrl.Azimuth())
	assert.Equal(t, 1, e.Scene().Accumulator().Frame())
	assert.Equal(t, 1, calls)
}

func TestTickReportsSettledShadowsOnce(t *testing.T) {
	e := newTestEngine(t)
	acc := e.Scene().Accumulator()
	for !acc.Done() {
		require.NoError(t, e.Tick(0.01))
	}
	require.NoError(t, e.Tick(0.01))
	assert.True(t, e.settled)

	_, err := e.Params().Set("roughness", 0.5)
	require.NoError(t, err)
	require.NoError(t, e.Tick(0.01))
	assert.False(t, e.settled, "recomposition restarts accumulation")
	assert.False(t, acc.Done())
}

func TestKeyBindings(t *testing.T) {
	e := newTestEngine(t)

	e.handleKey(common.KeyB)
	assert.True(t, e.Params().Snapshot().Backside)
	e.handleKey(common.KeyP)
	assert.True(t, e.Params().Snapshot().MeshPhysicalMaterial)
	e.handleKey(common.KeyT)
	assert.True(t, e.Params().Snapshot().TransmissionSampler)

	require.NoError(t, e.Tick(0.01))
	for _, i := range e.Scene().Tree().Meshes(scene.MeshRoleInner) {
		assert.Equal(t, material.KindPhysical, e.Scene().Tree().Nodes[i].Mesh.Material.Kind)
	}

	e.handleKey(common.KeyR)
	assert.Equal(t, material.Defaults(), e.Params().Snapshot())

	ctrl := e.Scene().Camera().Controller()
	e.handleKey(common.KeySpace)
	assert.True(t, ctrl.Paused())
	e.handleKey(common.KeySpace)
	assert.False(t, ctrl.Paused())

	e.handleKey(common.KeyEsc)
	select {
	case <-e.Done():
	default:
		t.Fatal("escape did not signal quit")
	}
}

func TestWindowTitle(t *testing.T) {
	assert.Equal(t, "Reject Ocean Show [transmission]", windowTitle(material.Defaults()))

	cfg, _ := material.Defaults().Set("meshPhysicalMaterial", true)
	cfg, _ = cfg.Set("backside", true)
	assert.Equal(t, "Reject Ocean Show [physical, backside]", windowTitle(cfg))
}

func TestClearColorUsesEnvironmentBackdrop(t *testing.T) {
	mean := common.Color{0.25, 0.5, 0.75, 1}
	e := newTestEngine(t, scene.WithEnvironment(&environment.Environment{Name: "hall", Mean: mean}))
	assert.Equal(t, mean, ClearColor(e.Scene()))
	assert.Equal(t, mean, e.Renderer().ClearColor())
}

func TestFramesFollowCameraShadowsAndLabel(t *testing.T) {
	font, err := text.ParseFont([]byte(testFont))
	require.NoError(t, err)
	preview := image.NewRGBA(image.Rect(0, 0, 4, 2))
	e := newTestEngine(t,
		scene.WithFont(font),
		scene.WithEnvironment(&environment.Environment{Name: "hall", Preview: preview}),
	)

	require.NoError(t, e.Tick(0.5))
	require.NoError(t, e.RenderFrame())

	frame := e.Renderer().Frames()[0]
	vp := e.Scene().Camera().ViewProjectionMatrix()
	assert.Equal(t, vp, frame.ViewProjection)
	assert.Same(t, preview, frame.Backdrop)

	require.Len(t, frame.Shadows, 1)
	assert.Equal(t, 0, frame.Shadows[0].Frame)
	assert.Len(t, frame.Shadows[0].Lights, scene.ShadowPlane().Light.Amount)

	require.Len(t, frame.Draws, 20)
	label := frame.Draws[19]
	assert.Equal(t, "label", label.Name)
	assert.Equal(t, len([]rune(scene.LabelText)), label.Glyphs)
	assert.Equal(t, common.Mul4(vp, label.World), label.Clip)
	// the label box is centred on its anchor
	lbl := e.Scene().Label()
	mid := [3]float32{(lbl.Min[0] + lbl.Max[0]) / 2, (lbl.Min[1] + lbl.Max[1]) / 2, (lbl.Min[2] + lbl.Max[2]) / 2}
	centre := common.TransformPoint(label.World, mid)
	assert.InDelta(t, 0, centre[0], 1e-4)
	assert.InDelta(t, 5, centre[1], 1e-4)
	assert.InDelta(t, 0, centre[2], 1e-4)

	// the camera keeps orbiting, and the next frame sees the new matrix
	require.NoError(t, e.Tick(0.5))
	require.NoError(t, e.RenderFrame())
	next := e.Renderer().Frames()[1]
	assert.NotEqual(t, vp, next.ViewProjection)
	require.Len(t, next.Shadows, 1)
	assert.Equal(t, 1, next.Shadows[0].Frame)
	assert.Equal(t, 2, e.Renderer().Stats().ShadowPasses)
}

func TestRunStopsOnQuit(t *testing.T) {
	e := newTestEngine(t)
	e.SetRenderFrameLimit(200)

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	require.Eventually(t, func() bool {
		return e.Renderer().Stats().Frames > 2
	}, 2*time.Second, 5*time.Millisecond)

	_, err := e.Params().Set("thickness", 5)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return e.Scene().Config().Thickness == 5
	}, 2*time.Second, 5*time.Millisecond)

	e.Quit()
	e.Quit()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Quit")
	}
}

func TestWithParamsSharesStore(t *testing.T) {
	s, err := scene.NewScene("test", testBundle(), material.Defaults())
	require.NoError(t, err)
	r, err := renderer.NewRenderer(renderer.BackendTypeHeadless, nil)
	require.NoError(t, err)
	p := params.NewStore()

	e, err := NewEngine(WithScene(s), WithRenderer(r), WithParams(p), WithRenderFrameLimit(30), WithProfiling(true))
	require.NoError(t, err)
	assert.Same(t, p, e.Params())
	assert.Equal(t, time.Second/30, e.(*engine).renderFrameLimit)
	assert.True(t, e.(*engine).profilingEnabled.Load())
}

const testFont = `{
	"familyName": "Test Sans",
	"resolution": 1000,
	"boundingBox": {"xMin": 0, "xMax": 1000, "yMin": -200, "yMax": 1000},
	"glyphs": {"?": {"ha": 100, "x_min": 0, "x_max": 50, "o": "m 0 0 l 50 0 l 50 50"}}
}`

const testGLTF = `{
	"asset": {"version": "2.0"},
	"buffers": [{"byteLength": 36, "uri": "data:application/octet-stream;base64,AAAAAAAAAAAAAAAAAACAPwAAAAAAAAAAAAAAAAAAgD8AAAAA"}],
	"bufferViews": [{"buffer": 0, "byteLength": 36}],
	"accessors": [{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"}],
	"meshes": [{"name": "tri", "primitives": [{"attributes": {"POSITION": 0}}]}],
	"nodes": [{"name": "bubbles", "mesh": 0}]
}`

func radianceFile(width, height int) []byte {
	var buf bytes.Buffer
	buf.WriteString("#?RADIANCE\nFORMAT=32-bit_rle_rgbe\n\n")
	fmt.Fprintf(&buf, "-Y %d +X %d\n", height, width)
	for range width * height {
		buf.Write([]byte{128, 128, 128, 129})
	}
	return buf.Bytes()
}

func writeAsset(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoadAssetsInParallel(t *testing.T) {
	dir := t.TempDir()
	paths := AssetPaths{
		Model:       writeAsset(t, dir, "model.gltf", []byte(testGLTF)),
		Environment: writeAsset(t, dir, scene.EnvironmentFile, radianceFile(4, 2)),
		Font:        writeAsset(t, dir, scene.FontFile, []byte(testFont)),
	}

	assets, err := LoadAssets(context.Background(), loader.NewLoader(loader.BackendTypeGLTF), paths, nil)
	require.NoError(t, err)

	_, ok := assets.Bundle.Geometry("bubbles")
	assert.True(t, ok)
	require.NotNil(t, assets.Environment)
	assert.True(t, assets.Environment.Background)
	assert.Equal(t, float32(1), assets.Environment.Blurriness)
	require.NotNil(t, assets.Font)
	assert.Equal(t, "Test Sans", assets.Font.FamilyName)
	assert.Len(t, assets.SceneOptions(), 2)
}

func TestLoadAssetsSkipsOptionalPaths(t *testing.T) {
	dir := t.TempDir()
	assets, err := LoadAssets(context.Background(), loader.NewLoader(loader.BackendTypeGLTF),
		AssetPaths{Model: writeAsset(t, dir, "model.gltf", []byte(testGLTF))}, nil)
	require.NoError(t, err)
	assert.Nil(t, assets.Environment)
	assert.Nil(t, assets.Font)
	assert.Empty(t, assets.SceneOptions())

	_, err = LoadAssets(context.Background(), loader.NewLoader(loader.BackendTypeGLTF), AssetPaths{}, nil)
	assert.Error(t, err)
}

func TestLoadAssetsIsAllOrNothing(t *testing.T) {
	dir := t.TempDir()
	paths := AssetPaths{
		Model:       filepath.Join(dir, "missing.glb"),
		Environment: writeAsset(t, dir, scene.EnvironmentFile, radianceFile(4, 2)),
		Font:        writeAsset(t, dir, scene.FontFile, []byte(`{"glyphs": {}}`)),
	}

	assets, err := LoadAssets(context.Background(), loader.NewLoader(loader.BackendTypeGLTF), paths, nil)
	require.Error(t, err)
	assert.Nil(t, assets)

	kinds := map[common.AssetKind]bool{}
	var joined interface{ Unwrap() []error }
	require.True(t, errors.As(err, &joined))
	for _, e := range joined.Unwrap() {
		var loadErr *common.AssetLoadError
		require.True(t, errors.As(e, &loadErr), e.Error())
		kinds[loadErr.Kind] = true
	}
	assert.Equal(t, map[common.AssetKind]bool{common.AssetKindModel: true, common.AssetKindFont: true}, kinds)
}
