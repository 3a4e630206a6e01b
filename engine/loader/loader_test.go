package loader

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/reject-ocean/common"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testNode describes one triangle-mesh node for buildGLB.
type testNode struct {
	name     string
	material int
}

// buildGLB assembles a GLB whose nodes each instance a one-triangle mesh sharing one buffer.
func buildGLB(t *testing.T, nodes []testNode, materials []string) []byte {
	t.Helper()

	var bin bytes.Buffer
	for _, v := range []float32{0, 0, 0, 1, 0, 0, 0, 2, 0} {
		require.NoError(t, binary.Write(&bin, binary.LittleEndian, math.Float32bits(v)))
	}
	for _, i := range []uint16{0, 1, 2, 0} { // padded to 4 bytes
		require.NoError(t, binary.Write(&bin, binary.LittleEndian, i))
	}

	doc := map[string]any{
		"asset":       map[string]any{"version": "2.0"},
		"buffers":     []any{map[string]any{"byteLength": bin.Len()}},
		"bufferViews": []any{map[string]any{"buffer": 0, "byteLength": 36}, map[string]any{"buffer": 0, "byteOffset": 36, "byteLength": 6}},
		"accessors": []any{
			map[string]any{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"},
			map[string]any{"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"},
		},
	}

	var meshes, gltfNodes, mats []any
	for i, n := range nodes {
		prim := map[string]any{"attributes": map[string]any{"POSITION": 0}, "indices": 1}
		if n.material >= 0 {
			prim["material"] = n.material
		}
		meshes = append(meshes, map[string]any{"name": n.name + "_mesh", "primitives": []any{prim}})
		gltfNodes = append(gltfNodes, map[string]any{"name": n.name, "mesh": i})
	}
	for _, m := range materials {
		mats = append(mats, map[string]any{
			"name":                 m,
			"pbrMetallicRoughness": map[string]any{"baseColorFactor": []float32{0.5, 0.5, 1, 1}, "roughnessFactor": 0.25},
			"extensions":           map[string]any{"KHR_materials_transmission": map[string]any{"transmissionFactor": 0.75}},
		})
	}
	doc["meshes"], doc["nodes"], doc["materials"] = meshes, gltfNodes, mats

	js, err := json.Marshal(doc)
	require.NoError(t, err)
	for len(js)%4 != 0 {
		js = append(js, ' ')
	}

	var out bytes.Buffer
	total := 12 + 8 + len(js) + 8 + bin.Len()
	for _, v := range []uint32{gltfGLBMagic, gltfGLBVersion, uint32(total), uint32(len(js)), gltfGLBChunkJSON} {
		require.NoError(t, binary.Write(&out, binary.LittleEndian, v))
	}
	out.Write(js)
	for _, v := range []uint32{uint32(bin.Len()), gltfGLBChunkBIN} {
		require.NoError(t, binary.Write(&out, binary.LittleEndian, v))
	}
	out.Write(bin.Bytes())
	return out.Bytes()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func requireAssetLoadError(t *testing.T, err error) *common.AssetLoadError {
	t.Helper()
	require.Error(t, err)
	var loadErr *common.AssetLoadError
	require.True(t, errors.As(err, &loadErr), "expected AssetLoadError, got %v", err)
	assert.Equal(t, common.AssetKindModel, loadErr.Kind)
	return loadErr
}

func TestLoadBundleExtractsNodesAndMaterials(t *testing.T) {
	glb := buildGLB(t, []testNode{{"cube1", 0}, {"shark", 1}, {"球体", -1}}, []string{"cube_mat", "shark"})
	path := writeFile(t, "scene.glb", glb)

	l := NewLoader(BackendTypeGLTF)
	b, err := l.LoadBundle(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, []string{"cube1", "shark", "球体"}, b.GeometryNames())
	assert.Equal(t, []string{"cube_mat", "shark"}, b.MaterialNames())

	g, ok := b.Geometry("cube1")
	require.True(t, ok)
	assert.Equal(t, "cube1_mesh", g.MeshName)
	assert.Equal(t, "cube_mat", g.MaterialName)
	assert.Equal(t, 3, g.VertexCount())
	assert.Equal(t, 1, g.TriangleCount())
	assert.Equal(t, [3]float32{0, 0, 0}, g.BoundingMin)
	assert.Equal(t, [3]float32{1, 2, 0}, g.BoundingMax)
	// generated normal of a CCW triangle in the XY plane
	assert.InDelta(t, 1, g.Normals[0][2], 1e-6)

	m, ok := b.Material("shark")
	require.True(t, ok)
	assert.Equal(t, [4]float32{0.5, 0.5, 1, 1}, m.BaseColor)
	assert.Equal(t, float32(0.25), m.Roughness)
	assert.Equal(t, float32(1), m.Metallic)
	assert.Equal(t, float32(0.75), m.Transmission)

	again, err := l.LoadBundle(context.Background(), path)
	require.NoError(t, err)
	assert.Same(t, b, again)
	assert.Len(t, l.Bundles(), 1)
}

func TestLoadBundleDuplicateNodeNames(t *testing.T) {
	glb := buildGLB(t, []testNode{{"fish", -1}, {"fish", -1}, {"blue whale", -1}}, nil)
	b, err := NewLoader(BackendTypeGLTF).LoadReader("dup", bytes.NewReader(glb))
	require.NoError(t, err)
	assert.Equal(t, []string{"blue_whale", "fish", "fish_1"}, b.GeometryNames())
}

func TestLoadBundleMissingFile(t *testing.T) {
	_, err := NewLoader(BackendTypeGLTF).LoadBundle(context.Background(), filepath.Join(t.TempDir(), "nope.glb"))
	loadErr := requireAssetLoadError(t, err)
	assert.ErrorIs(t, loadErr, os.ErrNotExist)
}

func TestLoadBundleRejectsBadInput(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)
	ctx := context.Background()

	_, err := l.LoadBundle(ctx, writeFile(t, "scene.obj", []byte("o cube")))
	assert.ErrorIs(t, requireAssetLoadError(t, err), errUnsupportedFormat)

	_, err = l.LoadBundle(ctx, writeFile(t, "text.glb", []byte("this is plain text, not a model\n")))
	assert.ErrorIs(t, requireAssetLoadError(t, err), errContentMismatch)

	glb := buildGLB(t, []testNode{{"cube1", -1}}, nil)
	binary.LittleEndian.PutUint32(glb[4:], 1)
	_, err = l.LoadBundle(ctx, writeFile(t, "v1.glb", glb))
	assert.ErrorIs(t, requireAssetLoadError(t, err), errInvalidGLBVersion)

	_, err = l.LoadBundle(ctx, writeFile(t, "old.gltf", []byte(`{"asset":{"version":"1.0"}}`)))
	assert.ErrorIs(t, requireAssetLoadError(t, err), errInvalidGLTFVersion)

	_, err = l.LoadBundle(ctx, writeFile(t, "ext.gltf", []byte(`{"asset":{"version":"2.0"},"extensionsRequired":["KHR_draco_mesh_compression"]}`)))
	assert.ErrorIs(t, requireAssetLoadError(t, err), errUnsupportedExtension)

	// nothing failed loads is cached
	assert.Empty(t, l.Bundles())
}

func TestLoadBundleTruncatedBufferFailsWhole(t *testing.T) {
	glb := buildGLB(t, []testNode{{"cube1", -1}, {"cube2", -1}}, nil)
	// cut the BIN chunk short of its declared length
	truncated := glb[:len(glb)-8]
	_, err := NewLoader(BackendTypeGLTF).LoadReader("short", bytes.NewReader(truncated))
	requireAssetLoadError(t, err)
}

func TestLoadBundleCancelledContext(t *testing.T) {
	path := writeFile(t, "scene.glb", buildGLB(t, []testNode{{"cube1", -1}}, nil))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(BackendTypeGLTF).LoadBundle(ctx, path)
	assert.ErrorIs(t, requireAssetLoadError(t, err), context.Canceled)
}

func TestLoadGLTFWithDataURI(t *testing.T) {
	doc := `{
		"asset": {"version": "2.0"},
		"buffers": [{"byteLength": 36, "uri": "data:application/octet-stream;base64,AAAAAAAAAAAAAAAAAACAPwAAAAAAAAAAAAAAAAAAgD8AAAAA"}],
		"bufferViews": [{"buffer": 0, "byteLength": 36}],
		"accessors": [{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"}],
		"meshes": [{"name": "tri", "primitives": [{"attributes": {"POSITION": 0}}]}],
		"nodes": [{"name": "bubbles", "mesh": 0}]
	}`
	b, err := NewLoader(BackendTypeGLTF).LoadBundle(context.Background(), writeFile(t, "tri.gltf", []byte(doc)))
	require.NoError(t, err)

	g, ok := b.Geometry("bubbles")
	require.True(t, ok)
	assert.Equal(t, []uint32{0, 1, 2}, g.Indices)
	assert.Equal(t, [3]float32{0, 1, 0}, g.Positions[2])
}

// triangleDoc is a one-triangle glTF whose buffer view and accessor are spliced in by the caller.
func triangleDoc(bufferView, accessor string) []byte {
	return []byte(`{
		"asset": {"version": "2.0"},
		"buffers": [{"byteLength": 36, "uri": "data:application/octet-stream;base64,AAAAAAAAAAAAAAAAAACAPwAAAAAAAAAAAAAAAAAAgD8AAAAA"}],
		"bufferViews": [` + bufferView + `],
		"accessors": [` + accessor + `],
		"meshes": [{"name": "tri", "primitives": [{"attributes": {"POSITION": 0}}]}],
		"nodes": [{"name": "bubbles", "mesh": 0}]
	}`)
}

func TestLoadBundleRejectsMalformedAccessors(t *testing.T) {
	const view = `{"buffer": 0, "byteLength": 36}`
	const acc = `{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"}`

	cases := map[string][]byte{
		"negative count":         triangleDoc(view, `{"bufferView": 0, "componentType": 5126, "count": -1, "type": "VEC3"}`),
		"negative offset":        triangleDoc(view, `{"bufferView": 0, "byteOffset": -4, "componentType": 5126, "count": 3, "type": "VEC3"}`),
		"negative view offset":   triangleDoc(`{"buffer": 0, "byteOffset": -8, "byteLength": 36}`, acc),
		"stride below element":   triangleDoc(`{"buffer": 0, "byteLength": 36, "byteStride": 4}`, acc),
		"count past end":         triangleDoc(view, `{"bufferView": 0, "componentType": 5126, "count": 4, "type": "VEC3"}`),
		"offset past end":        triangleDoc(view, `{"bufferView": 0, "byteOffset": 40, "componentType": 5126, "count": 1, "type": "VEC3"}`),
		"count overflowing span": triangleDoc(view, `{"bufferView": 0, "componentType": 5126, "count": 768614336404564651, "type": "VEC3"}`),
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() {
				_, err = NewLoader(BackendTypeGLTF).LoadReader("bad.gltf", bytes.NewReader(doc))
			})
			assert.ErrorIs(t, requireAssetLoadError(t, err), errAccessorOutOfBounds)
		})
	}
}

func TestLoadBundleRejectsOversizedGLBChunk(t *testing.T) {
	var glb bytes.Buffer
	for _, v := range []uint32{gltfGLBMagic, gltfGLBVersion, 28, 0xFFFFFFF0, gltfGLBChunkJSON} {
		require.NoError(t, binary.Write(&glb, binary.LittleEndian, v))
	}
	glb.WriteString(`{"a":1}`)
	glb.WriteByte(' ')

	_, err := NewLoader(BackendTypeGLTF).LoadReader("huge.glb", bytes.NewReader(glb.Bytes()))
	assert.ErrorIs(t, requireAssetLoadError(t, err), errGLBChunkTooLarge)
}

func TestLoadBundleRejectsGLBLongerThanData(t *testing.T) {
	glb := buildGLB(t, []testNode{{"cube1", -1}}, nil)
	binary.LittleEndian.PutUint32(glb[8:], uint32(len(glb)+64))

	_, err := NewLoader(BackendTypeGLTF).LoadReader("long.glb", bytes.NewReader(glb))
	assert.ErrorIs(t, requireAssetLoadError(t, err), errGLBTruncated)
}
