package scene

import (
	"errors"
	"slices"
	"testing"

	"github.com/Carmen-Shannon/reject-ocean/common"
	"github.com/Carmen-Shannon/reject-ocean/engine/material"
	"github.com/Carmen-Shannon/reject-ocean/engine/model"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unitCube is a geometry spanning [-1, 1] on every axis.
func unitCube(name string) *model.Geometry {
	return &model.Geometry{
		Name:        name,
		MeshName:    name,
		BoundingMin: [3]float32{-1, -1, -1},
		BoundingMax: [3]float32{1, 1, 1},
	}
}

// testBundle builds a bundle holding every required name except those in skip.
func testBundle(skip ...string) model.AssetBundle {
	opts := []model.AssetBundleOption{model.WithName("frozenwhaleL.glb")}
	for _, name := range RequiredMeshes() {
		if !slices.Contains(skip, name) {
			opts = append(opts, model.WithGeometry(unitCube(name)))
		}
	}
	for _, name := range RequiredMaterials() {
		if !slices.Contains(skip, name) {
			opts = append(opts, model.WithMaterial(&model.MaterialDef{Name: name, BaseColor: [4]float32{1, 1, 1, 1}, Roughness: 1, IOR: 1.5}))
		}
	}
	return model.NewAssetBundle(opts...)
}

func TestRequiredNames(t *testing.T) {
	meshes := RequiredMeshes()
	assert.Len(t, meshes, 19)
	assert.True(t, slices.IsSorted(meshes))
	assert.Contains(t, meshes, "球体")
	assert.Contains(t, meshes, "cube2005")

	assert.Equal(t, []string{"bluewhale", "cube_bubbles_mat", "cube_mat", "efish", "shark", "turtle", "weapons_mat"}, RequiredMaterials())
}

func TestComposeNodeCount(t *testing.T) {
	tree, err := Compose(testBundle(), material.Defaults())
	require.NoError(t, err)

	assert.Equal(t, 24, tree.Len())
	assert.Len(t, tree.Meshes(MeshRoleInner), 6)
	assert.Len(t, tree.Meshes(MeshRoleShell), 6)
	assert.Len(t, tree.Meshes(MeshRoleDecoration), 3)
	assert.Len(t, tree.Meshes(MeshRoleCreature), 4)
	for _, kind := range []NodeKind{NodeKindLight, NodeKindShadowPlane, NodeKindCameraRig, NodeKindBackdrop, NodeKindTextLabel} {
		assert.Equal(t, 1, tree.Count(kind), kind.String())
	}
}

func TestComposeMissingNameFailsWhole(t *testing.T) {
	for _, name := range append(RequiredMeshes(), RequiredMaterials()...) {
		tree, err := Compose(testBundle(name), material.Defaults())
		require.Error(t, err, name)
		assert.Nil(t, tree, name)

		var refErr *common.MissingReferenceError
		require.True(t, errors.As(err, &refErr), name)
		assert.Equal(t, []string{name}, refErr.Names)
	}
}

func TestComposeMissingMeshAndMaterialReportsBoth(t *testing.T) {
	_, err := Compose(testBundle("shark", "turtle", "efish"), material.Defaults())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing mesh reference(s): efish, shark, turtle")
	assert.Contains(t, err.Error(), "missing material reference(s): efish, shark, turtle")
}

func TestComposeIsIdempotent(t *testing.T) {
	bundle := testBundle()
	a, err := Compose(bundle, material.Defaults())
	require.NoError(t, err)
	b, err := Compose(bundle, material.Defaults())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestChangingOneFieldOnlyTouchesInnerMeshes(t *testing.T) {
	bundle := testBundle()
	base := material.Defaults()
	before, err := Compose(bundle, base)
	require.NoError(t, err)

	for _, f := range material.Schema() {
		if f.Name == "meshPhysicalMaterial" {
			continue
		}
		t.Run(f.Name, func(t *testing.T) {
			changed, err := changeField(base, f)
			require.NoError(t, err)
			require.NotEqual(t, base, changed)

			after, err := Compose(bundle, changed)
			require.NoError(t, err)
			require.Equal(t, before.Len(), after.Len())
			assert.Equal(t, before.Groups, after.Groups)

			inner := before.Meshes(MeshRoleInner)
			for i := range before.Nodes {
				if slices.Contains(inner, i) {
					assert.NotEqual(t, before.Nodes[i].Mesh.Material, after.Nodes[i].Mesh.Material, before.Nodes[i].Name)
					assert.Equal(t, before.Nodes[i].Transform, after.Nodes[i].Transform)
					continue
				}
				assert.Equal(t, before.Nodes[i], after.Nodes[i], before.Nodes[i].Name)
			}
		})
	}
}

// changeField returns base with one field moved to a different valid value.
func changeField(base material.Config, f material.Field) (material.Config, error) {
	v, err := base.Get(f.Name)
	if err != nil {
		return base, err
	}
	switch f.Kind {
	case material.FieldKindBool:
		return base.Set(f.Name, !v.(bool))
	case material.FieldKindColor:
		return base.Set(f.Name, "#123456")
	case material.FieldKindInt:
		if v.(int) == int(f.Max) {
			return base.Set(f.Name, f.Min)
		}
		return base.Set(f.Name, f.Max)
	default:
		if float64(v.(float32)) == f.Max {
			return base.Set(f.Name, f.Min)
		}
		return base.Set(f.Name, f.Max)
	}
}

func TestTogglingPhysicalSwitchesAllInnerMeshes(t *testing.T) {
	bundle := testBundle()
	cfg := material.Defaults()
	tree, err := Compose(bundle, cfg)
	require.NoError(t, err)
	for _, i := range tree.Meshes(MeshRoleInner) {
		assert.Equal(t, material.KindTransmission, tree.Nodes[i].Mesh.Material.Kind)
		assert.Equal(t, common.MustParseHexColor("#839681"), tree.Nodes[i].Mesh.Material.Transmission.Background)
	}

	cfg, err = cfg.Set("meshPhysicalMaterial", true)
	require.NoError(t, err)
	tree, err = Compose(bundle, cfg)
	require.NoError(t, err)
	for _, i := range tree.Meshes(MeshRoleInner) {
		assert.Equal(t, material.KindPhysical, tree.Nodes[i].Mesh.Material.Kind)
	}
}

func TestShellsDrawFirstAndCastShadows(t *testing.T) {
	tree, err := Compose(testBundle(), material.Defaults())
	require.NoError(t, err)
	for _, i := range tree.Meshes(MeshRoleShell) {
		m := tree.Nodes[i].Mesh
		assert.True(t, m.CastShadow)
		assert.Equal(t, ShellRenderOrder, m.RenderOrder)
		assert.Equal(t, material.SideFront, m.Material.Side)
		assert.Equal(t, "cube_mat", m.Material.Name)
	}
	for _, i := range tree.Meshes(MeshRoleInner) {
		// each inner body sits where its shell does
		assert.Equal(t, tree.Nodes[i].Transform, tree.Nodes[i+1].Transform)
		assert.Equal(t, MeshRoleShell, tree.Nodes[i+1].Mesh.Role)
	}
}

func TestCreaturePlacement(t *testing.T) {
	tree, err := Compose(testBundle(), material.Defaults())
	require.NoError(t, err)

	shark := tree.Nodes[tree.Find("shark")]
	assert.Equal(t, [3]float32{0, -1.5, 0.5}, shark.Transform.Position)
	assert.InDelta(t, 2.5*math32.Pi, shark.Transform.Rotation[1], 1e-5)
	assert.Equal(t, "shark", shark.Mesh.Material.Name)

	efish := tree.Nodes[tree.Find("efish")]
	assert.Equal(t, float32(0), efish.Transform.Rotation[1])
}

func TestWorldTransformResolvesGroups(t *testing.T) {
	tree, err := Compose(testBundle(), material.Defaults())
	require.NoError(t, err)

	// every unit cube spans [-1, 1]; the lowest sits at y -2.28 - 1 (bubbles) and
	// the arrows group lowers its mesh to -2 - 1, so the bubbles set the base
	cube := tree.Groups[tree.Nodes[0].Group]
	assert.Equal(t, "gelatinousCube", cube.Name)
	assert.InDelta(t, 3.28, cube.Transform.Position[1], 1e-5)

	arrows := tree.Find("arrows")
	p := common.TransformPoint(tree.WorldTransform(arrows), [3]float32{})
	assert.InDelta(t, -1+cube.Transform.Position[0], p[0], 1e-5)
	assert.InDelta(t, -2.5+3.28-2, p[1], 1e-5)
	assert.InDelta(t, -1.5+cube.Transform.Position[2], p[2], 1e-5)

	label := tree.Find("label")
	p = common.TransformPoint(tree.WorldTransform(label), [3]float32{})
	assert.Equal(t, [3]float32{0, 5, 0}, p)
}

func TestCenterTopCentersHorizontally(t *testing.T) {
	tree, err := Compose(testBundle(), material.Defaults())
	require.NoError(t, err)
	cube := tree.Groups[tree.Nodes[0].Group].Transform.Position

	// the sphere far out at negative x and z pulls the box centre that way
	assert.Greater(t, cube[0], float32(0))
	assert.Greater(t, cube[2], float32(0))
}

func TestFixedNodes(t *testing.T) {
	tree, err := Compose(testBundle(), material.Defaults())
	require.NoError(t, err)

	rig := tree.Nodes[tree.Find("orbitControls")].Camera
	assert.Equal(t, [3]float32{55, 20, 55}, rig.Position)
	assert.InDelta(t, math32.Pi/2, rig.MaxPolar, 1e-6)
	assert.Equal(t, float32(0.3), rig.AutoRotateSpeed)

	ambient := tree.Nodes[tree.Find("ambientLight")].Light.Light
	assert.Equal(t, math32.Pi, ambient.Intensity())

	shadow := tree.Nodes[tree.Find("accumulativeShadows")]
	assert.Equal(t, 100, shadow.Shadow.Shadows.Frames)
	assert.True(t, shadow.Shadow.Shadows.Temporal)
	assert.Equal(t, [3]float32{2.5, 8, -2.5}, shadow.Shadow.Light.Position)
	assert.Equal(t, shadow.Group, tree.Groups[tree.Nodes[0].Group].Parent)
	assert.Equal(t, 0, shadow.Group)

	backdrop := tree.Nodes[tree.Find("environment")].Backdrop
	assert.Equal(t, EnvironmentFile, backdrop.File)
	assert.True(t, backdrop.Background)

	label := tree.Nodes[tree.Find("label")].Text
	assert.Equal(t, LabelText, label.Text)
	assert.Equal(t, float32(3), label.Material.Physical.IOR)
	assert.Equal(t, float32(0.5), label.Material.Physical.EnvMapIntensity)
}
