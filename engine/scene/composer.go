package scene

import (
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/reject-ocean/common"
	"github.com/Carmen-Shannon/reject-ocean/engine/camera"
	"github.com/Carmen-Shannon/reject-ocean/engine/light"
	"github.com/Carmen-Shannon/reject-ocean/engine/material"
	"github.com/Carmen-Shannon/reject-ocean/engine/model"
	"github.com/Carmen-Shannon/reject-ocean/engine/text"

	"github.com/chewxy/math32"
)

// Fixed scene assets and labels.
const (
	EnvironmentFile = "dancing_hall_1k.hdr"
	FontFile        = "helvetiker_regular.typeface.json"
	LabelText       = "Reject Ocean Show"

	shellMaterial = "cube_mat"
)

type cubePair struct {
	inner, shell string
	position     [3]float32
}

// cubePairs are the transmissive cube bodies and their shells, in draw order.
var cubePairs = []cubePair{
	{"cube1", "cube2", [3]float32{-0.56, -1.38, -0.11}},
	{"cube1001", "cube2001", [3]float32{-0.56, -1.34, -0.11}},
	{"cube1002", "cube2002", [3]float32{-0.56, -1.38, -0.11}},
	{"cube1003", "cube2003", [3]float32{-4.8, -1.38, -4.6}},
	{"cube1004", "cube2004", [3]float32{-4.8, -1.34, -4.6}},
	{"cube1005", "cube2005", [3]float32{-4.8, -1.38, -4.6}},
}

type fixedMesh struct {
	mesh, material string
	role           MeshRole
	transform      common.Transform
	inArrowsGroup  bool
}

// fixedMeshes are the decorations and creatures, none of which follow the live parameters.
var fixedMeshes = []fixedMesh{
	{mesh: "球体", material: shellMaterial, role: MeshRoleDecoration, transform: common.NewTransform([3]float32{-11.10, 0.38, -9.45})},
	{mesh: "bubbles", material: "cube_bubbles_mat", role: MeshRoleDecoration, transform: common.NewTransform([3]float32{-0.56, -2.28, -0.11})},
	{mesh: "arrows", material: "weapons_mat", role: MeshRoleDecoration, transform: common.NewTransform([3]float32{}), inArrowsGroup: true},
	{mesh: "bluewhale_1", material: "bluewhale", role: MeshRoleCreature, transform: common.NewTransform([3]float32{0, -1.5, -0.5}).WithRotationY(common.HalfTurns(1.2))},
	{mesh: "efish", material: "efish", role: MeshRoleCreature, transform: common.NewTransform([3]float32{-0.4, -2.18, 0.1})},
	{mesh: "shark", material: "shark", role: MeshRoleCreature, transform: common.NewTransform([3]float32{0, -1.5, 0.5}).WithRotationY(common.HalfTurns(2.5))},
	{mesh: "turtle", material: "turtle", role: MeshRoleCreature, transform: common.NewTransform([3]float32{-0.5, -1.68, 0.4}).WithRotationY(common.HalfTurns(2.1))},
}

// RequiredMeshes returns every geometry name Compose looks up, sorted.
func RequiredMeshes() []string {
	names := make([]string, 0, 2*len(cubePairs)+len(fixedMeshes))
	for _, p := range cubePairs {
		names = append(names, p.inner, p.shell)
	}
	for _, m := range fixedMeshes {
		names = append(names, m.mesh)
	}
	slices.Sort(names)
	return names
}

// RequiredMaterials returns every bundle material name Compose looks up, sorted and deduplicated.
func RequiredMaterials() []string {
	names := []string{shellMaterial}
	for _, m := range fixedMeshes {
		names = append(names, m.material)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// CameraRig returns the fixed viewpoint: 26° field of view from [55, 20, 55],
// orbiting the origin above the horizon and turning once every 200 seconds.
func CameraRig() CameraRigNode {
	return CameraRigNode{
		Position:        [3]float32{55, 20, 55},
		Fov:             camera.Degrees(26),
		MinPolar:        0,
		MaxPolar:        math32.Pi / 2,
		AutoRotate:      true,
		AutoRotateSpeed: 0.3,
	}
}

// ShadowPlane returns the fixed soft-shadow catcher configuration.
func ShadowPlane() ShadowPlaneNode {
	shadows := light.DefaultAccumulativeShadows()
	shadows.Temporal = true
	shadows.Frames = 100
	shadows.AlphaTest = 0.9
	shadows.Color = common.MustParseHexColor("#3ead5d")
	shadows.ColorBlend = 1
	shadows.Opacity = 0.8
	shadows.Scale = 40

	rl := light.DefaultRandomizedLight()
	rl.Radius = 10
	rl.Ambient = 0.5
	rl.Intensity = math32.Pi
	rl.Position = [3]float32{2.5, 8, -2.5}
	rl.Bias = 0.001
	rl.Amount = 8
	rl.MapSize = 1024
	return ShadowPlaneNode{Shadows: shadows, Light: rl}
}

// Backdrop returns the environment panorama settings: shown as the background with full blur.
func Backdrop() BackdropNode {
	return BackdropNode{File: EnvironmentFile, Background: true, Blurriness: 1}
}

// LabelMaterial returns the fixed translucent material of the text label.
func LabelMaterial() material.Material {
	p := material.DefaultPhysicalParams()
	p.Color = common.MustParseHexColor("#707c87")
	p.Roughness = 0.1
	p.Transmission = 0.5
	p.Thickness = 1.5
	p.IOR = 3
	p.SpecularIntensity = 1
	p.EnvMapIntensity = 0.5
	p.Clearcoat = 1
	p.ClearcoatRoughness = 0.5
	return material.NewMaterial(material.KindPhysical, material.WithName("labelMaterial"), material.WithPhysical(p))
}

// Compose assembles the scene from the loaded bundle and one parameter snapshot.
// It reads nothing else, so equal inputs always give equal trees. Only the inner
// cube materials depend on cfg.
//
// Parameters:
//   - bundle: the loaded model
//   - cfg: the parameter snapshot
//
// Returns:
//   - *SceneTree: the composed tree
//   - error: wrapping *common.MissingReferenceError if the bundle lacks a required
//     name; no partial tree is returned
func Compose(bundle model.AssetBundle, cfg material.Config) (*SceneTree, error) {
	if err := bundle.Require(RequiredMeshes(), RequiredMaterials()); err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}
	inner, err := innerMaterial(cfg)
	if err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}

	t := &SceneTree{}
	offset := t.addGroup("offset", -1, common.NewTransform([3]float32{0, -2.5, 0}))
	cube := t.addGroup("gelatinousCube", offset, common.NewTransform([3]float32{}))
	arrows := t.addGroup("arrows", cube, common.NewTransform([3]float32{-1, -2, -1.5}))

	for _, p := range cubePairs {
		geom, _ := bundle.Geometry(p.inner)
		t.addMesh(p.inner, cube, common.NewTransform(p.position), MeshNode{
			Role:     MeshRoleInner,
			Geometry: geom,
			Material: inner,
		})

		geom, _ = bundle.Geometry(p.shell)
		def, _ := bundle.Material(shellMaterial)
		t.addMesh(p.shell, cube, common.NewTransform(p.position), MeshNode{
			Role:        MeshRoleShell,
			Geometry:    geom,
			Material:    material.FromDefinition(def, material.SideFront),
			CastShadow:  true,
			RenderOrder: ShellRenderOrder,
		})
	}
	for _, m := range fixedMeshes {
		group := cube
		if m.inArrowsGroup {
			group = arrows
		}
		geom, _ := bundle.Geometry(m.mesh)
		def, _ := bundle.Material(m.material)
		t.addMesh(m.mesh, group, m.transform, MeshNode{
			Role:     m.role,
			Geometry: geom,
			Material: material.FromDefinition(def, sideOf(def)),
		})
	}
	t.Groups[cube].Transform.Position = t.centerTop(cube)

	t.add(Node{
		Kind:      NodeKindLight,
		Name:      "ambientLight",
		Group:     -1,
		Transform: common.NewTransform([3]float32{}),
		Light:     &LightNode{Light: light.NewLight(light.LightTypeAmbient, light.WithIntensity(math32.Pi))},
	})
	shadow := ShadowPlane()
	t.add(Node{
		Kind:      NodeKindShadowPlane,
		Name:      "accumulativeShadows",
		Group:     offset,
		Transform: common.NewTransform([3]float32{}),
		Shadow:    &shadow,
	})
	rig := CameraRig()
	backdrop := Backdrop()
	t.add(Node{
		Kind:      NodeKindCameraRig,
		Name:      "orbitControls",
		Group:     -1,
		Transform: common.NewTransform(rig.Position),
		Camera:    &rig,
	})
	t.add(Node{
		Kind:      NodeKindBackdrop,
		Name:      "environment",
		Group:     -1,
		Transform: common.NewTransform([3]float32{}),
		Backdrop:  &backdrop,
	})
	t.add(Node{
		Kind:      NodeKindTextLabel,
		Name:      "label",
		Group:     -1,
		Transform: common.NewTransform([3]float32{0, 5, 0}),
		Text: &TextLabelNode{
			Text: LabelText,
			Font: FontFile,
			Params: text.Params{
				Size:           2,
				Height:         0.2,
				CurveSegments:  12,
				BevelEnabled:   true,
				BevelThickness: 0.1,
				BevelSize:      0.02,
			},
			Material: LabelMaterial(),
			Centered: true,
		},
	})
	return t, nil
}

// innerMaterial picks the raw physical or the transmission material for the cube bodies.
func innerMaterial(cfg material.Config) (material.Material, error) {
	if cfg.MeshPhysicalMaterial {
		return material.NewPhysicalFromConfig(cfg)
	}
	return material.NewTransmissionFromConfig(cfg)
}

func sideOf(def *model.MaterialDef) material.Side {
	if def.DoubleSided {
		return material.SideDouble
	}
	return material.SideFront
}

func (t *SceneTree) addGroup(name string, parent int, tr common.Transform) int {
	t.Groups = append(t.Groups, Group{Name: name, Parent: parent, Transform: tr})
	return len(t.Groups) - 1
}

func (t *SceneTree) add(n Node) {
	t.Nodes = append(t.Nodes, n)
}

func (t *SceneTree) addMesh(name string, group int, tr common.Transform, mesh MeshNode) {
	t.add(Node{Kind: NodeKindMesh, Name: name, Group: group, Transform: tr, Mesh: &mesh})
}

// centerTop returns the translation that centres the meshes under group g on
// its origin in x and z and rests their lowest point on it.
func (t *SceneTree) centerTop(g int) [3]float32 {
	lo := [3]float32{math32.Inf(1), math32.Inf(1), math32.Inf(1)}
	hi := [3]float32{math32.Inf(-1), math32.Inf(-1), math32.Inf(-1)}
	found := false
	for i := range t.Nodes {
		n := &t.Nodes[i]
		if n.Kind != NodeKindMesh || n.Mesh.Geometry == nil || !t.descends(n.Group, g) {
			continue
		}
		m := common.Mul4(t.relativeMatrix(n.Group, g), common.BuildModelMatrix(n.Transform))
		gmin, gmax := n.Mesh.Geometry.BoundingMin, n.Mesh.Geometry.BoundingMax
		for c := range 8 {
			corner := [3]float32{gmin[0], gmin[1], gmin[2]}
			if c&1 != 0 {
				corner[0] = gmax[0]
			}
			if c&2 != 0 {
				corner[1] = gmax[1]
			}
			if c&4 != 0 {
				corner[2] = gmax[2]
			}
			p := common.TransformPoint(m, corner)
			for k := range 3 {
				lo[k] = min(lo[k], p[k])
				hi[k] = max(hi[k], p[k])
			}
			found = true
		}
	}
	if !found {
		return [3]float32{}
	}
	return [3]float32{-(lo[0] + hi[0]) / 2, -lo[1], -(lo[2] + hi[2]) / 2}
}

// descends reports whether child is g or sits somewhere below it.
func (t *SceneTree) descends(child, g int) bool {
	for child >= 0 {
		if child == g {
			return true
		}
		child = t.Groups[child].Parent
	}
	return false
}

// relativeMatrix composes the transforms of the groups strictly below ancestor down to child.
func (t *SceneTree) relativeMatrix(child, ancestor int) common.Mat4 {
	m := common.Identity()
	for child >= 0 && child != ancestor {
		m = common.Mul4(common.BuildModelMatrix(t.Groups[child].Transform), m)
		child = t.Groups[child].Parent
	}
	return m
}
