package scene

import (
	"fmt"

	"github.com/Carmen-Shannon/reject-ocean/common"
	"github.com/Carmen-Shannon/reject-ocean/engine/light"
	"github.com/Carmen-Shannon/reject-ocean/engine/material"
	"github.com/Carmen-Shannon/reject-ocean/engine/model"
	"github.com/Carmen-Shannon/reject-ocean/engine/text"
)

// NodeKind tags which payload a Node carries.
type NodeKind int

const (
	NodeKindMesh NodeKind = iota
	NodeKindLight
	NodeKindShadowPlane
	NodeKindTextLabel
	NodeKindCameraRig
	NodeKindBackdrop
)

func (k NodeKind) String() string {
	switch k {
	case NodeKindMesh:
		return "mesh"
	case NodeKindLight:
		return "light"
	case NodeKindShadowPlane:
		return "shadow-plane"
	case NodeKindTextLabel:
		return "text-label"
	case NodeKindCameraRig:
		return "camera-rig"
	case NodeKindBackdrop:
		return "backdrop"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// MeshRole says why a mesh is in the scene.
type MeshRole int

const (
	// MeshRoleInner is the transmissive body of a cube pair, driven by the live parameters.
	MeshRoleInner MeshRole = iota
	// MeshRoleShell is the outer shell of a cube pair, drawn first.
	MeshRoleShell
	MeshRoleDecoration
	MeshRoleCreature
)

// ShellRenderOrder is the render order of cube shells; lower draws first.
const ShellRenderOrder = -100

// MeshNode binds one shared geometry to one material.
type MeshNode struct {
	Role        MeshRole
	Geometry    *model.Geometry
	Material    material.Material
	CastShadow  bool
	RenderOrder int
}

// LightNode holds a scene light.
type LightNode struct {
	Light light.Light
}

// ShadowPlaneNode is the accumulating soft-shadow catcher and the randomized light feeding it.
type ShadowPlaneNode struct {
	Shadows light.AccumulativeShadows
	Light   light.RandomizedLight
}

// TextLabelNode is an extruded label. The host lays it out with the loaded font.
type TextLabelNode struct {
	Text     string
	Font     string
	Params   text.Params
	Material material.Material
	// Centered moves the label's bounding box centre onto the node position.
	Centered bool
}

// CameraRigNode describes the viewpoint and its orbit constraints.
type CameraRigNode struct {
	Position        [3]float32
	Target          [3]float32
	Fov             float32
	MinPolar        float32
	MaxPolar        float32
	AutoRotate      bool
	AutoRotateSpeed float32
}

// BackdropNode is the environment panorama used for lighting and as the background.
type BackdropNode struct {
	File       string
	Background bool
	Blurriness float32
}

// Node is one element of a SceneTree. Exactly one payload pointer, the one
// matching Kind, is set.
type Node struct {
	Kind      NodeKind
	Name      string
	Group     int // index into SceneTree.Groups, -1 for the root
	Transform common.Transform

	Mesh     *MeshNode
	Light    *LightNode
	Shadow   *ShadowPlaneNode
	Text     *TextLabelNode
	Camera   *CameraRigNode
	Backdrop *BackdropNode
}

// Group is a transform node that positions its children.
type Group struct {
	Name      string
	Parent    int // -1 for the root
	Transform common.Transform
}

// SceneTree is the ordered output of Compose.
type SceneTree struct {
	Groups []Group
	Nodes  []Node
}

// Len returns the number of nodes.
func (t *SceneTree) Len() int {
	return len(t.Nodes)
}

// Count returns how many nodes are of the given kind.
//
// Parameters:
//   - kind: the node kind to count
//
// Returns:
//   - int: the number of matching nodes
func (t *SceneTree) Count(kind NodeKind) int {
	n := 0
	for i := range t.Nodes {
		if t.Nodes[i].Kind == kind {
			n++
		}
	}
	return n
}

// Find returns the index of the first node with the given name, or -1.
func (t *SceneTree) Find(name string) int {
	for i := range t.Nodes {
		if t.Nodes[i].Name == name {
			return i
		}
	}
	return -1
}

// Meshes returns the indices of mesh nodes with the given role.
func (t *SceneTree) Meshes(role MeshRole) []int {
	var out []int
	for i := range t.Nodes {
		if t.Nodes[i].Kind == NodeKindMesh && t.Nodes[i].Mesh.Role == role {
			out = append(out, i)
		}
	}
	return out
}

// GroupMatrix returns the world matrix of group g, composed through its parents.
//
// Parameters:
//   - g: the group index, -1 for the root
//
// Returns:
//   - common.Mat4: the group's world matrix
func (t *SceneTree) GroupMatrix(g int) common.Mat4 {
	m := common.Identity()
	for g >= 0 {
		m = common.Mul4(common.BuildModelMatrix(t.Groups[g].Transform), m)
		g = t.Groups[g].Parent
	}
	return m
}

// WorldTransform returns the world matrix of node i.
//
// Parameters:
//   - i: the node index
//
// Returns:
//   - common.Mat4: the node's world matrix
func (t *SceneTree) WorldTransform(i int) common.Mat4 {
	n := &t.Nodes[i]
	return common.Mul4(t.GroupMatrix(n.Group), common.BuildModelMatrix(n.Transform))
}
