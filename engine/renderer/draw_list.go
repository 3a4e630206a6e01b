package renderer

import (
	"sort"

	"github.com/Carmen-Shannon/reject-ocean/common"
	"github.com/Carmen-Shannon/reject-ocean/engine/material"
	"github.com/Carmen-Shannon/reject-ocean/engine/scene"
	"github.com/Carmen-Shannon/reject-ocean/engine/text"
)

// DrawItem is one mesh or label draw resolved from a SceneTree.
// Clip is World carried into clip space by the frame's view-projection;
// Glyphs counts the placed characters of a label draw.
type DrawItem struct {
	Node         int
	Name         string
	RenderOrder  int
	Transmissive bool
	CastShadow   bool
	DoubleSided  bool
	World        common.Mat4
	Clip         common.Mat4
	Triangles    int
	Glyphs       int
}

// BuildDrawList resolves every mesh node of tree into a draw, ordered by render order.
// Nodes with the same render order keep their tree order.
//
// Parameters:
//   - tree: the composed scene tree (nil yields no draws)
//
// Returns:
//   - []DrawItem: the draws in submission order
func BuildDrawList(tree *scene.SceneTree) []DrawItem {
	if tree == nil {
		return nil
	}
	items := make([]DrawItem, 0, tree.Count(scene.NodeKindMesh))
	for i := range tree.Nodes {
		n := &tree.Nodes[i]
		if n.Kind != scene.NodeKindMesh {
			continue
		}
		m := n.Mesh
		item := DrawItem{
			Node:         i,
			Name:         n.Name,
			RenderOrder:  m.RenderOrder,
			Transmissive: m.Material.Kind != material.KindBundle,
			CastShadow:   m.CastShadow,
			DoubleSided:  m.Material.Side == material.SideDouble,
			World:        tree.WorldTransform(i),
		}
		if m.Geometry != nil {
			item.Triangles = m.Geometry.TriangleCount()
		}
		items = append(items, item)
	}
	sort.SliceStable(items, func(a, b int) bool {
		return items[a].RenderOrder < items[b].RenderOrder
	})
	return items
}

// LabelDraw resolves the tree's text label into a draw at its anchor. A centred
// label is moved by the layout's centre offset before the anchor transform.
//
// Parameters:
//   - tree: the composed scene tree
//   - label: the laid-out label (nil yields no draw)
//
// Returns:
//   - DrawItem: the label draw
//   - bool: false when the tree has no label or no layout was given
func LabelDraw(tree *scene.SceneTree, label *text.Label) (DrawItem, bool) {
	if tree == nil || label == nil {
		return DrawItem{}, false
	}
	i := tree.Find("label")
	if i < 0 || tree.Nodes[i].Text == nil {
		return DrawItem{}, false
	}
	n := &tree.Nodes[i]
	world := tree.WorldTransform(i)
	if n.Text.Centered {
		world = common.Mul4(world, common.BuildModelMatrix(common.NewTransform(label.CenterOffset())))
	}
	return DrawItem{
		Node:         i,
		Name:         n.Name,
		Transmissive: n.Text.Material.Kind != material.KindBundle,
		DoubleSided:  n.Text.Material.Side == material.SideDouble,
		World:        world,
		Glyphs:       len(label.Glyphs),
	}, true
}

// ApplyCamera sets every item's clip transform to viewProjection * World.
func ApplyCamera(items []DrawItem, viewProjection common.Mat4) {
	for i := range items {
		items[i].Clip = common.Mul4(viewProjection, items[i].World)
	}
}
