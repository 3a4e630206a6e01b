package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/reject-ocean/common"
	"github.com/Carmen-Shannon/reject-ocean/engine/model"
)

// gltfMeshExtractorImpl is the implementation of the gltfMeshExtractor interface.
type gltfMeshExtractorImpl struct {
	parser gltfParser
}

// gltfMeshExtractor converts the mesh a node instances into a model.Geometry.
type gltfMeshExtractor interface {
	// ExtractNodeGeometry extracts the geometry of a mesh-bearing node.
	// All triangle primitives of the node's mesh are merged into a single index space.
	//
	// Parameters:
	//   - nodeIndex: the index of the node
	//
	// Returns:
	//   - *model.Geometry: the geometry keyed by the node name
	//   - error: error if extraction fails
	ExtractNodeGeometry(nodeIndex int) (*model.Geometry, error)
}

var _ gltfMeshExtractor = &gltfMeshExtractorImpl{}

// newGLTFMeshExtractor creates a new mesh extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfMeshExtractor: the mesh extractor
func newGLTFMeshExtractor(parser gltfParser) gltfMeshExtractor {
	return &gltfMeshExtractorImpl{parser: parser}
}

func (e *gltfMeshExtractorImpl) ExtractNodeGeometry(nodeIndex int) (*model.Geometry, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}
	if nodeIndex < 0 || nodeIndex >= len(doc.Nodes) {
		return nil, fmt.Errorf("node index %d out of range", nodeIndex)
	}
	node := &doc.Nodes[nodeIndex]
	if node.Mesh == nil || *node.Mesh < 0 || *node.Mesh >= len(doc.Meshes) {
		return nil, fmt.Errorf("node %q has no valid mesh", node.Name)
	}
	mesh := &doc.Meshes[*node.Mesh]

	geo := &model.Geometry{
		Name:     gltfNodeName(node, nodeIndex),
		MeshName: mesh.Name,
	}

	for primIdx := range mesh.Primitives {
		prim := &mesh.Primitives[primIdx]
		if prim.Mode != nil && *prim.Mode != gltfPrimitiveModeTriangles {
			continue
		}
		if err := e.appendPrimitive(geo, prim); err != nil {
			return nil, fmt.Errorf("mesh %q primitive %d: %w", mesh.Name, primIdx, err)
		}
		if geo.MaterialName == "" && prim.Material != nil && *prim.Material >= 0 && *prim.Material < len(doc.Materials) {
			geo.MaterialName = gltfMaterialName(&doc.Materials[*prim.Material], *prim.Material)
		}
	}

	if len(geo.Positions) == 0 {
		return nil, fmt.Errorf("mesh %q has no triangle primitives", mesh.Name)
	}
	geo.BoundingMin, geo.BoundingMax = gltfCalculateBoundingBox(geo.Positions)
	return geo, nil
}

// appendPrimitive appends one primitive's vertices to geo, offsetting its indices by the running vertex count.
func (e *gltfMeshExtractorImpl) appendPrimitive(geo *model.Geometry, prim *gltfPrimitive) error {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return fmt.Errorf("primitive has no POSITION attribute")
	}
	positions, err := e.parser.ReadVec3Accessor(posIdx)
	if err != nil {
		return fmt.Errorf("positions: %w", err)
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = e.parser.ReadIndicesAccessor(*prim.Indices)
		if err != nil {
			return fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	for _, idx := range indices {
		if int(idx) >= len(positions) {
			return fmt.Errorf("index %d out of range for %d vertices", idx, len(positions))
		}
	}

	var normals [][3]float32
	if nIdx, ok := prim.Attributes["NORMAL"]; ok {
		if normals, err = e.parser.ReadVec3Accessor(nIdx); err != nil {
			return fmt.Errorf("normals: %w", err)
		}
	}
	if len(normals) != len(positions) {
		normals = generateNormals(positions, indices)
	}

	var uvs [][2]float32
	if uvIdx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		if uvs, err = e.parser.ReadVec2Accessor(uvIdx); err != nil {
			return fmt.Errorf("texcoords: %w", err)
		}
	}
	if len(uvs) != len(positions) {
		uvs = make([][2]float32, len(positions))
	}

	offset := uint32(len(geo.Positions))
	for _, idx := range indices {
		geo.Indices = append(geo.Indices, idx+offset)
	}
	geo.Positions = append(geo.Positions, positions...)
	geo.Normals = append(geo.Normals, normals...)
	geo.UVs = append(geo.UVs, uvs...)
	return nil
}

// gltfCalculateBoundingBox computes the axis-aligned bounds of a position list.
func gltfCalculateBoundingBox(positions [][3]float32) (lo, hi [3]float32) {
	if len(positions) == 0 {
		return lo, hi
	}
	lo, hi = positions[0], positions[0]
	for _, p := range positions[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = min(lo[i], p[i])
			hi[i] = max(hi[i], p[i])
		}
	}
	return lo, hi
}

// generateNormals computes smooth per-vertex normals by accumulating area-weighted face normals.
func generateNormals(positions [][3]float32, indices []uint32) [][3]float32 {
	accum := make([][3]float32, len(positions))

	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		p0, p1, p2 := positions[i0], positions[i1], positions[i2]

		// length proportional to triangle area
		face := common.Cross3(common.Sub3(p1, p0), common.Sub3(p2, p0))
		for _, idx := range [3]uint32{i0, i1, i2} {
			accum[idx] = common.Add3(accum[idx], face)
		}
	}

	for i := range accum {
		if common.Length3(accum[i]) < 1e-6 {
			// degenerate: default to up
			accum[i] = [3]float32{0, 1, 0}
			continue
		}
		accum[i] = common.Normalize3(accum[i])
	}
	return accum
}
