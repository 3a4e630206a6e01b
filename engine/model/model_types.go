package model

// Geometry is the vertex data of one named node in the packaged model.
// Geometry values are shared by every scene node that references them and are never mutated after load.
type Geometry struct {
	// Name is the node name the geometry is looked up by.
	Name string

	// MeshName is the name of the glTF mesh the node instances.
	MeshName string

	// Positions are the vertex positions in the node's local space.
	Positions [][3]float32

	// Normals are the per-vertex normals (generated when the file has none).
	Normals [][3]float32

	// UVs are the first texture coordinate set, empty when absent.
	UVs [][2]float32

	// Indices are triangle-list indices into Positions.
	Indices []uint32

	// MaterialName is the name of the material the file assigns to the first primitive.
	MaterialName string

	// BoundingMin is the minimum corner of the axis-aligned bounding box.
	BoundingMin [3]float32

	// BoundingMax is the maximum corner of the axis-aligned bounding box.
	BoundingMax [3]float32
}

// VertexCount returns the number of vertices in the geometry.
func (g *Geometry) VertexCount() int {
	return len(g.Positions)
}

// TriangleCount returns the number of triangles in the geometry.
func (g *Geometry) TriangleCount() int {
	return len(g.Indices) / 3
}

// AlphaMode mirrors the glTF material alpha modes.
type AlphaMode string

const (
	AlphaModeOpaque AlphaMode = "OPAQUE"
	AlphaModeMask   AlphaMode = "MASK"
	AlphaModeBlend  AlphaMode = "BLEND"
)

// MaterialDef is a material definition as authored in the packaged model.
type MaterialDef struct {
	// Name is the material identifier.
	Name string

	// BaseColor is the albedo colour (RGBA).
	BaseColor [4]float32

	// Metallic factor (0.0 = dielectric, 1.0 = metal).
	Metallic float32

	// Roughness factor (0.0 = smooth, 1.0 = rough).
	Roughness float32

	// Emissive is the emitted colour.
	Emissive [3]float32

	AlphaMode   AlphaMode
	AlphaCutoff float32
	DoubleSided bool

	// Transmission, IOR and Clearcoat come from the KHR_materials_* extensions when present.
	Transmission float32
	IOR          float32
	Clearcoat    float32

	// BaseColorTexture is the image URI or "bufferView:<n>" reference, empty when untextured.
	BaseColorTexture string
}
