package loader

import (
	"fmt"
	"strconv"

	"github.com/Carmen-Shannon/reject-ocean/engine/model"
)

// gltfMaterialExtractorImpl is the implementation of the gltfMaterialExtractor interface.
type gltfMaterialExtractorImpl struct {
	parser gltfParser
}

// gltfMaterialExtractor converts glTF materials into model.MaterialDef values.
type gltfMaterialExtractor interface {
	// ExtractMaterial extracts a single material by index, applying glTF defaults for absent factors.
	//
	// Parameters:
	//   - materialIndex: the index of the material
	//
	// Returns:
	//   - *model.MaterialDef: the material definition
	//   - error: error if the index is out of range
	ExtractMaterial(materialIndex int) (*model.MaterialDef, error)

	// ExtractAllMaterials extracts every material in document order.
	//
	// Returns:
	//   - []*model.MaterialDef: the material definitions
	//   - error: error if extraction fails
	ExtractAllMaterials() ([]*model.MaterialDef, error)
}

var _ gltfMaterialExtractor = &gltfMaterialExtractorImpl{}

// newGLTFMaterialExtractor creates a new material extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfMaterialExtractor: the material extractor
func newGLTFMaterialExtractor(parser gltfParser) gltfMaterialExtractor {
	return &gltfMaterialExtractorImpl{parser: parser}
}

func (e *gltfMaterialExtractorImpl) ExtractMaterial(materialIndex int) (*model.MaterialDef, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}
	if materialIndex < 0 || materialIndex >= len(doc.Materials) {
		return nil, fmt.Errorf("material index %d out of range", materialIndex)
	}
	mat := &doc.Materials[materialIndex]

	// glTF defaults: white base colour, fully metallic and rough, opaque.
	def := &model.MaterialDef{
		Name:        gltfMaterialName(mat, materialIndex),
		BaseColor:   [4]float32{1, 1, 1, 1},
		Metallic:    1,
		Roughness:   1,
		AlphaMode:   model.AlphaModeOpaque,
		AlphaCutoff: 0.5,
		DoubleSided: mat.DoubleSided,
		IOR:         1.5,
	}

	if pbr := mat.PbrMetallicRoughness; pbr != nil {
		if pbr.BaseColorFactor != nil {
			def.BaseColor = *pbr.BaseColorFactor
		}
		if pbr.MetallicFactor != nil {
			def.Metallic = *pbr.MetallicFactor
		}
		if pbr.RoughnessFactor != nil {
			def.Roughness = *pbr.RoughnessFactor
		}
		if pbr.BaseColorTexture != nil {
			def.BaseColorTexture = e.textureRef(pbr.BaseColorTexture.Index)
		}
	}
	if mat.EmissiveFactor != nil {
		def.Emissive = *mat.EmissiveFactor
	}
	if mat.AlphaMode != "" {
		def.AlphaMode = model.AlphaMode(mat.AlphaMode)
	}
	if mat.AlphaCutoff != nil {
		def.AlphaCutoff = *mat.AlphaCutoff
	}

	if ext := mat.Extensions; ext != nil {
		if ext.Transmission != nil && ext.Transmission.TransmissionFactor != nil {
			def.Transmission = *ext.Transmission.TransmissionFactor
		}
		if ext.IOR != nil && ext.IOR.IOR != nil {
			def.IOR = *ext.IOR.IOR
		}
		if ext.Clearcoat != nil && ext.Clearcoat.ClearcoatFactor != nil {
			def.Clearcoat = *ext.Clearcoat.ClearcoatFactor
		}
	}

	return def, nil
}

func (e *gltfMaterialExtractorImpl) ExtractAllMaterials() ([]*model.MaterialDef, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}

	result := make([]*model.MaterialDef, 0, len(doc.Materials))
	for i := range doc.Materials {
		def, err := e.ExtractMaterial(i)
		if err != nil {
			return nil, fmt.Errorf("material %d: %w", i, err)
		}
		result = append(result, def)
	}
	return result, nil
}

// textureRef resolves a texture index to its image URI, or "bufferView:<n>" for embedded images.
func (e *gltfMaterialExtractorImpl) textureRef(textureIndex int) string {
	doc := e.parser.Document()
	if textureIndex < 0 || textureIndex >= len(doc.Textures) {
		return ""
	}
	src := doc.Textures[textureIndex].Source
	if src == nil || *src < 0 || *src >= len(doc.Images) {
		return ""
	}
	img := &doc.Images[*src]
	if img.URI != "" {
		return img.URI
	}
	if img.BufferView != nil {
		return "bufferView:" + strconv.Itoa(*img.BufferView)
	}
	return ""
}

// gltfMaterialName returns the material's name, or a positional name for unnamed materials.
func gltfMaterialName(mat *gltfMaterial, index int) string {
	if mat.Name != "" {
		return mat.Name
	}
	return "material_" + strconv.Itoa(index)
}

// gltfNodeName returns the node's name, or a positional name for unnamed nodes.
func gltfNodeName(node *gltfNode, index int) string {
	if node.Name != "" {
		return node.Name
	}
	return "node_" + strconv.Itoa(index)
}
