package loader

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/Carmen-Shannon/reject-ocean/engine/model"
)

// gltfImporterImpl is the implementation of the gltfImporter interface.
type gltfImporterImpl struct{}

// gltfImporter orchestrates parsing and extraction of a glTF/GLB file into an AssetBundle.
type gltfImporter interface {
	// Import parses glTF/GLB bytes and extracts every mesh-bearing node and every material.
	// Extraction is all-or-nothing: any failing node or material fails the import.
	//
	// Parameters:
	//   - data: the file contents
	//   - baseDir: directory used to resolve relative buffer URIs
	//   - name: the bundle name
	//
	// Returns:
	//   - model.AssetBundle: the bundle
	//   - error: error if import fails
	Import(data []byte, baseDir, name string) (model.AssetBundle, error)
}

var _ gltfImporter = &gltfImporterImpl{}

// newGLTFImporter creates a new glTF importer.
//
// Returns:
//   - gltfImporter: the importer
func newGLTFImporter() gltfImporter {
	return &gltfImporterImpl{}
}

func (imp *gltfImporterImpl) Import(data []byte, baseDir, name string) (model.AssetBundle, error) {
	parser := newGLTFParser()
	if err := parser.Parse(data, baseDir); err != nil {
		return nil, err
	}
	doc := parser.Document()

	materials, err := newGLTFMaterialExtractor(parser).ExtractAllMaterials()
	if err != nil {
		return nil, fmt.Errorf("material extraction failed: %w", err)
	}

	options := []model.AssetBundleOption{model.WithName(name)}
	for _, m := range materials {
		options = append(options, model.WithMaterial(m))
	}

	meshExtractor := newGLTFMeshExtractor(parser)
	used := make(map[string]bool)
	for i := range doc.Nodes {
		if doc.Nodes[i].Mesh == nil {
			continue
		}
		geo, err := meshExtractor.ExtractNodeGeometry(i)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		geo.Name = gltfUniqueName(gltfSanitizeNodeName(geo.Name), used)
		options = append(options, model.WithGeometry(geo))
	}

	return model.NewAssetBundle(options...), nil
}

// gltfSanitizeNodeName makes a node name safe as a lookup key: whitespace becomes '_'
// and the path separators "[].:/" are dropped. Non-ASCII names pass through unchanged.
func gltfSanitizeNodeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsSpace(r):
			b.WriteRune('_')
		case strings.ContainsRune("[].:/", r):
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// gltfUniqueName returns name, or name_N with the smallest N not yet used.
func gltfUniqueName(name string, used map[string]bool) string {
	unique := name
	for n := 1; used[unique]; n++ {
		unique = name + "_" + strconv.Itoa(n)
	}
	used[unique] = true
	return unique
}
