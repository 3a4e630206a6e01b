package loader

import (
	"github.com/Carmen-Shannon/reject-ocean/engine/model"
)

// gltfLoaderBackendImpl is the implementation of gltfLoaderBackend.
type gltfLoaderBackendImpl struct {
	importer gltfImporter
}

// gltfLoaderBackend is a loaderBackend implementation for glTF/GLB files.
// It delegates to the gltfImporter for parsing and extraction.
type gltfLoaderBackend interface {
	loaderBackend
}

var _ gltfLoaderBackend = &gltfLoaderBackendImpl{}

// newGLTFLoaderBackend creates a new glTF loader backend.
//
// Returns:
//   - gltfLoaderBackend: the loader backend for glTF/GLB files
func newGLTFLoaderBackend() gltfLoaderBackend {
	return &gltfLoaderBackendImpl{
		importer: newGLTFImporter(),
	}
}

func (b *gltfLoaderBackendImpl) Load(data []byte, baseDir, name string) (model.AssetBundle, error) {
	return b.importer.Import(data, baseDir, name)
}

func (b *gltfLoaderBackendImpl) Accepts(mime string) bool {
	switch mime {
	case "model/gltf-binary", "model/gltf+json", "application/json":
		return true
	default:
		return false
	}
}
