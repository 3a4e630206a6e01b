package loader

import (
	"github.com/Carmen-Shannon/reject-ocean/engine/model"
)

// loaderBackend defines the generic interface for turning a model file into an AssetBundle.
// Concrete implementations (e.g., gltfLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Load imports a bundle from raw file contents.
	//
	// Parameters:
	//   - data: the file contents
	//   - baseDir: directory used to resolve external references
	//   - name: the bundle name
	//
	// Returns:
	//   - model.AssetBundle: the imported bundle
	//   - error: error if loading fails
	Load(data []byte, baseDir, name string) (model.AssetBundle, error)

	// Accepts reports whether the backend handles content of the given MIME type.
	//
	// Parameters:
	//   - mime: the detected MIME type
	//
	// Returns:
	//   - bool: true if the backend can load it
	Accepts(mime string) bool
}
