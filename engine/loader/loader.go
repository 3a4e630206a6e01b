package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/reject-ocean/common"
	"github.com/Carmen-Shannon/reject-ocean/engine/model"
	"github.com/Carmen-Shannon/reject-ocean/internal/log"

	"github.com/gabriel-vasile/mimetype"
)

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

var (
	errUnsupportedFormat = errors.New("unsupported model format")
	errContentMismatch   = errors.New("file content does not match a supported model type")
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	logger *log.Logger

	bundleCache map[string]model.AssetBundle

	backend loaderBackend
}

// Loader resolves packaged model files into AssetBundles and caches them by path.
// Every failure is reported as a *common.AssetLoadError and never yields a partial bundle.
type Loader interface {
	// LoadBundle imports a model file and caches the resulting bundle.
	// If the path is already cached the cached bundle is returned.
	// The backend is selected from the file extension and the sniffed content type.
	//
	// Parameters:
	//   - ctx: cancels the load before the file is read or parsed
	//   - path: the file path to the model file
	//
	// Returns:
	//   - model.AssetBundle: the loaded bundle
	//   - error: *common.AssetLoadError if the file is missing, malformed or rejected
	LoadBundle(ctx context.Context, path string) (model.AssetBundle, error)

	// LoadReader imports a bundle from a stream and caches it by the given name.
	//
	// Parameters:
	//   - name: the cache key and bundle name
	//   - r: the reader providing glTF JSON or GLB data
	//
	// Returns:
	//   - model.AssetBundle: the loaded bundle
	//   - error: *common.AssetLoadError if reading or parsing fails
	LoadReader(name string, r io.Reader) (model.AssetBundle, error)

	// Get retrieves a cached bundle by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - model.AssetBundle: the cached bundle or nil
	Get(name string) model.AssetBundle

	// Bundles returns a copy of the bundle cache.
	//
	// Returns:
	//   - map[string]model.AssetBundle: all cached bundles keyed by name
	Bundles() map[string]model.AssetBundle
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeGLTF)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		logger:      log.NewNop(),
		bundleCache: make(map[string]model.AssetBundle),
	}

	switch backendType {
	case BackendTypeGLTF:
		l.backend = newGLTFLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) LoadBundle(ctx context.Context, path string) (model.AssetBundle, error) {
	if cached := l.Get(path); cached != nil {
		return cached, nil
	}

	fail := func(err error) (model.AssetBundle, error) {
		return nil, common.NewAssetLoadError(common.AssetKindModel, path, err)
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	backend, err := l.resolveBackend(path)
	if err != nil {
		return fail(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fail(err)
	}
	if err := l.checkContent(backend, data); err != nil {
		return fail(err)
	}
	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	b, err := backend.Load(data, filepath.Dir(path), path)
	if err != nil {
		return fail(err)
	}
	return l.store(path, b), nil
}

func (l *loader) LoadReader(name string, r io.Reader) (model.AssetBundle, error) {
	if cached := l.Get(name); cached != nil {
		return cached, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, common.NewAssetLoadError(common.AssetKindModel, name, fmt.Errorf("failed to read data: %w", err))
	}
	if err := l.checkContent(l.backend, data); err != nil {
		return nil, common.NewAssetLoadError(common.AssetKindModel, name, err)
	}

	b, err := l.backend.Load(data, ".", name)
	if err != nil {
		return nil, common.NewAssetLoadError(common.AssetKindModel, name, err)
	}
	return l.store(name, b), nil
}

func (l *loader) Get(name string) model.AssetBundle {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.bundleCache[name]
}

func (l *loader) Bundles() map[string]model.AssetBundle {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]model.AssetBundle, len(l.bundleCache))
	for k, v := range l.bundleCache {
		result[k] = v
	}
	return result
}

// store caches b under key. A bundle cached concurrently under the same key wins.
func (l *loader) store(key string, b model.AssetBundle) model.AssetBundle {
	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.bundleCache[key]; ok {
		return existing
	}
	l.bundleCache[key] = b
	l.logger.Debugw("bundle loaded",
		"name", key,
		"geometries", len(b.GeometryNames()),
		"materials", len(b.MaterialNames()),
	)
	return b
}

// resolveBackend selects an appropriate loader backend based on the file extension.
// Currently only glTF/GLB is supported.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gltf", ".glb":
		return l.backend, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnsupportedFormat, ext)
	}
}

// checkContent rejects data whose sniffed type is known and not accepted by the backend.
// Unrecognised binary content is left for the parser to judge.
func (l *loader) checkContent(backend loaderBackend, data []byte) error {
	detected := mimetype.Detect(data)
	for m := detected; m != nil; m = m.Parent() {
		if backend.Accepts(m.String()) {
			return nil
		}
	}
	if detected.Is("application/octet-stream") {
		return nil
	}
	return fmt.Errorf("%w: detected %s", errContentMismatch, detected.String())
}
