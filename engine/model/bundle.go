package model

import (
	"errors"
	"sort"

	"github.com/Carmen-Shannon/reject-ocean/common"
)

// bundle is the implementation of the AssetBundle interface.
type bundle struct {
	name       string
	geometries map[string]*Geometry
	materials  map[string]*MaterialDef
}

// AssetBundle is the immutable set of named geometries and materials extracted from one packaged model.
// It is loaded once before the first composition and only read afterwards.
type AssetBundle interface {
	// Name retrieves the bundle identifier (the asset path or reader name).
	//
	// Returns:
	//   - string: the bundle name
	Name() string

	// Geometry looks up a geometry by node name.
	//
	// Parameters:
	//   - name: the node name
	//
	// Returns:
	//   - *Geometry: the geometry, nil when absent
	//   - bool: whether the name exists
	Geometry(name string) (*Geometry, bool)

	// Material looks up a material definition by material name.
	//
	// Parameters:
	//   - name: the material name
	//
	// Returns:
	//   - *MaterialDef: the material, nil when absent
	//   - bool: whether the name exists
	Material(name string) (*MaterialDef, bool)

	// GeometryNames returns every geometry name in sorted order.
	//
	// Returns:
	//   - []string: the names
	GeometryNames() []string

	// MaterialNames returns every material name in sorted order.
	//
	// Returns:
	//   - []string: the names
	MaterialNames() []string

	// Bounds returns the axis-aligned box enclosing the given geometries.
	// Unknown names are skipped; with no known names both corners are zero.
	//
	// Parameters:
	//   - names: the geometry names to enclose
	//
	// Returns:
	//   - [3]float32: the minimum corner
	//   - [3]float32: the maximum corner
	Bounds(names ...string) (min, max [3]float32)

	// Require checks that every listed geometry and material exists.
	// Every absent name is reported, not only the first.
	//
	// Parameters:
	//   - meshes: required geometry names
	//   - materials: required material names
	//
	// Returns:
	//   - error: nil, or one or two *common.MissingReferenceError values joined
	Require(meshes, materials []string) error
}

var _ AssetBundle = &bundle{}

// NewAssetBundle creates an AssetBundle from the provided options.
//
// Parameters:
//   - options: functional options adding geometries and materials
//
// Returns:
//   - AssetBundle: the bundle
func NewAssetBundle(options ...AssetBundleOption) AssetBundle {
	b := &bundle{
		geometries: make(map[string]*Geometry),
		materials:  make(map[string]*MaterialDef),
	}
	for _, option := range options {
		option(b)
	}
	return b
}

func (b *bundle) Name() string {
	return b.name
}

func (b *bundle) Geometry(name string) (*Geometry, bool) {
	g, ok := b.geometries[name]
	return g, ok
}

func (b *bundle) Material(name string) (*MaterialDef, bool) {
	m, ok := b.materials[name]
	return m, ok
}

func (b *bundle) GeometryNames() []string {
	return sortedKeys(b.geometries)
}

func (b *bundle) MaterialNames() []string {
	return sortedKeys(b.materials)
}

func (b *bundle) Bounds(names ...string) (lo, hi [3]float32) {
	first := true
	for _, name := range names {
		g, ok := b.geometries[name]
		if !ok {
			continue
		}
		if first {
			lo, hi = g.BoundingMin, g.BoundingMax
			first = false
			continue
		}
		for i := 0; i < 3; i++ {
			lo[i] = min(lo[i], g.BoundingMin[i])
			hi[i] = max(hi[i], g.BoundingMax[i])
		}
	}
	return lo, hi
}

func (b *bundle) Require(meshes, materials []string) error {
	var missingMeshes, missingMaterials []string
	for _, name := range meshes {
		if _, ok := b.geometries[name]; !ok {
			missingMeshes = append(missingMeshes, name)
		}
	}
	for _, name := range materials {
		if _, ok := b.materials[name]; !ok {
			missingMaterials = append(missingMaterials, name)
		}
	}

	var errs []error
	if len(missingMeshes) > 0 {
		errs = append(errs, common.NewMissingReferenceError(common.ReferenceKindMesh, missingMeshes...))
	}
	if len(missingMaterials) > 0 {
		errs = append(errs, common.NewMissingReferenceError(common.ReferenceKindMaterial, missingMaterials...))
	}
	return errors.Join(errs...)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
