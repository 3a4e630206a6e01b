package model

// AssetBundleOption is a functional option for configuring an AssetBundle via NewAssetBundle.
type AssetBundleOption func(*bundle)

// WithName is an option builder that sets the bundle name.
//
// Parameters:
//   - name: the bundle identifier
//
// Returns:
//   - AssetBundleOption: a function that applies the name option to a bundle
func WithName(name string) AssetBundleOption {
	return func(b *bundle) {
		b.name = name
	}
}

// WithGeometry is an option builder that adds a geometry keyed by its Name.
// A later geometry with the same name replaces an earlier one.
//
// Parameters:
//   - g: the geometry
//
// Returns:
//   - AssetBundleOption: a function that applies the geometry option to a bundle
func WithGeometry(g *Geometry) AssetBundleOption {
	return func(b *bundle) {
		if g != nil {
			b.geometries[g.Name] = g
		}
	}
}

// WithMaterial is an option builder that adds a material definition keyed by its Name.
//
// Parameters:
//   - m: the material definition
//
// Returns:
//   - AssetBundleOption: a function that applies the material option to a bundle
func WithMaterial(m *MaterialDef) AssetBundleOption {
	return func(b *bundle) {
		if m != nil {
			b.materials[m.Name] = m
		}
	}
}
