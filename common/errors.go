package common

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidColor is returned when a colour string is not a hex colour.
var ErrInvalidColor = errors.New("invalid hex color")

// AssetKind identifies which external asset failed to load.
type AssetKind int

const (
	// AssetKindModel is the packaged 3D model.
	AssetKindModel AssetKind = iota
	// AssetKindEnvironment is the HDR panorama.
	AssetKindEnvironment
	// AssetKindFont is the typeface description.
	AssetKindFont
	// AssetKindParams is the parameter file.
	AssetKindParams
)

func (k AssetKind) String() string {
	switch k {
	case AssetKindModel:
		return "model"
	case AssetKindEnvironment:
		return "environment"
	case AssetKindFont:
		return "font"
	case AssetKindParams:
		return "params"
	default:
		return fmt.Sprintf("AssetKind(%d)", int(k))
	}
}

// AssetLoadError reports that an asset file is missing, corrupt or rejected by its decoder.
// It is unrecoverable: the scene cannot be built without its assets.
type AssetLoadError struct {
	Kind AssetKind
	Path string
	Err  error
}

// NewAssetLoadError wraps err as an AssetLoadError for the given asset.
//
// Parameters:
//   - kind: the asset kind
//   - path: the asset path
//   - err: the underlying cause
//
// Returns:
//   - *AssetLoadError: the wrapped error
func NewAssetLoadError(kind AssetKind, path string, err error) *AssetLoadError {
	return &AssetLoadError{Kind: kind, Path: path, Err: err}
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("load %s asset %q: %v", e.Kind, e.Path, e.Err)
}

func (e *AssetLoadError) Unwrap() error {
	return e.Err
}

// ReferenceKind identifies the namespace of a missing bundle reference.
type ReferenceKind int

const (
	// ReferenceKindMesh is a geometry (node) name.
	ReferenceKindMesh ReferenceKind = iota
	// ReferenceKindMaterial is a material name.
	ReferenceKindMaterial
)

func (k ReferenceKind) String() string {
	if k == ReferenceKindMaterial {
		return "material"
	}
	return "mesh"
}

// MissingReferenceError reports names the scene references but the loaded bundle lacks.
type MissingReferenceError struct {
	Kind  ReferenceKind
	Names []string
}

// NewMissingReferenceError builds a MissingReferenceError with its names sorted.
//
// Parameters:
//   - kind: the namespace the names belong to
//   - names: the absent names
//
// Returns:
//   - *MissingReferenceError: the error
func NewMissingReferenceError(kind ReferenceKind, names ...string) *MissingReferenceError {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	return &MissingReferenceError{Kind: kind, Names: sorted}
}

func (e *MissingReferenceError) Error() string {
	return fmt.Sprintf("missing %s reference(s): %s", e.Kind, strings.Join(e.Names, ", "))
}
