// Package text lays out extruded 3D labels from typeface.json fonts.
package text

import (
	"errors"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/reject-ocean/common"

	"github.com/goccy/go-json"
)

var (
	errNoGlyphs       = errors.New("font has no glyphs")
	errBadResolution  = errors.New("font resolution must be positive")
	errMalformedGlyph = errors.New("malformed glyph outline")
)

// BoundingBox is a font-unit rectangle.
type BoundingBox struct {
	XMin float32 `json:"xMin"`
	XMax float32 `json:"xMax"`
	YMin float32 `json:"yMin"`
	YMax float32 `json:"yMax"`
}

// Glyph is a single character's advance and outline in font units.
// The outline is a space-separated command stream: "m x y" moves, "l x y" draws a
// line, "q x y cx cy" a quadratic curve and "b x y c1x c1y c2x c2y" a cubic curve,
// each ending at (x, y).
type Glyph struct {
	Ha      float32 `json:"ha"`
	XMin    float32 `json:"x_min"`
	XMax    float32 `json:"x_max"`
	Outline string  `json:"o"`
}

// Font is a parsed typeface.json document.
type Font struct {
	FamilyName         string           `json:"familyName"`
	Resolution         float32          `json:"resolution"`
	Ascender           float32          `json:"ascender"`
	Descender          float32          `json:"descender"`
	UnderlineThickness float32          `json:"underlineThickness"`
	BoundingBox        BoundingBox      `json:"boundingBox"`
	Glyphs             map[string]Glyph `json:"glyphs"`
}

// LoadFont reads a typeface.json font from disk.
//
// Parameters:
//   - path: the font file
//
// Returns:
//   - *Font: the parsed font
//   - error: *common.AssetLoadError if the file is missing or malformed
func LoadFont(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, common.NewAssetLoadError(common.AssetKindFont, path, err)
	}
	f, err := ParseFont(data)
	if err != nil {
		return nil, common.NewAssetLoadError(common.AssetKindFont, path, err)
	}
	return f, nil
}

// ParseFont decodes typeface.json data.
//
// Parameters:
//   - data: the JSON document
//
// Returns:
//   - *Font: the parsed font
//   - error: if the JSON is malformed, the font is unusable or a glyph outline does not parse
func ParseFont(data []byte) (*Font, error) {
	var f Font
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse typeface JSON: %w", err)
	}
	if len(f.Glyphs) == 0 {
		return nil, errNoGlyphs
	}
	if f.Resolution <= 0 {
		return nil, errBadResolution
	}
	for ch, g := range f.Glyphs {
		if _, err := flatten(g.Outline, 1, 0, 0, 1); err != nil {
			return nil, fmt.Errorf("glyph %q: %w", ch, err)
		}
	}
	return &f, nil
}

// LineHeight returns the distance between baselines in font units.
func (f *Font) LineHeight() float32 {
	return f.BoundingBox.YMax - f.BoundingBox.YMin + f.UnderlineThickness
}
