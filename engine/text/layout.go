package text

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
)

// Params controls the size and extrusion of a label.
type Params struct {
	Size           float32
	Height         float32
	CurveSegments  int
	BevelEnabled   bool
	BevelThickness float32
	BevelSize      float32
}

// DefaultParams returns unit-size text, 0.2 deep, with 8 segments per curve and no bevel.
func DefaultParams() Params {
	return Params{
		Size:           1,
		Height:         0.2,
		CurveSegments:  8,
		BevelThickness: 0.1,
		BevelSize:      0.01,
	}
}

// Contour is a closed polyline in label space.
type Contour [][2]float32

// GlyphLayout is one placed character.
type GlyphLayout struct {
	Char     rune
	Offset   [2]float32
	Advance  float32
	Contours []Contour
}

// Label is laid-out text ready for extrusion.
type Label struct {
	Text    string
	Params  Params
	Glyphs  []GlyphLayout
	Missing []rune
	Min     [3]float32
	Max     [3]float32
}

// CenterOffset returns the translation that moves the centre of the label's
// bounding box onto its anchor.
//
// Returns:
//   - [3]float32: the offset to apply before the label's own transform
func (l *Label) CenterOffset() [3]float32 {
	return [3]float32{
		-(l.Min[0] + l.Max[0]) / 2,
		-(l.Min[1] + l.Max[1]) / 2,
		-(l.Min[2] + l.Max[2]) / 2,
	}
}

// Layout places text with font, flattening curves to polylines and computing
// the bounding box of the extruded, bevelled result. Characters the font lacks
// fall back to '?' when the font has it and are otherwise skipped; either way
// they are reported in Label.Missing.
//
// Parameters:
//   - font: the typeface
//   - text: the label text; '\n' starts a new line
//   - params: size and extrusion settings
//
// Returns:
//   - *Label: the laid-out label
//   - error: if a glyph outline is malformed
func Layout(font *Font, text string, params Params) (*Label, error) {
	scale := params.Size / font.Resolution
	lineHeight := font.LineHeight() * scale
	segments := max(params.CurveSegments, 1)

	label := &Label{Text: text, Params: params}
	var offsetX, offsetY float32
	for _, ch := range text {
		if ch == '\n' {
			offsetX = 0
			offsetY -= lineHeight
			continue
		}
		glyph, ok := font.Glyphs[string(ch)]
		if !ok {
			label.Missing = append(label.Missing, ch)
			if glyph, ok = font.Glyphs["?"]; !ok {
				continue
			}
		}
		contours, err := flatten(glyph.Outline, scale, offsetX, offsetY, segments)
		if err != nil {
			return nil, fmt.Errorf("glyph %q: %w", ch, err)
		}
		label.Glyphs = append(label.Glyphs, GlyphLayout{
			Char:     ch,
			Offset:   [2]float32{offsetX, offsetY},
			Advance:  glyph.Ha * scale,
			Contours: contours,
		})
		offsetX += glyph.Ha * scale
	}
	label.Min, label.Max = bounds(label.Glyphs, params)
	return label, nil
}

// bounds is the box around every contour point, grown by the bevel in x and y
// and spanning the extrusion depth plus the bevel on both faces in z.
func bounds(glyphs []GlyphLayout, params Params) (lo, hi [3]float32) {
	lo = [3]float32{math32.Inf(1), math32.Inf(1), 0}
	hi = [3]float32{math32.Inf(-1), math32.Inf(-1), params.Height}
	empty := true
	for _, g := range glyphs {
		for _, c := range g.Contours {
			for _, p := range c {
				empty = false
				lo[0], lo[1] = min(lo[0], p[0]), min(lo[1], p[1])
				hi[0], hi[1] = max(hi[0], p[0]), max(hi[1], p[1])
			}
		}
	}
	if empty {
		return [3]float32{}, [3]float32{}
	}
	if params.BevelEnabled {
		lo[0] -= params.BevelSize
		lo[1] -= params.BevelSize
		lo[2] -= params.BevelThickness
		hi[0] += params.BevelSize
		hi[1] += params.BevelSize
		hi[2] += params.BevelThickness
	}
	return lo, hi
}

// flatten converts an outline command stream to polylines, subdividing each
// curve into segments pieces.
func flatten(outline string, scale, offsetX, offsetY float32, segments int) ([]Contour, error) {
	fields := strings.Fields(outline)
	var contours []Contour
	var current Contour
	var pen [2]float32

	read := func(i int, n int) ([]float32, error) {
		if i+n > len(fields) {
			return nil, errMalformedGlyph
		}
		out := make([]float32, n)
		for k := range n {
			v, err := strconv.ParseFloat(fields[i+k], 32)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", errMalformedGlyph, err)
			}
			out[k] = float32(v) * scale
			if k%2 == 0 {
				out[k] += offsetX
			} else {
				out[k] += offsetY
			}
		}
		return out, nil
	}
	flush := func() {
		if len(current) > 1 {
			contours = append(contours, current)
		}
		current = nil
	}

	for i := 0; i < len(fields); {
		cmd := fields[i]
		i++
		switch cmd {
		case "m":
			v, err := read(i, 2)
			if err != nil {
				return nil, err
			}
			i += 2
			flush()
			pen = [2]float32{v[0], v[1]}
			current = Contour{pen}
		case "l":
			v, err := read(i, 2)
			if err != nil {
				return nil, err
			}
			i += 2
			pen = [2]float32{v[0], v[1]}
			current = append(current, pen)
		case "q":
			v, err := read(i, 4)
			if err != nil {
				return nil, err
			}
			i += 4
			end := [2]float32{v[0], v[1]}
			ctrl := [2]float32{v[2], v[3]}
			for s := 1; s <= segments; s++ {
				current = append(current, quadratic(pen, ctrl, end, float32(s)/float32(segments)))
			}
			pen = end
		case "b":
			v, err := read(i, 6)
			if err != nil {
				return nil, err
			}
			i += 6
			end := [2]float32{v[0], v[1]}
			c1 := [2]float32{v[2], v[3]}
			c2 := [2]float32{v[4], v[5]}
			for s := 1; s <= segments; s++ {
				current = append(current, cubic(pen, c1, c2, end, float32(s)/float32(segments)))
			}
			pen = end
		case "z":
			flush()
		default:
			return nil, fmt.Errorf("%w: unknown command %q", errMalformedGlyph, cmd)
		}
	}
	flush()
	return contours, nil
}

func quadratic(p0, p1, p2 [2]float32, t float32) [2]float32 {
	u := 1 - t
	return [2]float32{
		u*u*p0[0] + 2*u*t*p1[0] + t*t*p2[0],
		u*u*p0[1] + 2*u*t*p1[1] + t*t*p2[1],
	}
}

func cubic(p0, p1, p2, p3 [2]float32, t float32) [2]float32 {
	u := 1 - t
	a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return [2]float32{
		a*p0[0] + b*p1[0] + c*p2[0] + d*p3[0],
		a*p0[1] + b*p1[1] + c*p2[1] + d*p3[1],
	}
}
