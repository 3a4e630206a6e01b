// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"fmt"

	"cogentcore.org/core/colors"
	"github.com/chewxy/math32"
)

// Transform is a position, Euler rotation (radians) and scale triple.
type Transform struct {
	Position [3]float32
	Rotation [3]float32
	Scale    [3]float32
}

// NewTransform returns a unit-scale transform at the given position with no rotation.
//
// Parameters:
//   - position: the translation
//
// Returns:
//   - Transform: the transform
func NewTransform(position [3]float32) Transform {
	return Transform{Position: position, Scale: [3]float32{1, 1, 1}}
}

// WithRotationY returns a copy of t rotated about the Y axis by the given angle in radians.
//
// Parameters:
//   - radians: the yaw angle
//
// Returns:
//   - Transform: the rotated copy
func (t Transform) WithRotationY(radians float32) Transform {
	t.Rotation[1] = radians
	return t
}

// HalfTurns converts a multiple of a half-turn (pi radians) to radians.
//
// Parameters:
//   - n: the number of half-turns
//
// Returns:
//   - float32: the angle in radians
func HalfTurns(n float32) float32 {
	return n * math32.Pi
}

// Color is a non-premultiplied RGBA colour with channels in [0, 1].
type Color [4]float32

// ParseHexColor parses a CSS-style hex colour ("#rgb", "#rrggbb" or "#rrggbbaa").
//
// Parameters:
//   - hex: the colour string
//
// Returns:
//   - Color: the parsed colour
//   - error: ErrInvalidColor if the string is not a hex colour
func ParseHexColor(hex string) (Color, error) {
	if !isHexColor(hex) {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	c, err := colors.FromHex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %v", ErrInvalidColor, err)
	}
	return Color{
		float32(c.R) / 255,
		float32(c.G) / 255,
		float32(c.B) / 255,
		float32(c.A) / 255,
	}, nil
}

// MustParseHexColor is ParseHexColor for literal constants. It panics on malformed input.
func MustParseHexColor(hex string) Color {
	c, err := ParseHexColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// isHexColor reports whether s is "#" followed by 3, 6 or 8 hex digits.
// colors.FromHex silently reads bad digits as zero, so the digits are checked here.
func isHexColor(s string) bool {
	if len(s) == 0 || s[0] != '#' {
		return false
	}
	digits := s[1:]
	switch len(digits) {
	case 3, 6, 8:
	default:
		return false
	}
	for _, r := range digits {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
