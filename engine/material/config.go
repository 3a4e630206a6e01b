package material

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/reject-ocean/common"

	"github.com/go-playground/validator/v10"
)

// ErrUnknownParam is returned when a parameter name is not part of the schema.
var ErrUnknownParam = errors.New("unknown parameter")

// ErrParamType is returned when a parameter value has the wrong type for its field.
var ErrParamType = errors.New("parameter type mismatch")

var validate = validator.New()

// Config is an immutable snapshot of the tunable glass parameters.
// Values are always inside their declared range and on their step grid once produced by
// Defaults, Set or Normalize. Snapshots are passed by value and compared with ==.
type Config struct {
	MeshPhysicalMaterial bool `toml:"meshPhysicalMaterial" yaml:"meshPhysicalMaterial" json:"meshPhysicalMaterial"`
	TransmissionSampler  bool `toml:"transmissionSampler" yaml:"transmissionSampler" json:"transmissionSampler"`
	Backside             bool `toml:"backside" yaml:"backside" json:"backside"`

	Samples    int `toml:"samples" yaml:"samples" json:"samples" validate:"min=1,max=32"`
	Resolution int `toml:"resolution" yaml:"resolution" json:"resolution" validate:"min=256,max=2048"`

	Transmission        float32 `toml:"transmission" yaml:"transmission" json:"transmission"`
	Roughness           float32 `toml:"roughness" yaml:"roughness" json:"roughness"`
	Thickness           float32 `toml:"thickness" yaml:"thickness" json:"thickness"`
	IOR                 float32 `toml:"ior" yaml:"ior" json:"ior"`
	ChromaticAberration float32 `toml:"chromaticAberration" yaml:"chromaticAberration" json:"chromaticAberration"`
	Anisotropy          float32 `toml:"anisotropy" yaml:"anisotropy" json:"anisotropy"`
	Distortion          float32 `toml:"distortion" yaml:"distortion" json:"distortion"`
	DistortionScale     float32 `toml:"distortionScale" yaml:"distortionScale" json:"distortionScale"`
	TemporalDistortion  float32 `toml:"temporalDistortion" yaml:"temporalDistortion" json:"temporalDistortion"`
	Clearcoat           float32 `toml:"clearcoat" yaml:"clearcoat" json:"clearcoat"`
	AttenuationDistance float32 `toml:"attenuationDistance" yaml:"attenuationDistance" json:"attenuationDistance"`

	AttenuationColor string `toml:"attenuationColor" yaml:"attenuationColor" json:"attenuationColor" validate:"required,hexcolor"`
	Color            string `toml:"color" yaml:"color" json:"color" validate:"required,hexcolor"`
	Bg               string `toml:"bg" yaml:"bg" json:"bg" validate:"required,hexcolor"`
}

// FieldKind is the value type of a schema field.
type FieldKind int

const (
	FieldKindBool FieldKind = iota
	FieldKindInt
	FieldKindFloat
	FieldKindColor
)

// defaultStep is the precision used for numeric fields that declare no step.
const defaultStep = 0.01

// Field describes one parameter: its default and, for numeric kinds, its range and step.
type Field struct {
	Name    string
	Kind    FieldKind
	Default any
	Min     float64
	Max     float64
	Step    float64

	ref func(*Config) any
}

var schema = []Field{
	{Name: "meshPhysicalMaterial", Kind: FieldKindBool, Default: false, ref: func(c *Config) any { return &c.MeshPhysicalMaterial }},
	{Name: "transmissionSampler", Kind: FieldKindBool, Default: false, ref: func(c *Config) any { return &c.TransmissionSampler }},
	{Name: "backside", Kind: FieldKindBool, Default: false, ref: func(c *Config) any { return &c.Backside }},
	{Name: "samples", Kind: FieldKindInt, Default: 10, Min: 1, Max: 32, Step: 1, ref: func(c *Config) any { return &c.Samples }},
	{Name: "resolution", Kind: FieldKindInt, Default: 2048, Min: 256, Max: 2048, Step: 256, ref: func(c *Config) any { return &c.Resolution }},
	{Name: "transmission", Kind: FieldKindFloat, Default: 1.0, Min: 0, Max: 1, Step: defaultStep, ref: func(c *Config) any { return &c.Transmission }},
	{Name: "roughness", Kind: FieldKindFloat, Default: 0.0, Min: 0, Max: 1, Step: 0.01, ref: func(c *Config) any { return &c.Roughness }},
	{Name: "thickness", Kind: FieldKindFloat, Default: 3.5, Min: 0, Max: 10, Step: 0.01, ref: func(c *Config) any { return &c.Thickness }},
	{Name: "ior", Kind: FieldKindFloat, Default: 1.01, Min: 1, Max: 5, Step: 0.01, ref: func(c *Config) any { return &c.IOR }},
	{Name: "chromaticAberration", Kind: FieldKindFloat, Default: 0.04, Min: 0, Max: 1, Step: defaultStep, ref: func(c *Config) any { return &c.ChromaticAberration }},
	{Name: "anisotropy", Kind: FieldKindFloat, Default: 0.1, Min: 0, Max: 1, Step: 0.01, ref: func(c *Config) any { return &c.Anisotropy }},
	{Name: "distortion", Kind: FieldKindFloat, Default: 0.57, Min: 0, Max: 1, Step: 0.01, ref: func(c *Config) any { return &c.Distortion }},
	{Name: "distortionScale", Kind: FieldKindFloat, Default: 0.5, Min: 0.01, Max: 1, Step: 0.01, ref: func(c *Config) any { return &c.DistortionScale }},
	{Name: "temporalDistortion", Kind: FieldKindFloat, Default: 0.5, Min: 0, Max: 1, Step: 0.01, ref: func(c *Config) any { return &c.TemporalDistortion }},
	{Name: "clearcoat", Kind: FieldKindFloat, Default: 1.0, Min: 0, Max: 1, Step: defaultStep, ref: func(c *Config) any { return &c.Clearcoat }},
	{Name: "attenuationDistance", Kind: FieldKindFloat, Default: 0.5, Min: 0, Max: 10, Step: 0.01, ref: func(c *Config) any { return &c.AttenuationDistance }},
	{Name: "attenuationColor", Kind: FieldKindColor, Default: "#ffffff", ref: func(c *Config) any { return &c.AttenuationColor }},
	{Name: "color", Kind: FieldKindColor, Default: "#99ecff", ref: func(c *Config) any { return &c.Color }},
	{Name: "bg", Kind: FieldKindColor, Default: "#839681", ref: func(c *Config) any { return &c.Bg }},
}

// Schema returns the parameter schema in declaration order.
//
// Returns:
//   - []Field: a copy of the 19 field descriptors
func Schema() []Field {
	return append([]Field(nil), schema...)
}

// Lookup returns the schema field with the given name.
//
// Parameters:
//   - name: the parameter name
//
// Returns:
//   - Field: the descriptor
//   - bool: whether the name exists
func Lookup(name string) (Field, bool) {
	for _, f := range schema {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Defaults returns the snapshot holding every field's declared default.
func Defaults() Config {
	var c Config
	for _, f := range schema {
		if err := f.assign(&c, f.Default); err != nil {
			panic(fmt.Sprintf("material: bad default for %s: %v", f.Name, err))
		}
	}
	return c
}

// Get returns the current value of a field.
//
// Parameters:
//   - name: the parameter name
//
// Returns:
//   - any: bool, int, float32 or string depending on the field kind
//   - error: ErrUnknownParam for names outside the schema
func (c Config) Get(name string) (any, error) {
	f, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	switch p := f.ref(&c).(type) {
	case *bool:
		return *p, nil
	case *int:
		return *p, nil
	case *float32:
		return *p, nil
	case *string:
		return *p, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownParam, name)
}

// Set returns a copy of c with one field replaced. Numeric values are clamped to the field's range
// and snapped to its step grid; they are never rejected for being out of range.
//
// Parameters:
//   - name: the parameter name
//   - value: a bool, any integer or float type, or a hex colour string
//
// Returns:
//   - Config: the new snapshot (c itself is unchanged)
//   - error: ErrUnknownParam, ErrParamType or common.ErrInvalidColor
func (c Config) Set(name string, value any) (Config, error) {
	f, ok := Lookup(name)
	if !ok {
		return c, fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	next := c
	if err := f.assign(&next, value); err != nil {
		return c, err
	}
	return next, nil
}

// Normalize clamps and snaps every numeric field of c and validates its colours.
// Colours are stored lower-cased.
// It is the entry point for snapshots decoded from files.
//
// Parameters:
//   - c: the raw snapshot
//
// Returns:
//   - Config: the normalized snapshot
//   - error: a validation error when a colour is malformed
func Normalize(c Config) (Config, error) {
	for _, f := range schema {
		if f.Kind == FieldKindBool {
			continue
		}
		v, _ := c.Get(f.Name)
		if err := f.assign(&c, v); err != nil {
			return c, err
		}
	}
	if err := validate.Struct(c); err != nil {
		return c, fmt.Errorf("invalid material config: %w", err)
	}
	return c, nil
}

// assign writes value into the field of c, converting and clamping as the kind requires.
func (f Field) assign(c *Config, value any) error {
	switch p := f.ref(c).(type) {
	case *bool:
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%w: %s wants bool, got %T", ErrParamType, f.Name, value)
		}
		*p = b
	case *int:
		n, ok := toFloat64(value)
		if !ok {
			return fmt.Errorf("%w: %s wants a number, got %T", ErrParamType, f.Name, value)
		}
		*p = int(math.Round(f.Snap(n)))
	case *float32:
		n, ok := toFloat64(value)
		if !ok {
			return fmt.Errorf("%w: %s wants a number, got %T", ErrParamType, f.Name, value)
		}
		*p = float32(f.Snap(n))
	case *string:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %s wants a colour string, got %T", ErrParamType, f.Name, value)
		}
		if _, err := common.ParseHexColor(s); err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
		*p = strings.ToLower(s)
	}
	return nil
}

// Snap clamps v to [Min, Max] and rounds it to the nearest step counted from Min.
// NaN snaps to Min.
//
// Parameters:
//   - v: the raw value
//
// Returns:
//   - float64: the snapped value
func (f Field) Snap(v float64) float64 {
	if math.IsNaN(v) {
		return f.Min
	}
	v = common.Clamp(v, f.Min, f.Max)
	if f.Step <= 0 {
		return v
	}
	steps := math.Round((v - f.Min) / f.Step)
	v = common.Clamp(f.Min+steps*f.Step, f.Min, f.Max)

	scale := math.Pow(10, float64(stepDecimals(f.Step)))
	return math.Round(v*scale) / scale
}

// stepDecimals counts the decimal places of a step such as 0.01 or 256.
func stepDecimals(step float64) int {
	s := strconv.FormatFloat(step, 'f', -1, 64)
	if _, frac, ok := strings.Cut(s, "."); ok {
		return len(frac)
	}
	return 0
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
