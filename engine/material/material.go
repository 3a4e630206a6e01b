package material

import (
	"fmt"

	"github.com/Carmen-Shannon/reject-ocean/common"
	"github.com/Carmen-Shannon/reject-ocean/engine/model"

	"github.com/jinzhu/copier"
)

// Kind distinguishes how a Material's surface is defined.
type Kind int

const (
	// KindBundle is a fixed material authored in the packaged model.
	KindBundle Kind = iota
	// KindPhysical is a physically based material with transmission and clearcoat.
	KindPhysical
	// KindTransmission is a physical material rendered with a refraction pass against a background.
	KindTransmission
)

func (k Kind) String() string {
	switch k {
	case KindBundle:
		return "bundle"
	case KindPhysical:
		return "physical"
	case KindTransmission:
		return "transmission"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Side selects which faces a material renders.
type Side int

const (
	SideFront Side = iota
	SideBack
	SideDouble
)

// PhysicalParams are the surface parameters of a physically based material.
// Field names match Config so a snapshot can be spread onto them.
type PhysicalParams struct {
	Color               common.Color
	Roughness           float32
	Metalness           float32
	Transmission        float32
	Thickness           float32
	IOR                 float32
	Anisotropy          float32
	Clearcoat           float32
	ClearcoatRoughness  float32
	AttenuationDistance float32
	AttenuationColor    common.Color
	SpecularIntensity   float32
	EnvMapIntensity     float32
}

// DefaultPhysicalParams returns the parameters of an untouched physical material.
// An attenuation distance of zero means no attenuation.
func DefaultPhysicalParams() PhysicalParams {
	return PhysicalParams{
		Color:             common.Color{1, 1, 1, 1},
		Roughness:         1,
		IOR:               1.5,
		AttenuationColor:  common.Color{1, 1, 1, 1},
		SpecularIntensity: 1,
		EnvMapIntensity:   1,
	}
}

// TransmissionParams are the refraction-pass settings of a transmission material.
type TransmissionParams struct {
	Samples             int
	Resolution          int
	TransmissionSampler bool
	Backside            bool
	ChromaticAberration float32
	Distortion          float32
	DistortionScale     float32
	TemporalDistortion  float32
	Background          common.Color
}

// Material is a value describing one mesh's surface. Bundle materials share their
// definition with the AssetBundle; parameterized materials own their values.
type Material struct {
	Kind Kind
	Name string
	Side Side

	// Definition is set for KindBundle and points into the AssetBundle.
	Definition *model.MaterialDef

	// Physical is used by KindPhysical and KindTransmission.
	Physical PhysicalParams

	// Transmission is used by KindTransmission only.
	Transmission TransmissionParams
}

// NewMaterial creates a Material of the given kind with the options applied.
// Physical parameters start from DefaultPhysicalParams.
//
// Parameters:
//   - kind: the material kind
//   - options: functional options configuring the material
//
// Returns:
//   - Material: the material value
func NewMaterial(kind Kind, options ...MaterialBuilderOption) Material {
	m := Material{
		Kind:     kind,
		Side:     SideFront,
		Physical: DefaultPhysicalParams(),
	}
	for _, option := range options {
		option(&m)
	}
	return m
}

// FromDefinition wraps a bundle material definition.
//
// Parameters:
//   - def: the bundle's material definition
//   - side: the faces to render
//
// Returns:
//   - Material: a KindBundle material sharing def
func FromDefinition(def *model.MaterialDef, side Side) Material {
	return NewMaterial(KindBundle, WithName(def.Name), WithDefinition(def), WithSide(side))
}

// NewPhysicalFromConfig builds the raw physical material with every matching Config field spread onto it.
//
// Parameters:
//   - cfg: the parameter snapshot
//
// Returns:
//   - Material: a KindPhysical material
//   - error: error if a colour in cfg does not parse
func NewPhysicalFromConfig(cfg Config) (Material, error) {
	physical := DefaultPhysicalParams()
	if err := spread(&physical, cfg); err != nil {
		return Material{}, err
	}
	return NewMaterial(KindPhysical, WithName("meshPhysicalMaterial"), WithPhysical(physical)), nil
}

// NewTransmissionFromConfig builds the transmission material with every Config field spread onto it
// and its background colour taken from cfg.Bg. Backside selects double-sided rendering.
//
// Parameters:
//   - cfg: the parameter snapshot
//
// Returns:
//   - Material: a KindTransmission material
//   - error: error if a colour in cfg does not parse
func NewTransmissionFromConfig(cfg Config) (Material, error) {
	physical := DefaultPhysicalParams()
	if err := spread(&physical, cfg); err != nil {
		return Material{}, err
	}
	var transmission TransmissionParams
	if err := spread(&transmission, cfg); err != nil {
		return Material{}, err
	}
	bg, err := common.ParseHexColor(cfg.Bg)
	if err != nil {
		return Material{}, fmt.Errorf("bg: %w", err)
	}
	transmission.Background = bg

	side := SideFront
	if cfg.Backside {
		side = SideDouble
	}
	return NewMaterial(KindTransmission,
		WithName("meshTransmissionMaterial"),
		WithSide(side),
		WithPhysical(physical),
		WithTransmission(transmission),
	), nil
}

// hexColorConverter lets copier turn Config's colour strings into common.Color fields.
var hexColorConverter = copier.TypeConverter{
	SrcType: "",
	DstType: common.Color{},
	Fn: func(src any) (any, error) {
		return common.ParseHexColor(src.(string))
	},
}

// spread copies every same-named field of cfg onto dst.
func spread(dst any, cfg Config) error {
	return copier.CopyWithOption(dst, &cfg, copier.Option{
		Converters: []copier.TypeConverter{hexColorConverter},
	})
}
