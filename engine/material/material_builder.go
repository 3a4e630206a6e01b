package material

import (
	"github.com/Carmen-Shannon/reject-ocean/engine/model"
)

// MaterialBuilderOption is a function that configures a Material during construction.
type MaterialBuilderOption func(*Material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *Material) {
		m.Name = name
	}
}

// WithSide is an option builder that sets which faces the material renders.
//
// Parameters:
//   - side: SideFront, SideBack or SideDouble
//
// Returns:
//   - MaterialBuilderOption: a function that applies the side option to a material
func WithSide(side Side) MaterialBuilderOption {
	return func(m *Material) {
		m.Side = side
	}
}

// WithDefinition is an option builder that binds a bundle material definition.
//
// Parameters:
//   - def: the definition shared with the AssetBundle
//
// Returns:
//   - MaterialBuilderOption: a function that applies the definition option to a material
func WithDefinition(def *model.MaterialDef) MaterialBuilderOption {
	return func(m *Material) {
		m.Definition = def
	}
}

// WithPhysical is an option builder that replaces the physical parameters.
//
// Parameters:
//   - p: the physical parameters
//
// Returns:
//   - MaterialBuilderOption: a function that applies the physical option to a material
func WithPhysical(p PhysicalParams) MaterialBuilderOption {
	return func(m *Material) {
		m.Physical = p
	}
}

// WithTransmission is an option builder that replaces the transmission parameters.
//
// Parameters:
//   - t: the transmission parameters
//
// Returns:
//   - MaterialBuilderOption: a function that applies the transmission option to a material
func WithTransmission(t TransmissionParams) MaterialBuilderOption {
	return func(m *Material) {
		m.Transmission = t
	}
}
