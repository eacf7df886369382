// Package model holds the primitive descriptors that every exporter, the
// calibration engine and the analysis tools consume.
package model

import (
	"fmt"
	"time"

	"github.com/philipparndt/primforge/pkg/geometry"
)

// Primitive is a single parametric solid with pose and color.
// Rotation is in radians and applied X, then Y, then Z.
type Primitive struct {
	Kind     Kind
	Position geometry.Vector3
	Rotation geometry.Vector3
	Scale    geometry.Vector3
	Color    Color
}

// Model is an ordered list of primitives. Order matters: export group and
// layer names as well as vertex index offsets derive from it.
type Model struct {
	Primitives  []Primitive
	Unit        Unit
	GeneratedAt time.Time
}

// NewModel creates a model stamped with the current time
func NewModel(unit Unit, primitives ...Primitive) *Model {
	if unit == "" {
		unit = DefaultUnit
	}
	return &Model{
		Primitives:  primitives,
		Unit:        unit,
		GeneratedAt: time.Now().UTC(),
	}
}

// PrimitiveCount returns the number of primitives in the model
func (m *Model) PrimitiveCount() int {
	return len(m.Primitives)
}

// Label returns the 1-based display name used by exporters, e.g. "Primitive_3_CYLINDER"
func Label(index int, kind Kind) string {
	return fmt.Sprintf("Primitive_%d_%s", index+1, kind)
}
