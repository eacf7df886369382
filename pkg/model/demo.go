package model

import (
	"math"

	"github.com/philipparndt/primforge/pkg/geometry"
)

// Demo returns the built-in sample object, a small table with a lamp, in millimeters
func Demo() *Model {
	wood := Color{R: 0x8b, G: 0x5a, B: 0x2b}
	leg := func(x, z float64) Primitive {
		return Primitive{
			Kind:     Cylinder,
			Position: geometry.NewVector3(x, 350, z),
			Scale:    geometry.NewVector3(40, 700, 40),
			Color:    wood,
		}
	}

	return NewModel(Millimeter,
		Primitive{
			Kind:     Box,
			Position: geometry.NewVector3(0, 720, 0),
			Scale:    geometry.NewVector3(1200, 40, 800),
			Color:    Color{R: 0xa0, G: 0x6a, B: 0x3c},
		},
		leg(-550, -350),
		leg(550, -350),
		leg(-550, 350),
		leg(550, 350),
		Primitive{
			Kind:     Cylinder,
			Position: geometry.NewVector3(300, 760, 150),
			Scale:    geometry.NewVector3(120, 40, 120),
			Color:    Color{R: 0x33, G: 0x33, B: 0x33},
		},
		Primitive{
			Kind:     Pyramid,
			Position: geometry.NewVector3(300, 880, 150),
			Rotation: geometry.NewVector3(0, math.Pi/4, 0),
			Scale:    geometry.NewVector3(260, 200, 260),
			Color:    Color{R: 0xf2, G: 0xc1, B: 0x4e},
		},
		Primitive{
			Kind:     Sphere,
			Position: geometry.NewVector3(-300, 780, -100),
			Scale:    geometry.NewVector3(80, 80, 80),
			Color:    Color{R: 0x1e, G: 0x90, B: 0xff},
		},
	)
}
