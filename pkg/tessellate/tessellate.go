// Package tessellate turns primitive kinds into unit-space meshes.
//
// Every shape lives in the cube [-0.5, 0.5]^3 centered on the origin, with
// Y as the up axis. Faces are wound counter-clockwise when viewed from
// outside, so normals computed from the first three corners point outward.
package tessellate

import (
	"errors"
	"fmt"
	"math"

	"github.com/philipparndt/primforge/pkg/geometry"
	"github.com/philipparndt/primforge/pkg/model"
)

// ErrShapeKind is returned for kinds without a tessellation
var ErrShapeKind = errors.New("unsupported shape kind")

const (
	// CylinderSegments is the number of rim vertices on each cylinder cap
	CylinderSegments = 16
	// SphereRings is the number of latitude bands, pole to pole
	SphereRings = 8
	// SphereSlices is the number of longitude segments
	SphereSlices = 12

	radius = 0.5
	half   = 0.5
)

// Face is an ordered group of 3 or 4 vertex indices
type Face []int

// Shape is a unit-space vertex list plus faces indexing into it
type Shape struct {
	Vertices []geometry.Vector3
	Faces    []Face
}

// Tessellate returns the unit-space shape for kind. The result is freshly
// allocated and may be modified by the caller.
func Tessellate(kind model.Kind) (Shape, error) {
	switch kind {
	case model.Box:
		return box(), nil
	case model.Cylinder:
		return cylinder(CylinderSegments), nil
	case model.Pyramid:
		return pyramid(), nil
	case model.Sphere:
		return sphere(SphereRings, SphereSlices), nil
	default:
		return Shape{}, fmt.Errorf("%w: %v", ErrShapeKind, kind)
	}
}

// Counts returns the vertex and face counts Tessellate produces for kind
func Counts(kind model.Kind) (vertices, faces int, err error) {
	switch kind {
	case model.Box:
		return 8, 6, nil
	case model.Cylinder:
		return 2*CylinderSegments + 2, 3 * CylinderSegments, nil
	case model.Pyramid:
		return 5, 5, nil
	case model.Sphere:
		return 2 + (SphereRings-1)*SphereSlices, SphereRings * SphereSlices, nil
	default:
		return 0, 0, fmt.Errorf("%w: %v", ErrShapeKind, kind)
	}
}

func box() Shape {
	return Shape{
		Vertices: []geometry.Vector3{
			{X: -half, Y: -half, Z: -half}, // 0
			{X: half, Y: -half, Z: -half},  // 1
			{X: half, Y: half, Z: -half},   // 2
			{X: -half, Y: half, Z: -half},  // 3
			{X: -half, Y: -half, Z: half},  // 4
			{X: half, Y: -half, Z: half},   // 5
			{X: half, Y: half, Z: half},    // 6
			{X: -half, Y: half, Z: half},   // 7
		},
		Faces: []Face{
			{0, 3, 2, 1}, // back   -Z
			{4, 5, 6, 7}, // front  +Z
			{0, 1, 5, 4}, // bottom -Y
			{3, 7, 6, 2}, // top    +Y
			{0, 4, 7, 3}, // left   -X
			{1, 2, 6, 5}, // right  +X
		},
	}
}

// cylinder is built around the Y axis: bottom rim 0..n-1, top rim n..2n-1,
// then the bottom and top cap centers.
func cylinder(n int) Shape {
	s := Shape{
		Vertices: make([]geometry.Vector3, 0, 2*n+2),
		Faces:    make([]Face, 0, 3*n),
	}
	for _, y := range []float64{-half, half} {
		for i := 0; i < n; i++ {
			theta := 2 * math.Pi * float64(i) / float64(n)
			s.Vertices = append(s.Vertices, geometry.NewVector3(radius*math.Cos(theta), y, radius*math.Sin(theta)))
		}
	}
	bottomCenter, topCenter := 2*n, 2*n+1
	s.Vertices = append(s.Vertices, geometry.NewVector3(0, -half, 0), geometry.NewVector3(0, half, 0))

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		s.Faces = append(s.Faces, Face{i, n + i, n + j, j})
	}
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		s.Faces = append(s.Faces, Face{bottomCenter, i, j})
	}
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		s.Faces = append(s.Faces, Face{topCenter, n + j, n + i})
	}
	return s
}

// pyramid has a square base at Y=-0.5 and its apex at Y=+0.5
func pyramid() Shape {
	return Shape{
		Vertices: []geometry.Vector3{
			{X: -half, Y: -half, Z: -half},
			{X: half, Y: -half, Z: -half},
			{X: half, Y: -half, Z: half},
			{X: -half, Y: -half, Z: half},
			{X: 0, Y: half, Z: 0},
		},
		Faces: []Face{
			{0, 1, 2, 3},
			{1, 0, 4},
			{2, 1, 4},
			{3, 2, 4},
			{0, 3, 4},
		},
	}
}

// sphere is a UV sphere with a single vertex at each pole. The polar bands
// are triangle fans, every other band is a ring of quads.
func sphere(rings, slices int) Shape {
	s := Shape{
		Vertices: make([]geometry.Vector3, 0, 2+(rings-1)*slices),
		Faces:    make([]Face, 0, rings*slices),
	}

	top := 0
	s.Vertices = append(s.Vertices, geometry.NewVector3(0, radius, 0))
	for i := 1; i < rings; i++ {
		phi := math.Pi * float64(i) / float64(rings)
		y, r := radius*math.Cos(phi), radius*math.Sin(phi)
		for j := 0; j < slices; j++ {
			theta := 2 * math.Pi * float64(j) / float64(slices)
			s.Vertices = append(s.Vertices, geometry.NewVector3(r*math.Cos(theta), y, r*math.Sin(theta)))
		}
	}
	bottom := len(s.Vertices)
	s.Vertices = append(s.Vertices, geometry.NewVector3(0, -radius, 0))

	ring := func(i, j int) int {
		return 1 + (i-1)*slices + j%slices
	}

	for j := 0; j < slices; j++ {
		s.Faces = append(s.Faces, Face{top, ring(1, j+1), ring(1, j)})
	}
	for i := 1; i < rings-1; i++ {
		for j := 0; j < slices; j++ {
			s.Faces = append(s.Faces, Face{ring(i, j), ring(i, j+1), ring(i+1, j+1), ring(i+1, j)})
		}
	}
	for j := 0; j < slices; j++ {
		s.Faces = append(s.Faces, Face{bottom, ring(rings-1, j), ring(rings-1, j+1)})
	}
	return s
}
