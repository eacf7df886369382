// Package transform maps unit-space vertices into world space.
//
// The order is fixed and shared by every exporter and by calibration:
// scale by primitive.Scale*k, rotate about X, then Y, then Z, and finally
// translate by primitive.Position*k, where k is the global scale factor.
// Rotation is never scaled.
package transform

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/philipparndt/primforge/pkg/geometry"
	"github.com/philipparndt/primforge/pkg/model"
)

// Transform is the precomputed pose of one primitive under a global scale
type Transform struct {
	scale       mgl64.Vec3
	rx, ry, rz  mgl64.Mat3
	translation mgl64.Vec3
}

// New prepares the transform for p under global scale k
func New(p model.Primitive, k float64) Transform {
	s := p.Scale.Mul(k)
	t := p.Position.Mul(k)
	return Transform{
		scale:       mgl64.Vec3{s.X, s.Y, s.Z},
		rx:          mgl64.Rotate3DX(p.Rotation.X),
		ry:          mgl64.Rotate3DY(p.Rotation.Y),
		rz:          mgl64.Rotate3DZ(p.Rotation.Z),
		translation: mgl64.Vec3{t.X, t.Y, t.Z},
	}
}

// Apply maps one unit-space vertex into world space. The three rotations are
// applied one after another rather than folded into a single matrix so the
// floating point result is identical on every path.
func (t Transform) Apply(v geometry.Vector3) geometry.Vector3 {
	w := mgl64.Vec3{v.X * t.scale[0], v.Y * t.scale[1], v.Z * t.scale[2]}
	w = t.rx.Mul3x1(w)
	w = t.ry.Mul3x1(w)
	w = t.rz.Mul3x1(w)
	w = w.Add(t.translation)
	return geometry.NewVector3(w[0], w[1], w[2])
}

// ApplyAll maps every vertex of vs into a new slice
func (t Transform) ApplyAll(vs []geometry.Vector3) []geometry.Vector3 {
	out := make([]geometry.Vector3, len(vs))
	for i, v := range vs {
		out[i] = t.Apply(v)
	}
	return out
}

// Apply maps a single unit-space vertex of p into world space under global scale k
func Apply(v geometry.Vector3, p model.Primitive, k float64) geometry.Vector3 {
	return New(p, k).Apply(v)
}
