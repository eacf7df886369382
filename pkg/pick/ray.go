package pick

import (
	"math"

	"github.com/philipparndt/primforge/pkg/geometry"
	"github.com/philipparndt/primforge/pkg/mesh"
)

const epsilon = 1e-9

// Ray is a half-line with a unit direction
type Ray struct {
	Origin    geometry.Vector3
	Direction geometry.Vector3
}

// At returns the point t units along the ray
func (r Ray) At(t float64) geometry.Vector3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Hit is a ray/surface intersection
type Hit struct {
	Point    geometry.Vector3
	Distance float64
	Face     int
}

// IntersectTriangle returns the ray parameter of the hit on t (Möller–Trumbore).
// Both sides of the triangle are hit.
func IntersectTriangle(r Ray, t geometry.Triangle) (float64, bool) {
	e1 := t.V2.Sub(t.V1)
	e2 := t.V3.Sub(t.V1)

	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if math.Abs(det) < epsilon {
		return 0, false
	}
	inv := 1 / det

	s := r.Origin.Sub(t.V1)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(e1)
	v := r.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}

	dist := e2.Dot(q) * inv
	if dist <= epsilon {
		return 0, false
	}
	return dist, true
}

// Intersect returns the closest hit of r on the faces of m
func Intersect(r Ray, m mesh.Mesh) (Hit, bool) {
	best := Hit{Distance: math.Inf(1), Face: -1}
	for fi, f := range m.Faces {
		for i := 1; i+1 < len(f); i++ {
			tri := geometry.NewTriangle(m.Vertices[f[0]], m.Vertices[f[i]], m.Vertices[f[i+1]])
			if d, ok := IntersectTriangle(r, tri); ok && d < best.Distance {
				best = Hit{Point: r.At(d), Distance: d, Face: fi}
			}
		}
	}
	return best, best.Face >= 0
}

// IntersectParts returns the closest hit over all parts and the index of the part that was hit
func IntersectParts(r Ray, parts []mesh.Part) (int, Hit, bool) {
	index := -1
	best := Hit{Distance: math.Inf(1), Face: -1}
	for i, part := range parts {
		if h, ok := Intersect(r, part.Mesh); ok && h.Distance < best.Distance {
			index, best = i, h
		}
	}
	return index, best, index >= 0
}

// Screen picks the model surface under a screen position of a width x height view
func Screen(c *Camera, parts []mesh.Part, screenX, screenY, width, height float64) (int, Hit, bool) {
	return IntersectParts(c.Unproject(screenX, screenY, width, height), parts)
}
