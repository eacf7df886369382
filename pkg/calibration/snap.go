package calibration

import (
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/philipparndt/primforge/pkg/geometry"
)

// DefaultSnapThreshold is the snapping radius in scaled world units
const DefaultSnapThreshold = 0.05

// Snapper finds the mesh vertex closest to a point
type Snapper struct {
	tree *kdtree.Tree
}

// NewSnapper indexes the given world-space vertices
func NewSnapper(vertices []geometry.Vector3) *Snapper {
	pts := make(kdtree.Points, 0, len(vertices))
	for _, v := range vertices {
		pts = append(pts, kdtree.Point{v.X, v.Y, v.Z})
	}
	return &Snapper{tree: kdtree.New(pts, false)}
}

// Nearest returns the closest vertex and its distance. ok is false for an empty mesh.
func (s *Snapper) Nearest(p geometry.Vector3) (vertex geometry.Vector3, dist float64, ok bool) {
	c, d2 := s.tree.Nearest(kdtree.Point{p.X, p.Y, p.Z})
	if c == nil {
		return geometry.Vector3{}, math.Inf(1), false
	}
	q := c.(kdtree.Point)
	return geometry.NewVector3(q[0], q[1], q[2]), math.Sqrt(d2), true
}

// Snap returns the nearest vertex when it lies within threshold of p, otherwise p itself
func (s *Snapper) Snap(p geometry.Vector3, threshold float64) (geometry.Vector3, bool) {
	v, dist, ok := s.Nearest(p)
	if !ok || dist > threshold {
		return p, false
	}
	return v, true
}

// Snap is a one-shot Snapper.Snap over vertices
func Snap(p geometry.Vector3, vertices []geometry.Vector3, threshold float64) (geometry.Vector3, bool) {
	return NewSnapper(vertices).Snap(p, threshold)
}
