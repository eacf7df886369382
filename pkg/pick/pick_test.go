package pick

import (
	"math"
	"testing"

	"github.com/philipparndt/primforge/pkg/geometry"
	"github.com/philipparndt/primforge/pkg/mesh"
	"github.com/philipparndt/primforge/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boxAt(x float64) model.Primitive {
	return model.Primitive{
		Kind:     model.Box,
		Position: geometry.NewVector3(x, 0, 0),
		Scale:    geometry.NewVector3(1, 1, 1),
	}
}

func TestIntersectTriangle(t *testing.T) {
	tri := geometry.NewTriangle(
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(1, 0, 0),
		geometry.NewVector3(0, 1, 0),
	)

	d, ok := IntersectTriangle(Ray{Origin: geometry.NewVector3(0.2, 0.2, 5), Direction: geometry.NewVector3(0, 0, -1)}, tri)
	require.True(t, ok)
	assert.InDelta(t, 5, d, 1e-12)

	// back side is hit as well
	_, ok = IntersectTriangle(Ray{Origin: geometry.NewVector3(0.2, 0.2, -5), Direction: geometry.NewVector3(0, 0, 1)}, tri)
	assert.True(t, ok)

	_, ok = IntersectTriangle(Ray{Origin: geometry.NewVector3(0.8, 0.8, 5), Direction: geometry.NewVector3(0, 0, -1)}, tri)
	assert.False(t, ok, "outside")

	_, ok = IntersectTriangle(Ray{Origin: geometry.NewVector3(0.2, 0.2, 5), Direction: geometry.NewVector3(0, 0, 1)}, tri)
	assert.False(t, ok, "behind origin")

	_, ok = IntersectTriangle(Ray{Origin: geometry.NewVector3(0.2, 0.2, 5), Direction: geometry.NewVector3(1, 0, 0)}, tri)
	assert.False(t, ok, "parallel")
}

func TestIntersectMeshReturnsClosestFace(t *testing.T) {
	m, err := mesh.Build(boxAt(0), 1)
	require.NoError(t, err)

	h, ok := Intersect(Ray{Origin: geometry.NewVector3(0.1, 0.2, 10), Direction: geometry.NewVector3(0, 0, -1)}, m)
	require.True(t, ok)
	assert.Equal(t, 1, h.Face, "front face")
	assert.InDelta(t, 9.5, h.Distance, 1e-12)
	assert.True(t, h.Point.ApproxEqual(geometry.NewVector3(0.1, 0.2, 0.5), 1e-12))

	_, ok = Intersect(Ray{Origin: geometry.NewVector3(3, 0, 10), Direction: geometry.NewVector3(0, 0, -1)}, m)
	assert.False(t, ok)
}

func TestIntersectPartsPicksNearestPrimitive(t *testing.T) {
	m := model.NewModel(model.Millimeter, boxAt(0), boxAt(4))
	parts, err := mesh.AssemblePerPrimitive(m, 1)
	require.NoError(t, err)

	// along -X from the right, the second box is in front
	idx, h, ok := IntersectParts(Ray{Origin: geometry.NewVector3(10, 0.1, 0.1), Direction: geometry.NewVector3(-1, 0, 0)}, parts)
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.InDelta(t, 4.5, h.Point.X, 1e-12)
}

func TestCameraCenterRayHitsTarget(t *testing.T) {
	m, err := mesh.Build(boxAt(0), 1)
	require.NoError(t, err)

	c := NewCamera(m.Bounds())
	assert.InDelta(t, 2, c.Distance, 1e-12)
	assert.True(t, c.Position.ApproxEqual(geometry.NewVector3(0, 0, 2), 1e-12))

	r := c.Unproject(400, 300, 800, 600)
	assert.True(t, r.Direction.ApproxEqual(geometry.NewVector3(0, 0, -1), 1e-12))

	idx, h, ok := Screen(c, []mesh.Part{{Mesh: m}}, 400, 300, 800, 600)
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.True(t, h.Point.ApproxEqual(geometry.NewVector3(0, 0, 0.5), 1e-12))
}

func TestProjectInvertsUnproject(t *testing.T) {
	c := NewCamera(geometry.BoundsOf([]geometry.Vector3{
		geometry.NewVector3(-1, -2, -3),
		geometry.NewVector3(4, 5, 6),
	}))
	c.Rotate(0.3, -0.8)
	c.Zoom(0.5)

	p := geometry.NewVector3(0.7, 1.1, -0.4)
	x, y, depth := c.Project(p, 1024, 768)
	require.Positive(t, depth)

	r := c.Unproject(x, y, 1024, 768)
	toPoint := p.Sub(r.Origin).Normalize()
	assert.True(t, r.Direction.ApproxEqual(toPoint, 1e-9))
}

func TestRotateClampsPitch(t *testing.T) {
	c := NewCamera(geometry.BoundsOf([]geometry.Vector3{{}, geometry.NewVector3(1, 1, 1)}))
	c.Rotate(10, 0)
	assert.InDelta(t, math.Pi/2-0.1, c.Pitch, 1e-12)
	c.Rotate(-20, 0)
	assert.InDelta(t, -(math.Pi/2 - 0.1), c.Pitch, 1e-12)

	c.Zoom(-0.9999)
	assert.Equal(t, 0.1, c.Distance)
}
