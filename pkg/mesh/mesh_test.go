package mesh

import (
	"math"
	"testing"

	"github.com/philipparndt/primforge/pkg/geometry"
	"github.com/philipparndt/primforge/pkg/model"
	"github.com/philipparndt/primforge/pkg/tessellate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitBox(x float64) model.Primitive {
	return model.Primitive{
		Kind:     model.Box,
		Position: geometry.NewVector3(x, 0, 0),
		Scale:    geometry.NewVector3(1, 1, 1),
	}
}

func TestBuildUnitPrimitivesStayInUnitCube(t *testing.T) {
	cube := geometry.BoundsOf([]geometry.Vector3{
		geometry.NewVector3(-0.5, -0.5, -0.5),
		geometry.NewVector3(0.5, 0.5, 0.5),
	})
	for _, kind := range model.Kinds() {
		m, err := Build(model.Primitive{Kind: kind, Scale: geometry.NewVector3(1, 1, 1)}, 1)
		require.NoError(t, err)
		for _, v := range m.Vertices {
			assert.Truef(t, cube.Contains(v, 1e-12), "%v vertex %v outside unit cube", kind, v)
		}
	}
}

func TestAssembleOffsetsAndOrder(t *testing.T) {
	m := model.NewModel(model.Millimeter,
		unitBox(0),
		model.Primitive{Kind: model.Cylinder, Scale: geometry.NewVector3(1, 2, 1)},
		unitBox(5),
	)

	parts, err := AssemblePerPrimitive(m, 1)
	require.NoError(t, err)
	require.Len(t, parts, 3)

	assert.Equal(t, 0, parts[0].Offset)
	assert.Equal(t, 8, parts[1].Offset)
	assert.Equal(t, 8+34, parts[2].Offset)
	assert.Equal(t, "Primitive_2_CYLINDER", parts[1].Label())
	for i, p := range parts {
		assert.Equal(t, i, p.Index)
		assert.Equal(t, m.Primitives[i], p.Primitive)
	}

	flat, err := Assemble(m, 1)
	require.NoError(t, err)
	assert.Len(t, flat.Vertices, 8+34+8)

	wantFaces := 0
	for _, p := range m.Primitives {
		_, f, err := tessellate.Counts(p.Kind)
		require.NoError(t, err)
		wantFaces += f
	}
	assert.Len(t, flat.Faces, wantFaces)

	// the last box's faces all point past the first two primitives
	for _, f := range flat.Faces[len(flat.Faces)-6:] {
		for _, idx := range f {
			assert.GreaterOrEqual(t, idx, 42)
			assert.Equal(t, parts[2].Mesh.Vertices[idx-42], flat.Vertices[idx])
		}
	}
}

func TestAssembleDoesNotAliasTessellation(t *testing.T) {
	m := model.NewModel(model.Millimeter, unitBox(0), unitBox(2))
	flat, err := Assemble(m, 1)
	require.NoError(t, err)

	shape, err := tessellate.Tessellate(model.Box)
	require.NoError(t, err)
	assert.Equal(t, shape.Faces[0], flat.Faces[0])
	assert.NotEqual(t, shape.Faces[0], flat.Faces[6])
}

func TestAssembleFailsOnUnknownKind(t *testing.T) {
	m := model.NewModel(model.Millimeter, unitBox(0), model.Primitive{Kind: model.Kind(7)})

	_, err := Assemble(m, 1)
	assert.ErrorIs(t, err, tessellate.ErrShapeKind)
	assert.Contains(t, err.Error(), "primitive 2")
}

func TestAssembleKeepsDegeneratePrimitives(t *testing.T) {
	m := model.NewModel(model.Millimeter,
		model.Primitive{Kind: model.Sphere, Position: geometry.NewVector3(1, 1, 1)},
		unitBox(0),
	)
	parts, err := AssemblePerPrimitive(m, 1)
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.Len(t, parts[0].Mesh.Vertices, 86)
	assert.Zero(t, parts[0].Mesh.SurfaceArea())
}

func TestSurfaceAreaAndBounds(t *testing.T) {
	p := unitBox(0)
	p.Scale = geometry.NewVector3(2, 3, 4)
	m, err := Build(p, 1)
	require.NoError(t, err)

	assert.InDelta(t, 2*(2*3+3*4+2*4), m.SurfaceArea(), 1e-9)
	assert.Len(t, m.Triangles(), 12)

	size := m.Bounds().Size()
	assert.True(t, size.ApproxEqual(geometry.NewVector3(2, 3, 4), 1e-12))
}

func TestGlobalScaleMultipliesGeometry(t *testing.T) {
	p := unitBox(1)
	p.Rotation = geometry.NewVector3(0.4, 0.2, -0.7)

	a, err := Build(p, 1)
	require.NoError(t, err)
	b, err := Build(p, 2.5)
	require.NoError(t, err)

	for i := range a.Vertices {
		assert.True(t, a.Vertices[i].Mul(2.5).ApproxEqual(b.Vertices[i], 1e-9))
	}
	assert.InDelta(t, a.SurfaceArea()*math.Pow(2.5, 2), b.SurfaceArea(), 1e-9)
}
