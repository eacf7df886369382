// Package mesh combines tessellation and the transform pipeline into the
// indexed world-space meshes that exporters, analysis and calibration share.
package mesh

import (
	"fmt"

	"github.com/philipparndt/primforge/pkg/geometry"
	"github.com/philipparndt/primforge/pkg/model"
	"github.com/philipparndt/primforge/pkg/tessellate"
	"github.com/philipparndt/primforge/pkg/transform"
)

// Face is an ordered group of 3 or 4 vertex indices
type Face = tessellate.Face

// Mesh is an indexed world-space mesh
type Mesh struct {
	Vertices []geometry.Vector3
	Faces    []Face
}

// Part is the mesh of one primitive together with its place in the model.
// Offset is the number of vertices emitted by the primitives before it.
type Part struct {
	Index     int
	Primitive model.Primitive
	Mesh      Mesh
	Offset    int
}

// Label returns the exporter group name of the part, e.g. "Primitive_3_CYLINDER"
func (p Part) Label() string {
	return model.Label(p.Index, p.Primitive.Kind)
}

// Build tessellates p and moves every vertex into world space under global scale k
func Build(p model.Primitive, k float64) (Mesh, error) {
	shape, err := tessellate.Tessellate(p.Kind)
	if err != nil {
		return Mesh{}, err
	}
	return Mesh{
		Vertices: transform.New(p, k).ApplyAll(shape.Vertices),
		Faces:    shape.Faces,
	}, nil
}

// AssemblePerPrimitive builds one part per primitive, in model order
func AssemblePerPrimitive(m *model.Model, k float64) ([]Part, error) {
	parts := make([]Part, 0, len(m.Primitives))
	offset := 0
	for i, p := range m.Primitives {
		pm, err := Build(p, k)
		if err != nil {
			return nil, fmt.Errorf("primitive %d: %w", i+1, err)
		}
		parts = append(parts, Part{Index: i, Primitive: p, Mesh: pm, Offset: offset})
		offset += len(pm.Vertices)
	}
	return parts, nil
}

// Assemble builds the whole model as one flat mesh. Face indices of each
// primitive are shifted by the vertices already emitted.
func Assemble(m *model.Model, k float64) (Mesh, error) {
	parts, err := AssemblePerPrimitive(m, k)
	if err != nil {
		return Mesh{}, err
	}
	return Flatten(parts), nil
}

// Flatten concatenates parts into one mesh using each part's offset
func Flatten(parts []Part) Mesh {
	var out Mesh
	for _, part := range parts {
		out.Vertices = append(out.Vertices, part.Mesh.Vertices...)
		for _, f := range part.Mesh.Faces {
			shifted := make(Face, len(f))
			for i, idx := range f {
				shifted[i] = idx + part.Offset
			}
			out.Faces = append(out.Faces, shifted)
		}
	}
	return out
}

// Triangles splits every face into triangles, fanning quads from their first corner
func (m Mesh) Triangles() []geometry.Triangle {
	tris := make([]geometry.Triangle, 0, len(m.Faces)*2)
	for _, f := range m.Faces {
		for i := 1; i+1 < len(f); i++ {
			tris = append(tris, geometry.NewTriangle(m.Vertices[f[0]], m.Vertices[f[i]], m.Vertices[f[i+1]]))
		}
	}
	return tris
}

// Bounds returns the bounding box of the mesh vertices
func (m Mesh) Bounds() geometry.BoundingBox {
	return geometry.BoundsOf(m.Vertices)
}

// SurfaceArea returns the summed area of all faces
func (m Mesh) SurfaceArea() float64 {
	total := 0.0
	for _, t := range m.Triangles() {
		total += t.Area()
	}
	return total
}
