// Package analysis measures assembled models.
package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/philipparndt/primforge/pkg/geometry"
	"github.com/philipparndt/primforge/pkg/mesh"
	"github.com/philipparndt/primforge/pkg/model"
)

// EdgeInfo is one polygon edge of a primitive's mesh
type EdgeInfo struct {
	Start     geometry.Vector3
	End       geometry.Vector3
	Length    float64
	Primitive int
}

// PrimitiveReport holds the measurements of a single primitive
type PrimitiveReport struct {
	Index       int
	Label       string
	Kind        model.Kind
	Color       model.Color
	Vertices    int
	Faces       int
	Triangles   int
	BoundingBox geometry.BoundingBox
	SurfaceArea float64
}

// Report contains the measurements of a whole model under one scale
type Report struct {
	Unit          model.Unit
	Scale         float64
	Primitives    []PrimitiveReport
	BoundingBox   geometry.BoundingBox
	Dimensions    geometry.Vector3
	SurfaceArea   float64
	VertexCount   int
	FaceCount     int
	TriangleCount int
	EdgeCount     int
	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64
	AllEdges      []EdgeInfo
}

// AnalyzeModel assembles m under scale k and measures every primitive
func AnalyzeModel(m *model.Model, k float64) (*Report, error) {
	parts, err := mesh.AssemblePerPrimitive(m, k)
	if err != nil {
		return nil, err
	}

	result := &Report{
		Unit:        m.Unit,
		Scale:       k,
		Primitives:  make([]PrimitiveReport, 0, len(parts)),
		BoundingBox: geometry.NewBoundingBox(),
		AllEdges:    make([]EdgeInfo, 0),
	}

	for _, part := range parts {
		pr := PrimitiveReport{
			Index:       part.Index,
			Label:       part.Label(),
			Kind:        part.Primitive.Kind,
			Color:       part.Primitive.Color,
			Vertices:    len(part.Mesh.Vertices),
			Faces:       len(part.Mesh.Faces),
			Triangles:   len(part.Mesh.Triangles()),
			BoundingBox: part.Mesh.Bounds(),
			SurfaceArea: part.Mesh.SurfaceArea(),
		}
		result.Primitives = append(result.Primitives, pr)

		result.BoundingBox.Union(pr.BoundingBox)
		result.SurfaceArea += pr.SurfaceArea
		result.VertexCount += pr.Vertices
		result.FaceCount += pr.Faces
		result.TriangleCount += pr.Triangles
		result.AllEdges = append(result.AllEdges, edgesOf(part)...)
	}

	result.Dimensions = result.BoundingBox.Size()

	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0
	for _, edge := range result.AllEdges {
		totalLength += edge.Length
		minLength = math.Min(minLength, edge.Length)
		maxLength = math.Max(maxLength, edge.Length)
	}

	result.EdgeCount = len(result.AllEdges)
	if result.EdgeCount > 0 {
		result.MinEdgeLength = minLength
		result.MaxEdgeLength = maxLength
		result.AvgEdgeLength = totalLength / float64(result.EdgeCount)
	}

	return result, nil
}

// edgesOf collects the distinct polygon edges of a part. Quad diagonals are not edges.
func edgesOf(part mesh.Part) []EdgeInfo {
	type key struct{ a, b int }
	seen := make(map[key]bool)
	var edges []EdgeInfo

	for _, f := range part.Mesh.Faces {
		for i := range f {
			a, b := f[i], f[(i+1)%len(f)]
			if a > b {
				a, b = b, a
			}
			if seen[key{a, b}] {
				continue
			}
			seen[key{a, b}] = true

			start, end := part.Mesh.Vertices[a], part.Mesh.Vertices[b]
			edges = append(edges, EdgeInfo{
				Start:     start,
				End:       end,
				Length:    start.Distance(end),
				Primitive: part.Index,
			})
		}
	}
	return edges
}

// FindEdgesByLength finds all edges within a length range
func FindEdgesByLength(result *Report, minLength, maxLength float64) []EdgeInfo {
	var edges []EdgeInfo
	for _, edge := range result.AllEdges {
		if edge.Length >= minLength && edge.Length <= maxLength {
			edges = append(edges, edge)
		}
	}
	return edges
}

// FindLongestEdges returns the N longest edges in the model
func FindLongestEdges(result *Report, count int) []EdgeInfo {
	return sortedEdges(result, count, func(a, b EdgeInfo) bool { return a.Length > b.Length })
}

// FindShortestEdges returns the N shortest edges in the model
func FindShortestEdges(result *Report, count int) []EdgeInfo {
	return sortedEdges(result, count, func(a, b EdgeInfo) bool { return a.Length < b.Length })
}

func sortedEdges(result *Report, count int, less func(a, b EdgeInfo) bool) []EdgeInfo {
	edges := make([]EdgeInfo, len(result.AllEdges))
	copy(edges, result.AllEdges)

	sort.SliceStable(edges, func(i, j int) bool {
		return less(edges[i], edges[j])
	})

	if count > len(edges) {
		count = len(edges)
	}
	return edges[:count]
}

// DistanceBetweenPoints calculates the distance between two arbitrary points
func DistanceBetweenPoints(p1, p2 geometry.Vector3) float64 {
	return p1.Distance(p2)
}

// FormatMeasurement formats a measurement with its unit label
func FormatMeasurement(value float64, unit model.Unit) string {
	label := unit.String()
	if label == "" {
		label = "units"
	}
	return fmt.Sprintf("%.6f %s", value, label)
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
