package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/philipparndt/primforge/pkg/analysis"
	"github.com/philipparndt/primforge/pkg/mesh"
	"github.com/spf13/cobra"
)

var (
	facesCount     int
	facesLargest   bool
	facesSmallest  bool
	facesPrimitive int
	facesScale     float64
)

type faceInfo struct {
	Label     string
	Index     int
	Corners   int
	Area      float64
	Perimeter float64
}

var facesCmd = &cobra.Command{
	Use:   "faces [model]",
	Short: "List mesh faces of a model",
	Long:  "Display the faces produced for each primitive with their area and perimeter, in export order.",
	Args:  cobra.ExactArgs(1),
	Run:   runFaces,
}

func init() {
	rootCmd.AddCommand(facesCmd)

	facesCmd.Flags().IntVarP(&facesCount, "count", "n", 10, "Number of faces to display")
	facesCmd.Flags().BoolVarP(&facesLargest, "largest", "l", false, "Show largest faces by area")
	facesCmd.Flags().BoolVarP(&facesSmallest, "smallest", "s", false, "Show smallest faces by area")
	facesCmd.Flags().IntVarP(&facesPrimitive, "primitive", "p", 0, "Only list faces of this 1-based primitive")
	facesCmd.Flags().Float64Var(&facesScale, "scale", 0, "Global scale factor (default: calibrated scale of the model)")

	facesCmd.MarkFlagsMutuallyExclusive("largest", "smallest")
}

func runFaces(cmd *cobra.Command, args []string) {
	m, scale := loadModel(cmd, args[0], facesScale)

	parts, err := mesh.AssemblePerPrimitive(m, scale)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error assembling model: %v\n", err)
		os.Exit(1)
	}
	if facesPrimitive > 0 {
		if facesPrimitive > len(parts) {
			fmt.Fprintf(os.Stderr, "Error: primitive %d out of range (1-%d)\n", facesPrimitive, len(parts))
			os.Exit(1)
		}
		parts = parts[facesPrimitive-1 : facesPrimitive]
	}

	var faces []faceInfo
	totalArea := 0.0
	for _, part := range parts {
		for i, f := range part.Mesh.Faces {
			single := mesh.Mesh{Vertices: part.Mesh.Vertices, Faces: []mesh.Face{f}}
			info := faceInfo{Label: part.Label(), Index: i + 1, Corners: len(f)}
			for _, tri := range single.Triangles() {
				info.Area += tri.Area()
			}
			for c := range f {
				info.Perimeter += part.Mesh.Vertices[f[c]].Distance(part.Mesh.Vertices[f[(c+1)%len(f)]])
			}
			totalArea += info.Area
			faces = append(faces, info)
		}
	}

	title := fmt.Sprintf("First %d Faces", min(facesCount, len(faces)))
	if facesLargest {
		sort.SliceStable(faces, func(i, j int) bool { return faces[i].Area > faces[j].Area })
		title = fmt.Sprintf("Top %d Largest Faces", min(facesCount, len(faces)))
	} else if facesSmallest {
		sort.SliceStable(faces, func(i, j int) bool { return faces[i].Area < faces[j].Area })
		title = fmt.Sprintf("Top %d Smallest Faces", min(facesCount, len(faces)))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, title)
	fmt.Fprintln(out, "====================")
	fmt.Fprintf(out, "Total faces: %d\n", len(faces))
	fmt.Fprintf(out, "Total surface area: %.6f square %s\n\n", totalArea, m.Unit)

	for i := 0; i < facesCount && i < len(faces); i++ {
		f := faces[i]
		fmt.Fprintf(out, "%s face #%d (%d corners):\n", f.Label, f.Index, f.Corners)
		fmt.Fprintf(out, "  Area: %.6f square %s\n", f.Area, m.Unit)
		fmt.Fprintf(out, "  Perimeter: %s\n\n", analysis.FormatMeasurement(f.Perimeter, m.Unit))
	}
}
