package main

import (
	"fmt"
	"os"

	"github.com/philipparndt/primforge/pkg/analysis"
	"github.com/philipparndt/primforge/pkg/model"
	"github.com/spf13/cobra"
)

var (
	edgesCount     int
	edgesLongest   bool
	edgesShortest  bool
	edgesMinLength float64
	edgesMaxLength float64
	edgesScale     float64
)

var edgesCmd = &cobra.Command{
	Use:   "edges [model]",
	Short: "List mesh edges of a model",
	Long:  "Find and measure polygon edges of the scaled model, including longest, shortest, or edges within a specific length range.",
	Args:  cobra.ExactArgs(1),
	Run:   runEdges,
}

func init() {
	rootCmd.AddCommand(edgesCmd)

	edgesCmd.Flags().IntVarP(&edgesCount, "count", "n", 10, "Number of edges to display")
	edgesCmd.Flags().BoolVarP(&edgesLongest, "longest", "l", false, "Show longest edges")
	edgesCmd.Flags().BoolVarP(&edgesShortest, "shortest", "s", false, "Show shortest edges")
	edgesCmd.Flags().Float64Var(&edgesMinLength, "min", 0.0, "Minimum edge length filter")
	edgesCmd.Flags().Float64Var(&edgesMaxLength, "max", 0.0, "Maximum edge length filter")
	edgesCmd.Flags().Float64Var(&edgesScale, "scale", 0, "Global scale factor (default: calibrated scale of the model)")

	edgesCmd.MarkFlagsMutuallyExclusive("longest", "shortest")
}

func runEdges(cmd *cobra.Command, args []string) {
	m, scale := loadModel(cmd, args[0], edgesScale)

	result, err := analysis.AnalyzeModel(m, scale)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error analyzing model: %v\n", err)
		os.Exit(1)
	}

	var edges []analysis.EdgeInfo
	var title string

	switch {
	case edgesLongest:
		edges = analysis.FindLongestEdges(result, edgesCount)
		title = fmt.Sprintf("Top %d Longest Edges", len(edges))
	case edgesShortest:
		edges = analysis.FindShortestEdges(result, edgesCount)
		title = fmt.Sprintf("Top %d Shortest Edges", len(edges))
	case edgesMaxLength > 0:
		edges = analysis.FindEdgesByLength(result, edgesMinLength, edgesMaxLength)
		title = fmt.Sprintf("Edges between %s and %s (found %d)",
			analysis.FormatMeasurement(edgesMinLength, m.Unit), analysis.FormatMeasurement(edgesMaxLength, m.Unit), len(edges))
	default:
		edges = result.AllEdges
		title = fmt.Sprintf("All Edges (showing first %d of %d)", min(edgesCount, len(edges)), len(edges))
	}
	if len(edges) > edgesCount {
		edges = edges[:edgesCount]
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, title)
	fmt.Fprintln(out, "====================")
	fmt.Fprintf(out, "Total edges in model: %d\n", result.EdgeCount)
	fmt.Fprintf(out, "Min edge length: %s\n", analysis.FormatMeasurement(result.MinEdgeLength, m.Unit))
	fmt.Fprintf(out, "Max edge length: %s\n", analysis.FormatMeasurement(result.MaxEdgeLength, m.Unit))
	fmt.Fprintf(out, "Avg edge length: %s\n\n", analysis.FormatMeasurement(result.AvgEdgeLength, m.Unit))

	if len(edges) == 0 {
		fmt.Fprintln(out, "No edges found matching the criteria.")
		return
	}

	fmt.Fprintf(out, "%-6s %-22s %-35s %-35s %-15s\n", "Index", "Primitive", "Start", "End", "Length")
	fmt.Fprintln(out, "----------------------------------------------------------------------------------------------------------------------")
	for i, edge := range edges {
		fmt.Fprintf(out, "%-6d %-22s %-35s %-35s %-15.6f\n",
			i+1,
			model.Label(edge.Primitive, m.Primitives[edge.Primitive].Kind),
			analysis.FormatVector(edge.Start),
			analysis.FormatVector(edge.End),
			edge.Length)
	}
}
