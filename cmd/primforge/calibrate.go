package main

import (
	"fmt"
	"os"

	"github.com/philipparndt/primforge/pkg/analysis"
	"github.com/philipparndt/primforge/pkg/calibration"
	"github.com/philipparndt/primforge/pkg/geometry"
	"github.com/philipparndt/primforge/pkg/mesh"
	"github.com/philipparndt/primforge/pkg/model"
	"github.com/philipparndt/primforge/pkg/pick"
	"github.com/spf13/cobra"
)

var (
	calibratePrimitive int
	calibrateA         string
	calibrateB         string
	calibrateScreenA   string
	calibrateScreenB   string
	calibrateWidth     float64
	calibrateHeight    float64
	calibrateLength    string
	calibrateSnap      float64
	calibrateDryRun    bool
)

var calibrateCmd = &cobra.Command{
	Use:   "calibrate [model]",
	Short: "Derive the model scale from two points and a known length",
	Long: `Pick two points on the model, either as world coordinates on a primitive
(--a/--b) or as screen positions in the default view (--screen-a/--screen-b),
and give the real-world distance between them. Picks snap to nearby mesh
vertices. The resulting scale factor is stored next to the model file and used
by all other commands.`,
	Args: cobra.ExactArgs(1),
	Run:  runCalibrate,
}

func init() {
	rootCmd.AddCommand(calibrateCmd)

	calibrateCmd.Flags().IntVarP(&calibratePrimitive, "primitive", "p", 0, "1-based primitive to pick on (required with --a/--b)")
	calibrateCmd.Flags().StringVar(&calibrateA, "a", "", "First point as x,y,z in world units")
	calibrateCmd.Flags().StringVar(&calibrateB, "b", "", "Second point as x,y,z in world units")
	calibrateCmd.Flags().StringVar(&calibrateScreenA, "screen-a", "", "First point as x,y screen position")
	calibrateCmd.Flags().StringVar(&calibrateScreenB, "screen-b", "", "Second point as x,y screen position")
	calibrateCmd.Flags().Float64Var(&calibrateWidth, "width", 800, "Screen width used with --screen-a/--screen-b")
	calibrateCmd.Flags().Float64Var(&calibrateHeight, "height", 600, "Screen height used with --screen-a/--screen-b")
	calibrateCmd.Flags().StringVarP(&calibrateLength, "length", "l", "", "Real-world distance between the points in the model unit")
	calibrateCmd.Flags().Float64Var(&calibrateSnap, "snap", 0, "Snap threshold in world units (default from config)")
	calibrateCmd.Flags().BoolVar(&calibrateDryRun, "dry-run", false, "Print the new scale without saving it")

	calibrateCmd.MarkFlagsRequiredTogether("a", "b")
	calibrateCmd.MarkFlagsRequiredTogether("screen-a", "screen-b")
	calibrateCmd.MarkFlagsOneRequired("a", "screen-a")
	calibrateCmd.MarkFlagsMutuallyExclusive("a", "screen-a")
	calibrateCmd.MarkFlagRequired("length")
}

func runCalibrate(cmd *cobra.Command, args []string) {
	modelPath := args[0]
	settings := loadSettings()
	m, scale := loadModel(cmd, modelPath, 0)
	out := cmd.OutOrStdout()

	threshold := settings.SnapThreshold
	if cmd.Flags().Changed("snap") {
		threshold = calibrateSnap
	}
	engine := calibration.NewEngine(scale, calibration.Options{SnapThreshold: threshold})
	engine.Begin()

	var picks []calibration.Pick
	var err error
	if calibrateA != "" {
		picks, err = pickWorld(engine, m)
	} else {
		picks, err = pickScreen(engine, m)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error picking points: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintln(out, "Scale Calibration")
	fmt.Fprintln(out, "=================")
	fmt.Fprintf(out, "Current scale: %g\n", scale)
	for i, p := range picks {
		fmt.Fprintf(out, "Point %c: %s", 'A'+i, analysis.FormatVector(p.Point))
		if p.Snapped {
			fmt.Fprintf(out, " (snapped from %s)", analysis.FormatVector(p.Raw))
		}
		fmt.Fprintln(out)
	}

	distance, err := engine.Distance()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error measuring: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(out, "Measured distance: %s\n", analysis.FormatMeasurement(distance, m.Unit))

	newScale, err := engine.ConfirmInput(calibrateLength)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error calibrating: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(out, "New scale: %g\n", newScale)

	if calibrateDryRun {
		return
	}
	if err := calibration.SaveScale(modelPath, newScale, m.Unit); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving scale: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(out, "Saved scale to: %s\n", calibration.SidecarPath(modelPath))
}

// pickWorld picks two world coordinates on the primitive selected by --primitive
func pickWorld(engine *calibration.Engine, m *model.Model) ([]calibration.Pick, error) {
	if calibratePrimitive < 1 {
		return nil, fmt.Errorf("--primitive is required with --a/--b")
	}

	var picks []calibration.Pick
	for _, s := range []string{calibrateA, calibrateB} {
		v, err := parseVector(s)
		if err != nil {
			return nil, err
		}
		p, err := engine.PickPrimitive(m, calibratePrimitive-1, v)
		if err != nil {
			return nil, err
		}
		picks = append(picks, p)
	}
	return picks, nil
}

// pickScreen casts rays from the default view through two screen positions.
// With --primitive only that primitive can be hit.
func pickScreen(engine *calibration.Engine, m *model.Model) ([]calibration.Pick, error) {
	parts, err := mesh.AssemblePerPrimitive(m, engine.Scale())
	if err != nil {
		return nil, err
	}

	bounds := geometry.NewBoundingBox()
	for _, part := range parts {
		bounds.Union(part.Mesh.Bounds())
	}
	camera := pick.NewCamera(bounds)

	if calibratePrimitive > 0 {
		if calibratePrimitive > len(parts) {
			return nil, fmt.Errorf("%w: primitive %d out of range (1-%d)", calibration.ErrCalibrationInput, calibratePrimitive, len(parts))
		}
		parts = parts[calibratePrimitive-1 : calibratePrimitive]
	}

	var picks []calibration.Pick
	for _, s := range []string{calibrateScreenA, calibrateScreenB} {
		xy, err := parseFloats(s, 2)
		if err != nil {
			return nil, err
		}
		i, hit, ok := pick.Screen(camera, parts, xy[0], xy[1], calibrateWidth, calibrateHeight)
		if !ok {
			return nil, fmt.Errorf("nothing under screen position %s", s)
		}
		p, err := engine.PickPrimitive(m, parts[i].Index, hit.Point)
		if err != nil {
			return nil, err
		}
		picks = append(picks, p)
	}
	return picks, nil
}
