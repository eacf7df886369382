package main

import (
	"context"
	"fmt"
	"os"

	"github.com/philipparndt/primforge/pkg/inference"
	"github.com/philipparndt/primforge/pkg/model"
	"github.com/spf13/cobra"
)

var (
	demoOut  string
	demoLOD  string
	demoUnit string
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Write the built-in sample model",
	Long:  "Write the built-in sample model (a table with a lamp) as a model document, capped by the level of detail.",
	Args:  cobra.NoArgs,
	Run:   runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().StringVarP(&demoOut, "out", "o", "demo.json", "Output model document (.json or .yaml)")
	demoCmd.Flags().StringVar(&demoLOD, "lod", "", "Level of detail: low, medium or high (default from config)")
	demoCmd.Flags().StringVar(&demoUnit, "unit", "", "Unit label of the model (default from config)")
}

func runDemo(cmd *cobra.Command, args []string) {
	settings := loadSettings()

	lod := settings.LevelOfDetail
	if cmd.Flags().Changed("lod") {
		l, err := inference.ParseLevelOfDetail(demoLOD)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		lod = l
	}

	unit := settings.Unit
	if cmd.Flags().Changed("unit") {
		u, err := model.ParseUnit(demoUnit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		unit = u
	}

	var gen inference.Generator = inference.Demo{}
	m, err := gen.Generate(context.Background(), inference.Request{
		MaxPrimitives: lod.MaxPrimitives(),
		Unit:          unit,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating model: %v\n", err)
		os.Exit(1)
	}

	if err := model.SaveFile(demoOut, m); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving model: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d primitives to %s\n", m.PrimitiveCount(), demoOut)
}
