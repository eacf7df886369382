package main

import (
	"fmt"
	"os"

	"github.com/philipparndt/primforge/internal/config"
	"github.com/philipparndt/primforge/version"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "primforge",
	Short: "Turn primitive descriptions into OBJ and DXF geometry",
	Long: `primforge tessellates a model made of boxes, cylinders, pyramids and spheres
into meshes and exports them as Wavefront OBJ or DXF for CAD and BIM tools.
The real-world scale of a model is calibrated from two picked points and a
known distance, and stored next to the model file.`,
	Version: version.GetFullVersion(),
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the YAML configuration file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
