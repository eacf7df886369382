package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/philipparndt/primforge/pkg/export"
	"github.com/philipparndt/primforge/pkg/model"
	"github.com/spf13/cobra"
)

var (
	exportFormat      string
	exportOut         string
	exportScale       float64
	exportColorPolicy string
	exportMaterials   bool
)

var exportCmd = &cobra.Command{
	Use:   "export [model]",
	Short: "Export a model as OBJ or DXF",
	Long: `Tessellate every primitive of a model, apply the calibrated scale and write
the result as Wavefront OBJ (one group per primitive) or DXF (one layer per
primitive carrying its color).`,
	Args: cobra.ExactArgs(1),
	Run:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	addExportFlags(exportCmd)
}

func addExportFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: obj or dxf (default from config)")
	cmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default: model path with the format extension)")
	cmd.Flags().Float64Var(&exportScale, "scale", 0, "Global scale factor (default: calibrated scale of the model)")
	cmd.Flags().StringVar(&exportColorPolicy, "color-policy", "", "DXF color policy: aci or truecolor (default from config)")
	cmd.Flags().BoolVar(&exportMaterials, "mtl", false, "Write a .mtl material library next to OBJ output")
}

// exportOptions merges config settings with the export flags
func exportOptions(cmd *cobra.Command, modelPath string) (string, export.Options, error) {
	settings := loadSettings()
	opts := export.Options{
		Format:      settings.Format,
		ColorPolicy: settings.ColorPolicy,
		Materials:   exportMaterials,
	}

	if cmd.Flags().Changed("format") {
		f, err := export.ParseFormat(exportFormat)
		if err != nil {
			return "", opts, err
		}
		opts.Format = f
	} else if exportOut != "" {
		if f, err := export.ParseFormat(filepath.Ext(exportOut)); err == nil {
			opts.Format = f
		}
	}

	if cmd.Flags().Changed("color-policy") {
		p, err := export.ParseColorPolicy(exportColorPolicy)
		if err != nil {
			return "", opts, err
		}
		opts.ColorPolicy = p
	}

	out := exportOut
	if out == "" {
		out = strings.TrimSuffix(modelPath, filepath.Ext(modelPath)) + opts.Format.Extension()
	}
	return out, opts, nil
}

func runExport(cmd *cobra.Command, args []string) {
	modelPath := args[0]

	out, opts, err := exportOptions(cmd, modelPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	m, scale := loadModel(cmd, modelPath, exportScale)
	opts.Scale = scale

	if err := exportModel(cmd, m, out, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting model: %v\n", err)
		os.Exit(1)
	}
}

func exportModel(cmd *cobra.Command, m *model.Model, out string, opts export.Options) error {
	if err := export.Export(out, m, opts); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d primitives to %s (%s, scale %g)\n",
		m.PrimitiveCount(), out, strings.ToUpper(string(opts.Format)), opts.Scale)
	return nil
}
