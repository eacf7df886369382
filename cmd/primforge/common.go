package main

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/philipparndt/primforge/internal/config"
	"github.com/philipparndt/primforge/pkg/calibration"
	"github.com/philipparndt/primforge/pkg/geometry"
	"github.com/philipparndt/primforge/pkg/model"
	"github.com/spf13/cobra"
)

// loadSettings reads the configuration file named by --config
func loadSettings() config.Settings {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	settings, err := cfg.Settings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error in config: %v\n", err)
		os.Exit(1)
	}
	return settings
}

// loadModel reads a model document and the scale it is exported at: the
// --scale flag of cmd when given, otherwise the calibrated scale.
func loadModel(cmd *cobra.Command, path string, override float64) (*model.Model, float64) {
	m, err := model.LoadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading model: %v\n", err)
		os.Exit(1)
	}

	scale, err := resolveScale(cmd, path, override)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scale: %v\n", err)
		os.Exit(1)
	}
	return m, scale
}

// resolveScale returns override when --scale was set on cmd and the sidecar
// scale of path otherwise. An explicit scale must be positive and finite.
func resolveScale(cmd *cobra.Command, path string, override float64) (float64, error) {
	if cmd.Flags().Changed("scale") {
		if math.IsNaN(override) || math.IsInf(override, 0) || override <= 0 {
			return 0, fmt.Errorf("--scale must be a positive number, got %v", override)
		}
		return override, nil
	}
	return calibration.LoadScale(path)
}

// parseFloats parses n comma separated numbers such as "1,2.5,-3"
func parseFloats(s string, n int) ([]float64, error) {
	fields := strings.Split(s, ",")
	if len(fields) != n {
		return nil, fmt.Errorf("expected %d comma separated numbers, got %q", n, s)
	}
	values := make([]float64, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q in %q", f, s)
		}
		values[i] = v
	}
	return values, nil
}

func parseVector(s string) (geometry.Vector3, error) {
	v, err := parseFloats(s, 3)
	if err != nil {
		return geometry.Vector3{}, err
	}
	return geometry.NewVector3(v[0], v[1], v[2]), nil
}
