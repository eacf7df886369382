package calibration

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/philipparndt/primforge/pkg/export"
	"github.com/philipparndt/primforge/pkg/model"
)

// SidecarSuffix is appended to the model path to name the scale file
const SidecarSuffix = ".primforge.json"

const sidecarVersion = "1.0"

// ScaleData is the JSON structure of the scale sidecar
type ScaleData struct {
	Version      string  `json:"version"`
	Scale        float64 `json:"scale"`
	Unit         string  `json:"unit,omitempty"`
	CalibratedAt string  `json:"calibratedAt,omitempty"`
}

// SidecarPath returns the path of the scale file for a model file
func SidecarPath(modelPath string) string {
	return modelPath + SidecarSuffix
}

// LoadScale reads the calibrated scale of a model. A missing sidecar means scale 1.
func LoadScale(modelPath string) (float64, error) {
	data, err := os.ReadFile(SidecarPath(modelPath))
	if errors.Is(err, os.ErrNotExist) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read scale file: %w", err)
	}

	var sd ScaleData
	if err := json.Unmarshal(data, &sd); err != nil {
		return 0, fmt.Errorf("failed to parse scale file: %w", err)
	}
	if !validScale(sd.Scale) {
		return 0, fmt.Errorf("scale file %s: invalid scale %v", SidecarPath(modelPath), sd.Scale)
	}
	return sd.Scale, nil
}

// SaveScale stores the scale next to the model. Scale 1 removes the sidecar.
func SaveScale(modelPath string, scale float64, unit model.Unit) error {
	path := SidecarPath(modelPath)
	if !validScale(scale) {
		return fmt.Errorf("%w: cannot save scale %v", ErrCalibrationInput, scale)
	}

	if scale == 1 {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove scale file: %w", err)
		}
		return nil
	}

	data, err := json.MarshalIndent(ScaleData{
		Version:      sidecarVersion,
		Scale:        scale,
		Unit:         unit.String(),
		CalibratedAt: time.Now().UTC().Format(time.RFC3339),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal scale: %w", err)
	}

	if err := export.WriteFile(path, append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write scale file: %w", err)
	}
	return nil
}
