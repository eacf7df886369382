// Package config loads the optional primforge.yaml settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/philipparndt/primforge/pkg/calibration"
	"github.com/philipparndt/primforge/pkg/export"
	"github.com/philipparndt/primforge/pkg/inference"
	"github.com/philipparndt/primforge/pkg/model"
)

// DefaultPath is read when no --config flag is given
const DefaultPath = "primforge.yaml"

// Config is the raw file content
type Config struct {
	Unit          string        `yaml:"unit"`
	SnapThreshold float64       `yaml:"snap_threshold"`
	ColorPolicy   string        `yaml:"color_policy"`
	Format        string        `yaml:"format"`
	WatchDebounce time.Duration `yaml:"watch_debounce"`
	LevelOfDetail string        `yaml:"level_of_detail"`
}

// Settings are the validated, typed values of a Config
type Settings struct {
	Unit          model.Unit
	SnapThreshold float64
	ColorPolicy   export.ColorPolicy
	Format        export.Format
	WatchDebounce time.Duration
	LevelOfDetail inference.LevelOfDetail
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Unit:          string(model.DefaultUnit),
		SnapThreshold: calibration.DefaultSnapThreshold,
		ColorPolicy:   string(export.DefaultColorPolicy),
		Format:        string(export.FormatOBJ),
		WatchDebounce: 500 * time.Millisecond,
		LevelOfDetail: string(inference.LevelMedium),
	}
}

// Load reads path over the defaults. A missing file yields Default().
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Settings validates the configuration
func (c Config) Settings() (Settings, error) {
	unit, err := model.ParseUnit(c.Unit)
	if err != nil {
		return Settings{}, fmt.Errorf("config unit: %w", err)
	}
	policy, err := export.ParseColorPolicy(c.ColorPolicy)
	if err != nil {
		return Settings{}, fmt.Errorf("config color_policy: %w", err)
	}
	format, err := export.ParseFormat(c.Format)
	if err != nil {
		return Settings{}, fmt.Errorf("config format: %w", err)
	}
	lod, err := inference.ParseLevelOfDetail(c.LevelOfDetail)
	if err != nil {
		return Settings{}, fmt.Errorf("config level_of_detail: %w", err)
	}
	if c.WatchDebounce < 0 {
		return Settings{}, fmt.Errorf("config watch_debounce must not be negative, got %s", c.WatchDebounce)
	}

	return Settings{
		Unit:          unit,
		SnapThreshold: c.SnapThreshold,
		ColorPolicy:   policy,
		Format:        format,
		WatchDebounce: c.WatchDebounce,
		LevelOfDetail: lod,
	}, nil
}
