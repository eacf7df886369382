package model

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/philipparndt/primforge/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}

	k, err := ParseKind(" cylinder ")
	require.NoError(t, err)
	assert.Equal(t, Cylinder, k)

	_, err = ParseKind("cone")
	assert.Error(t, err)

	assert.False(t, Kind(42).Valid())
	assert.Equal(t, "KIND(42)", Kind(42).String())
}

func TestParseUnit(t *testing.T) {
	u, err := ParseUnit("Meters")
	require.NoError(t, err)
	assert.Equal(t, Meter, u)
	assert.Equal(t, 6, u.InsUnits())

	_, err = ParseUnit("furlong")
	assert.Error(t, err)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Primitive_3_CYLINDER", Label(2, Cylinder))
}

func TestDecodeJSON(t *testing.T) {
	data := []byte(`{
		// produced by hand
		version: "1.0",
		unit: "cm",
		generatedAt: "2026-01-02T03:04:05Z",
		primitives: [
			{type: "box", position: [1, 2, 3], rotation: [0, 0.5, 0], scale: [4, 5, 6], color: "#ff0000"},
			{type: "SPHERE", position: [0, 0, 0], scale: [1, 1, 1], color: "oops"},
		],
	}`)

	m, err := DecodeJSON(data)
	require.NoError(t, err)
	require.Len(t, m.Primitives, 2)

	assert.Equal(t, Centimeter, m.Unit)
	assert.Equal(t, 2026, m.GeneratedAt.Year())

	box := m.Primitives[0]
	assert.Equal(t, Box, box.Kind)
	assert.Equal(t, geometry.NewVector3(1, 2, 3), box.Position)
	assert.Equal(t, geometry.NewVector3(0, 0.5, 0), box.Rotation)
	assert.Equal(t, geometry.NewVector3(4, 5, 6), box.Scale)
	assert.Equal(t, Color{R: 255}, box.Color)

	sphere := m.Primitives[1]
	assert.Equal(t, Sphere, sphere.Kind)
	assert.Equal(t, geometry.Vector3{}, sphere.Rotation)
	assert.Equal(t, DefaultColor, sphere.Color)
}

func TestDecodeJSONRejectsSchemaViolations(t *testing.T) {
	tests := map[string]string{
		"not json":            `{{{`,
		"missing primitives":  `{"version": "1.0"}`,
		"primitives object":   `{"primitives": {"type": "box"}}`,
		"missing type":        `{"primitives": [{"position": [0,0,0], "scale": [1,1,1]}]}`,
		"unknown type":        `{"primitives": [{"type": "torus", "position": [0,0,0], "scale": [1,1,1]}]}`,
		"missing position":    `{"primitives": [{"type": "box", "scale": [1,1,1]}]}`,
		"short scale":         `{"primitives": [{"type": "box", "position": [0,0,0], "scale": [1,1]}]}`,
		"negative scale":      `{"primitives": [{"type": "box", "position": [0,0,0], "scale": [1,-1,1]}]}`,
		"unknown unit":        `{"unit": "parsec", "primitives": []}`,
		"rotation wrong size": `{"primitives": [{"type": "box", "position": [0,0,0], "rotation": [1], "scale": [1,1,1]}]}`,
		"nan scale":           `{"primitives": [{"type": "box", "position": [0,0,0], "scale": [NaN,1,1]}]}`,
		"infinite position":   `{"primitives": [{"type": "box", "position": [Infinity,0,0], "scale": [1,1,1]}]}`,
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeJSON([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalidDocument)
		})
	}
}

func TestDecodeJSONEmptyPrimitives(t *testing.T) {
	m, err := DecodeJSON([]byte(`{"primitives": []}`))
	require.NoError(t, err)
	assert.Empty(t, m.Primitives)
	assert.Equal(t, DefaultUnit, m.Unit)
}

func TestDecodeJSONZeroScaleAllowed(t *testing.T) {
	m, err := DecodeJSON([]byte(`{"primitives": [{"type": "pyramid", "position": [0,0,0], "scale": [0,0,0]}]}`))
	require.NoError(t, err)
	assert.Equal(t, geometry.Vector3{}, m.Primitives[0].Scale)
}

func TestDecodeYAML(t *testing.T) {
	data := []byte(`
version: "1.0"
unit: inch
primitives:
  - type: pyramid
    position: [0, 1, 0]
    scale: [2, 2, 2]
    color: "#00ff00"
`)
	m, err := DecodeYAML(data)
	require.NoError(t, err)
	require.Len(t, m.Primitives, 1)
	assert.Equal(t, Inch, m.Unit)
	assert.Equal(t, Pyramid, m.Primitives[0].Kind)
	assert.Equal(t, Color{G: 255}, m.Primitives[0].Color)
}

func TestDecodeYAMLRejectsNonFinite(t *testing.T) {
	tests := map[string]string{
		"nan scale":         "primitives:\n  - {type: box, position: [0, 0, 0], scale: [.nan, 1, 1]}\n",
		"infinite rotation": "primitives:\n  - {type: box, position: [0, 0, 0], rotation: [0, -.inf, 0], scale: [1, 1, 1]}\n",
		"infinite position": "primitives:\n  - {type: box, position: [.inf, 0, 0], scale: [1, 1, 1]}\n",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeYAML([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalidDocument)
		})
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	for _, name := range []string{"demo.json", "demo.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			original := Demo()
			require.NoError(t, SaveFile(path, original))

			loaded, err := LoadFile(path)
			require.NoError(t, err)

			require.Len(t, loaded.Primitives, len(original.Primitives))
			assert.Equal(t, original.Unit, loaded.Unit)
			assert.True(t, original.GeneratedAt.Truncate(time.Second).Equal(loaded.GeneratedAt))
			for i := range original.Primitives {
				want, got := original.Primitives[i], loaded.Primitives[i]
				assert.Equal(t, want.Kind, got.Kind)
				assert.Equal(t, want.Color, got.Color)
				assert.True(t, want.Position.ApproxEqual(got.Position, 1e-9))
				assert.True(t, want.Rotation.ApproxEqual(got.Rotation, 1e-9))
				assert.True(t, want.Scale.ApproxEqual(got.Scale, 1e-9))
			}
		})
	}
}

func TestLoadFileUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.stl")
	require.NoError(t, os.WriteFile(path, []byte("solid"), 0644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}
