package calibration

import (
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/philipparndt/primforge/pkg/export"
	"github.com/philipparndt/primforge/pkg/geometry"
	"github.com/philipparndt/primforge/pkg/mesh"
	"github.com/philipparndt/primforge/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitBoxModel() *model.Model {
	return model.NewModel(model.Millimeter, model.Primitive{
		Kind:  model.Box,
		Scale: geometry.NewVector3(1, 1, 1),
	})
}

// pickCorners picks vertex 0 and vertex 6 (opposite corners) of the box meshed at the engine's scale
func pickCorners(t *testing.T, e *Engine, m *model.Model) float64 {
	t.Helper()
	pm, err := mesh.Build(m.Primitives[0], e.Scale())
	require.NoError(t, err)

	e.Begin()
	_, err = e.PickPrimitive(m, 0, pm.Vertices[0])
	require.NoError(t, err)
	_, err = e.PickPrimitive(m, 0, pm.Vertices[6])
	require.NoError(t, err)
	require.Equal(t, Ready, e.State())

	d, err := e.Distance()
	require.NoError(t, err)
	return d
}

func TestCalibrationIsReDerivedNotCompounded(t *testing.T) {
	m := unitBoxModel()
	e := NewEngine(1, Options{})

	d0 := pickCorners(t, e, m)
	assert.InDelta(t, math.Sqrt(3), d0, 1e-12)

	k, err := e.Confirm(2 * d0)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, k, 1e-12)
	assert.Equal(t, Idle, e.State())
	assert.InDelta(t, 2.0, e.Scale(), 1e-12)

	d1 := pickCorners(t, e, m)
	assert.InDelta(t, 2*d0, d1, 1e-12)

	k, err = e.Confirm(d0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, k, 1e-12)
}

func TestRemeasureYieldsLength(t *testing.T) {
	m := unitBoxModel()
	e := NewEngine(0.37, Options{})

	pickCorners(t, e, m)
	_, err := e.Confirm(125)
	require.NoError(t, err)

	assert.InDelta(t, 125, pickCorners(t, e, m), 1e-9)
}

func TestRejectedConfirmLeavesScaleUntouched(t *testing.T) {
	m := unitBoxModel()

	tests := []struct {
		name   string
		length float64
	}{
		{"zero", 0},
		{"negative", -3},
		{"nan", math.NaN()},
		{"inf", math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(1.2345, Options{})
			before := math.Float64bits(e.Scale())
			pickCorners(t, e, m)

			_, err := e.Confirm(tt.length)
			assert.ErrorIs(t, err, ErrCalibrationInput)
			assert.Equal(t, before, math.Float64bits(e.Scale()))
			assert.Equal(t, Ready, e.State())
		})
	}
}

func TestRejectsNonNumericInput(t *testing.T) {
	m := unitBoxModel()
	e := NewEngine(3, Options{})
	pickCorners(t, e, m)

	for _, input := range []string{"", "abc", "12mm", "1,5"} {
		_, err := e.ConfirmInput(input)
		assert.ErrorIs(t, err, ErrCalibrationInput, input)
	}
	assert.Equal(t, math.Float64bits(3), math.Float64bits(e.Scale()))

	k, err := e.ConfirmInput(" 10 ")
	require.NoError(t, err)
	assert.InDelta(t, 10/math.Sqrt(3), k, 1e-12)
}

func TestRejectsCoincidentPoints(t *testing.T) {
	m := unitBoxModel()
	e := NewEngine(1, Options{})
	corner := geometry.NewVector3(0.5, 0.5, 0.5)

	e.Begin()
	_, err := e.PickPrimitive(m, 0, corner)
	require.NoError(t, err)
	_, err = e.PickPrimitive(m, 0, corner.Add(geometry.NewVector3(0.01, 0, 0)))
	require.NoError(t, err)

	d, err := e.Distance()
	require.NoError(t, err)
	assert.Zero(t, d, "both picks snap to the same vertex")

	_, err = e.Confirm(10)
	assert.ErrorIs(t, err, ErrCalibrationInput)
	assert.Equal(t, math.Float64bits(1), math.Float64bits(e.Scale()))
}

func TestCancelResetsWithoutMutation(t *testing.T) {
	m := unitBoxModel()
	e := NewEngine(4, Options{})
	pickCorners(t, e, m)

	e.Cancel()
	assert.Equal(t, Idle, e.State())
	assert.Equal(t, 4.0, e.Scale())

	_, _, ok := e.Points()
	assert.False(t, ok)
	_, err := e.Confirm(1)
	assert.ErrorIs(t, err, ErrNotCalibrating)
}

func TestStateTransitions(t *testing.T) {
	e := NewEngine(1, Options{})
	assert.Equal(t, Idle, e.State())

	_, err := e.Pick(geometry.Vector3{}, nil)
	assert.ErrorIs(t, err, ErrNotCalibrating)

	e.Begin()
	assert.Equal(t, AwaitingFirst, e.State())

	_, err = e.Distance()
	assert.ErrorIs(t, err, ErrNotCalibrating)

	a := geometry.NewVector3(1, 0, 0)
	b := geometry.NewVector3(4, 4, 0)
	c := geometry.NewVector3(0, 0, 9)

	_, err = e.Pick(a, nil)
	require.NoError(t, err)
	assert.Equal(t, AwaitingSecond, e.State())
	_, err = e.Pick(b, nil)
	require.NoError(t, err)
	assert.Equal(t, Ready, e.State())

	first, second, ok := e.Points()
	require.True(t, ok)
	assert.Equal(t, a, first.Point)
	assert.Equal(t, b, second.Point)

	d, err := e.Distance()
	require.NoError(t, err)
	assert.InDelta(t, 5, d, 1e-12)

	// a third pick starts a new pair
	_, err = e.Pick(c, nil)
	require.NoError(t, err)
	assert.Equal(t, AwaitingSecond, e.State())
	_, _, ok = e.Points()
	assert.False(t, ok)
}

func TestSnappingUsesWorldUnits(t *testing.T) {
	m := unitBoxModel()
	e := NewEngine(100, Options{SnapThreshold: 1})

	e.Begin()
	// corner (50,50,50) at scale 100; 0.6 world units away snaps
	p, err := e.PickPrimitive(m, 0, geometry.NewVector3(49.4, 50, 50))
	require.NoError(t, err)
	assert.True(t, p.Snapped)
	assert.True(t, p.Point.ApproxEqual(geometry.NewVector3(50, 50, 50), 1e-9))

	// 2 world units away stays raw
	raw := geometry.NewVector3(48, 50, 50)
	p, err = e.PickPrimitive(m, 0, raw)
	require.NoError(t, err)
	assert.False(t, p.Snapped)
	assert.Equal(t, raw, p.Point)
	assert.Equal(t, raw, p.Raw)
}

func TestSnappingCanBeDisabled(t *testing.T) {
	e := NewEngine(1, Options{SnapThreshold: -1})
	assert.Negative(t, e.SnapThreshold())

	e.Begin()
	raw := geometry.NewVector3(0.49, 0.5, 0.5)
	p, err := e.Pick(raw, []geometry.Vector3{geometry.NewVector3(0.5, 0.5, 0.5)})
	require.NoError(t, err)
	assert.False(t, p.Snapped)
	assert.Equal(t, raw, p.Point)
}

func TestPickPrimitiveOutOfRange(t *testing.T) {
	e := NewEngine(1, Options{})
	e.Begin()
	_, err := e.PickPrimitive(unitBoxModel(), 3, geometry.Vector3{})
	assert.ErrorIs(t, err, ErrCalibrationInput)
	assert.Equal(t, AwaitingFirst, e.State())
}

func TestNewEngineDefaults(t *testing.T) {
	for _, k := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		assert.Equal(t, 1.0, NewEngine(k, Options{}).Scale())
	}
	assert.Equal(t, DefaultSnapThreshold, NewEngine(1, Options{}).SnapThreshold())
}

func TestConcurrentScaleReads(t *testing.T) {
	m := unitBoxModel()
	e := NewEngine(1, Options{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				k := e.Scale()
				assert.True(t, k == 1 || k == 2)
			}
		}()
	}

	pm, err := mesh.Build(m.Primitives[0], 1)
	require.NoError(t, err)
	e.Begin()
	_, err = e.Pick(pm.Vertices[0], pm.Vertices)
	require.NoError(t, err)
	_, err = e.Pick(pm.Vertices[1], pm.Vertices)
	require.NoError(t, err)
	_, err = e.Confirm(2)
	require.NoError(t, err)

	wg.Wait()
	assert.Equal(t, 2.0, e.Scale())
}

func TestSnapper(t *testing.T) {
	verts := []geometry.Vector3{
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(10, 0, 0),
		geometry.NewVector3(0, 10, 0),
	}
	s := NewSnapper(verts)

	v, d, ok := s.Nearest(geometry.NewVector3(9, 1, 0))
	require.True(t, ok)
	assert.Equal(t, verts[1], v)
	assert.InDelta(t, math.Sqrt(2), d, 1e-12)

	_, _, ok = NewSnapper(nil).Nearest(geometry.Vector3{})
	assert.False(t, ok)

	p, snapped := Snap(geometry.NewVector3(0.5, 9.8, 0), verts, 0.6)
	assert.True(t, snapped)
	assert.Equal(t, verts[2], p)
}

func TestScaleSidecar(t *testing.T) {
	modelPath := filepath.Join(t.TempDir(), "chair.json")

	k, err := LoadScale(modelPath)
	require.NoError(t, err)
	assert.Equal(t, 1.0, k)

	require.NoError(t, SaveScale(modelPath, 2.5, model.Centimeter))
	assert.FileExists(t, SidecarPath(modelPath))
	k, err = LoadScale(modelPath)
	require.NoError(t, err)
	assert.Equal(t, 2.5, k)

	require.NoError(t, SaveScale(modelPath, 1, model.Centimeter))
	assert.NoFileExists(t, SidecarPath(modelPath))

	assert.ErrorIs(t, SaveScale(modelPath, 0, model.Centimeter), ErrCalibrationInput)

	require.NoError(t, os.WriteFile(SidecarPath(modelPath), []byte(`{"version":"1.0","scale":-2}`), 0644))
	_, err = LoadScale(modelPath)
	assert.Error(t, err)
}

func TestSaveScaleReplacesSidecarAtomically(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "chair.json")

	require.NoError(t, SaveScale(modelPath, 2.5, model.Millimeter))
	require.NoError(t, SaveScale(modelPath, 4, model.Millimeter))

	k, err := LoadScale(modelPath)
	require.NoError(t, err)
	assert.Equal(t, 4.0, k)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
	info, err := entries[0].Info()
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestSaveScaleMissingDirectoryKeepsNothing(t *testing.T) {
	modelPath := filepath.Join(t.TempDir(), "missing", "chair.json")

	err := SaveScale(modelPath, 2, model.Millimeter)
	assert.ErrorIs(t, err, export.ErrSerializationIO)
	assert.NoFileExists(t, SidecarPath(modelPath))
}
