// Package calibration derives the global scale factor of a model from two
// picked points and a known real-world distance between them.
package calibration

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/philipparndt/primforge/pkg/geometry"
	"github.com/philipparndt/primforge/pkg/mesh"
	"github.com/philipparndt/primforge/pkg/model"
)

var (
	// ErrCalibrationInput rejects a target length or point pair that cannot produce a scale
	ErrCalibrationInput = errors.New("invalid calibration input")
	// ErrNotCalibrating is returned when an operation does not fit the current state
	ErrNotCalibrating = errors.New("calibration not in progress")
)

// State of the calibration workflow
type State int

const (
	Idle State = iota
	AwaitingFirst
	AwaitingSecond
	Ready
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingFirst:
		return "awaiting first point"
	case AwaitingSecond:
		return "awaiting second point"
	case Ready:
		return "ready"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Pick is a picked point before and after snapping
type Pick struct {
	Raw     geometry.Vector3
	Point   geometry.Vector3
	Snapped bool
}

// Options configures an Engine
type Options struct {
	// SnapThreshold in scaled world units. Zero selects DefaultSnapThreshold,
	// a negative value disables snapping.
	SnapThreshold float64
}

// Engine owns the global scale factor and the calibration state machine.
// It is safe for concurrent use; readers get a consistent snapshot via Scale.
type Engine struct {
	mu        sync.Mutex
	scale     float64
	threshold float64
	state     State
	first     Pick
	second    Pick
}

// NewEngine starts idle at the given scale. Non-positive or non-finite scales start at 1.
func NewEngine(scale float64, opts Options) *Engine {
	if !validScale(scale) {
		scale = 1
	}
	threshold := opts.SnapThreshold
	if threshold == 0 {
		threshold = DefaultSnapThreshold
	}
	return &Engine{scale: scale, threshold: threshold}
}

// Scale returns the current global scale factor
func (e *Engine) Scale() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scale
}

// SnapThreshold returns the snapping radius in world units
func (e *Engine) SnapThreshold() float64 {
	return e.threshold
}

// State returns the workflow state
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Begin enters calibration mode, discarding any picked points
func (e *Engine) Begin() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = AwaitingFirst
	e.first, e.second = Pick{}, Pick{}
}

// Cancel leaves calibration mode without touching the scale
func (e *Engine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reset()
}

// Pick records a surface point hit on a mesh that was built with the current
// scale. The point snaps to the closest of vertices within the threshold.
// A pick while a pair is ready starts a new pair.
func (e *Engine) Pick(raw geometry.Vector3, vertices []geometry.Vector3) (Pick, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == Idle {
		return Pick{}, fmt.Errorf("%w: call Begin first", ErrNotCalibrating)
	}

	p := Pick{Raw: raw, Point: raw}
	if e.threshold > 0 && len(vertices) > 0 {
		p.Point, p.Snapped = Snap(raw, vertices, e.threshold)
	}

	switch e.state {
	case AwaitingFirst, Ready:
		e.first, e.second = p, Pick{}
		e.state = AwaitingSecond
	case AwaitingSecond:
		e.second = p
		e.state = Ready
	}
	return p, nil
}

// PickPrimitive picks raw on the primitive at index, meshed under the current scale
func (e *Engine) PickPrimitive(m *model.Model, index int, raw geometry.Vector3) (Pick, error) {
	if index < 0 || index >= len(m.Primitives) {
		return Pick{}, fmt.Errorf("%w: primitive %d out of range (1-%d)", ErrCalibrationInput, index+1, len(m.Primitives))
	}
	pm, err := mesh.Build(m.Primitives[index], e.Scale())
	if err != nil {
		return Pick{}, err
	}
	return e.Pick(raw, pm.Vertices)
}

// Points returns the picked pair once both points are set
func (e *Engine) Points() (first, second Pick, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Ready {
		return Pick{}, Pick{}, false
	}
	return e.first, e.second, true
}

// Distance returns the measured distance between the picked points in world units
func (e *Engine) Distance() (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Ready {
		return 0, fmt.Errorf("%w: %s", ErrNotCalibrating, e.state)
	}
	return e.first.Point.Distance(e.second.Point), nil
}

// Confirm applies the real-world length of the picked pair and returns the new
// scale. On error neither the scale nor the state changes.
func (e *Engine) Confirm(length float64) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Ready {
		return 0, fmt.Errorf("%w: %s", ErrNotCalibrating, e.state)
	}
	next, err := NewScale(e.scale, e.first.Point.Distance(e.second.Point), length)
	if err != nil {
		return 0, err
	}
	e.scale = next
	e.reset()
	return next, nil
}

// ConfirmInput parses a user-entered length and confirms it
func (e *Engine) ConfirmInput(input string) (float64, error) {
	length, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: length %q is not a number", ErrCalibrationInput, input)
	}
	return e.Confirm(length)
}

func (e *Engine) reset() {
	e.state = Idle
	e.first, e.second = Pick{}, Pick{}
}

// NewScale derives the scale at which a pair measured as distance under scale
// old is exactly length apart. The measurement is first taken back to unscaled
// model units, so repeated calibrations do not compound.
func NewScale(old, distance, length float64) (float64, error) {
	if math.IsNaN(length) || math.IsInf(length, 0) || length <= 0 {
		return 0, fmt.Errorf("%w: length must be a positive number, got %v", ErrCalibrationInput, length)
	}
	if !validScale(old) {
		return 0, fmt.Errorf("%w: current scale %v is not positive", ErrCalibrationInput, old)
	}
	if distance == 0 || math.IsNaN(distance) || math.IsInf(distance, 0) {
		return 0, fmt.Errorf("%w: picked points coincide", ErrCalibrationInput)
	}

	next := length / (distance / old)
	if !validScale(next) {
		return 0, fmt.Errorf("%w: resulting scale %v is out of range", ErrCalibrationInput, next)
	}
	return next, nil
}

func validScale(k float64) bool {
	return k > 0 && !math.IsInf(k, 0) && !math.IsNaN(k)
}
