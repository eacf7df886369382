package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/philipparndt/primforge/pkg/geometry"
	"github.com/titanous/json5"
	"gopkg.in/yaml.v3"
)

// DocumentVersion is written into every saved model document
const DocumentVersion = "1.0"

// ErrInvalidDocument marks a model document that does not match the schema
var ErrInvalidDocument = errors.New("invalid model document")

// Document is the on-disk representation of a Model
type Document struct {
	Version     string          `json:"version" yaml:"version"`
	Unit        string          `json:"unit,omitempty" yaml:"unit,omitempty"`
	GeneratedAt string          `json:"generatedAt,omitempty" yaml:"generatedAt,omitempty"`
	Primitives  []PrimitiveData `json:"primitives" yaml:"primitives"`
}

// PrimitiveData is the serialized form of a Primitive
type PrimitiveData struct {
	Type     *string   `json:"type" yaml:"type"`
	Position []float64 `json:"position" yaml:"position"`
	Rotation []float64 `json:"rotation,omitempty" yaml:"rotation,omitempty"`
	Scale    []float64 `json:"scale" yaml:"scale"`
	Color    string    `json:"color,omitempty" yaml:"color,omitempty"`
}

// DecodeJSON parses a JSON or JSON5 model document
func DecodeJSON(data []byte) (*Model, error) {
	var doc Document
	if err := json5.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return doc.Model()
}

// DecodeYAML parses a YAML model document
func DecodeYAML(data []byte) (*Model, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return doc.Model()
}

// LoadFile reads a model document, choosing the decoder by file extension
func LoadFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	case ".json", ".json5", "":
		return DecodeJSON(data)
	default:
		return nil, fmt.Errorf("unsupported model file type: %s (expected .json, .json5, .yaml or .yml)", filepath.Ext(path))
	}
}

// SaveFile writes the model as YAML for .yaml/.yml paths and as indented JSON otherwise
func SaveFile(path string, m *Model) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(NewDocument(m))
	default:
		data, err = json.MarshalIndent(NewDocument(m), "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write model: %w", err)
	}
	return nil
}

// NewDocument converts a model into its serialized form
func NewDocument(m *Model) Document {
	doc := Document{
		Version:    DocumentVersion,
		Unit:       m.Unit.String(),
		Primitives: make([]PrimitiveData, 0, len(m.Primitives)),
	}
	if !m.GeneratedAt.IsZero() {
		doc.GeneratedAt = m.GeneratedAt.Format(time.RFC3339)
	}
	for _, p := range m.Primitives {
		kind := strings.ToLower(p.Kind.String())
		pos, rot, scale := p.Position.Array(), p.Rotation.Array(), p.Scale.Array()
		doc.Primitives = append(doc.Primitives, PrimitiveData{
			Type:     &kind,
			Position: pos[:],
			Rotation: rot[:],
			Scale:    scale[:],
			Color:    p.Color.Hex(),
		})
	}
	return doc
}

// Model validates the document and converts it into a Model
func (d Document) Model() (*Model, error) {
	if d.Primitives == nil {
		return nil, fmt.Errorf("%w: missing primitives array", ErrInvalidDocument)
	}

	unit := DefaultUnit
	if d.Unit != "" {
		u, err := ParseUnit(d.Unit)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		unit = u
	}

	m := &Model{
		Unit:       unit,
		Primitives: make([]Primitive, 0, len(d.Primitives)),
	}
	if d.GeneratedAt != "" {
		// The timestamp is an identity key only; an unreadable one is dropped.
		if ts, err := time.Parse(time.RFC3339, d.GeneratedAt); err == nil {
			m.GeneratedAt = ts
		}
	}

	for i, pd := range d.Primitives {
		p, err := pd.primitive()
		if err != nil {
			return nil, fmt.Errorf("%w: primitive %d: %v", ErrInvalidDocument, i+1, err)
		}
		m.Primitives = append(m.Primitives, p)
	}
	return m, nil
}

func (pd PrimitiveData) primitive() (Primitive, error) {
	if pd.Type == nil {
		return Primitive{}, fmt.Errorf("missing type")
	}
	kind, err := ParseKind(*pd.Type)
	if err != nil {
		return Primitive{}, err
	}

	position, err := vector("position", pd.Position, true)
	if err != nil {
		return Primitive{}, err
	}
	rotation, err := vector("rotation", pd.Rotation, false)
	if err != nil {
		return Primitive{}, err
	}
	scale, err := vector("scale", pd.Scale, true)
	if err != nil {
		return Primitive{}, err
	}
	if scale.X < 0 || scale.Y < 0 || scale.Z < 0 {
		return Primitive{}, fmt.Errorf("negative scale %v", scale)
	}

	return Primitive{
		Kind:     kind,
		Position: position,
		Rotation: rotation,
		Scale:    scale,
		Color:    ColorOrDefault(pd.Color),
	}, nil
}

func vector(name string, values []float64, required bool) (geometry.Vector3, error) {
	if values == nil {
		if required {
			return geometry.Vector3{}, fmt.Errorf("missing %s", name)
		}
		return geometry.Vector3{}, nil
	}
	if len(values) != 3 {
		return geometry.Vector3{}, fmt.Errorf("%s must have 3 components, got %d", name, len(values))
	}
	for _, c := range values {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return geometry.Vector3{}, fmt.Errorf("%s has a non-finite component %v", name, c)
		}
	}
	return geometry.NewVector3(values[0], values[1], values[2]), nil
}
