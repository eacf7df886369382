// Package inference is the boundary to whatever turns reference images into
// primitives. Generators return a validated Model or one of the typed errors below.
package inference

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/philipparndt/primforge/pkg/model"
)

var (
	// ErrEmptyResponse means the generator produced no payload at all
	ErrEmptyResponse = errors.New("empty inference response")
	// ErrMalformedData means the payload does not match the primitive schema
	ErrMalformedData = errors.New("malformed inference data")
)

// LevelOfDetail caps how many primitives a generator may return
type LevelOfDetail string

const (
	LevelLow    LevelOfDetail = "low"
	LevelMedium LevelOfDetail = "medium"
	LevelHigh   LevelOfDetail = "high"
)

// ParseLevelOfDetail parses low, medium or high. An empty string is medium.
func ParseLevelOfDetail(s string) (LevelOfDetail, error) {
	switch l := LevelOfDetail(strings.ToLower(strings.TrimSpace(s))); l {
	case "":
		return LevelMedium, nil
	case LevelLow, LevelMedium, LevelHigh:
		return l, nil
	}
	return "", fmt.Errorf("unknown level of detail %q (use low, medium or high)", s)
}

// MaxPrimitives returns the primitive budget of the level
func (l LevelOfDetail) MaxPrimitives() int {
	switch l {
	case LevelLow:
		return 8
	case LevelHigh:
		return 32
	default:
		return 16
	}
}

// Request describes one generation call
type Request struct {
	Images          [][]byte
	MaxPrimitives   int
	ReferenceLength float64
	Unit            model.Unit
}

// Generator produces a model from a request
type Generator interface {
	Generate(ctx context.Context, req Request) (*model.Model, error)
}

var fence = regexp.MustCompile("^```\\w*\\n?")

// Decode parses a generator payload into a model in the given unit. The
// payload may be wrapped in a markdown code fence or surrounded by prose, and
// may be a full model document or a bare array of primitives.
func Decode(payload string, unit model.Unit) (*model.Model, error) {
	body := strings.TrimSpace(payload)
	if strings.HasPrefix(body, "```") {
		body = fence.ReplaceAllString(body, "")
		body = strings.TrimSpace(strings.TrimSuffix(body, "```"))
	}
	if body == "" {
		return nil, ErrEmptyResponse
	}

	body, err := extractJSON(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedData, err)
	}
	if strings.HasPrefix(body, "[") {
		body = `{"primitives":` + body + `}`
	}

	m, err := model.DecodeJSON([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedData, err)
	}
	if unit != "" {
		m.Unit = unit
	}
	if m.GeneratedAt.IsZero() {
		m.GeneratedAt = time.Now().UTC()
	}
	return m, nil
}

// extractJSON returns the first balanced JSON object or array in s
func extractJSON(s string) (string, error) {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return "", errors.New("no JSON object in response")
	}
	open := s[start]
	closing := byte('}')
	if open == '[' {
		closing = ']'
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == open:
			depth++
		case c == closing:
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", errors.New("unbalanced JSON brackets")
}

// Limit drops primitives beyond max, keeping order. max <= 0 means no limit.
func Limit(m *model.Model, max int) *model.Model {
	if max > 0 && len(m.Primitives) > max {
		m.Primitives = m.Primitives[:max]
	}
	return m
}
