package model

import (
	"fmt"
	"strings"
)

// Kind identifies the shape of a primitive
type Kind int

const (
	Box Kind = iota
	Cylinder
	Pyramid
	Sphere
)

var kindNames = [...]string{
	Box:      "BOX",
	Cylinder: "CYLINDER",
	Pyramid:  "PYRAMID",
	Sphere:   "SPHERE",
}

// Kinds lists every supported kind in declaration order
func Kinds() []Kind {
	return []Kind{Box, Cylinder, Pyramid, Sphere}
}

// Valid reports whether k is one of the declared kinds
func (k Kind) Valid() bool {
	return k >= Box && k <= Sphere
}

// String returns the upper-case kind name, e.g. "CYLINDER"
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("KIND(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind parses a kind name case-insensitively
func ParseKind(s string) (Kind, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown primitive type %q", s)
}
