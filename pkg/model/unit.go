package model

import (
	"fmt"
	"strings"
)

// Unit labels the working unit of positions, scales and calibration lengths.
// No conversion is ever applied when the label changes.
type Unit string

const (
	Millimeter Unit = "mm"
	Centimeter Unit = "cm"
	Meter      Unit = "m"
	Inch       Unit = "in"
	Foot       Unit = "ft"
)

// DefaultUnit is used when a document does not name one
const DefaultUnit = Millimeter

var unitAliases = map[string]Unit{
	"mm": Millimeter, "millimeter": Millimeter, "millimeters": Millimeter, "milimetros": Millimeter,
	"cm": Centimeter, "centimeter": Centimeter, "centimeters": Centimeter, "centimetros": Centimeter,
	"m": Meter, "meter": Meter, "meters": Meter, "metros": Meter,
	"in": Inch, "inch": Inch, "inches": Inch, "pulgadas": Inch,
	"ft": Foot, "foot": Foot, "feet": Foot, "pies": Foot,
}

// ParseUnit accepts short and long unit names
func ParseUnit(s string) (Unit, error) {
	u, ok := unitAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown unit %q (expected mm, cm, m, in or ft)", s)
	}
	return u, nil
}

// String returns the short label
func (u Unit) String() string {
	return string(u)
}

// InsUnits returns the DXF $INSUNITS code for the unit
func (u Unit) InsUnits() int {
	switch u {
	case Inch:
		return 1
	case Foot:
		return 2
	case Millimeter:
		return 4
	case Centimeter:
		return 5
	case Meter:
		return 6
	default:
		return 0
	}
}
