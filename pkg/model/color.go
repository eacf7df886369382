package model

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidColor is returned by ParseColor for anything other than "#rrggbb"
var ErrInvalidColor = errors.New("invalid color")

// Color is a 24-bit RGB color
type Color struct {
	R, G, B uint8
}

// DefaultColor replaces colors that cannot be parsed
var DefaultColor = Color{R: 128, G: 128, B: 128}

// ParseColor parses a 7-character "#rrggbb" string
func ParseColor(s string) (Color, error) {
	if len(s) != 7 || s[0] != '#' {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// ColorOrDefault parses s and falls back to DefaultColor
func ColorOrDefault(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		return DefaultColor
	}
	return c
}

// Hex returns the "#rrggbb" form
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RGB24 packs the color as 0xRRGGBB
func (c Color) RGB24() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}
