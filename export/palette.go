package export

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Palette maps color codes to colors.
type Palette struct {
	colors map[ColorCode]color.RGBA

	// used for unknown codes
	fallback ColorCode
}

var qudColors = map[ColorCode]string{
	'r': "a64a2e",
	'R': "d74200",
	'o': "f15f22",
	'O': "e99f10",
	'w': "98875f",
	'W': "cfc041",
	'g': "009403",
	'G': "00c420",
	'b': "0048bd",
	'B': "0096ff",
	'c': "40a4b9",
	'C': "77bfcf",
	'm': "b154cf",
	'M': "da5bd6",
	'k': "0f3b3a",
	'K': "155352",
	'y': "b1c9c3",
	'Y': "ffffff",
}

// DefaultPalette returns the Caves of Qud color table.
func DefaultPalette() *Palette {
	p := &Palette{colors: map[ColorCode]color.RGBA{}, fallback: 'y'}
	for code, hex := range qudColors {
		c, _ := ParseHex(hex)
		p.colors[code] = c
	}
	return p
}

// Set (or replace) the color of a code.
func (p *Palette) Set(code ColorCode, c color.RGBA) {
	p.colors[code] = c
}

// Color returns the color for `code`, unknown codes get the fallback color.
func (p *Palette) Color(code ColorCode) color.RGBA {
	c, ok := p.colors[code]
	if ok {
		return c
	}
	return p.colors[p.fallback]
}

// ParseHex reads a web color ("041312" or "#041312").
func ParseHex(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}

	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
