// Package export composites zones of rendered game cells into images.
//
// The game engine itself is out of reach: a Zone is anything that can report
// the glyph each of its cells renders to, eg. a JSON dump written by an
// in-game helper (see Dump).
package export

import (
	"fmt"
	"image"
)

// ColorCode is a single character Caves of Qud color, eg. 'g' or 'Y'.
type ColorCode byte

// MarshalText writes the code as a one character string.
func (c ColorCode) MarshalText() ([]byte, error) {
	if c == 0 {
		return []byte{}, nil
	}
	return []byte{byte(c)}, nil
}

// UnmarshalText reads a one character string (or nothing).
func (c *ColorCode) UnmarshalText(b []byte) error {
	switch len(b) {
	case 0:
		*c = 0
	case 1:
		*c = ColorCode(b[0])
	default:
		return fmt.Errorf("color code must be one character, got %q", string(b))
	}
	return nil
}

// Glyph is what a single cell renders to.
type Glyph struct {
	// Tile is the sprite name, empty for a cell with nothing to draw.
	Tile       string    `json:"tile"`
	Foreground ColorCode `json:"fg"`
	Detail     ColorCode `json:"detail"`
	HFlip      bool      `json:"hflip,omitempty"`
	VFlip      bool      `json:"vflip,omitempty"`
}

// Zone is a rectangular grid of cells.
type Zone interface {
	ID() string

	// in cells
	Size() (width, height int)

	// Glyph returns the rendering of the cell at (x, y), 0,0 top left.
	Glyph(x, y int) Glyph
}

// Sprites looks up glyph sprites by name.
type Sprites interface {
	// Sprite returns the named sprite. A nil image with no error means the
	// sprite doesn't exist.
	Sprite(name string) (image.Image, error)
}

// World returns zones by their ID.
type World interface {
	Zone(id string) (Zone, error)
}
