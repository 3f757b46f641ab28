package qudmap

import "fmt"

// Point is a location in some Space's pixel coordinates.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

// Space is one pixel representation of the whole map, eg. the world overlay
// image or the tile grid of a resolution level.
type Space struct {
	Name   string `json:"name" yaml:"name"`
	Width  int    `json:"width" yaml:"width"`   // in pixels
	Height int    `json:"height" yaml:"height"` // in pixels
}

// Valid returns if both dimensions are positive.
func (s Space) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

// Center returns the midpoint of the space.
func (s Space) Center() Point {
	return Point{X: float64(s.Width) / 2, Y: float64(s.Height) / 2}
}

// sameGrid returns if two spaces describe the same pixel rectangle.
// Names are ignored; two levels may share one coordinate system.
func (s Space) sameGrid(o Space) bool {
	return s.Width == o.Width && s.Height == o.Height
}

// MapPoint converts `p` from `from` pixel coordinates to `to` pixel coordinates,
// preserving the fractional offset along each axis independently.
//
// There is no clamping. Invalid spaces, or two spaces with the same
// dimensions, return `p` unchanged.
func MapPoint(p Point, from, to Space) Point {
	if !from.Valid() || !to.Valid() || from.sameGrid(to) {
		return p
	}

	fracX := p.X / float64(from.Width)
	fracY := p.Y / float64(from.Height)

	return Point{
		X: fracX * float64(to.Width),
		Y: fracY * float64(to.Height),
	}
}
