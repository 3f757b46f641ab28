package qudmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapPoint(t *testing.T) {
	world := Space{Name: "world", Width: 1280, Height: 600}
	tiled := Space{Name: "tiled", Width: 8192, Height: 1200}

	p := MapPoint(Point{X: 640, Y: 300}, world, tiled)

	assert.InDelta(t, 4096, p.X, 1e-9)
	assert.InDelta(t, 600, p.Y, 1e-9)
}

func TestMapPointRoundTrip(t *testing.T) {
	spaces := []Space{
		{Width: 1280, Height: 600},
		{Width: 8192, Height: 1200},
		{Width: 4096, Height: 608},
		{Width: 3, Height: 7},
	}
	points := []Point{
		{0, 0}, {1, 1}, {0.5, 0.25}, {2.999, 6.999}, {3, 7},
	}

	for _, a := range spaces {
		for _, b := range spaces {
			for _, p := range points {
				back := MapPoint(MapPoint(p, a, b), b, a)
				assert.InDelta(t, p.X, back.X, 1e-9, "%v via %v", a, b)
				assert.InDelta(t, p.Y, back.Y, 1e-9, "%v via %v", a, b)
			}
		}
	}
}

func TestMapPointNoop(t *testing.T) {
	p := Point{X: 12, Y: 34}
	good := Space{Width: 100, Height: 100}

	cases := []struct {
		name     string
		from, to Space
	}{
		{"same space", good, good},
		{"zero width from", Space{Width: 0, Height: 10}, good},
		{"negative height to", good, Space{Width: 10, Height: -1}},
		{"empty", Space{}, Space{}},
	}

	for _, c := range cases {
		assert.Equal(t, p, MapPoint(p, c.from, c.to), c.name)
	}
}

func TestMapPointNoClamp(t *testing.T) {
	p := MapPoint(Point{X: -10, Y: 200}, Space{Width: 100, Height: 100}, Space{Width: 200, Height: 50})

	assert.InDelta(t, -20, p.X, 1e-9)
	assert.InDelta(t, 100, p.Y, 1e-9)
}
