// Package tiler cuts exported zone images into square tiles and builds
// coarser tile levels from them.
package tiler

import (
	"fmt"
	"image"

	"github.com/voidshard/qudmap/export"
)

// Geometry describes how zone images lay out into the whole map.
type Geometry struct {
	// in pixels
	ZoneWidth  int
	ZoneHeight int

	// in zones
	ZonesX int
	ZonesY int

	// height and width of each square tile in pixels.
	// Must divide the height and width of the map.
	TileLength int

	// zone depth (10 is the surface)
	Depth int
}

// DefaultGeometry returns the layout of the surface of a Caves of Qud world:
// 80x25 parasangs of 3x3 zones, each 80x25 cells of 16x24 pixels.
func DefaultGeometry() Geometry {
	return Geometry{
		ZoneWidth:  80 * 16,
		ZoneHeight: 25 * 24,
		ZonesX:     80 * 3,
		ZonesY:     25 * 3,
		TileLength: 600,
		Depth:      10,
	}
}

// Bounds returns the whole map in pixels.
func (g Geometry) Bounds() image.Rectangle {
	return image.Rect(0, 0, g.ZoneWidth*g.ZonesX, g.ZoneHeight*g.ZonesY)
}

// Validate checks the tile length divides the map.
func (g Geometry) Validate() error {
	if g.ZoneWidth <= 0 || g.ZoneHeight <= 0 || g.ZonesX <= 0 || g.ZonesY <= 0 || g.TileLength <= 0 {
		return fmt.Errorf("geometry has non-positive dimensions: %+v", g)
	}

	b := g.Bounds()
	if b.Dx()%g.TileLength != 0 {
		return fmt.Errorf("tile length %d must divide width of world map %d", g.TileLength, b.Dx())
	}
	if b.Dy()%g.TileLength != 0 {
		return fmt.Errorf("tile length %d must divide height of world map %d", g.TileLength, b.Dy())
	}
	return nil
}

// Grid returns how many tiles wide and high the map is.
func (g Geometry) Grid() (int, int) {
	b := g.Bounds()
	return b.Dx() / g.TileLength, b.Dy() / g.TileLength
}

// TileRect returns the pixels covered by grid tile (x, y).
func (g Geometry) TileRect(x, y int) image.Rectangle {
	return image.Rect(x*g.TileLength, y*g.TileLength, (x+1)*g.TileLength, (y+1)*g.TileLength)
}

// ZoneAt returns the zone column & row holding map pixel (x, y),
// (0, 0) being the top left of the map.
func (g Geometry) ZoneAt(x, y int) (int, int) {
	return x / g.ZoneWidth, y / g.ZoneHeight
}

// ZoneForPixel returns the ID of the zone holding map pixel (x, y).
func (g Geometry) ZoneForPixel(x, y int) string {
	zx, zy := g.ZoneAt(x, y)
	return g.ZoneID(zx, zy)
}

// ZoneID returns the ID of the zone at zone column & row (zx, zy).
func (g Geometry) ZoneID(zx, zy int) string {
	const per = 3 // zones per parasang side
	return export.ZoneID(zx/per, zy/per, zx%per, zy%per, g.Depth)
}
