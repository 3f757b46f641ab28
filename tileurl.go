package qudmap

import (
	"fmt"
	"regexp"
	"strconv"
)

// TileAddress is a tile as requested by the mapping library at zoom Z.
type TileAddress struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

func (a TileAddress) String() string {
	return fmt.Sprintf("%d/%d/%d", a.Z, a.X, a.Y)
}

// floorDiv divides rounding towards negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Normalize maps a requested tile to the coordinates of the level's native
// grid. Above the native zoom every native tile is reused for a 2^n x 2^n
// block of requested tiles.
func (l *Level) Normalize(a TileAddress) (x, y int) {
	shift := a.Z - l.NativeZoom
	if shift < 0 {
		shift = 0
	}
	if shift > 30 {
		shift = 30
	}

	norm := 1 << uint(shift)
	return floorDiv(a.X, norm), l.RowOffset + floorDiv(a.Y, norm)
}

// TileFile returns the file name of the native tile at grid (x, y).
func (l *Level) TileFile(x, y int) string {
	return fmt.Sprintf("tile_%d_%d_%d.%s", l.ID, x, y, l.ext())
}

// TileURL returns the URL the viewer fetches for a requested tile.
func (l *Level) TileURL(a TileAddress) string {
	x, y := l.Normalize(a)
	return "/tiles/" + l.TileFile(x, y)
}

func (l *Level) ext() string {
	if l.Ext == "" {
		return "png"
	}
	return l.Ext
}

var tileFileRe = regexp.MustCompile(`^tile_(\d+)_(-?\d+)_(-?\d+)\.([a-z0-9]+)$`)

// ParseTileFile reads a name produced by TileFile.
func ParseTileFile(name string) (level, x, y int, ext string, err error) {
	m := tileFileRe.FindStringSubmatch(name)
	if m == nil {
		return 0, 0, 0, "", fmt.Errorf("not a tile file name: %q", name)
	}

	nums := [3]int{}
	for i := range nums {
		nums[i], err = strconv.Atoi(m[i+1])
		if err != nil {
			return 0, 0, 0, "", err
		}
	}
	return nums[0], nums[1], nums[2], m[4], nil
}
