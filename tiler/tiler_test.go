package tiler

import (
	"context"
	"image"
	"image/color"
	"io/fs"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidshard/qudmap"
)

type memZones map[string]image.Image

func (m memZones) Zone(id string) (image.Image, error) {
	im, ok := m[id]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return im, nil
}

// testGeometry is 2x1 parasangs of 4x2 pixel zones cut into 2x2 tiles
func testGeometry() Geometry {
	return Geometry{ZoneWidth: 4, ZoneHeight: 2, ZonesX: 6, ZonesY: 3, TileLength: 2, Depth: 10}
}

func zoneColor(zx, zy int) color.RGBA {
	return color.RGBA{R: uint8(10 * zx), G: uint8(10 * zy), B: 1, A: 0xff}
}

func testZones(g Geometry) memZones {
	zones := memZones{}
	for zy := 0; zy < g.ZonesY; zy++ {
		for zx := 0; zx < g.ZonesX; zx++ {
			im := image.NewRGBA(image.Rect(0, 0, g.ZoneWidth, g.ZoneHeight))
			for y := 0; y < g.ZoneHeight; y++ {
				for x := 0; x < g.ZoneWidth; x++ {
					im.SetRGBA(x, y, zoneColor(zx, zy))
				}
			}
			zones[g.ZoneID(zx, zy)] = im
		}
	}
	return zones
}

func tempDir(t *testing.T) (string, func()) {
	dir, err := ioutil.TempDir("", "tiler")
	require.Nil(t, err)
	return dir, func() { os.RemoveAll(dir) }
}

func TestGeometry(t *testing.T) {
	g := DefaultGeometry()
	require.Nil(t, g.Validate())

	cols, rows := g.Grid()
	assert.Equal(t, 512, cols)
	assert.Equal(t, 75, rows)

	assert.Equal(t, "JoppaWorld.0.0.0.0.10", g.ZoneForPixel(0, 0))
	assert.Equal(t, "JoppaWorld.1.0.0.0.10", g.ZoneForPixel(1280*3, 0))
	assert.Equal(t, "JoppaWorld.0.0.1.1.10", g.ZoneForPixel(1280, 600))

	g.TileLength = 7
	assert.NotNil(t, g.Validate())
}

func TestRect(t *testing.T) {
	g := testGeometry()
	tl := New(g, testZones(g))

	im, err := tl.Rect(image.Rect(3, 1, 6, 3))
	require.Nil(t, err)

	assert.Equal(t, image.Rect(0, 0, 3, 2), im.Bounds())
	assert.Equal(t, zoneColor(0, 0), im.RGBAAt(0, 0))
	assert.Equal(t, zoneColor(1, 0), im.RGBAAt(1, 0))
	assert.Equal(t, zoneColor(0, 1), im.RGBAAt(0, 1))
	assert.Equal(t, zoneColor(1, 1), im.RGBAAt(2, 1))
}

func TestRectMissingZone(t *testing.T) {
	g := testGeometry()
	zones := testZones(g)
	delete(zones, g.ZoneID(0, 0))
	tl := New(g, zones)

	_, err := tl.Rect(image.Rect(0, 0, 2, 2))
	assert.NotNil(t, err)

	tl.AllowMissing = true
	im, err := tl.Rect(image.Rect(0, 0, 2, 2))
	require.Nil(t, err)
	assert.Equal(t, uint8(0), im.RGBAAt(0, 0).A)
}

func TestRectWrongZoneSize(t *testing.T) {
	g := testGeometry()
	zones := testZones(g)
	zones[g.ZoneID(0, 0)] = image.NewRGBA(image.Rect(0, 0, 1, 1))

	_, err := New(g, zones).Rect(image.Rect(0, 0, 2, 2))
	assert.NotNil(t, err)
}

func TestLevels(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()

	idx, err := OpenIndex(filepath.Join(dir, "index.sqlite"))
	require.Nil(t, err)
	defer idx.Close()

	g := testGeometry()
	tl := New(g, testZones(g))
	tl.Index = idx
	tl.Workers = 3

	l0 := &qudmap.Level{ID: 0, Columns: 12, Rows: 3}
	l1 := &qudmap.Level{ID: 1, Columns: 6, Rows: 2}

	require.Nil(t, tl.Level0(context.Background(), l0, dir))

	n, err := idx.Count(0)
	require.Nil(t, err)
	assert.Equal(t, 36, n)

	rec, err := idx.Get(0, 5, 2)
	require.Nil(t, err)
	require.NotNil(t, rec)
	zone, _ := rec.Props.String("zone")
	assert.Equal(t, g.ZoneForPixel(10, 4), zone)

	im, err := decodeFile(filepath.Join(dir, l0.TileFile(5, 2)))
	require.Nil(t, err)
	r, gg, b, a := im.At(0, 0).RGBA()
	want := zoneColor(2, 2)
	assert.Equal(t, []uint32{uint32(want.R) * 0x101, uint32(want.G) * 0x101, uint32(want.B) * 0x101, 0xffff}, []uint32{r, gg, b, a})

	// removed tiles are rebuilt, present ones skipped
	require.Nil(t, os.Remove(filepath.Join(dir, l0.TileFile(1, 1))))
	require.Nil(t, tl.Level0(context.Background(), l0, dir))
	assert.True(t, fileExists(filepath.Join(dir, l0.TileFile(1, 1))))

	require.Nil(t, tl.Downsample(context.Background(), l0, l1, dir, 2))

	n, err = idx.Count(1)
	require.Nil(t, err)
	assert.Equal(t, 12, n)

	full, err := idx.Get(1, 0, 0)
	require.Nil(t, err)
	sources, _ := full.Props.Int("sources")
	assert.Equal(t, 4, sources)
	isEdge, ok := full.Props.Bool("edge")
	assert.True(t, ok)
	assert.False(t, isEdge)

	edge, err := idx.Get(1, 0, 1)
	require.Nil(t, err)
	sources, _ = edge.Props.Int("sources")
	assert.Equal(t, 2, sources)
	isEdge, _ = edge.Props.Bool("edge")
	assert.True(t, isEdge)

	im, err = decodeFile(filepath.Join(dir, l1.TileFile(0, 1)))
	require.Nil(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 2), im.Bounds())

	over, err := tl.Overview(l0, dir, 24, 6)
	require.Nil(t, err)
	assert.Equal(t, zoneColor(0, 0), over.RGBAAt(0, 0))
	assert.Equal(t, zoneColor(5, 2), over.RGBAAt(23, 5))
}

func TestLevelGridMismatch(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()

	g := testGeometry()
	tl := New(g, testZones(g))

	err := tl.Level0(context.Background(), &qudmap.Level{ID: 0, Columns: 11, Rows: 3}, dir)
	assert.NotNil(t, err)

	err = tl.Downsample(context.Background(), &qudmap.Level{ID: 0}, &qudmap.Level{ID: 1}, dir, 1)
	assert.NotNil(t, err)
}

func TestLevel0Cancelled(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()

	g := testGeometry()
	tl := New(g, testZones(g))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := tl.Level0(ctx, &qudmap.Level{ID: 0}, dir)
	assert.Equal(t, context.Canceled, err)
}

func TestLevel0Error(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()

	g := testGeometry()
	zones := testZones(g)
	delete(zones, g.ZoneID(3, 1))

	err := New(g, zones).Level0(context.Background(), &qudmap.Level{ID: 0}, dir)
	assert.NotNil(t, err)
}
