package export

import (
	"errors"
	"image"
	"image/color"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSprite is transparent apart from a dark pixel at (0,0) & a light one at (1,0)
func testSprite() image.Image {
	im := image.NewRGBA(image.Rect(0, 0, 16, 24))
	im.Set(0, 0, color.RGBA{A: 0xff})
	im.Set(1, 0, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	return im
}

type errSprites struct{}

func (errSprites) Sprite(string) (image.Image, error) {
	return nil, errors.New("broken")
}

// watchZone records if journal messages were suppressed while rendering
type watchZone struct {
	*Dump
	s    Suppressor
	seen bool
}

func (w *watchZone) Glyph(x, y int) Glyph {
	w.seen = w.s.Suppressed(JournalMessages)
	return w.Dump.Glyph(x, y)
}

func newTestDump(id string) *Dump {
	return &Dump{
		ZoneID: id,
		Width:  3,
		Height: 1,
		Cells: []Glyph{
			{Tile: "a", Foreground: 'g', Detail: 'Y'},
			{Tile: "a", Foreground: 'g', Detail: 'Y', HFlip: true, VFlip: true},
			{},
		},
	}
}

func TestRender(t *testing.T) {
	r := NewRenderer(MemSprites{"a": testSprite()}, nil)
	pal := DefaultPalette()

	im, err := r.Render(newTestDump("z"))
	require.Nil(t, err)

	assert.Equal(t, image.Rect(0, 0, 48, 24), im.Bounds())

	// first cell: unflipped
	assert.Equal(t, pal.Color('g'), im.RGBAAt(0, 0))
	assert.Equal(t, pal.Color('Y'), im.RGBAAt(1, 0))
	assert.Equal(t, r.Base, im.RGBAAt(2, 0))
	assert.Equal(t, r.Base, im.RGBAAt(15, 23))

	// second cell: both flips mirror the sprite
	assert.Equal(t, pal.Color('g'), im.RGBAAt(16+15, 23))
	assert.Equal(t, pal.Color('Y'), im.RGBAAt(16+14, 23))
	assert.Equal(t, r.Base, im.RGBAAt(16, 0))

	// third cell has no sprite
	assert.Equal(t, color.RGBA{}, im.RGBAAt(32, 0))
	assert.Equal(t, color.RGBA{}, im.RGBAAt(47, 23))
}

func TestRenderTranslucentSprite(t *testing.T) {
	im := image.NewNRGBA(image.Rect(0, 0, 16, 24))
	im.SetNRGBA(0, 0, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x40})
	im.SetNRGBA(1, 0, color.NRGBA{R: 0x20, G: 0x20, B: 0x20, A: 0x40})

	r := NewRenderer(MemSprites{"a": im}, nil)
	pal := DefaultPalette()

	out, err := r.Render(&Dump{ZoneID: "z", Width: 1, Height: 1, Cells: []Glyph{{Tile: "a", Foreground: 'g', Detail: 'Y'}}})
	require.Nil(t, err)

	// red is judged before alpha is applied
	assert.Equal(t, pal.Color('Y'), out.RGBAAt(0, 0))
	assert.Equal(t, pal.Color('g'), out.RGBAAt(1, 0))
	assert.Equal(t, r.Base, out.RGBAAt(2, 0))
}

func TestRenderMissingSprite(t *testing.T) {
	r := NewRenderer(MemSprites{}, nil)

	im, err := r.Render(newTestDump("z"))
	require.Nil(t, err)
	assert.Equal(t, uint8(0), im.RGBAAt(0, 0).A)
}

func TestRenderSuppression(t *testing.T) {
	s := NewSuppressions()
	r := NewRenderer(MemSprites{"a": testSprite()}, s)
	z := &watchZone{Dump: newTestDump("z"), s: s}

	_, err := r.Render(z)
	require.Nil(t, err)

	assert.True(t, z.seen)
	assert.False(t, s.Suppressed(JournalMessages))
}

func TestRenderSuppressionReleasedOnError(t *testing.T) {
	s := NewSuppressions()
	r := NewRenderer(errSprites{}, s)

	_, err := r.Render(newTestDump("z"))
	assert.NotNil(t, err)
	assert.False(t, s.Suppressed(JournalMessages))
}

func TestRenderInvalid(t *testing.T) {
	r := NewRenderer(nil, nil)
	_, err := r.Render(newTestDump("z"))
	assert.NotNil(t, err)

	r = NewRenderer(MemSprites{}, nil)
	r.CellWidth = 0
	_, err = r.Render(newTestDump("z"))
	assert.NotNil(t, err)
}

func TestSuppressionsNested(t *testing.T) {
	s := NewSuppressions()

	outer := s.Suppress("x")
	inner := s.Suppress("x")
	inner()
	inner()
	assert.True(t, s.Suppressed("x"))

	outer()
	assert.False(t, s.Suppressed("x"))
	assert.False(t, s.Suppressed("y"))
}

func TestPalette(t *testing.T) {
	p := DefaultPalette()

	c, err := ParseHex("#041312")
	require.Nil(t, err)
	assert.Equal(t, color.RGBA{R: 0x04, G: 0x13, B: 0x12, A: 0xff}, c)

	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, p.Color('Y'))
	assert.Equal(t, p.Color('y'), p.Color('?'))

	_, err = ParseHex("12")
	assert.NotNil(t, err)
	_, err = ParseHex("zzzzzz")
	assert.NotNil(t, err)
}

func TestSpriteDir(t *testing.T) {
	dir, err := ioutil.TempDir("", "sprites")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	require.Nil(t, os.MkdirAll(filepath.Join(dir, "Terrain"), 0755))
	_, err = WritePNG(filepath.Join(dir, "Terrain", "grass.png"), testSprite())
	require.Nil(t, err)

	s, err := NewSpriteDir(dir, 4)
	require.Nil(t, err)

	im, err := s.Sprite("Terrain/grass.bmp")
	require.Nil(t, err)
	require.NotNil(t, im)
	assert.Equal(t, 16, im.Bounds().Dx())

	im, err = s.Sprite("Terrain/nothing.bmp")
	assert.Nil(t, err)
	assert.Nil(t, im)
}
