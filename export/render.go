package export

import (
	"fmt"
	"image"
	"image/color"
)

// Renderer composites zones into images, one fixed size pixel block per cell.
type Renderer struct {
	// in pixels
	CellWidth  int
	CellHeight int

	Palette *Palette

	// drawn where a sprite pixel is fully transparent
	Base color.RGBA

	Sprites Sprites

	// held for the whole composition pass, may be nil
	Suppressor Suppressor
}

// NewRenderer returns a renderer for 16x24 Caves of Qud glyphs.
func NewRenderer(sprites Sprites, s Suppressor) *Renderer {
	base, _ := ParseHex("041312")
	return &Renderer{
		CellWidth:  16,
		CellHeight: 24,
		Palette:    DefaultPalette(),
		Base:       base,
		Sprites:    sprites,
		Suppressor: s,
	}
}

// Render composites every cell of `z` into a new image of
// (width * CellWidth) x (height * CellHeight) pixels.
// Cells without a sprite are left fully transparent.
func (r *Renderer) Render(z Zone) (*image.RGBA, error) {
	if r.Sprites == nil {
		return nil, fmt.Errorf("renderer has no sprites")
	}
	if r.CellWidth <= 0 || r.CellHeight <= 0 {
		return nil, fmt.Errorf("invalid cell size %dx%d", r.CellWidth, r.CellHeight)
	}

	if r.Suppressor != nil {
		release := r.Suppressor.Suppress(JournalMessages)
		defer release()
	}

	width, height := z.Size()
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("zone %s has invalid size %dx%d", z.ID(), width, height)
	}

	out := image.NewRGBA(image.Rect(0, 0, width*r.CellWidth, height*r.CellHeight))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g := z.Glyph(x, y)
			if g.Tile == "" {
				continue
			}

			sprite, err := r.Sprites.Sprite(g.Tile)
			if err != nil {
				return nil, fmt.Errorf("zone %s cell (%d,%d): %w", z.ID(), x, y, err)
			}
			if sprite == nil {
				continue
			}

			r.drawCell(out, x*r.CellWidth, y*r.CellHeight, sprite, g)
		}
	}

	return out, nil
}

// drawCell colors one cell block with origin (ox, oy).
// Sprites are two-tone masks: dark pixels take the foreground color, light
// pixels the detail color and transparent ones the base color.
func (r *Renderer) drawCell(out *image.RGBA, ox, oy int, sprite image.Image, g Glyph) {
	fg := r.Palette.Color(g.Foreground)
	detail := r.Palette.Color(g.Detail)

	b := sprite.Bounds()
	sw, sh := b.Dx(), b.Dy()
	if sw <= 0 || sh <= 0 {
		return
	}

	for l := 0; l < r.CellHeight; l++ {
		for k := 0; k < r.CellWidth; k++ {
			sx, sy := k, l
			if g.HFlip {
				sx = r.CellWidth - 1 - k
			}
			if g.VFlip {
				sy = r.CellHeight - 1 - l
			}

			// sprites of another size are sampled nearest-neighbour
			px := sprite.At(b.Min.X+sx*sw/r.CellWidth, b.Min.Y+sy*sh/r.CellHeight)
			n := color.NRGBAModel.Convert(px).(color.NRGBA)

			var c color.RGBA
			switch {
			case n.A == 0:
				c = r.Base
			case n.R < 0x80:
				c = fg
			default:
				c = detail
			}
			out.SetRGBA(ox+k, oy+l, c)
		}
	}
}
