package tiler

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/nfnt/resize"
	"golang.org/x/sync/errgroup"

	"github.com/voidshard/qudmap"
	"github.com/voidshard/qudmap/export"
)

// Tiler writes tile levels for a map.
type Tiler struct {
	Geometry Geometry
	Zones    ZoneImages

	// records written tiles, may be nil
	Index *Index

	// how many tiles are built at once
	Workers int

	// rewrite tiles that already exist (default: skip them)
	Overwrite bool

	// leave zones with no image transparent rather than failing
	AllowMissing bool

	logger *slog.Logger
}

// New returns a tiler reading zones from `zones`.
func New(g Geometry, zones ZoneImages) *Tiler {
	return &Tiler{
		Geometry: g,
		Zones:    zones,
		Workers:  runtime.NumCPU(),
		logger:   slog.With("d", "tiler"),
	}
}

// Rect assembles the map pixels in `r` from the zones overlapping it.
func (t *Tiler) Rect(r image.Rectangle) (*image.RGBA, error) {
	g := t.Geometry
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))

	r = r.Intersect(g.Bounds())
	if r.Empty() {
		return out, nil
	}

	zx0, zy0 := g.ZoneAt(r.Min.X, r.Min.Y)
	zx1, zy1 := g.ZoneAt(r.Max.X-1, r.Max.Y-1)

	for zy := zy0; zy <= zy1; zy++ {
		for zx := zx0; zx <= zx1; zx++ {
			id := g.ZoneID(zx, zy)
			zone, err := t.Zones.Zone(id)
			if errors.Is(err, fs.ErrNotExist) && t.AllowMissing {
				continue
			}
			if err != nil {
				return nil, err
			}

			zb := zone.Bounds()
			if zb.Dx() != g.ZoneWidth || zb.Dy() != g.ZoneHeight {
				return nil, fmt.Errorf("zone %s is %dx%d, expected %dx%d", id, zb.Dx(), zb.Dy(), g.ZoneWidth, g.ZoneHeight)
			}

			// where this zone sits on the map, clipped to the request
			zrect := image.Rect(zx*g.ZoneWidth, zy*g.ZoneHeight, (zx+1)*g.ZoneWidth, (zy+1)*g.ZoneHeight)
			clip := zrect.Intersect(r)

			dst := clip.Sub(r.Min)
			src := zb.Min.Add(clip.Min.Sub(zrect.Min))
			draw.Draw(out, dst, zone, src, draw.Src)
		}
	}

	return out, nil
}

// Level0 cuts the full resolution level `lvl` into `dir`.
func (t *Tiler) Level0(ctx context.Context, lvl *qudmap.Level, dir string) error {
	if err := t.Geometry.Validate(); err != nil {
		return err
	}

	cols, rows := t.Geometry.Grid()
	if err := checkGrid(lvl, cols, rows); err != nil {
		return err
	}

	return t.each(ctx, lvl, dir, cols, rows, func(x, y int) (image.Image, *Properties, error) {
		im, err := t.Rect(t.Geometry.TileRect(x, y))
		if err != nil {
			return nil, nil, err
		}

		props := NewProperties()
		props.SetString("zone", t.Geometry.ZoneForPixel(x*t.Geometry.TileLength, y*t.Geometry.TileLength))
		return im, props, nil
	})
}

// Downsample builds level `dst` out of level `src` already written to
// `dir`: each `factor` x `factor` block of source tiles is merged and
// shrunk to one tile. Blocks running off the source grid are left
// transparent and recorded with the "edge" property.
func (t *Tiler) Downsample(ctx context.Context, src, dst *qudmap.Level, dir string, factor int) error {
	if factor < 2 {
		return fmt.Errorf("downsample factor must be at least 2, got %d", factor)
	}

	srcCols, srcRows := src.Columns, src.Rows
	if srcCols <= 0 || srcRows <= 0 {
		srcCols, srcRows = t.Geometry.Grid()
	}
	cols := (srcCols + factor - 1) / factor
	rows := (srcRows + factor - 1) / factor
	if err := checkGrid(dst, cols, rows); err != nil {
		return err
	}

	length := uint(t.Geometry.TileLength)
	return t.each(ctx, dst, dir, cols, rows, func(x, y int) (image.Image, *Properties, error) {
		block := image.NewRGBA(image.Rect(0, 0, factor*t.Geometry.TileLength, factor*t.Geometry.TileLength))

		found := 0
		for dy := 0; dy < factor; dy++ {
			for dx := 0; dx < factor; dx++ {
				sx, sy := x*factor+dx, y*factor+dy
				if sx >= srcCols || sy >= srcRows {
					continue
				}

				im, err := decodeFile(filepath.Join(dir, src.TileFile(sx, sy)))
				if errors.Is(err, fs.ErrNotExist) && t.AllowMissing {
					continue
				}
				if err != nil {
					return nil, nil, err
				}

				at := image.Pt(dx*t.Geometry.TileLength, dy*t.Geometry.TileLength)
				draw.Draw(block, im.Bounds().Sub(im.Bounds().Min).Add(at), im, im.Bounds().Min, draw.Src)
				found++
			}
		}

		props := NewProperties()
		props.SetInt("sources", found)
		props.SetInt("factor", factor)
		props.SetBool("edge", (x+1)*factor > srcCols || (y+1)*factor > srcRows)
		return resize.Resize(length, length, block, resize.Bilinear), props, nil
	})
}

// Overview shrinks every tile of `lvl` into one width x height image, eg. to
// stand in for the world overlay.
func (t *Tiler) Overview(lvl *qudmap.Level, dir string, width, height int) (*image.RGBA, error) {
	cols, rows := lvl.Columns, lvl.Rows
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("level %d has no grid size", lvl.ID)
	}

	out := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			im, err := decodeFile(filepath.Join(dir, lvl.TileFile(x, y)))
			if errors.Is(err, fs.ErrNotExist) && t.AllowMissing {
				continue
			}
			if err != nil {
				return nil, err
			}

			r := image.Rect(x*width/cols, y*height/rows, (x+1)*width/cols, (y+1)*height/rows)
			if r.Empty() {
				continue
			}
			small := resize.Resize(uint(r.Dx()), uint(r.Dy()), im, resize.NearestNeighbor)
			draw.Draw(out, r, small, small.Bounds().Min, draw.Src)
		}
	}
	return out, nil
}

func checkGrid(lvl *qudmap.Level, cols, rows int) error {
	if lvl.Columns > 0 && lvl.Columns != cols {
		return fmt.Errorf("level %d declares %d columns, map has %d", lvl.ID, lvl.Columns, cols)
	}
	if lvl.Rows > 0 && lvl.Rows != rows {
		return fmt.Errorf("level %d declares %d rows, map has %d", lvl.ID, lvl.Rows, rows)
	}
	return nil
}

type buildFunc func(x, y int) (image.Image, *Properties, error)

// each builds & writes every tile of a cols x rows grid over a bounded
// set of workers. The first error stops the run.
func (t *Tiler) each(ctx context.Context, lvl *qudmap.Level, dir string, cols, rows int, build buildFunc) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	workers := t.Workers
	if workers <= 0 {
		workers = 1
	}

	logger := t.logger
	if logger == nil {
		logger = slog.Default()
	}

	start := time.Now()
	var written, skipped int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for y := 0; y < rows && gctx.Err() == nil; y++ {
		for x := 0; x < cols && gctx.Err() == nil; x++ {
			x, y := x, y
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}

				fname := filepath.Join(dir, lvl.TileFile(x, y))
				skip, err := t.exists(lvl, x, y, fname)
				if err != nil {
					return err
				}
				if skip {
					atomic.AddInt64(&skipped, 1)
					return nil
				}

				im, props, err := build(x, y)
				if err != nil {
					return fmt.Errorf("tile %s: %w", lvl.TileFile(x, y), err)
				}

				if _, err := export.WritePNG(fname, im); err != nil {
					return err
				}
				atomic.AddInt64(&written, 1)

				if t.Index == nil {
					return nil
				}
				return t.Index.Put(&Record{Level: lvl.ID, X: x, Y: y, Path: fname, Props: props})
			})
		}
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	logger.Info("tile level done",
		"level", lvl.ID,
		"grid", fmt.Sprintf("%dx%d", cols, rows),
		"written", written,
		"skipped", skipped,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return err
}

// exists returns if a tile should be skipped because it was already written.
func (t *Tiler) exists(lvl *qudmap.Level, x, y int, fname string) (bool, error) {
	if t.Overwrite {
		return false, nil
	}
	if t.Index != nil {
		ok, err := t.Index.Has(lvl.ID, x, y)
		if err != nil || !ok {
			return false, err
		}
	}
	return fileExists(fname), nil
}
