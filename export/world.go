package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io/ioutil"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	// WorldZone is the ID of the world map zone (one cell per parasang).
	WorldZone = "JoppaWorld"

	// parasangs are split into 3x3 zones
	zonesPerParasang = 3
)

// ZoneID returns the ID of the zone at parasang (wx, wy), zone (px, py)
// within it and depth z.
func ZoneID(wx, wy, px, py, z int) string {
	return fmt.Sprintf("%s.%d.%d.%d.%d.%d", WorldZone, wx, wy, px, py, z)
}

// WorldOptions selects which zones ExportWorld writes.
type WorldOptions struct {
	// in parasangs
	Columns int

	// parasang rows to export
	Rows []int

	// depth, 10 is the surface
	Depth int
}

// DefaultWorldOptions returns options for the whole surface of an 80x25
// parasang world.
func DefaultWorldOptions() *WorldOptions {
	rows := make([]int, 25)
	for i := range rows {
		rows[i] = i
	}
	return &WorldOptions{Columns: 80, Rows: rows, Depth: 10}
}

// WritePNG encodes `im` to `fpath`, returning the number of bytes written.
func WritePNG(fpath string, im image.Image) (int, error) {
	buff := new(bytes.Buffer)
	err := png.Encode(buff, im)
	if err != nil {
		return 0, err
	}
	return buff.Len(), ioutil.WriteFile(fpath, buff.Bytes(), 0644)
}

// ExportZone renders `z` and writes it as a png to `fpath`.
func (r *Renderer) ExportZone(z Zone, fpath string) error {
	start := time.Now()

	im, err := r.Render(z)
	if err != nil {
		return err
	}

	n, err := WritePNG(fpath, im)
	if err != nil {
		return fmt.Errorf("writing zone %s: %w", z.ID(), err)
	}

	slog.Info("wrote zone",
		"zone", z.ID(),
		"path", fpath,
		"size", humanize.Bytes(uint64(n)),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// ExportWorld writes the world map zone to {dir}/world.png plus every zone
// of the selected parasang rows to {dir}/{zone id}.png.
func (r *Renderer) ExportWorld(w World, dir string, opts *WorldOptions) error {
	if opts == nil {
		opts = DefaultWorldOptions()
	}

	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	z, err := w.Zone(WorldZone)
	if err != nil {
		return err
	}
	err = r.ExportZone(z, filepath.Join(dir, "world.png"))
	if err != nil {
		return err
	}

	start := time.Now()
	count := 0
	for _, wy := range opts.Rows {
		for wx := 0; wx < opts.Columns; wx++ {
			for px := 0; px < zonesPerParasang; px++ {
				for py := 0; py < zonesPerParasang; py++ {
					id := ZoneID(wx, wy, px, py, opts.Depth)

					z, err := w.Zone(id)
					if err != nil {
						return err
					}

					err = r.ExportZone(z, filepath.Join(dir, id+".png"))
					if err != nil {
						return err
					}
					count++
				}
			}
		}
	}

	slog.Info("wrote world", "dir", dir, "zones", count, "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}
