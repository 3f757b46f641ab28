package export

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
)

// Dump is a zone as written by the in-game helper: every cell's glyph in
// row-major order.
type Dump struct {
	ZoneID string  `json:"id"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Cells  []Glyph `json:"cells"`

	// Journal entries revealed when the cell they sit on is rendered.
	Journal []JournalNote `json:"journal,omitempty"`

	// set by the owning DumpDir (if any)
	messages *MessageLog
}

// JournalNote is a journal entry attached to a cell.
type JournalNote struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Text string `json:"text"`
}

// ID of the zone.
func (d *Dump) ID() string {
	return d.ZoneID
}

// Size in cells.
func (d *Dump) Size() (int, int) {
	return d.Width, d.Height
}

// Glyph of the cell at (x, y). Cells outside the dump render as nothing.
// Rendering a cell holding journal notes displays them to the message log.
func (d *Dump) Glyph(x, y int) Glyph {
	if x < 0 || y < 0 || x >= d.Width || y >= d.Height {
		return Glyph{}
	}

	if d.messages != nil {
		for _, n := range d.Journal {
			if n.X == x && n.Y == y {
				d.messages.Display(n.Text)
			}
		}
	}

	index := y*d.Width + x
	if index >= len(d.Cells) {
		return Glyph{}
	}
	return d.Cells[index]
}

// Validate checks the cells cover the zone.
func (d *Dump) Validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("zone %s has invalid size %dx%d", d.ZoneID, d.Width, d.Height)
	}
	if len(d.Cells) != d.Width*d.Height {
		return fmt.Errorf("zone %s has %d cells, expected %d", d.ZoneID, len(d.Cells), d.Width*d.Height)
	}
	return nil
}

// NewDump snapshots any zone.
func NewDump(z Zone) *Dump {
	w, h := z.Size()
	d := &Dump{ZoneID: z.ID(), Width: w, Height: h, Cells: make([]Glyph, 0, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d.Cells = append(d.Cells, z.Glyph(x, y))
		}
	}
	return d
}

// ReadDump reads a dump file.
func ReadDump(fname string) (*Dump, error) {
	data, err := ioutil.ReadFile(fname)
	if err != nil {
		return nil, err
	}

	d := &Dump{}
	if err := json.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", fname, err)
	}
	return d, d.Validate()
}

// WriteFile writes the dump as JSON.
func (d *Dump) WriteFile(fname string) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(fname, data, 0644)
}

// DumpDir is a World of dump files named {id}.json under a directory.
type DumpDir struct {
	Root string

	// receives journal messages revealed while rendering, may be nil
	Messages *MessageLog
}

// Zone reads the dump for `id`.
func (d *DumpDir) Zone(id string) (Zone, error) {
	fname := filepath.Join(d.Root, id+".json")
	if _, err := os.Stat(fname); err != nil {
		return nil, fmt.Errorf("zone %s: %w", id, err)
	}

	dump, err := ReadDump(fname)
	if err != nil {
		return nil, err
	}
	dump.messages = d.Messages
	return dump, nil
}
