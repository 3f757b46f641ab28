package qudmap

import (
	"fmt"
	"math"
)

// Thresholds are the zoom levels at which the viewer changes how it draws.
type Thresholds struct {
	// LayerSwitch is the zoom at (and above) which the tile grid replaces the
	// world overlay.
	LayerSwitch float64 `json:"layerSwitch" yaml:"layerSwitch"`

	// PixelatedRender is the zoom at (and above) which tiles are scaled with
	// nearest-neighbour. The overlay is always pixelated.
	PixelatedRender float64 `json:"pixelatedRender" yaml:"pixelatedRender"`
}

// Pixelated returns if nearest-neighbour scaling applies at `zoom`.
func (t Thresholds) Pixelated(zoom float64) bool {
	return zoom >= t.PixelatedRender || zoom < t.LayerSwitch
}

// Level is one tiled resolution of the map.
type Level struct {
	// ID is the resolution level used in tile file names.
	ID int `json:"id" yaml:"id"`

	// Space is the coordinate space the viewer uses while this level is shown.
	// Adjacent levels may share one space.
	Space Space `json:"space" yaml:"space"`

	// in tiles
	Columns int `json:"columns" yaml:"columns"`
	Rows    int `json:"rows" yaml:"rows"`

	// NativeZoom is the zoom the tile grid was generated for.
	NativeZoom int `json:"nativeZoom" yaml:"nativeZoom"`

	// RowOffset is added to every normalized row (the grid's vertical origin).
	RowOffset int `json:"rowOffset" yaml:"rowOffset"`

	// file extension of tile images, without the dot
	Ext string `json:"ext" yaml:"ext"`

	// EnterShift and LeaveShift are fractions of Space.Height added to the view
	// center's Y when zooming into this level from the coarser one and when
	// zooming back out of it. Only meaningful for levels after the first.
	EnterShift float64 `json:"enterShift" yaml:"enterShift"`
	LeaveShift float64 `json:"leaveShift" yaml:"leaveShift"`
}

// View is the full table the viewer is configured from.
type View struct {
	Overlay      Space      `json:"overlay" yaml:"overlay"`
	OverlayImage string     `json:"overlayImage" yaml:"overlayImage"`
	Thresholds   Thresholds `json:"thresholds" yaml:"thresholds"`

	// Levels ordered coarse -> fine.
	Levels []Level `json:"levels" yaml:"levels"`

	MinZoom float64 `json:"minZoom" yaml:"minZoom"`
	MaxZoom float64 `json:"maxZoom" yaml:"maxZoom"`

	Attribution string `json:"attribution" yaml:"attribution"`
}

// Stage is one entry of the chain of spaces the viewer moves through as it
// zooms in: the overlay first, then each level.
type Stage struct {
	Name  string
	Space Space

	// From is the lowest zoom this stage is active at.
	From float64

	// Level is nil for the overlay stage.
	Level *Level
}

// DefaultView returns the table for a Caves of Qud world map: an 80x25 cell
// overlay at 16x24 px per cell, a coarse tile level and a full resolution one.
func DefaultView() *View {
	tiled := Space{Name: "tiled", Width: 128 * 32, Height: 19 * 32}
	return &View{
		Overlay:      Space{Name: "world", Width: 80 * 16, Height: 25 * 24},
		OverlayImage: "worldmap/world.png",
		Thresholds: Thresholds{
			LayerSwitch:     3,
			PixelatedRender: 6,
		},
		Levels: []Level{
			{
				ID:         1,
				Space:      tiled,
				Columns:    128,
				Rows:       19,
				NativeZoom: 3,
				RowOffset:  19,
				Ext:        "png",
			},
			{
				ID:         0,
				Space:      tiled,
				Columns:    512,
				Rows:       75,
				NativeZoom: 5,
				RowOffset:  75,
				Ext:        "png",
				EnterShift: -1.0 / 75,
				LeaveShift: 1.0 / 76,
			},
		},
		MinZoom:     0,
		MaxZoom:     10,
		Attribution: `<a href="https://www.cavesofqud.com/">Caves of Qud</a>`,
	}
}

// Validate checks the table is usable by a Mapper.
func (v *View) Validate() error {
	if !v.Overlay.Valid() {
		return fmt.Errorf("overlay space %q has non-positive dimensions", v.Overlay.Name)
	}
	if len(v.Levels) == 0 {
		return fmt.Errorf("view requires at least one tile level")
	}
	if v.MaxZoom < v.MinZoom {
		return fmt.Errorf("max zoom %g below min zoom %g", v.MaxZoom, v.MinZoom)
	}

	prev := v.Thresholds.LayerSwitch
	for i, l := range v.Levels {
		if !l.Space.Valid() {
			return fmt.Errorf("level %d space has non-positive dimensions", l.ID)
		}
		if i > 0 && float64(l.NativeZoom) <= prev {
			return fmt.Errorf("level %d native zoom %d must be above %g", l.ID, l.NativeZoom, prev)
		}
		if i > 0 {
			prev = float64(l.NativeZoom)
		}
	}
	return nil
}

// Stages returns the overlay followed by every level, each with the zoom it
// becomes active at.
func (v *View) Stages() []Stage {
	stages := make([]Stage, 0, len(v.Levels)+1)
	stages = append(stages, Stage{
		Name:  v.Overlay.Name,
		Space: v.Overlay,
		From:  math.Inf(-1),
	})

	for i := range v.Levels {
		l := &v.Levels[i]
		from := float64(l.NativeZoom)
		if i == 0 {
			from = v.Thresholds.LayerSwitch
		}
		stages = append(stages, Stage{
			Name:  fmt.Sprintf("level-%d", l.ID),
			Space: l.Space,
			From:  from,
			Level: l,
		})
	}
	return stages
}

// StageAt returns the index of the stage active at `zoom`.
func (v *View) StageAt(zoom float64) int {
	stages := v.Stages()
	active := 0
	for i, s := range stages {
		if zoom >= s.From {
			active = i
		}
	}
	return active
}

// LevelFor returns the level whose tiles are drawn at `zoom`, or nil while
// the overlay is shown.
func (v *View) LevelFor(zoom float64) *Level {
	return v.Stages()[v.StageAt(zoom)].Level
}

// Level returns the level with the given ID.
func (v *View) Level(id int) (*Level, bool) {
	for i := range v.Levels {
		if v.Levels[i].ID == id {
			return &v.Levels[i], true
		}
	}
	return nil, false
}
