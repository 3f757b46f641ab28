package qudmap

import (
	"math"
)

// Transition is the outcome of one settled zoom gesture.
type Transition struct {
	Viewport Viewport `json:"viewport"`

	// Active is the index into View.Stages() now shown; 0 is the overlay.
	Active int `json:"active"`

	// Pixelated reports if nearest-neighbour scaling applies at this zoom.
	Pixelated bool `json:"pixelated"`

	// Switched is set when Active changed. The viewport was then moved
	// (without animation) to the reprojected center.
	Switched bool `json:"switched"`
}

// Viewport is the current view of the map.
type Viewport struct {
	Center Point   `json:"center" yaml:"center"`
	Zoom   float64 `json:"zoom" yaml:"zoom"`
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// OnZoomTransitionEnd decides what the view should look like after a zoom
// gesture settles.
//
// `start` is the viewport captured when the gesture began, `end` the viewport
// after it settled and `active` the stage shown during the gesture. When the
// settled zoom belongs to another stage the *start* center is carried through
// each pair of adjacent stages between the two (see MapPoint) and the
// boundary shifts of every fine level crossed are applied.
//
// Malformed input is a no-op: `end` is returned with `active` unchanged.
func OnZoomTransitionEnd(view *View, start, end Viewport, active int) Transition {
	out := Transition{Viewport: end, Active: active}
	if view == nil {
		return out
	}

	stages := view.Stages()
	if !finite(end.Zoom) || active < 0 || active >= len(stages) {
		// no usable zoom: keep the look of the stage still shown; the overlay is only shown below the layer switch, where rendering is pixelated
		out.Pixelated = active == 0
		return out
	}
	out.Pixelated = view.Thresholds.Pixelated(end.Zoom)

	if view.MaxZoom > view.MinZoom && (end.Zoom < view.MinZoom || end.Zoom > view.MaxZoom) {
		return out
	}

	target := view.StageAt(end.Zoom)
	if target == active {
		return out
	}

	center := start.Center
	if !finite(center.X) || !finite(center.Y) {
		center = end.Center
	}

	out.Viewport = Viewport{Center: reproject(stages, center, active, target), Zoom: end.Zoom}
	out.Active = target
	out.Switched = true
	return out
}

// reproject walks `p` from stage `from` to stage `to` one neighbour at a time.
func reproject(stages []Stage, p Point, from, to int) Point {
	for i := from; i < to; i++ {
		next := stages[i+1]
		p = MapPoint(p, stages[i].Space, next.Space)
		if i+1 >= 2 && next.Level != nil {
			p.Y += next.Level.EnterShift * float64(next.Space.Height)
		}
	}
	for i := from; i > to; i-- {
		cur := stages[i]
		if i >= 2 && cur.Level != nil {
			p.Y += cur.Level.LeaveShift * float64(cur.Space.Height)
		}
		p = MapPoint(p, cur.Space, stages[i-1].Space)
	}
	return p
}

// Mapper holds the view state of one map session and keeps the displayed
// location stable when zooming moves the view between stages.
//
// It is driven by two events from the mapping library: ZoomStart when a
// gesture begins and ZoomEnd once it settles. Intermediate animation frames
// must not be fed to it.
type Mapper struct {
	view   *View
	stages []Stage

	viewport  Viewport
	active    int
	pixelated bool

	// captured by ZoomStart, consumed by ZoomEnd
	start *Viewport
}

// NewMapper returns a mapper centered on the overlay at the view's min zoom.
func NewMapper(view *View) (*Mapper, error) {
	if err := view.Validate(); err != nil {
		return nil, err
	}

	m := &Mapper{
		view:     view,
		stages:   view.Stages(),
		viewport: Viewport{Center: view.Overlay.Center(), Zoom: view.MinZoom},
	}

	t := OnZoomTransitionEnd(view, m.viewport, m.viewport, 0)
	m.apply(t)
	return m, nil
}

// ZoomStart records the viewport as it was before the gesture. Calling it
// again before ZoomEnd replaces the previous capture.
func (m *Mapper) ZoomStart(v Viewport) {
	m.start = &v
}

// ZoomEnd settles a gesture given the viewport the mapping library ended
// up at. Without a preceding ZoomStart `v` is used as the start as well.
func (m *Mapper) ZoomEnd(v Viewport) Transition {
	start := v
	if m.start != nil {
		start = *m.start
		m.start = nil
	}

	t := OnZoomTransitionEnd(m.view, start, v, m.active)
	m.apply(t)
	return t
}

// Pan moves the view center (eg. dragging) without changing stage.
func (m *Mapper) Pan(p Point) {
	m.viewport.Center = p
}

func (m *Mapper) apply(t Transition) {
	m.viewport = t.Viewport
	m.active = t.Active
	m.pixelated = t.Pixelated
}

// Viewport returns the current view.
func (m *Mapper) Viewport() Viewport {
	return m.viewport
}

// Active returns the stage currently shown.
func (m *Mapper) Active() Stage {
	return m.stages[m.active]
}

// ActiveIndex returns the index of the stage currently shown.
func (m *Mapper) ActiveIndex() int {
	return m.active
}

// OverlayShown returns if the world overlay is the active background.
func (m *Mapper) OverlayShown() bool {
	return m.active == 0
}

// Pixelated returns if nearest-neighbour scaling is in effect.
func (m *Mapper) Pixelated() bool {
	return m.pixelated
}
