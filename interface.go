package qudmap

// ViewState represents something driven by the mapping library's zoom
// events. Mapper is the implementation used by this package.
type ViewState interface {
	// ZoomStart is called once when a zoom gesture begins.
	ZoomStart(v Viewport)

	// ZoomEnd is called once when the gesture settles.
	ZoomEnd(v Viewport) Transition

	// Viewport returns the current view.
	Viewport() Viewport
}

var _ ViewState = (*Mapper)(nil)
