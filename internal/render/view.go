package render

import "image"

// view carries the attachment and overlay-control state shared by the
// plan and template views.
type view struct {
	detached    bool
	controlsOff bool
	layoutFn    func(controls bool) (Layout, error)
}

// Attached reports whether the view is still mounted. A detached view
// cannot be exported.
func (v *view) Attached() bool { return !v.detached }

func (v *view) Detach() { v.detached = true }

// Size returns the laid-out size in logical pixels, or zero when detached
// or when layout fails.
func (v *view) Size() (int, int) {
	if v.detached {
		return 0, 0
	}
	l, err := v.Layout()
	if err != nil {
		return 0, 0
	}
	return l.Width, l.Height
}

func (v *view) ControlsVisible() bool { return !v.controlsOff }
func (v *view) HideControls() { v.controlsOff = true }
func (v *view) ShowControls() { v.controlsOff = false }

func (v *view) Layout() (Layout, error) {
	return v.layoutFn(!v.controlsOff)
}

// Rasterize paints the current layout at scale.
func (v *view) Rasterize(scale int) (*image.RGBA, error) {
	l, err := v.Layout()
	if err != nil {
		return nil, err
	}
	return Rasterize(l, scale)
}

// RasterizeBand paints the logical rows [y0, y1) of the current layout.
func (v *view) RasterizeBand(scale, y0, y1 int) (*image.RGBA, error) {
	l, err := v.Layout()
	if err != nil {
		return nil, err
	}
	return RasterizeBand(l, scale, y0, y1)
}
