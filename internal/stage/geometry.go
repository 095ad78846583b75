package stage

import "github.com/1broseidon/x11stage/internal/x11"

// sizeHints derives WM_NORMAL_HINTS for a target size. Non-positive targets
// fall back to the actor's minimum size.
func (w *Window) sizeHints(width, height int) x11.SizeHints {
	minWidth, minHeight := w.actor.MinSize()
	if width <= 0 {
		width = minWidth
	}
	if height <= 0 {
		height = minHeight
	}

	// The window manager owns the geometry while going fullscreen and
	// must not be held back by min/max constraints.
	if w.fullscreening {
		return x11.SizeHints{}
	}

	if w.actor.UserResizable() {
		return x11.SizeHints{
			HasMin:    true,
			MinWidth:  minWidth,
			MinHeight: minHeight,
		}
	}

	return x11.SizeHints{
		HasMin:    true,
		MinWidth:  width,
		MinHeight: height,
		HasMax:    true,
		MaxWidth:  width,
		MaxHeight: height,
	}
}

// applySizeConstraints pushes size hints for the target size.
func (w *Window) applySizeConstraints(width, height int) {
	if w.xwin == 0 {
		return
	}
	w.logWrite("WM_NORMAL_HINTS", w.backend.conn.SetNormalHints(w.xwin, w.sizeHints(width, height)))
}

// Resize requests a new window size. The tracked size only changes when the
// X server confirms it with a ConfigureNotify.
func (w *Window) Resize(width, height int) {
	if w.fullscreening {
		return
	}

	if width < 1 || height < 1 {
		w.log.Warn().
			Int("width", width).
			Int("height", height).
			Msg("X11 stage not allowed to have 0 width or height")
		if width < 1 {
			width = 1
		}
		if height < 1 {
			height = 1
		}
	}

	if w.xwin == 0 {
		w.width = width
		w.height = height
		w.pendingResize = true
		w.pendingWidth = width
		w.pendingHeight = height
		return
	}

	w.applySizeConstraints(width, height)

	if width != w.width || height != w.height {
		w.logWrite("ConfigureWindow", w.backend.conn.ResizeWindow(w.xwin, width, height))
	}
}

// SetUserResizable re-derives the size hints; resizability is read from the
// actor.
func (w *Window) SetUserResizable(bool) {
	w.applySizeConstraints(w.width, w.height)
}
