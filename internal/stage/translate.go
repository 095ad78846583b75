package stage

import (
	"slices"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/x11stage/internal/platform"
)

// translate applies one X event to the window and returns the stage event it
// produces, if any.
func (w *Window) translate(ev xgb.Event) (platform.Event, bool) {
	switch e := ev.(type) {
	case xproto.ConfigureNotifyEvent:
		w.handleConfigure(e)

	case xproto.PropertyNotifyEvent:
		w.handlePropertyNotify(e)

	case xproto.FocusInEvent:
		if !w.IsActivated() {
			w.updateState(0, platform.StateActivated)
		}

	case xproto.FocusOutEvent:
		if w.IsActivated() {
			w.updateState(platform.StateActivated, 0)
		}

	case xproto.ExposeEvent:
		w.actor.QueueRedraw(&platform.Rect{
			X:      int(e.X),
			Y:      int(e.Y),
			Width:  int(e.Width),
			Height: int(e.Height),
		})

	case xproto.DestroyNotifyEvent:
		return platform.Event{Type: platform.EventDestroyNotify, Stage: w.actor}, true

	case xproto.ClientMessageEvent:
		if w.handleProtocolMessage(e) == outcomeDelete {
			return platform.Event{Type: platform.EventDelete, Stage: w.actor}, true
		}
	}

	return platform.Event{}, false
}

func (w *Window) handleConfigure(e xproto.ConfigureNotifyEvent) {
	width, height := int(e.Width), int(e.Height)

	// While fullscreen the tracked size keeps the windowed geometry, so
	// every notification counts as a change.
	sizeChanged := false
	if w.IsFullscreen() {
		sizeChanged = true
	} else if width != w.width || height != w.height {
		sizeChanged = true
		w.width = width
		w.height = height
	}

	w.actor.SetSize(width, height)

	if !sizeChanged {
		return
	}

	// Clipped redraws race with the server moving old contents during a
	// resize; redraw the whole stage until resizing settles.
	w.coolOff.restart()

	// SetSize is a no-op when this notification answers our own request,
	// so relayout explicitly. Moves do not get here.
	w.actor.QueueRelayout()
	w.actor.EnsureViewport()

	if w.legacyView != nil {
		w.legacyView.Layout = platform.Rect{Width: width, Height: height}
	}
}

func (w *Window) handlePropertyNotify(e xproto.PropertyNotifyEvent) {
	if e.Window != w.xwin {
		return
	}
	stateAtom, err := w.backend.conn.Atom(atomNetWMState)
	if err != nil || e.Atom != stateAtom {
		return
	}

	// A deleted property carries no states. A read failure on a new
	// value leaves the confirmed state alone.
	var states []string
	if e.State != xproto.PropertyDelete {
		states, err = w.backend.conn.WMState(w.xwin)
		if err != nil {
			return
		}
	}

	fullscreen := slices.Contains(states, atomFullscreen)
	if fullscreen == w.IsFullscreen() {
		return
	}
	if fullscreen {
		w.updateState(0, platform.StateFullscreen)
	} else {
		w.updateState(platform.StateFullscreen, 0)
	}
}

// updateState changes the confirmed flags and reports them to the actor.
func (w *Window) updateState(unset, set platform.StageState) {
	next := (w.confirmed | set) &^ unset
	if next == w.confirmed {
		return
	}
	w.confirmed = next
	w.actor.UpdateState(unset, set)
}
