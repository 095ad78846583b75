package stage

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/x11stage/internal/platform"
	"github.com/1broseidon/x11stage/internal/x11"
)

// Realize allocates the presentation surface sized to the actor, registers
// the native window and initializes its window-manager properties. A
// failure to allocate the surface is fatal.
func (w *Window) Realize() error {
	if w.xwin != 0 {
		return ErrAlreadyRealized
	}

	b := w.backend
	width, height := w.actor.Size()

	onscreen, err := b.presenter.Allocate(width, height)
	if err != nil {
		w.log.Error().Err(err).Int("width", width).Int("height", height).Msg("failed to allocate stage")
		b.opts.Fatal(err)
		return fmt.Errorf("failed to allocate stage: %w", err)
	}

	w.onscreen = onscreen
	w.frameClosure = onscreen.AddFrameCallback(func(event platform.FrameEvent, info platform.FrameInfo) {
		w.actor.Presented(event, info)
	})
	if w.legacyView != nil {
		w.legacyView.Framebuffer = onscreen
	}

	// The window is created at the actor's size.
	w.width = width
	w.height = height
	w.xwin = xproto.Window(onscreen.XWindow())

	// Register before selecting events so the first notification resolves.
	b.registry.Register(w.xwin, w)

	w.stampMetadata()
	w.applyTitle()
	w.applyCursor()

	b.conn.Watch(w.xwin, b.dispatch)
	w.logWrite("SelectInput", b.conn.SelectInput(w.xwin, x11.StageEventMask))

	if devices := b.opts.Devices; devices != nil {
		devices.SelectStageEvents(w.actor)
		w.devices = devices.OnDeviceAdded(func(device platform.InputDevice) {
			if device.Floating {
				devices.SelectStageEvents(w.actor)
			}
		})
	}

	// A size requested before realization goes through the same path as
	// Resize on a live window.
	if w.pendingResize && !w.fullscreening {
		w.applySizeConstraints(w.pendingWidth, w.pendingHeight)
		if w.pendingWidth != w.width || w.pendingHeight != w.height {
			w.logWrite("ConfigureWindow", b.conn.ResizeWindow(w.xwin, w.pendingWidth, w.pendingHeight))
		}
	} else {
		w.applySizeConstraints(w.width, w.height)
	}
	w.pendingResize = false
	w.advertiseProtocols()

	if w.fullscreenOnRealize {
		w.fullscreenOnRealize = false
		w.SetFullscreen(true)
	}

	w.log.Debug().Uint32("xid", uint32(w.xwin)).Int("width", width).Int("height", height).Msg("stage realized")
	return nil
}

// Unrealize releases the native window and everything tied to it.
func (w *Window) Unrealize() {
	if w.xwin == 0 {
		return
	}

	b := w.backend
	xid := w.xwin

	b.registry.Unregister(xid)
	b.conn.Unwatch(xid)

	// Do not leave the presenter drawing into a released surface.
	if current := b.presenter.DrawFramebuffer(); current != nil && current == w.onscreen {
		b.presenter.ResetFramebuffer()
	}

	if w.frameClosure != 0 {
		w.onscreen.RemoveFrameCallback(w.frameClosure)
		w.frameClosure = 0
	}

	w.coolOff.cancel()

	if w.devices != nil {
		w.devices.Cancel()
		w.devices = nil
	}

	w.views = nil
	w.legacyView = nil

	w.onscreen.Release()
	w.onscreen = nil

	w.xwin = 0
	w.mapped = false

	// The next native window starts without any window manager
	// confirmation; fullscreen intent is re-requested on realize.
	w.updateState(platform.StateFullscreen|platform.StateActivated, 0)
	w.fullscreenOnRealize = w.fullscreening

	w.log.Debug().Uint32("xid", uint32(xid)).Msg("stage unrealized")
}

// Show maps the window, raising it first when raise is set.
func (w *Window) Show(raise bool) error {
	if w.xwin == 0 {
		return ErrNotRealized
	}

	conn := w.backend.conn
	if raise {
		w.logWrite("RaiseWindow", conn.RaiseWindow(w.xwin))
	}

	if w.mapped {
		return nil
	}

	w.mapped = true
	w.updateWMHints()
	// Fullscreen may have been requested while hidden.
	w.SetFullscreen(w.fullscreening)

	w.actor.Map()
	w.logWrite("MapWindow", conn.MapWindow(w.xwin))
	return nil
}

// Hide withdraws the window.
func (w *Window) Hide() error {
	if w.xwin == 0 {
		return ErrNotRealized
	}

	if !w.mapped {
		return nil
	}

	w.mapped = false
	w.actor.Unmap()
	w.logWrite("WithdrawWindow", w.backend.conn.WithdrawWindow(w.xwin))
	return nil
}
