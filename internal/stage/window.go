package stage

import (
	"errors"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/rs/zerolog"

	"github.com/1broseidon/x11stage/internal/logger"
	"github.com/1broseidon/x11stage/internal/platform"
)

var (
	// ErrNotRealized is returned by operations that need the native window.
	ErrNotRealized = errors.New("stage window is not realized")
	// ErrAlreadyRealized is returned when realizing twice.
	ErrAlreadyRealized = errors.New("stage window is already realized")
)

// Initial size used before the actor or the X server says otherwise.
const (
	initialWidth  = 640
	initialHeight = 480
)

// Window is the X11 stage window backing one stage actor.
//
// All methods must be called from the event loop goroutine.
type Window struct {
	backend *Backend
	actor   platform.Actor
	log     *zerolog.Logger

	xwin xproto.Window

	// Last size confirmed by ConfigureNotify, or the buffered request before
	// realization. Kept at the pre-fullscreen size while fullscreen.
	width  int
	height int

	// Size requested before realization, applied once the window exists.
	pendingResize bool
	pendingWidth  int
	pendingHeight int

	mapped bool
	// Flags confirmed by the window manager. Only event translation
	// changes them.
	confirmed platform.StageState

	fullscreening       bool
	fullscreenOnRealize bool

	title         *string
	cursorVisible bool
	acceptFocus   bool

	coolOff coolOff

	onscreen     platform.Onscreen
	frameClosure platform.FrameClosure
	devices      platform.Subscription

	legacyView *platform.View
	views      []*platform.View
}

var _ platform.StageWindow = (*Window)(nil)

func newWindow(b *Backend, actor platform.Actor) *Window {
	return &Window{
		backend:       b,
		actor:         actor,
		log:           logger.WithComponent("stage-x11"),
		width:         initialWidth,
		height:        initialHeight,
		cursorVisible: true,
		acceptFocus:   true,
		coolOff: coolOff{
			scheduler: b.scheduler,
			interval:  b.opts.CoolOff,
		},
	}
}

// XWindow returns the native window, or 0 when unrealized.
func (w *Window) XWindow() xproto.Window {
	return w.xwin
}

// Actor returns the stage actor this window backs.
func (w *Window) Actor() platform.Actor {
	return w.actor
}

// Realized reports whether the native window exists.
func (w *Window) Realized() bool {
	return w.xwin != 0
}

// Mapped reports whether the window was last shown rather than hidden.
func (w *Window) Mapped() bool {
	return w.mapped
}

// IsFullscreen reports the fullscreen state confirmed by the window manager.
func (w *Window) IsFullscreen() bool {
	return w.confirmed.Has(platform.StateFullscreen)
}

// FullscreenRequested reports the application's fullscreen intent.
func (w *Window) FullscreenRequested() bool {
	return w.fullscreening
}

// IsActivated reports whether the window has input focus.
func (w *Window) IsActivated() bool {
	return w.confirmed.Has(platform.StateActivated)
}

// Title returns the current title, or nil.
func (w *Window) Title() *string {
	return w.title
}

// Geometry returns the stage geometry. While fullscreen is both requested
// and confirmed the monitor size is reported, since the tracked size keeps
// the windowed geometry.
func (w *Window) Geometry() platform.Rect {
	if w.xwin != 0 && w.fullscreening && w.IsFullscreen() {
		width, height := w.backend.conn.MonitorSize(w.xwin)
		return platform.Rect{Width: width, Height: height}
	}
	return platform.Rect{Width: w.width, Height: w.height}
}

// CanClipRedraws reports whether the stage may redraw only damaged regions.
// Clipped redraws are disabled while a resize cool-off is active.
func (w *Window) CanClipRedraws() bool {
	return !w.coolOff.active
}

// Views returns the single view covering the stage, creating it on first use.
func (w *Window) Views() []*platform.View {
	if w.legacyView == nil {
		w.legacyView = &platform.View{
			Layout:      w.Geometry(),
			Framebuffer: w.onscreen,
		}
		w.views = append(w.views, w.legacyView)
	}
	return w.views
}

// FrameCounter returns the presentation surface's frame counter.
func (w *Window) FrameCounter() int64 {
	if w.onscreen == nil {
		return 0
	}
	return w.onscreen.FrameCounter()
}

// logWrite records a failed best-effort request.
func (w *Window) logWrite(request string, err error) {
	if err == nil {
		return
	}
	w.log.Debug().
		Err(err).
		Uint32("xid", uint32(w.xwin)).
		Str("request", request).
		Msg("window manager request failed")
}
