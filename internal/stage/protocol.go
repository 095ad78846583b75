package stage

import (
	"os"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/x11stage/internal/x11"
)

const (
	atomWMProtocols    = "WM_PROTOCOLS"
	atomWMDeleteWindow = "WM_DELETE_WINDOW"
	atomNetWMPing      = "_NET_WM_PING"
	atomNetWMState     = "_NET_WM_STATE"
	atomNetWMName      = "_NET_WM_NAME"
	atomFullscreen     = "_NET_WM_STATE_FULLSCREEN"
)

type protocolOutcome int

const (
	outcomeIgnored protocolOutcome = iota
	outcomeDelete
	outcomePing
)

// SetFullscreen records the fullscreen intent and asks the window manager
// for it. The confirmed state only changes when _NET_WM_STATE is reported
// back through a PropertyNotify.
func (w *Window) SetFullscreen(fullscreen bool) {
	if fullscreen == w.IsFullscreen() && fullscreen == w.fullscreening {
		return
	}

	w.fullscreening = fullscreen

	if w.xwin == 0 {
		w.fullscreenOnRealize = fullscreen
		return
	}

	conn := w.backend.conn
	if fullscreen {
		if !w.mapped {
			// Before mapping the window manager reads the property
			// as the initial state.
			w.logWrite(atomNetWMState, conn.SetWMState(w.xwin, []string{atomFullscreen}))
			return
		}
		// Drop min/max hints first, otherwise the window manager may
		// honour them and refuse to fullscreen.
		w.applySizeConstraints(-1, -1)
		w.logWrite(atomNetWMState, conn.SendWMState(w.xwin, x11.StateAdd, atomFullscreen))
		return
	}

	if !w.mapped {
		w.logWrite(atomNetWMState, conn.DeleteProperty(w.xwin, atomNetWMState))
		return
	}
	w.logWrite(atomNetWMState, conn.SendWMState(w.xwin, x11.StateRemove, atomFullscreen))
	w.applySizeConstraints(w.width, w.height)
}

// advertiseProtocols declares WM_DELETE_WINDOW and _NET_WM_PING support.
func (w *Window) advertiseProtocols() {
	w.logWrite(atomWMProtocols, w.backend.conn.SetWMProtocols(w.xwin, []string{atomWMDeleteWindow, atomNetWMPing}))
}

// handleProtocolMessage interprets a WM_PROTOCOLS client message.
func (w *Window) handleProtocolMessage(ev xproto.ClientMessageEvent) protocolOutcome {
	if ev.Window != w.xwin || ev.Format != 32 || len(ev.Data.Data32) < 2 {
		return outcomeIgnored
	}

	conn := w.backend.conn
	protocols, err := conn.Atom(atomWMProtocols)
	if err != nil || ev.Type != protocols {
		return outcomeIgnored
	}

	protocol := xproto.Atom(ev.Data.Data32[0])
	if deleteWindow, err := conn.Atom(atomWMDeleteWindow); err == nil && protocol == deleteWindow {
		w.SetUserTime(ev.Data.Data32[1])
		return outcomeDelete
	}
	if ping, err := conn.Atom(atomNetWMPing); err == nil && protocol == ping {
		w.logWrite(atomNetWMPing, conn.ForwardToRoot(ev))
		return outcomePing
	}
	return outcomeIgnored
}

// SetUserTime records the time of the last user interaction with the stage.
// CurrentTime is not a real timestamp and is skipped.
func (w *Window) SetUserTime(timestamp uint32) {
	if w.xwin == 0 || timestamp == xproto.TimeCurrentTime {
		return
	}
	w.logWrite("_NET_WM_USER_TIME", w.backend.conn.SetUserTime(w.xwin, timestamp))
}

// SetTitle stores a copy of title and writes it; nil clears the title.
func (w *Window) SetTitle(title *string) {
	if title == nil {
		w.title = nil
	} else {
		t := *title
		w.title = &t
	}
	w.applyTitle()
}

func (w *Window) applyTitle() {
	if w.xwin == 0 {
		return
	}
	if w.title == nil {
		w.logWrite(atomNetWMName, w.backend.conn.DeleteProperty(w.xwin, atomNetWMName))
		return
	}
	w.logWrite(atomNetWMName, w.backend.conn.SetName(w.xwin, *w.title))
}

// SetCursorVisible shows or hides the pointer over the stage.
func (w *Window) SetCursorVisible(visible bool) {
	w.cursorVisible = visible
	w.applyCursor()
}

func (w *Window) applyCursor() {
	if w.xwin == 0 {
		return
	}
	if w.cursorVisible {
		w.logWrite("ShowCursor", w.backend.conn.ShowCursor(w.xwin))
		return
	}
	w.logWrite("HideCursor", w.backend.conn.HideCursor(w.xwin))
}

// SetAcceptFocus sets the WM_HINTS input hint.
func (w *Window) SetAcceptFocus(accept bool) {
	w.acceptFocus = accept
	w.updateWMHints()
}

// updateWMHints writes WM_HINTS; withdrawn windows are left alone until shown.
func (w *Window) updateWMHints() {
	if w.xwin == 0 || !w.mapped {
		return
	}
	w.logWrite("WM_HINTS", w.backend.conn.SetWMHints(w.xwin, w.acceptFocus))
}

// stampMetadata writes WM_CLIENT_MACHINE and _NET_WM_PID.
func (w *Window) stampMetadata() {
	conn := w.backend.conn
	if host, err := os.Hostname(); err == nil {
		w.logWrite("WM_CLIENT_MACHINE", conn.SetClientMachine(w.xwin, host))
	}
	w.logWrite("_NET_WM_PID", conn.SetPid(w.xwin, uint(os.Getpid())))
}
