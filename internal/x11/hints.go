package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/icccm"
)

// _NET_WM_STATE client message actions.
const (
	StateRemove uint32 = 0
	StateAdd    uint32 = 1
)

// StageEventMask is selected on every stage window regardless of whether the
// embedder retrieves events itself, so focus, mapping and geometry tracking
// never depend on the embedder's selection.
const StageEventMask = xproto.EventMaskStructureNotify |
	xproto.EventMaskFocusChange |
	xproto.EventMaskExposure |
	xproto.EventMaskPropertyChange |
	xproto.EventMaskEnterWindow |
	xproto.EventMaskLeaveWindow |
	xproto.EventMaskKeyPress |
	xproto.EventMaskKeyRelease |
	xproto.EventMaskButtonPress |
	xproto.EventMaskButtonRelease |
	xproto.EventMaskPointerMotion

// SizeHints is the subset of WM_NORMAL_HINTS a stage window writes.
type SizeHints struct {
	MinWidth  int
	MinHeight int
	MaxWidth  int
	MaxHeight int
	HasMin    bool
	HasMax    bool
}

// NormalHints converts h to the xgbutil property payload.
func (h SizeHints) NormalHints() *icccm.NormalHints {
	nh := &icccm.NormalHints{}
	if h.HasMin {
		nh.Flags |= icccm.SizeHintPMinSize
		nh.MinWidth = uint(h.MinWidth)
		nh.MinHeight = uint(h.MinHeight)
	}
	if h.HasMax {
		nh.Flags |= icccm.SizeHintPMaxSize
		nh.MaxWidth = uint(h.MaxWidth)
		nh.MaxHeight = uint(h.MaxHeight)
	}
	return nh
}

// StateMessage builds the _NET_WM_STATE request sent to the root window to
// add or remove a single state atom.
func StateMessage(win xproto.Window, messageType xproto.Atom, action uint32, state xproto.Atom) xproto.ClientMessageEvent {
	return xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   messageType,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{action, uint32(state), 0, 0, 0}),
	}
}

// Retarget returns a copy of ev addressed to win, leaving its payload intact.
func Retarget(ev xproto.ClientMessageEvent, win xproto.Window) xproto.ClientMessageEvent {
	ev.Window = win
	return ev
}
