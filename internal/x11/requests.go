package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
)

const rootMessageMask = xproto.EventMaskSubstructureRedirect | xproto.EventMaskSubstructureNotify

// SetNormalHints writes WM_NORMAL_HINTS.
func (c *Connection) SetNormalHints(win xproto.Window, hints SizeHints) error {
	return icccm.WmNormalHintsSet(c.XUtil, win, hints.NormalHints())
}

// SetWMHints writes WM_HINTS with a normal initial state and the input hint.
func (c *Connection) SetWMHints(win xproto.Window, acceptFocus bool) error {
	input := uint(0)
	if acceptFocus {
		input = 1
	}
	return icccm.WmHintsSet(c.XUtil, win, &icccm.Hints{
		Flags:        icccm.HintInput | icccm.HintState,
		Input:        input,
		InitialState: icccm.StateNormal,
	})
}

// SetWMState replaces _NET_WM_STATE directly. Only meaningful before the
// window is mapped, when the window manager reads it as the initial state.
func (c *Connection) SetWMState(win xproto.Window, states []string) error {
	return ewmh.WmStateSet(c.XUtil, win, states)
}

// WMState reads _NET_WM_STATE.
func (c *Connection) WMState(win xproto.Window) ([]string, error) {
	return ewmh.WmStateGet(c.XUtil, win)
}

// SendWMState asks the window manager to add or remove state on a mapped
// window. The message is built by hand so the payload is exactly
// (action, state, 0, 0, 0).
func (c *Connection) SendWMState(win xproto.Window, action uint32, state string) error {
	messageType, err := c.Atom("_NET_WM_STATE")
	if err != nil {
		return err
	}
	stateAtom, err := c.Atom(state)
	if err != nil {
		return err
	}

	ev := StateMessage(win, messageType, action, stateAtom)
	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		rootMessageMask,
		string(ev.Bytes()),
	).Check()
}

// ForwardToRoot resends a client message to the root window. Used to answer
// _NET_WM_PING.
func (c *Connection) ForwardToRoot(ev xproto.ClientMessageEvent) error {
	reply := Retarget(ev, c.Root)
	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		rootMessageMask,
		string(reply.Bytes()),
	).Check()
}

// DeleteProperty removes the named property from win.
func (c *Connection) DeleteProperty(win xproto.Window, name string) error {
	atom, err := c.Atom(name)
	if err != nil {
		return err
	}
	return xproto.DeletePropertyChecked(c.XUtil.Conn(), win, atom).Check()
}

// SetWMProtocols writes WM_PROTOCOLS.
func (c *Connection) SetWMProtocols(win xproto.Window, protocols []string) error {
	return icccm.WmProtocolsSet(c.XUtil, win, protocols)
}

// SetName writes _NET_WM_NAME as UTF8_STRING.
func (c *Connection) SetName(win xproto.Window, name string) error {
	return ewmh.WmNameSet(c.XUtil, win, name)
}

// SetPid writes _NET_WM_PID.
func (c *Connection) SetPid(win xproto.Window, pid uint) error {
	return ewmh.WmPidSet(c.XUtil, win, pid)
}

// SetClientMachine writes WM_CLIENT_MACHINE.
func (c *Connection) SetClientMachine(win xproto.Window, host string) error {
	return xprop.ChangeProp(c.XUtil, win, 8, "WM_CLIENT_MACHINE", "STRING", []byte(host))
}

// SetUserTime writes _NET_WM_USER_TIME.
func (c *Connection) SetUserTime(win xproto.Window, timestamp uint32) error {
	return ewmh.WmUserTimeSet(c.XUtil, win, uint(timestamp))
}

// HideCursor defines an invisible cursor built from a 1x1 bitmap.
func (c *Connection) HideCursor(win xproto.Window) error {
	conn := c.XUtil.Conn()

	pix, err := xproto.NewPixmapId(conn)
	if err != nil {
		return fmt.Errorf("failed to allocate pixmap id: %w", err)
	}
	if err := xproto.CreatePixmapChecked(conn, 1, pix, xproto.Drawable(win), 1, 1).Check(); err != nil {
		return fmt.Errorf("failed to create cursor pixmap: %w", err)
	}
	defer xproto.FreePixmap(conn, pix)

	cursor, err := xproto.NewCursorId(conn)
	if err != nil {
		return fmt.Errorf("failed to allocate cursor id: %w", err)
	}
	if err := xproto.CreateCursorChecked(conn, cursor, pix, pix, 0, 0, 0, 0, 0, 0, 0, 0).Check(); err != nil {
		return fmt.Errorf("failed to create blank cursor: %w", err)
	}
	// The window keeps its own reference once the cursor is defined.
	defer xproto.FreeCursor(conn, cursor)

	return xproto.ChangeWindowAttributesChecked(conn, win, xproto.CwCursor, []uint32{uint32(cursor)}).Check()
}

// ShowCursor reverts win to its parent's cursor.
func (c *Connection) ShowCursor(win xproto.Window) error {
	return xproto.ChangeWindowAttributesChecked(c.XUtil.Conn(), win, xproto.CwCursor, []uint32{xproto.CursorNone}).Check()
}

// SelectInput replaces the event mask selected on win.
func (c *Connection) SelectInput(win xproto.Window, mask uint32) error {
	return xproto.ChangeWindowAttributesChecked(c.XUtil.Conn(), win, xproto.CwEventMask, []uint32{mask}).Check()
}

// MapWindow maps win.
func (c *Connection) MapWindow(win xproto.Window) error {
	return xproto.MapWindowChecked(c.XUtil.Conn(), win).Check()
}

// WithdrawWindow unmaps win and notifies the window manager with a synthetic
// UnmapNotify on the root window (ICCCM 4.1.4).
func (c *Connection) WithdrawWindow(win xproto.Window) error {
	conn := c.XUtil.Conn()
	if err := xproto.UnmapWindowChecked(conn, win).Check(); err != nil {
		return err
	}

	ev := xproto.UnmapNotifyEvent{
		Event:         c.Root,
		Window:        win,
		FromConfigure: false,
	}
	return xproto.SendEventChecked(conn, false, c.Root, rootMessageMask, string(ev.Bytes())).Check()
}

// RaiseWindow stacks win above its siblings.
func (c *Connection) RaiseWindow(win xproto.Window) error {
	return xproto.ConfigureWindowChecked(
		c.XUtil.Conn(),
		win,
		xproto.ConfigWindowStackMode,
		[]uint32{xproto.StackModeAbove},
	).Check()
}

// ResizeWindow requests a new size for win.
func (c *Connection) ResizeWindow(win xproto.Window, width, height int) error {
	return xproto.ConfigureWindowChecked(
		c.XUtil.Conn(),
		win,
		xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(width), uint32(height)},
	).Check()
}
