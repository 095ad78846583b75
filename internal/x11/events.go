package x11

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
)

// EventFunc receives a raw X event for a watched window.
type EventFunc func(ev xgb.Event)

// Watch routes the structure, focus, exposure, property and client-message
// events of win to fn.
func (c *Connection) Watch(win xproto.Window, fn EventFunc) {
	xu := c.XUtil

	xevent.ConfigureNotifyFun(func(_ *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		fn(*ev.ConfigureNotifyEvent)
	}).Connect(xu, win)
	xevent.PropertyNotifyFun(func(_ *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		fn(*ev.PropertyNotifyEvent)
	}).Connect(xu, win)
	xevent.FocusInFun(func(_ *xgbutil.XUtil, ev xevent.FocusInEvent) {
		fn(*ev.FocusInEvent)
	}).Connect(xu, win)
	xevent.FocusOutFun(func(_ *xgbutil.XUtil, ev xevent.FocusOutEvent) {
		fn(*ev.FocusOutEvent)
	}).Connect(xu, win)
	xevent.ExposeFun(func(_ *xgbutil.XUtil, ev xevent.ExposeEvent) {
		fn(*ev.ExposeEvent)
	}).Connect(xu, win)
	xevent.DestroyNotifyFun(func(_ *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		fn(*ev.DestroyNotifyEvent)
	}).Connect(xu, win)
	xevent.ClientMessageFun(func(_ *xgbutil.XUtil, ev xevent.ClientMessageEvent) {
		fn(*ev.ClientMessageEvent)
	}).Connect(xu, win)
}

// Unwatch drops every callback attached to win.
func (c *Connection) Unwatch(win xproto.Window) {
	xevent.Detach(c.XUtil, win)
}

// EventWindow returns the window an event is reported for, or 0 for event
// kinds a stage window does not handle.
func EventWindow(ev xgb.Event) xproto.Window {
	switch e := ev.(type) {
	case xproto.ConfigureNotifyEvent:
		return e.Window
	case xproto.PropertyNotifyEvent:
		return e.Window
	case xproto.FocusInEvent:
		return e.Event
	case xproto.FocusOutEvent:
		return e.Event
	case xproto.ExposeEvent:
		return e.Window
	case xproto.DestroyNotifyEvent:
		return e.Window
	case xproto.ClientMessageEvent:
		return e.Window
	default:
		return 0
	}
}
