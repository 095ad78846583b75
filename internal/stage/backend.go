// Package stage implements the X11 stage window: the native top-level window
// backing a scene-graph stage, its negotiation with the window manager, and
// the translation of X events into stage state.
package stage

import (
	"time"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/x11stage/internal/logger"
	"github.com/1broseidon/x11stage/internal/platform"
	"github.com/1broseidon/x11stage/internal/x11"
)

// DefaultCoolOff is how long clipped redraws stay disabled after the last
// size change.
const DefaultCoolOff = time.Second

// XConn is the set of X requests a stage window issues. *x11.Connection
// implements it.
type XConn interface {
	RootWindow() xproto.Window
	Atom(name string) (xproto.Atom, error)

	SetNormalHints(win xproto.Window, hints x11.SizeHints) error
	SetWMHints(win xproto.Window, acceptFocus bool) error
	SetWMState(win xproto.Window, states []string) error
	WMState(win xproto.Window) ([]string, error)
	SendWMState(win xproto.Window, action uint32, state string) error
	ForwardToRoot(ev xproto.ClientMessageEvent) error
	DeleteProperty(win xproto.Window, name string) error
	SetWMProtocols(win xproto.Window, protocols []string) error
	SetName(win xproto.Window, name string) error
	SetPid(win xproto.Window, pid uint) error
	SetClientMachine(win xproto.Window, host string) error
	SetUserTime(win xproto.Window, timestamp uint32) error
	HideCursor(win xproto.Window) error
	ShowCursor(win xproto.Window) error

	SelectInput(win xproto.Window, mask uint32) error
	MapWindow(win xproto.Window) error
	WithdrawWindow(win xproto.Window) error
	RaiseWindow(win xproto.Window) error
	ResizeWindow(win xproto.Window, width, height int) error
	MonitorSize(win xproto.Window) (width, height int)

	Watch(win xproto.Window, fn x11.EventFunc)
	Unwatch(win xproto.Window)
}

var _ XConn = (*x11.Connection)(nil)

// Options tunes a Backend.
type Options struct {
	// CoolOff is the quiet period after a resize during which clipped
	// redraws are disabled. Zero means DefaultCoolOff.
	CoolOff time.Duration
	// Devices, when set, selects per-device events on realized stages.
	Devices platform.DeviceManager
	// Fatal is called when a presentation surface cannot be allocated.
	// The default logs and exits the process.
	Fatal func(err error)
	// EventSink receives events synthesized from watched windows.
	EventSink func(ev platform.Event)
}

// Backend owns the window registry and creates X11 stage windows.
type Backend struct {
	conn      XConn
	presenter platform.Presenter
	scheduler platform.Scheduler
	opts      Options
	registry  Registry
}

// NewBackend creates a backend issuing requests on conn.
func NewBackend(conn XConn, presenter platform.Presenter, scheduler platform.Scheduler, opts Options) *Backend {
	if opts.CoolOff <= 0 {
		opts.CoolOff = DefaultCoolOff
	}
	if opts.Fatal == nil {
		opts.Fatal = func(err error) {
			logger.WithComponent("stage-x11").Fatal().Err(err).Msg("unable to realize stage")
		}
	}
	return &Backend{
		conn:      conn,
		presenter: presenter,
		scheduler: scheduler,
		opts:      opts,
	}
}

// NewWindow creates an unrealized stage window for actor.
func (b *Backend) NewWindow(actor platform.Actor) *Window {
	return newWindow(b, actor)
}

// Registry exposes the window index.
func (b *Backend) Registry() *Registry {
	return &b.registry
}

// StageFromWindow returns the actor owning xid, or nil.
func (b *Backend) StageFromWindow(xid xproto.Window) platform.Actor {
	w, ok := b.registry.Lookup(xid)
	if !ok {
		return nil
	}
	return w.actor
}

// HandleEvent translates one X event. Events for windows that are not
// registered are dropped.
func (b *Backend) HandleEvent(ev xgb.Event) (platform.Event, bool) {
	xid := x11.EventWindow(ev)
	if xid == 0 {
		return platform.Event{}, false
	}
	w, ok := b.registry.Lookup(xid)
	if !ok {
		return platform.Event{}, false
	}
	return w.translate(ev)
}

// dispatch is the callback attached to watched windows.
func (b *Backend) dispatch(ev xgb.Event) {
	out, ok := b.HandleEvent(ev)
	if ok && b.opts.EventSink != nil {
		b.opts.EventSink(out)
	}
}
