package x11

import (
	"fmt"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/x11stage/internal/platform"
)

// WindowPresenter allocates plain InputOutput windows as presentation
// surfaces. It does no GPU work: Present clears the window and reports the
// frame as complete.
type WindowPresenter struct {
	conn    *Connection
	current *Onscreen
}

var _ platform.Presenter = (*WindowPresenter)(nil)

// NewWindowPresenter creates a presenter drawing through conn.
func NewWindowPresenter(conn *Connection) *WindowPresenter {
	return &WindowPresenter{conn: conn}
}

// Allocate creates an unmapped top-level window of the given size.
func (p *WindowPresenter) Allocate(width, height int) (platform.Onscreen, error) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	win, err := xwindow.Generate(p.conn.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate window id: %w", err)
	}

	err = win.CreateChecked(
		p.conn.Root,
		0, 0,
		width, height,
		xproto.CwBackPixel,
		0, // back_pixel=black
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create onscreen window: %w", err)
	}

	onscreen := &Onscreen{
		window:    win,
		callbacks: make(map[platform.FrameClosure]func(platform.FrameEvent, platform.FrameInfo)),
	}
	p.current = onscreen
	return onscreen, nil
}

// DrawFramebuffer returns the most recently bound surface.
func (p *WindowPresenter) DrawFramebuffer() platform.Onscreen {
	if p.current == nil {
		return nil
	}
	return p.current
}

// ResetFramebuffer unbinds the current surface.
func (p *WindowPresenter) ResetFramebuffer() {
	p.current = nil
}

// Onscreen is a window-backed presentation surface.
type Onscreen struct {
	window    *xwindow.Window
	callbacks map[platform.FrameClosure]func(platform.FrameEvent, platform.FrameInfo)
	nextID    platform.FrameClosure
	frames    int64
	released  bool
}

// XWindow returns the native window id.
func (o *Onscreen) XWindow() uint32 {
	return uint32(o.window.Id)
}

// AddFrameCallback registers cb for every presented frame.
func (o *Onscreen) AddFrameCallback(cb func(platform.FrameEvent, platform.FrameInfo)) platform.FrameClosure {
	o.nextID++
	o.callbacks[o.nextID] = cb
	return o.nextID
}

// RemoveFrameCallback drops a registration made by AddFrameCallback.
func (o *Onscreen) RemoveFrameCallback(closure platform.FrameClosure) {
	delete(o.callbacks, closure)
}

// FrameCounter returns the number of frames presented so far.
func (o *Onscreen) FrameCounter() int64 {
	return o.frames
}

// Present clears the window and reports sync and completion to subscribers.
func (o *Onscreen) Present() {
	if o.released {
		return
	}
	xproto.ClearArea(o.window.X.Conn(), false, o.window.Id, 0, 0, 0, 0)

	info := platform.FrameInfo{
		FrameCounter:     o.frames,
		PresentationTime: time.Now().UnixMicro(),
	}
	o.frames++
	for _, event := range []platform.FrameEvent{platform.FrameSync, platform.FrameComplete} {
		for _, cb := range o.callbacks {
			cb(event, info)
		}
	}
}

// Release destroys the window.
func (o *Onscreen) Release() {
	if o.released {
		return
	}
	o.released = true
	o.window.Destroy()
}
