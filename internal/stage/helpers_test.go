package stage

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/x11stage/internal/platform"
	"github.com/1broseidon/x11stage/internal/x11"
)

const testRoot xproto.Window = 0x100

// request is one recorded X request.
type request struct {
	name  string
	win   xproto.Window
	hints x11.SizeHints
	str   string
	strs  []string
	num   uint32
	event xproto.ClientMessageEvent
}

// fakeConn records every request instead of talking to an X server.
type fakeConn struct {
	atoms    map[string]xproto.Atom
	nextAtom xproto.Atom

	requests []request
	wmState  map[xproto.Window][]string
	watched  map[xproto.Window]x11.EventFunc

	monitorWidth  int
	monitorHeight int
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		atoms:         make(map[string]xproto.Atom),
		nextAtom:      300,
		wmState:       make(map[xproto.Window][]string),
		watched:       make(map[xproto.Window]x11.EventFunc),
		monitorWidth:  1920,
		monitorHeight: 1080,
	}
}

func (c *fakeConn) record(r request) error {
	c.requests = append(c.requests, r)
	return nil
}

func (c *fakeConn) RootWindow() xproto.Window { return testRoot }

func (c *fakeConn) Atom(name string) (xproto.Atom, error) {
	if atom, ok := c.atoms[name]; ok {
		return atom, nil
	}
	c.nextAtom++
	c.atoms[name] = c.nextAtom
	return c.nextAtom, nil
}

func (c *fakeConn) mustAtom(t *testing.T, name string) xproto.Atom {
	t.Helper()
	atom, err := c.Atom(name)
	if err != nil {
		t.Fatalf("atom %s: %v", name, err)
	}
	return atom
}

func (c *fakeConn) SetNormalHints(win xproto.Window, hints x11.SizeHints) error {
	return c.record(request{name: "SetNormalHints", win: win, hints: hints})
}

func (c *fakeConn) SetWMHints(win xproto.Window, acceptFocus bool) error {
	num := uint32(0)
	if acceptFocus {
		num = 1
	}
	return c.record(request{name: "SetWMHints", win: win, num: num})
}

func (c *fakeConn) SetWMState(win xproto.Window, states []string) error {
	c.wmState[win] = append([]string(nil), states...)
	return c.record(request{name: "SetWMState", win: win, strs: states})
}

func (c *fakeConn) WMState(win xproto.Window) ([]string, error) {
	states, ok := c.wmState[win]
	if !ok {
		return nil, errors.New("no _NET_WM_STATE")
	}
	return states, nil
}

func (c *fakeConn) SendWMState(win xproto.Window, action uint32, state string) error {
	return c.record(request{name: "SendWMState", win: win, num: action, str: state})
}

func (c *fakeConn) ForwardToRoot(ev xproto.ClientMessageEvent) error {
	return c.record(request{name: "ForwardToRoot", win: testRoot, event: x11.Retarget(ev, testRoot)})
}

func (c *fakeConn) DeleteProperty(win xproto.Window, name string) error {
	if name == atomNetWMState {
		delete(c.wmState, win)
	}
	return c.record(request{name: "DeleteProperty", win: win, str: name})
}

func (c *fakeConn) SetWMProtocols(win xproto.Window, protocols []string) error {
	return c.record(request{name: "SetWMProtocols", win: win, strs: protocols})
}

func (c *fakeConn) SetName(win xproto.Window, name string) error {
	return c.record(request{name: "SetName", win: win, str: name})
}

func (c *fakeConn) SetPid(win xproto.Window, pid uint) error {
	return c.record(request{name: "SetPid", win: win, num: uint32(pid)})
}

func (c *fakeConn) SetClientMachine(win xproto.Window, host string) error {
	return c.record(request{name: "SetClientMachine", win: win, str: host})
}

func (c *fakeConn) SetUserTime(win xproto.Window, timestamp uint32) error {
	return c.record(request{name: "SetUserTime", win: win, num: timestamp})
}

func (c *fakeConn) HideCursor(win xproto.Window) error {
	return c.record(request{name: "HideCursor", win: win})
}

func (c *fakeConn) ShowCursor(win xproto.Window) error {
	return c.record(request{name: "ShowCursor", win: win})
}

func (c *fakeConn) SelectInput(win xproto.Window, mask uint32) error {
	return c.record(request{name: "SelectInput", win: win, num: mask})
}

func (c *fakeConn) MapWindow(win xproto.Window) error {
	return c.record(request{name: "MapWindow", win: win})
}

func (c *fakeConn) WithdrawWindow(win xproto.Window) error {
	return c.record(request{name: "WithdrawWindow", win: win})
}

func (c *fakeConn) RaiseWindow(win xproto.Window) error {
	return c.record(request{name: "RaiseWindow", win: win})
}

func (c *fakeConn) ResizeWindow(win xproto.Window, width, height int) error {
	return c.record(request{name: "ResizeWindow", win: win, hints: x11.SizeHints{MaxWidth: width, MaxHeight: height}})
}

func (c *fakeConn) MonitorSize(xproto.Window) (int, int) {
	return c.monitorWidth, c.monitorHeight
}

func (c *fakeConn) Watch(win xproto.Window, fn x11.EventFunc) {
	c.watched[win] = fn
	c.requests = append(c.requests, request{name: "Watch", win: win})
}

func (c *fakeConn) Unwatch(win xproto.Window) {
	delete(c.watched, win)
}

// named returns the recorded requests with the given name.
func (c *fakeConn) named(name string) []request {
	var out []request
	for _, r := range c.requests {
		if r.name == name {
			out = append(out, r)
		}
	}
	return out
}

// names returns the sequence of request names.
func (c *fakeConn) names() []string {
	out := make([]string, 0, len(c.requests))
	for _, r := range c.requests {
		out = append(out, r.name)
	}
	return out
}

func (c *fakeConn) reset() {
	c.requests = nil
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

// fakeActor stands in for the stage actor.
type fakeActor struct {
	width, height       int
	minWidth, minHeight int
	resizable           bool

	setSizes  [][2]int
	relayouts int
	viewports int
	redraws   []*platform.Rect
	mapped    bool
	state     platform.StageState
	updates   [][2]platform.StageState
	presented []platform.FrameEvent
}

func newFakeActor() *fakeActor {
	return &fakeActor{width: 800, height: 600, minWidth: 1, minHeight: 1}
}

func (a *fakeActor) Size() (int, int)    { return a.width, a.height }
func (a *fakeActor) MinSize() (int, int) { return a.minWidth, a.minHeight }
func (a *fakeActor) UserResizable() bool { return a.resizable }
func (a *fakeActor) QueueRelayout()      { a.relayouts++ }
func (a *fakeActor) EnsureViewport()     { a.viewports++ }
func (a *fakeActor) Map()                { a.mapped = true }
func (a *fakeActor) Unmap()              { a.mapped = false }

func (a *fakeActor) SetSize(width, height int) {
	a.width, a.height = width, height
	a.setSizes = append(a.setSizes, [2]int{width, height})
}

func (a *fakeActor) QueueRedraw(clip *platform.Rect) {
	a.redraws = append(a.redraws, clip)
}

func (a *fakeActor) UpdateState(unset, set platform.StageState) {
	a.state = (a.state | set) &^ unset
	a.updates = append(a.updates, [2]platform.StageState{unset, set})
}

func (a *fakeActor) Presented(event platform.FrameEvent, _ platform.FrameInfo) {
	a.presented = append(a.presented, event)
}

// fakeOnscreen is an allocated presentation surface.
type fakeOnscreen struct {
	xid       uint32
	callbacks map[platform.FrameClosure]func(platform.FrameEvent, platform.FrameInfo)
	next      platform.FrameClosure
	frames    int64
	released  bool
}

func (o *fakeOnscreen) XWindow() uint32 { return o.xid }

func (o *fakeOnscreen) AddFrameCallback(cb func(platform.FrameEvent, platform.FrameInfo)) platform.FrameClosure {
	o.next++
	o.callbacks[o.next] = cb
	return o.next
}

func (o *fakeOnscreen) RemoveFrameCallback(closure platform.FrameClosure) {
	delete(o.callbacks, closure)
}

func (o *fakeOnscreen) FrameCounter() int64 { return o.frames }
func (o *fakeOnscreen) Release()            { o.released = true }

func (o *fakeOnscreen) present() {
	info := platform.FrameInfo{FrameCounter: o.frames}
	o.frames++
	for _, cb := range o.callbacks {
		cb(platform.FrameComplete, info)
	}
}

// fakePresenter allocates fakeOnscreens with increasing window ids.
type fakePresenter struct {
	nextXID   uint32
	allocErr  error
	allocated []*fakeOnscreen
	sizes     [][2]int
	current   platform.Onscreen
	resets    int
}

func (p *fakePresenter) Allocate(width, height int) (platform.Onscreen, error) {
	p.sizes = append(p.sizes, [2]int{width, height})
	if p.allocErr != nil {
		return nil, p.allocErr
	}
	p.nextXID++
	o := &fakeOnscreen{
		xid:       0x400000 + p.nextXID,
		callbacks: make(map[platform.FrameClosure]func(platform.FrameEvent, platform.FrameInfo)),
	}
	p.allocated = append(p.allocated, o)
	p.current = o
	return o, nil
}

func (p *fakePresenter) DrawFramebuffer() platform.Onscreen { return p.current }

func (p *fakePresenter) ResetFramebuffer() {
	p.current = nil
	p.resets++
}

// fakeScheduler is a manual clock.
type fakeScheduler struct {
	now    time.Duration
	timers []*fakeTimer
	fired  int
}

type fakeTimer struct {
	at      time.Duration
	fn      func()
	stopped bool
	done    bool
}

func (t *fakeTimer) Stop() bool {
	if t.stopped || t.done {
		return false
	}
	t.stopped = true
	return true
}

func (s *fakeScheduler) AfterFunc(d time.Duration, fn func()) platform.Timer {
	t := &fakeTimer{at: s.now + d, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves the clock and runs every timer that came due.
func (s *fakeScheduler) Advance(d time.Duration) {
	s.now += d
	sort.SliceStable(s.timers, func(i, j int) bool { return s.timers[i].at < s.timers[j].at })
	for _, t := range s.timers {
		if t.stopped || t.done || t.at > s.now {
			continue
		}
		t.done = true
		s.fired++
		t.fn()
	}
}

func (s *fakeScheduler) pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.done {
			n++
		}
	}
	return n
}

// fakeDevices records device-manager interaction.
type fakeDevices struct {
	selects   int
	listeners []func(platform.InputDevice)
	subs      []*fakeSubscription
}

type fakeSubscription struct {
	cancelled bool
}

func (s *fakeSubscription) Cancel() { s.cancelled = true }

func (d *fakeDevices) SelectStageEvents(platform.Actor) { d.selects++ }

func (d *fakeDevices) OnDeviceAdded(fn func(platform.InputDevice)) platform.Subscription {
	d.listeners = append(d.listeners, fn)
	sub := &fakeSubscription{}
	d.subs = append(d.subs, sub)
	return sub
}

// harness bundles a window with its fakes.
type harness struct {
	backend   *Backend
	window    *Window
	conn      *fakeConn
	actor     *fakeActor
	presenter *fakePresenter
	scheduler *fakeScheduler
	devices   *fakeDevices
	fatals    []error
	events    []platform.Event
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		conn:      newFakeConn(),
		actor:     newFakeActor(),
		presenter: &fakePresenter{},
		scheduler: &fakeScheduler{},
		devices:   &fakeDevices{},
	}
	h.backend = NewBackend(h.conn, h.presenter, h.scheduler, Options{
		CoolOff:   time.Second,
		Devices:   h.devices,
		Fatal:     func(err error) { h.fatals = append(h.fatals, err) },
		EventSink: func(ev platform.Event) { h.events = append(h.events, ev) },
	})
	h.window = h.backend.NewWindow(h.actor)
	return h
}

func (h *harness) realize(t *testing.T) xproto.Window {
	t.Helper()
	if err := h.window.Realize(); err != nil {
		t.Fatalf("realize: %v", err)
	}
	return h.window.XWindow()
}

func (h *harness) realizeAndShow(t *testing.T) xproto.Window {
	t.Helper()
	xid := h.realize(t)
	if err := h.window.Show(false); err != nil {
		t.Fatalf("show: %v", err)
	}
	return xid
}

// confirmState simulates the window manager writing _NET_WM_STATE and the
// resulting PropertyNotify.
func (h *harness) confirmState(t *testing.T, states ...string) {
	t.Helper()
	xid := h.window.XWindow()
	h.conn.wmState[xid] = states
	h.backend.HandleEvent(xproto.PropertyNotifyEvent{
		Window: xid,
		Atom:   h.conn.mustAtom(t, atomNetWMState),
		State:  xproto.PropertyNewValue,
	})
}
