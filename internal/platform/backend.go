package platform

import "time"

// Rect describes a rectangular region in stage coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// StageState is a set of window-manager confirmed stage flags.
type StageState uint32

const (
	StateFullscreen StageState = 1 << iota
	StateActivated
)

// Has reports whether all bits of flag are set.
func (s StageState) Has(flag StageState) bool {
	return s&flag == flag
}

// EventType identifies a synthesized stage event.
type EventType int

const (
	EventNothing EventType = iota
	EventDelete
	EventDestroyNotify
)

func (t EventType) String() string {
	switch t {
	case EventDelete:
		return "delete"
	case EventDestroyNotify:
		return "destroy-notify"
	default:
		return "nothing"
	}
}

// Event is an internal event produced from a window-system notification.
type Event struct {
	Type  EventType
	Stage Actor
}

// FrameEvent identifies the phase reported by a frame-completion callback.
type FrameEvent int

const (
	FrameSync FrameEvent = iota + 1
	FrameComplete
)

// FrameInfo carries presentation feedback for one frame.
type FrameInfo struct {
	FrameCounter     int64
	PresentationTime int64
	RefreshRate      float32
}

// Actor is the scene-graph stage a window backend drives.
type Actor interface {
	Size() (width, height int)
	SetSize(width, height int)
	MinSize() (width, height int)
	UserResizable() bool

	QueueRelayout()
	// QueueRedraw schedules a redraw of clip, or of the whole stage when clip is nil.
	QueueRedraw(clip *Rect)
	EnsureViewport()

	Map()
	Unmap()

	// UpdateState clears unset and then sets set on the stage state.
	UpdateState(unset, set StageState)
	Presented(event FrameEvent, info FrameInfo)
}

// FrameClosure identifies a frame callback registration.
type FrameClosure uint64

// Onscreen is an allocated GPU presentation surface bound to a native window.
type Onscreen interface {
	XWindow() uint32
	AddFrameCallback(cb func(event FrameEvent, info FrameInfo)) FrameClosure
	RemoveFrameCallback(closure FrameClosure)
	FrameCounter() int64
	Release()
}

// Presenter allocates presentation surfaces.
type Presenter interface {
	Allocate(width, height int) (Onscreen, error)
	// DrawFramebuffer returns the surface currently bound for drawing, if any.
	DrawFramebuffer() Onscreen
	// ResetFramebuffer rebinds drawing to a private dummy surface.
	ResetFramebuffer()
}

// InputDevice describes a device announced by a DeviceManager.
type InputDevice struct {
	ID       int
	Name     string
	Floating bool
}

// Subscription is a live callback registration. Cancel is idempotent.
type Subscription interface {
	Cancel()
}

// DeviceManager selects per-device input events for a stage.
type DeviceManager interface {
	SelectStageEvents(stage Actor)
	OnDeviceAdded(fn func(device InputDevice)) Subscription
}

// View is a rendering target covering part of a stage.
type View struct {
	Layout      Rect
	Framebuffer Onscreen
}

// StageWindow abstracts one top-level stage window across windowing backends.
type StageWindow interface {
	Realize() error
	Unrealize()
	Show(raise bool) error
	Hide() error
	Resize(width, height int)
	SetFullscreen(fullscreen bool)
	SetTitle(title *string)
	SetCursorVisible(visible bool)
	SetUserResizable(resizable bool)
	SetAcceptFocus(accept bool)
	Geometry() Rect
	CanClipRedraws() bool
	Views() []*View
	FrameCounter() int64
}

// Timer is a scheduled callback that may be stopped before it fires.
type Timer interface {
	Stop() bool
}

// Scheduler runs callbacks on the event loop after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}
