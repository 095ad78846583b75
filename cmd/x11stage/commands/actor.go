package commands

import (
	"github.com/rs/zerolog"

	"github.com/1broseidon/x11stage/internal/config"
	"github.com/1broseidon/x11stage/internal/logger"
	"github.com/1broseidon/x11stage/internal/platform"
)

// demoActor is a stage with no content. Redraws clear the window.
type demoActor struct {
	log     *zerolog.Logger
	post    func(func())
	present func()

	width, height       int
	minWidth, minHeight int
	resizable           bool

	mapped       bool
	state        platform.StageState
	redrawQueued bool
}

var _ platform.Actor = (*demoActor)(nil)

func newDemoActor(cfg *config.Config, post func(func()), present func()) *demoActor {
	return &demoActor{
		log:       logger.WithComponent("stage"),
		post:      post,
		present:   present,
		width:     cfg.Width,
		height:    cfg.Height,
		minWidth:  cfg.MinWidth,
		minHeight: cfg.MinHeight,
		resizable: cfg.UserResizable,
	}
}

func (a *demoActor) Size() (int, int)    { return a.width, a.height }
func (a *demoActor) MinSize() (int, int) { return a.minWidth, a.minHeight }
func (a *demoActor) UserResizable() bool { return a.resizable }

func (a *demoActor) SetSize(width, height int) {
	if width == a.width && height == a.height {
		return
	}
	a.width, a.height = width, height
	a.QueueRelayout()
}

func (a *demoActor) QueueRelayout() {
	a.log.Debug().Int("width", a.width).Int("height", a.height).Msg("relayout")
	a.QueueRedraw(nil)
}

func (a *demoActor) EnsureViewport() {
	a.log.Debug().Int("width", a.width).Int("height", a.height).Msg("viewport")
}

// QueueRedraw coalesces redraws into one task on the event loop.
func (a *demoActor) QueueRedraw(clip *platform.Rect) {
	if !a.mapped || a.redrawQueued {
		return
	}
	a.redrawQueued = true
	a.post(func() {
		a.redrawQueued = false
		if a.mapped {
			a.present()
		}
	})
}

func (a *demoActor) Map() {
	if a.mapped {
		return
	}
	a.mapped = true
	a.QueueRedraw(nil)
}

func (a *demoActor) Unmap() {
	a.mapped = false
}

func (a *demoActor) UpdateState(unset, set platform.StageState) {
	a.state = (a.state | set) &^ unset
	a.log.Info().
		Bool("fullscreen", a.state.Has(platform.StateFullscreen)).
		Bool("activated", a.state.Has(platform.StateActivated)).
		Msg("stage state changed")
}

func (a *demoActor) Presented(event platform.FrameEvent, info platform.FrameInfo) {
	if event != platform.FrameComplete {
		return
	}
	a.log.Debug().Int64("frame", info.FrameCounter).Msg("frame presented")
}
