package stage

import (
	"testing"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/x11stage/internal/platform"
	"github.com/1broseidon/x11stage/internal/x11"
)

func TestSizeHints(t *testing.T) {
	tests := []struct {
		name          string
		resizable     bool
		fullscreening bool
		width, height int
		want          x11.SizeHints
	}{
		{
			name:   "fixed size",
			width:  800,
			height: 600,
			want:   x11.SizeHints{HasMin: true, MinWidth: 800, MinHeight: 600, HasMax: true, MaxWidth: 800, MaxHeight: 600},
		},
		{
			name:      "user resizable sends minimum only",
			resizable: true,
			width:     800,
			height:    600,
			want:      x11.SizeHints{HasMin: true, MinWidth: 200, MinHeight: 100},
		},
		{
			name:          "fullscreen sends nothing",
			fullscreening: true,
			width:         800,
			height:        600,
			want:          x11.SizeHints{},
		},
		{
			name:   "non-positive target falls back to minimum",
			width:  -1,
			height: 0,
			want:   x11.SizeHints{HasMin: true, MinWidth: 200, MinHeight: 100, HasMax: true, MaxWidth: 200, MaxHeight: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.actor.minWidth, h.actor.minHeight = 200, 100
			h.actor.resizable = tt.resizable
			h.window.fullscreening = tt.fullscreening

			if got := h.window.sizeHints(tt.width, tt.height); got != tt.want {
				t.Fatalf("sizeHints = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResize_BeforeRealizeIsBuffered(t *testing.T) {
	h := newHarness(t)

	h.window.Resize(1024, 768)

	if len(h.conn.requests) != 0 {
		t.Fatalf("expected no requests before realize, got %v", h.conn.names())
	}
	if got := h.window.Geometry(); got.Width != 1024 || got.Height != 768 {
		t.Fatalf("geometry = %+v, want 1024x768", got)
	}
}

func TestRealize_AppliesBufferedResize(t *testing.T) {
	h := newHarness(t)

	h.window.Resize(1024, 768)
	xid := h.realize(t)

	want := x11.SizeHints{HasMin: true, MinWidth: 1024, MinHeight: 768, HasMax: true, MaxWidth: 1024, MaxHeight: 768}
	hints := h.conn.named("SetNormalHints")
	if len(hints) != 1 || hints[0].hints != want {
		t.Fatalf("hints = %+v, want %+v", hints, want)
	}
	resizes := h.conn.named("ResizeWindow")
	if len(resizes) != 1 || resizes[0].win != xid || resizes[0].hints.MaxWidth != 1024 || resizes[0].hints.MaxHeight != 768 {
		t.Fatalf("resizes = %+v, want 1024x768 on %#x", resizes, xid)
	}
	names := h.conn.names()
	if indexOf(names, "SetNormalHints") > indexOf(names, "ResizeWindow") {
		t.Fatalf("expected hints before resize, got %v", names)
	}

	// The allocated size stays tracked until the server confirms.
	if got := h.window.Geometry(); got.Width != 800 || got.Height != 600 {
		t.Fatalf("geometry = %+v, want allocated 800x600", got)
	}
	h.backend.HandleEvent(configureEvent(xid, 1024, 768))
	if got := h.window.Geometry(); got.Width != 1024 || got.Height != 768 {
		t.Fatalf("geometry = %+v, want 1024x768", got)
	}
}

func TestRealize_BufferedResizeMatchingActorSize(t *testing.T) {
	h := newHarness(t)

	h.window.Resize(800, 600)
	h.realize(t)

	if n := len(h.conn.named("ResizeWindow")); n != 0 {
		t.Fatalf("no resize needed for the allocated size, got %d", n)
	}
}

func TestRealize_BufferedResizeIsConsumed(t *testing.T) {
	h := newHarness(t)

	h.window.Resize(1024, 768)
	h.realize(t)
	h.window.Unrealize()
	h.conn.reset()
	h.realize(t)

	if n := len(h.conn.named("ResizeWindow")); n != 0 {
		t.Fatalf("buffered size applied twice, got %d resizes", n)
	}
}

func TestResize_ZeroDimensionCoercedToOne(t *testing.T) {
	h := newHarness(t)

	h.window.Resize(0, 300)

	if got := h.window.Geometry(); got.Width != 1 || got.Height != 300 {
		t.Fatalf("geometry = %+v, want 1x300", got)
	}
	if len(h.fatals) != 0 {
		t.Fatalf("zero size must not be fatal")
	}
}

func TestResize_ZeroDimensionWhenRealized(t *testing.T) {
	h := newHarness(t)
	xid := h.realize(t)
	h.conn.reset()

	h.window.Resize(0, 300)

	resizes := h.conn.named("ResizeWindow")
	if len(resizes) != 1 {
		t.Fatalf("expected one resize, got %v", h.conn.names())
	}
	if r := resizes[0]; r.win != xid || r.hints.MaxWidth != 1 || r.hints.MaxHeight != 300 {
		t.Fatalf("resize = %+v, want 1x300 on %#x", r, xid)
	}
}

func TestResize_WaitsForConfigureNotify(t *testing.T) {
	h := newHarness(t)
	xid := h.realize(t)
	h.conn.reset()

	h.window.Resize(1024, 768)

	names := h.conn.names()
	hints, resize := indexOf(names, "SetNormalHints"), indexOf(names, "ResizeWindow")
	if hints < 0 || resize < 0 || hints > resize {
		t.Fatalf("expected hints then resize, got %v", names)
	}
	if got := h.window.Geometry(); got.Width != 800 || got.Height != 600 {
		t.Fatalf("tracked size changed before confirmation: %+v", got)
	}

	h.backend.HandleEvent(xproto.ConfigureNotifyEvent{Window: xid, Event: xid, Width: 1024, Height: 768})

	if got := h.window.Geometry(); got.Width != 1024 || got.Height != 768 {
		t.Fatalf("geometry = %+v, want 1024x768 after ConfigureNotify", got)
	}
}

func TestResize_SameSizeOnlyRefreshesHints(t *testing.T) {
	h := newHarness(t)
	h.realize(t)
	h.conn.reset()

	h.window.Resize(800, 600)

	if len(h.conn.named("ResizeWindow")) != 0 {
		t.Fatalf("unexpected resize request: %v", h.conn.names())
	}
	if len(h.conn.named("SetNormalHints")) != 1 {
		t.Fatalf("expected hints refresh, got %v", h.conn.names())
	}
}

func TestResize_IgnoredWhileFullscreenRequested(t *testing.T) {
	h := newHarness(t)
	h.realizeAndShow(t)
	h.window.SetFullscreen(true)
	h.conn.reset()

	h.window.Resize(300, 200)

	if len(h.conn.requests) != 0 {
		t.Fatalf("expected no requests while fullscreen, got %v", h.conn.names())
	}
}

func TestSetUserResizable_RederivesHints(t *testing.T) {
	h := newHarness(t)
	h.actor.minWidth, h.actor.minHeight = 50, 40
	h.realize(t)
	h.conn.reset()

	h.actor.resizable = true
	h.window.SetUserResizable(true)

	hints := h.conn.named("SetNormalHints")
	if len(hints) != 1 {
		t.Fatalf("expected one hints write, got %v", h.conn.names())
	}
	want := x11.SizeHints{HasMin: true, MinWidth: 50, MinHeight: 40}
	if hints[0].hints != want {
		t.Fatalf("hints = %+v, want %+v", hints[0].hints, want)
	}
}

func TestGeometry_FullscreenReportsMonitor(t *testing.T) {
	h := newHarness(t)
	h.realizeAndShow(t)
	h.window.SetFullscreen(true)
	h.confirmState(t, atomFullscreen)

	want := platform.Rect{Width: 1920, Height: 1080}
	if got := h.window.Geometry(); got != want {
		t.Fatalf("geometry = %+v, want %+v", got, want)
	}
}
