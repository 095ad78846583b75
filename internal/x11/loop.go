package x11

import (
	"context"
	"time"

	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/x11stage/internal/platform"
)

// Run dispatches X events and queued tasks on the calling goroutine until
// ctx is done or the event loop quits. Event callbacks and tasks never run
// concurrently.
func (c *Connection) Run(ctx context.Context) {
	before, after, quit := xevent.MainPing(c.XUtil)

	for {
		select {
		case <-before:
			// xevent dispatches the event's callbacks between the two pings.
			<-after
		case fn := <-c.tasks:
			fn()
		case <-quit:
			return
		case <-ctx.Done():
			xevent.Quit(c.XUtil)
			return
		}
	}
}

// Post queues fn to run on the event loop. It is dropped once the connection
// is closed.
func (c *Connection) Post(fn func()) {
	select {
	case c.tasks <- fn:
	case <-c.done:
	}
}

// AfterFunc runs fn on the event loop once d has elapsed.
func (c *Connection) AfterFunc(d time.Duration, fn func()) platform.Timer {
	return time.AfterFunc(d, func() { c.Post(fn) })
}
