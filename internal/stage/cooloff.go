package stage

import (
	"time"

	"github.com/1broseidon/x11stage/internal/platform"
)

// coolOff is the resize debounce: at most one timer is pending, and each
// restart replaces it.
type coolOff struct {
	scheduler platform.Scheduler
	interval  time.Duration

	timer  platform.Timer
	gen    uint64
	active bool
}

// restart cancels any pending timer and starts a new quiet period.
func (c *coolOff) restart() {
	c.cancel()
	c.active = true

	gen := c.gen
	c.timer = c.scheduler.AfterFunc(c.interval, func() {
		// A stopped timer whose callback was already queued must not
		// end a newer quiet period.
		if gen != c.gen {
			return
		}
		c.timer = nil
		c.active = false
	})
}

// cancel stops the pending timer and clears the marker.
func (c *coolOff) cancel() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
	c.active = false
}
