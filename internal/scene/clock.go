package scene

import (
	"math"
	"time"

	"github.com/iburimskiy/gentle-checkin/internal/config"
)

// Clock measures elapsed scene time from the first frame it observes.
// It is never reset; a new Clock is needed to restart the loop.
type Clock struct {
	now     func() time.Time
	start   time.Time
	started bool
}

func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

// Elapsed returns seconds since the first call to Elapsed.
func (c *Clock) Elapsed() float64 {
	t := c.now()
	if !c.started {
		c.start = t
		c.started = true
	}
	return t.Sub(c.start).Seconds()
}

func (c *Clock) Started() bool { return c.started }

// Phase reduces t into [0, SceneLoop).
func Phase(t float64) float64 {
	tt := math.Mod(t, config.SceneLoop)
	if tt < 0 {
		tt += config.SceneLoop
	}
	// guard against rounding up to the loop length for tiny negative t
	if tt >= config.SceneLoop {
		tt = 0
	}
	return tt
}
