package quality

import (
	"math"
	"time"
)

// Controller defaults.
const (
	DefaultWindow   = 30
	DowngradeBelow  = 25.0 // fps
	UpgradeAbove    = 55.0 // fps
	DefaultLevel    = High
	initialFPS      = 60.0
	millisPerSecond = 1000.0
)

// Controller samples frame timing and adapts the quality level.
//
// Controller is not safe for concurrent use; it is owned by the render loop.
type Controller struct {
	window  []float64 // frame intervals in ms, ring buffer
	next    int
	filled  int
	sum     float64
	last    time.Time
	fps     float64
	level   Level
	initial Level
	locked  bool
}

// NewController creates a controller starting at level.
// Invalid levels start at DefaultLevel.
func NewController(level Level) *Controller {
	if !level.Valid() {
		level = DefaultLevel
	}
	return &Controller{
		window:  make([]float64, DefaultWindow),
		fps:     initialFPS,
		level:   level,
		initial: level,
	}
}

// Tick records the interval since the previous Tick and returns the
// current metrics. The first call only establishes the reference time.
func (c *Controller) Tick(now time.Time) Metrics {
	if !c.last.IsZero() {
		c.push(float64(now.Sub(c.last)) / float64(time.Millisecond))
	}
	c.last = now
	return c.Metrics()
}

func (c *Controller) push(ms float64) {
	if c.filled == len(c.window) {
		c.sum -= c.window[c.next]
	} else {
		c.filled++
	}
	c.window[c.next] = ms
	c.sum += ms
	c.next = (c.next + 1) % len(c.window)

	if avg := c.average(); avg > 0 {
		c.fps = millisPerSecond / avg
	}
}

func (c *Controller) average() float64 {
	if c.filled == 0 {
		return 0
	}
	return c.sum / float64(c.filled)
}

// Metrics returns the latest snapshot without sampling.
func (c *Controller) Metrics() Metrics {
	return Metrics{
		FPS:       int(math.Round(c.fps)),
		FrameTime: math.Round(c.average()*100) / 100,
		Quality:   c.level,
	}
}

// Full reports whether the timing window holds a full set of samples.
func (c *Controller) Full() bool {
	return c.filled == len(c.window)
}

// CheckAndAdapt applies the hysteresis rule and returns the resulting
// level. Nothing changes while the window is filling or the level is locked.
func (c *Controller) CheckAndAdapt() Level {
	if c.locked || !c.Full() {
		return c.level
	}
	switch {
	case c.fps < DowngradeBelow && c.level > Low:
		c.level--
	case c.fps > UpgradeAbove && c.level < Ultra:
		c.level++
	}
	return c.level
}

// Level returns the current level.
func (c *Controller) Level() Level { return c.level }

// Settings returns the preset for the current level.
func (c *Controller) Settings() Settings { return c.level.Settings() }

// Lock pins the level and suspends adaptation until Unlock.
func (c *Controller) Lock(level Level) {
	c.level = level.clamp()
	c.locked = true
}

// Unlock resumes adaptation with a fresh timing window.
func (c *Controller) Unlock() {
	c.locked = false
	c.clearHistory()
}

// Locked reports whether adaptation is suspended.
func (c *Controller) Locked() bool { return c.locked }

// Reset clears the history, unlocks, and returns to the starting level.
func (c *Controller) Reset() {
	c.locked = false
	c.level = c.initial
	c.clearHistory()
	c.last = time.Time{}
}

func (c *Controller) clearHistory() {
	for i := range c.window {
		c.window[i] = 0
	}
	c.next, c.filled, c.sum = 0, 0, 0
	c.fps = initialFPS
}

// Resume forgets the reference time so that the gap of a pause is not
// recorded as one slow frame.
func (c *Controller) Resume() { c.last = time.Time{} }
