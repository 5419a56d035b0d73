package gridfx

import "time"

// Clock supplies wall time for pointer coalescing, explosions and the
// intro. Frame callbacks receive their own timestamp from the Scheduler.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }
