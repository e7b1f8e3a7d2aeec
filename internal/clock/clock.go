// ABOUTME: Shared presentation clock for sibling media branches
// ABOUTME: Mutex-guarded reference time in float seconds
package clock

import "sync"

// Clock is the global reference time, in seconds, shared between the audio
// and video branches of one pipeline. Either branch may overwrite it on a
// large desync, so both reads and writes are guarded.
type Clock struct {
	mu      sync.RWMutex
	seconds float64
}

// New creates a clock starting at zero seconds.
func New() *Clock {
	return &Clock{}
}

// Read returns the current reference time in seconds.
func (c *Clock) Read() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.seconds
}

// Write hard-sets the reference time in seconds.
func (c *Clock) Write(seconds float64) {
	c.mu.Lock()
	c.seconds = seconds
	c.mu.Unlock()
}
