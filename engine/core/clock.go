package core

import (
	"sync"
	"time"
)

// Clock tracks engine time for the game thread. Mods read it through
// the Time service; only the engine loop calls Start, Update and Stop.
type Clock struct {
	mu        sync.RWMutex
	startTime time.Time
	lastTick  time.Time
	elapsed   time.Duration
	delta     time.Duration
	frames    uint64
}

func NewClock() *Clock {
	return &Clock{}
}

// Updates the provided clock. Should be called just before checking elapsed time.
// Has no effect on non-started clocks.
func (c *Clock) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.startTime.IsZero() {
		return
	}
	now := time.Now()
	c.delta = now.Sub(c.lastTick)
	c.lastTick = now
	c.elapsed = now.Sub(c.startTime)
	c.frames++
}

// Starts the provided clock. Resets elapsed time.
func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startTime = time.Now()
	c.lastTick = c.startTime
	c.elapsed = 0
	c.delta = 0
	c.frames = 0
}

// Stops the provided clock. Does not reset elapsed time.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startTime = time.Time{}
}

func (c *Clock) Elapsed() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.elapsed
}

// Delta is the time between the last two updates.
func (c *Clock) Delta() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.delta
}

// Frames counts updates since Start.
func (c *Clock) Frames() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.frames
}
