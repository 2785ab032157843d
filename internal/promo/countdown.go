package promo

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Countdown runs one ticking goroutine per user while the product step is on
// screen. Remaining time is re-derived from the absolute creation timestamp
// on every tick rather than counted down, so a delayed or skipped tick never
// drifts the clock. OnExpire fires exactly once, on the tick where the
// remaining time crosses from >0 to 0.
type Countdown struct {
	window   time.Duration
	interval time.Duration
	now      func() time.Time
	onTick   func(userID int64, remaining time.Duration)
	onExpire func(userID int64)

	mu      sync.Mutex
	entries map[int64]*countdownEntry
	wg      sync.WaitGroup
}

// countdownEntry identifies one run of the ticking goroutine. The pointer
// doubles as the run's identity so a replaced goroutine's cleanup cannot
// remove its successor's entry.
type countdownEntry struct {
	cancel context.CancelFunc
}

type CountdownConfig struct {
	Window   time.Duration
	Interval time.Duration // tick period, 1s unless overridden
	Now      func() time.Time
	OnTick   func(userID int64, remaining time.Duration)
	OnExpire func(userID int64)
}

func NewCountdown(cfg CountdownConfig) *Countdown {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Countdown{
		window:   cfg.Window,
		interval: cfg.Interval,
		now:      cfg.Now,
		onTick:   cfg.OnTick,
		onExpire: cfg.OnExpire,
		entries:  make(map[int64]*countdownEntry),
	}
}

// Remaining derives the unexpired part of the window from the creation
// timestamp. Safe to call at any time, running or not.
func (c *Countdown) Remaining(createdAt time.Time) time.Duration {
	remaining := c.window - c.now().Sub(createdAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Start begins ticking for a user, anchored to createdAt. Restarting for the
// same user replaces the previous ticker; the window itself never restarts,
// it stays anchored to the original creation time.
func (c *Countdown) Start(userID int64, createdAt time.Time) {
	ctx, cancel := context.WithCancel(context.Background())
	entry := &countdownEntry{cancel: cancel}

	c.mu.Lock()
	if prev, ok := c.entries[userID]; ok {
		prev.cancel()
	}
	c.entries[userID] = entry
	c.mu.Unlock()

	c.wg.Add(1)
	go c.run(ctx, userID, createdAt, entry)
}

// Stop cancels the user's ticker, if any. Must be called whenever the product
// step leaves the screen so no timer outlives it.
func (c *Countdown) Stop(userID int64) {
	c.mu.Lock()
	if entry, ok := c.entries[userID]; ok {
		entry.cancel()
		delete(c.entries, userID)
	}
	c.mu.Unlock()
}

func (c *Countdown) StopAll() {
	c.mu.Lock()
	for userID, entry := range c.entries {
		entry.cancel()
		delete(c.entries, userID)
	}
	c.mu.Unlock()
	c.wg.Wait()
}

func (c *Countdown) run(ctx context.Context, userID int64, createdAt time.Time, entry *countdownEntry) {
	defer c.wg.Done()
	defer func() {
		// Only remove the entry if it is still ours. A replaced run must
		// not delete its successor's cancel func, or Stop would miss it.
		c.mu.Lock()
		if c.entries[userID] == entry {
			delete(c.entries, userID)
		}
		c.mu.Unlock()
	}()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	prev := c.window
	tick := func() (done bool) {
		remaining := c.Remaining(createdAt)
		if c.onTick != nil {
			c.onTick(userID, remaining)
		}
		if remaining == 0 {
			if prev > 0 && c.onExpire != nil {
				c.onExpire(userID)
			}
			return true
		}
		prev = remaining
		return false
	}

	if tick() {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if tick() {
				return
			}
		}
	}
}

// FormatClock renders a remaining duration as zero-padded MM:SS.
func FormatClock(remaining time.Duration) string {
	totalSeconds := int(remaining / time.Second)
	return fmt.Sprintf("%02d:%02d", totalSeconds/60, totalSeconds%60)
}
