package promo

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRemaining(t *testing.T) {
	base := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	c := NewCountdown(CountdownConfig{
		Window: 5 * time.Minute,
		Now:    func() time.Time { return base },
	})

	tests := []struct {
		name      string
		createdAt time.Time
		want      time.Duration
	}{
		{"just created", base, 5 * time.Minute},
		{"one minute in", base.Add(-time.Minute), 4 * time.Minute},
		{"one second left", base.Add(-4*time.Minute - 59*time.Second), time.Second},
		{"exactly expired", base.Add(-5 * time.Minute), 0},
		{"long expired", base.Add(-time.Hour), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Remaining(tt.createdAt); got != tt.want {
				t.Errorf("Remaining = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCountdownExpiresExactlyOnce(t *testing.T) {
	var expires int32
	expired := make(chan struct{}, 1)

	c := NewCountdown(CountdownConfig{
		Window:   30 * time.Millisecond,
		Interval: 5 * time.Millisecond,
		OnExpire: func(userID int64) {
			atomic.AddInt32(&expires, 1)
			select {
			case expired <- struct{}{}:
			default:
			}
		},
	})

	c.Start(1, time.Now())

	select {
	case <-expired:
	case <-time.After(time.Second):
		t.Fatal("countdown never expired")
	}

	// The goroutine exits on expiry; no further callbacks may arrive.
	time.Sleep(30 * time.Millisecond)
	if n := atomic.LoadInt32(&expires); n != 1 {
		t.Errorf("OnExpire fired %d times, want 1", n)
	}
	c.StopAll()
}

func TestCountdownExpiredWindowFiresImmediately(t *testing.T) {
	expired := make(chan struct{}, 1)
	c := NewCountdown(CountdownConfig{
		Window:   30 * time.Millisecond,
		Interval: 5 * time.Millisecond,
		OnExpire: func(userID int64) {
			select {
			case expired <- struct{}{}:
			default:
			}
		},
	})

	// Anchor far enough back that the window is already closed.
	c.Start(1, time.Now().Add(-time.Minute))

	select {
	case <-expired:
	case <-time.After(time.Second):
		t.Fatal("pre-expired countdown never fired OnExpire")
	}
	c.StopAll()
}

func TestCountdownTicksCountDown(t *testing.T) {
	var mu sync.Mutex
	var seen []time.Duration

	c := NewCountdown(CountdownConfig{
		Window:   50 * time.Millisecond,
		Interval: 5 * time.Millisecond,
		OnTick: func(userID int64, remaining time.Duration) {
			mu.Lock()
			seen = append(seen, remaining)
			mu.Unlock()
		},
	})

	c.Start(7, time.Now())
	time.Sleep(30 * time.Millisecond)
	c.StopAll()

	mu.Lock()
	defer mu.Unlock()
	if len(seen) < 2 {
		t.Fatalf("expected several ticks, got %d", len(seen))
	}
	for i := 1; i < len(seen); i++ {
		if seen[i] > seen[i-1] {
			t.Errorf("remaining time increased between ticks: %v then %v", seen[i-1], seen[i])
		}
	}
}

func TestCountdownStop(t *testing.T) {
	var ticks int32
	c := NewCountdown(CountdownConfig{
		Window:   time.Hour,
		Interval: 5 * time.Millisecond,
		OnTick: func(userID int64, remaining time.Duration) {
			atomic.AddInt32(&ticks, 1)
		},
	})

	c.Start(1, time.Now())
	time.Sleep(20 * time.Millisecond)
	c.Stop(1)
	c.StopAll() // waits for the goroutine to drain

	before := atomic.LoadInt32(&ticks)
	time.Sleep(30 * time.Millisecond)
	after := atomic.LoadInt32(&ticks)
	if before != after {
		t.Errorf("ticks continued after Stop: %d then %d", before, after)
	}
}

func TestCountdownRestartThenStop(t *testing.T) {
	var ticks int32
	c := NewCountdown(CountdownConfig{
		Window:   time.Hour,
		Interval: 5 * time.Millisecond,
		OnTick: func(userID int64, remaining time.Duration) {
			atomic.AddInt32(&ticks, 1)
		},
	})

	// The second Start replaces the first run; the replaced goroutine's
	// cleanup must leave the replacement's entry in place so Stop can
	// still find it.
	c.Start(1, time.Now())
	c.Start(1, time.Now())
	time.Sleep(20 * time.Millisecond)
	c.Stop(1)
	c.StopAll()

	before := atomic.LoadInt32(&ticks)
	time.Sleep(30 * time.Millisecond)
	after := atomic.LoadInt32(&ticks)
	if before != after {
		t.Errorf("ticks continued after Stop of a restarted countdown: %d then %d", before, after)
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		remaining time.Duration
		want      string
	}{
		{5 * time.Minute, "05:00"},
		{4*time.Minute + 59*time.Second, "04:59"},
		{61 * time.Second, "01:01"},
		{9 * time.Second, "00:09"},
		{0, "00:00"},
		{500 * time.Millisecond, "00:00"},
	}
	for _, tt := range tests {
		if got := FormatClock(tt.remaining); got != tt.want {
			t.Errorf("FormatClock(%v) = %q, want %q", tt.remaining, got, tt.want)
		}
	}
}
