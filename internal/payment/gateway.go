package payment

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrGatewayUnavailable is the call itself failing, as opposed to a resolved
// decline. Callers offer retry for this one.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

type ChargeRequest struct {
	UserID      int64
	AmountCents int64
	Currency    string
}

type Receipt struct {
	ID       string
	Approved bool
}

type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (Receipt, error)
}

// MockGateway stands in for a real payment processor: it waits a fixed
// artificial delay and resolves with a random outcome at the configured
// success rate. FailNext forces the next call to error outright, which is
// how tests reach the retry path.
type MockGateway struct {
	delay       time.Duration
	successRate float64

	mu       sync.Mutex
	rng      *rand.Rand
	failNext bool
}

func NewMockGateway(delay time.Duration, successRate float64) *MockGateway {
	return &MockGateway{
		delay:       delay,
		successRate: successRate,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (g *MockGateway) FailNext() {
	g.mu.Lock()
	g.failNext = true
	g.mu.Unlock()
}

func (g *MockGateway) Charge(ctx context.Context, req ChargeRequest) (Receipt, error) {
	if g.delay > 0 {
		timer := time.NewTimer(g.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Receipt{}, ctx.Err()
		case <-timer.C:
		}
	}

	g.mu.Lock()
	if g.failNext {
		g.failNext = false
		g.mu.Unlock()
		return Receipt{}, ErrGatewayUnavailable
	}
	// Keep this exact comparison: rewriting it can silently invert the odds.
	approved := g.rng.Float64() > 1-g.successRate
	g.mu.Unlock()

	return Receipt{
		ID:       uuid.New().String(),
		Approved: approved,
	}, nil
}
