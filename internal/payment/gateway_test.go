package payment

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestChargeAlwaysDeclinesAtZeroRate(t *testing.T) {
	g := NewMockGateway(0, 0)
	for i := 0; i < 20; i++ {
		receipt, err := g.Charge(context.Background(), ChargeRequest{UserID: 1, AmountCents: 2500, Currency: "USD"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if receipt.Approved {
			t.Fatal("zero success rate must never approve")
		}
		if receipt.ID == "" {
			t.Fatal("declined charges still get a receipt ID")
		}
	}
}

func TestFailNextForcesASingleFault(t *testing.T) {
	g := NewMockGateway(0, 1)
	g.FailNext()

	_, err := g.Charge(context.Background(), ChargeRequest{UserID: 1})
	if !errors.Is(err, ErrGatewayUnavailable) {
		t.Fatalf("got %v, want ErrGatewayUnavailable", err)
	}

	// The flag is one-shot; the next call resolves normally.
	receipt, err := g.Charge(context.Background(), ChargeRequest{UserID: 1})
	if err != nil {
		t.Fatalf("second charge errored: %v", err)
	}
	if receipt.ID == "" {
		t.Error("second charge should produce a receipt")
	}
}

func TestChargeRespectsContextDuringDelay(t *testing.T) {
	g := NewMockGateway(time.Hour, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := g.Charge(ctx, ChargeRequest{UserID: 1})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("got %v, want context.DeadlineExceeded", err)
	}
	if time.Since(start) > time.Second {
		t.Error("charge did not return promptly on context cancellation")
	}
}
