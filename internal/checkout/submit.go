package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/heymomentum/momentum-checkout-bot/internal/payment"
	"github.com/heymomentum/momentum-checkout-bot/internal/pricing"
	"github.com/heymomentum/momentum-checkout-bot/internal/validate"
	"github.com/heymomentum/momentum-checkout-bot/types"
)

// ErrSubmissionInFlight rejects a second Buy Now while one is already being
// processed.
var ErrSubmissionInFlight = errors.New("a payment is already being processed")

type Outcome int

const (
	OutcomeSucceeded Outcome = iota
	OutcomeDeclined
)

type Result struct {
	Outcome         Outcome
	Receipt         payment.Receipt
	AmountCents     int64
	DiscountApplied bool
}

// Submitter drives a checkout attempt: form-validity gate, in-flight guard,
// gateway call, then the success/decline/error branches. On success it
// records the purchase and clears the price snapshot; on decline or error it
// leaves all state intact so the user can edit or retry.
type Submitter struct {
	store     *Store
	gateway   payment.Gateway
	purchases types.PurchaseStore // optional
	plan      pricing.Plan
	now       func() time.Time

	mu       sync.Mutex
	inFlight map[int64]bool
}

func NewSubmitter(store *Store, gateway payment.Gateway, purchases types.PurchaseStore, plan pricing.Plan) *Submitter {
	return &Submitter{
		store:     store,
		gateway:   gateway,
		purchases: purchases,
		plan:      plan,
		now:       time.Now,
		inFlight:  make(map[int64]bool),
	}
}

// IsLoading reports whether the user has a submission in flight. The Buy Now
// affordance must be treated as disabled while this is true.
func (s *Submitter) IsLoading(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight[userID]
}

// Submit attempts the payment with the given form values. Validation errors
// (validate.ErrCardExpired, validate.ErrIncompleteForm) and
// ErrSubmissionInFlight are returned before any gateway call; a gateway
// fault wraps payment.ErrGatewayUnavailable. Retrying is just calling Submit
// again with the current form values.
func (s *Submitter) Submit(ctx context.Context, userID int64, form types.PaymentForm) (Result, error) {
	if err := validate.CheckForm(form, s.now()); err != nil {
		return Result{}, err
	}

	s.mu.Lock()
	if s.inFlight[userID] {
		s.mu.Unlock()
		return Result{}, ErrSubmissionInFlight
	}
	s.inFlight[userID] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inFlight, userID)
		s.mu.Unlock()
	}()

	// Charge the locked snapshot; without one, fall back to the full price.
	price := s.plan.OriginalPrice
	discountApplied := false
	if state := s.store.State(userID); state.HasSnapshot() {
		price = *state.SnapshotPrice
		discountApplied = *state.SnapshotDiscount
	}
	amountCents := pricing.Cents(price)

	receipt, err := s.gateway.Charge(ctx, payment.ChargeRequest{
		UserID:      userID,
		AmountCents: amountCents,
		Currency:    s.plan.Currency,
	})
	if err != nil {
		return Result{}, fmt.Errorf("charge: %w", err)
	}

	if !receipt.Approved {
		return Result{
			Outcome:         OutcomeDeclined,
			Receipt:         receipt,
			AmountCents:     amountCents,
			DiscountApplied: discountApplied,
		}, nil
	}

	s.recordPurchase(userID, amountCents, discountApplied, receipt)
	s.store.ClearCheckoutPriceSnapshot(userID)

	return Result{
		Outcome:         OutcomeSucceeded,
		Receipt:         receipt,
		AmountCents:     amountCents,
		DiscountApplied: discountApplied,
	}, nil
}

func (s *Submitter) recordPurchase(userID int64, amountCents int64, discountApplied bool, receipt payment.Receipt) {
	if s.purchases == nil {
		return
	}

	state := s.store.State(userID)
	promoCode := ""
	if discountApplied {
		promoCode = state.PromoCode
	}

	_, err := s.purchases.RecordPurchase(types.Purchase{
		UserID:      userID,
		Name:        state.Name,
		Email:       state.Email,
		AmountCents: amountCents,
		Currency:    s.plan.Currency,
		PromoCode:   promoCode,
		ReceiptID:   receipt.ID,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		log.Printf("Failed to record purchase for user %d: %v", userID, err)
	}
}
