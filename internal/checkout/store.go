package checkout

import (
	"log"
	"sync"
	"time"

	"github.com/heymomentum/momentum-checkout-bot/store"
	"github.com/heymomentum/momentum-checkout-bot/types"
)

// PaymentState is one user's checkout state. Email, name and the promo code
// pair are written through to the profile store; the discount flag is always
// re-derived from the creation timestamp, and the price snapshot lives only
// in memory for the current process.
type PaymentState struct {
	Email              string
	Name               string
	PromoCode          string
	PromoCodeCreatedAt *time.Time
	IsDiscountActive   bool

	SnapshotPrice    *float64
	SnapshotDiscount *bool
}

// HasSnapshot reports whether a checkout price has been locked. Both snapshot
// fields are set and cleared together.
func (p PaymentState) HasSnapshot() bool {
	return p.SnapshotPrice != nil && p.SnapshotDiscount != nil
}

// Store owns every user's PaymentState for the lifetime of the process.
// States are rehydrated lazily from the profile store on first access, after
// which the discount flag is recomputed rather than trusted from a previous
// session.
type Store struct {
	profiles types.ProfileStore
	window   time.Duration
	now      func() time.Time

	mu     sync.Mutex
	states map[int64]*PaymentState
}

func NewStore(profiles types.ProfileStore, window time.Duration) *Store {
	return &Store{
		profiles: profiles,
		window:   window,
		now:      time.Now,
		states:   make(map[int64]*PaymentState),
	}
}

// state returns the in-memory entry for a user, rehydrating once from the
// profile store. A missing or corrupt blob falls back to defaults; storage
// trouble never propagates past this point.
//
// Must be called with s.mu held. The lock is released for the duration of
// the profile read so one slow load never stalls other users; whichever
// concurrent loader stores first wins.
func (s *Store) state(userID int64) *PaymentState {
	if ps, ok := s.states[userID]; ok {
		return ps
	}

	s.mu.Unlock()
	profile, err := s.profiles.Load(userID)
	s.mu.Lock()

	if ps, ok := s.states[userID]; ok {
		return ps
	}

	ps := &PaymentState{}
	switch {
	case err == store.ErrNotFound:
	case err != nil:
		log.Printf("Profile rehydration failed for user %d, starting fresh: %v", userID, err)
	case profile != nil:
		ps.Email = profile.Email
		ps.Name = profile.Name
		ps.PromoCode = profile.PromoCode
		ps.PromoCodeCreatedAt = profile.PromoCodeCreatedAt
	}

	s.recomputeDiscount(ps)
	s.states[userID] = ps
	return ps
}

func (s *Store) recomputeDiscount(ps *PaymentState) {
	if ps.PromoCodeCreatedAt == nil {
		ps.IsDiscountActive = false
		return
	}
	ps.IsDiscountActive = s.now().Sub(*ps.PromoCodeCreatedAt) < s.window
}

func (s *Store) persist(userID int64, ps *PaymentState) {
	err := s.profiles.Save(userID, types.Profile{
		Email:              ps.Email,
		Name:               ps.Name,
		PromoCode:          ps.PromoCode,
		PromoCodeCreatedAt: ps.PromoCodeCreatedAt,
	})
	if err != nil {
		log.Printf("Profile persist failed for user %d: %v", userID, err)
	}
}

// State returns a copy of the user's current payment state.
func (s *Store) State(userID int64) PaymentState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.state(userID)
}

func (s *Store) SetEmail(userID int64, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ps := s.state(userID)
	ps.Email = email
	s.persist(userID, ps)
}

func (s *Store) SetName(userID int64, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ps := s.state(userID)
	ps.Name = name
	s.persist(userID, ps)
}

// SetPromoCode stores the code and its creation timestamp together and
// immediately recomputes the discount flag.
func (s *Store) SetPromoCode(userID int64, code string, createdAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ps := s.state(userID)
	ps.PromoCode = code
	ps.PromoCodeCreatedAt = &createdAt
	s.recomputeDiscount(ps)
	s.persist(userID, ps)
}

// CheckPromoCodeValidity re-derives the discount flag from the creation
// timestamp. Idempotent; safe to call redundantly.
func (s *Store) CheckPromoCodeValidity(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ps := s.state(userID)
	s.recomputeDiscount(ps)
	return ps.IsDiscountActive
}

// SetCheckoutPriceSnapshot locks the price and discount state the checkout
// step will charge, regardless of what happens to the live discount after.
func (s *Store) SetCheckoutPriceSnapshot(userID int64, price float64, discountActive bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ps := s.state(userID)
	ps.SnapshotPrice = &price
	ps.SnapshotDiscount = &discountActive
}

func (s *Store) ClearCheckoutPriceSnapshot(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ps := s.state(userID)
	ps.SnapshotPrice = nil
	ps.SnapshotDiscount = nil
}

// Reset clears the user's state to initial values, snapshot included, and
// drops the persisted blob.
func (s *Store) Reset(userID int64) {
	s.debugDump(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[userID] = &PaymentState{}
	if err := s.profiles.Delete(userID); err != nil && err != store.ErrNotFound {
		log.Printf("Profile delete failed for user %d: %v", userID, err)
	}
}

// debugDump is a diagnostics helper, deliberately not part of the store's
// public contract.
func (s *Store) debugDump(userID int64) {
	s.mu.Lock()
	ps := *s.state(userID)
	s.mu.Unlock()
	log.Printf("payment state user=%d email=%q name=%q promo=%q discount=%v snapshot=%v",
		userID, ps.Email, ps.Name, ps.PromoCode, ps.IsDiscountActive, ps.HasSnapshot())
}
