package checkout

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/heymomentum/momentum-checkout-bot/store"
	"github.com/heymomentum/momentum-checkout-bot/types"
)

type fakeProfiles struct {
	mu       sync.Mutex
	blobs    map[int64]types.Profile
	loadErr  error
	saveErr  error
	loadHook func(userID int64) // runs before Load takes the fake's lock
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{blobs: make(map[int64]types.Profile)}
}

func (f *fakeProfiles) Load(userID int64) (*types.Profile, error) {
	if f.loadHook != nil {
		f.loadHook(userID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	p, ok := f.blobs[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProfiles) Save(userID int64, profile types.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.blobs[userID] = profile
	return nil
}

func (f *fakeProfiles) Delete(userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.blobs, userID)
	return nil
}

const testWindow = 5 * time.Minute

func newTestStore(profiles types.ProfileStore, now time.Time) (*Store, *time.Time) {
	current := now
	s := NewStore(profiles, testWindow)
	s.now = func() time.Time { return current }
	return s, &current
}

func TestDiscountWindowBoundary(t *testing.T) {
	base := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	s, now := newTestStore(newFakeProfiles(), base)

	s.SetPromoCode(1, "johndoe_0826", base)
	if !s.CheckPromoCodeValidity(1) {
		t.Fatal("discount should be active immediately after code creation")
	}

	*now = base.Add(4*time.Minute + 59*time.Second)
	if !s.CheckPromoCodeValidity(1) {
		t.Error("discount should still be active one second before the window closes")
	}

	*now = base.Add(5 * time.Minute)
	if s.CheckPromoCodeValidity(1) {
		t.Error("discount should be inactive exactly at the window boundary")
	}

	*now = base.Add(5*time.Minute + time.Second)
	if s.CheckPromoCodeValidity(1) {
		t.Error("discount should be inactive after the window")
	}
}

func TestNoPromoCodeMeansNoDiscount(t *testing.T) {
	base := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	s, _ := newTestStore(newFakeProfiles(), base)

	if s.CheckPromoCodeValidity(1) {
		t.Error("a user without a promo code can never have an active discount")
	}
	if st := s.State(1); st.IsDiscountActive {
		t.Error("fresh state should not carry a discount")
	}
}

func TestPersistRoundTrip(t *testing.T) {
	base := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	profiles := newFakeProfiles()
	s, _ := newTestStore(profiles, base)

	s.SetEmail(1, "alex@heymomentum.io")
	s.SetName(1, "Alex")
	s.SetPromoCode(1, "alex_0826", base)
	s.SetCheckoutPriceSnapshot(1, 25.0, true)

	blob, ok := profiles.blobs[1]
	if !ok {
		t.Fatal("profile blob was never written")
	}
	if blob.Email != "alex@heymomentum.io" || blob.Name != "Alex" || blob.PromoCode != "alex_0826" {
		t.Errorf("persisted blob = %+v", blob)
	}
	if blob.PromoCodeCreatedAt == nil || !blob.PromoCodeCreatedAt.Equal(base) {
		t.Errorf("persisted createdAt = %v, want %v", blob.PromoCodeCreatedAt, base)
	}

	// A new store sees the persisted fields but re-derives the discount and
	// starts with no snapshot.
	fresh, _ := newTestStore(profiles, base.Add(time.Minute))
	st := fresh.State(1)
	if st.Email != "alex@heymomentum.io" || st.Name != "Alex" || st.PromoCode != "alex_0826" {
		t.Errorf("rehydrated state = %+v", st)
	}
	if !st.IsDiscountActive {
		t.Error("rehydrated discount should be active one minute in")
	}
	if st.HasSnapshot() {
		t.Error("price snapshot must not survive a restart")
	}

	another, _ := newTestStore(profiles, base.Add(time.Hour))
	if st := another.State(1); st.IsDiscountActive {
		t.Error("rehydrated discount should be inactive after the window")
	}
}

func TestCorruptProfileFallsBackToDefaults(t *testing.T) {
	base := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	profiles := newFakeProfiles()
	profiles.loadErr = errors.New("unexpected end of JSON input")
	s, _ := newTestStore(profiles, base)

	st := s.State(1)
	if st.Email != "" || st.Name != "" || st.PromoCode != "" || st.IsDiscountActive {
		t.Errorf("corrupt blob should yield defaults, got %+v", st)
	}
}

func TestSnapshotFieldsMoveTogether(t *testing.T) {
	base := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	s, _ := newTestStore(newFakeProfiles(), base)

	if s.State(1).HasSnapshot() {
		t.Fatal("new state should have no snapshot")
	}

	s.SetCheckoutPriceSnapshot(1, 25.0, true)
	st := s.State(1)
	if !st.HasSnapshot() {
		t.Fatal("snapshot should be set")
	}
	if *st.SnapshotPrice != 25.0 || *st.SnapshotDiscount != true {
		t.Errorf("snapshot = (%v, %v), want (25.0, true)", *st.SnapshotPrice, *st.SnapshotDiscount)
	}

	s.ClearCheckoutPriceSnapshot(1)
	st = s.State(1)
	if st.SnapshotPrice != nil || st.SnapshotDiscount != nil {
		t.Error("clearing must nil both snapshot fields")
	}
}

func TestReset(t *testing.T) {
	base := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	profiles := newFakeProfiles()
	s, _ := newTestStore(profiles, base)

	s.SetEmail(1, "alex@heymomentum.io")
	s.SetPromoCode(1, "alex_0826", base)
	s.SetCheckoutPriceSnapshot(1, 25.0, true)

	s.Reset(1)

	st := s.State(1)
	if st.Email != "" || st.PromoCode != "" || st.IsDiscountActive || st.HasSnapshot() {
		t.Errorf("reset state = %+v, want defaults", st)
	}
	if _, ok := profiles.blobs[1]; ok {
		t.Error("reset must drop the persisted blob")
	}
}

func TestSlowRehydrationDoesNotBlockOtherUsers(t *testing.T) {
	base := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	profiles := newFakeProfiles()

	entered := make(chan struct{})
	release := make(chan struct{})
	profiles.loadHook = func(userID int64) {
		if userID == 1 {
			close(entered)
			<-release
		}
	}

	s, _ := newTestStore(profiles, base)

	loaded := make(chan struct{})
	go func() {
		s.State(1)
		close(loaded)
	}()
	<-entered

	// User 2's state access must not queue behind user 1's stalled load.
	other := make(chan struct{})
	go func() {
		s.State(2)
		close(other)
	}()
	select {
	case <-other:
	case <-time.After(time.Second):
		t.Fatal("another user's state access blocked behind a slow rehydration")
	}

	close(release)
	<-loaded
}

func TestStateReturnsCopy(t *testing.T) {
	base := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	s, _ := newTestStore(newFakeProfiles(), base)

	s.SetEmail(1, "alex@heymomentum.io")
	st := s.State(1)
	st.Email = "mutated@example.com"

	if got := s.State(1).Email; got != "alex@heymomentum.io" {
		t.Errorf("store state mutated through returned copy: %q", got)
	}
}
