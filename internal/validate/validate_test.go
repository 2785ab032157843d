package validate

import (
	"errors"
	"testing"
	"time"

	"github.com/heymomentum/momentum-checkout-bot/types"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"alex@heymomentum.io", true},
		{"a@b.co", true},
		{"first.last+tag@sub.example.com", true},
		{"", false},
		{"   ", false},
		{"foo@bar", false},
		{"foo.bar.com", false},
		{"foo @bar.com", false},
		{"@bar.com", false},
		{"foo@", false},
	}
	for _, tt := range tests {
		if got := IsValidEmail(tt.email); got != tt.want {
			t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestIsValidName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"John Doe", true},
		{"Amy", true},
		{"  Amy  ", true},
		{"", false},
		{"Al", false},
		{"John3", false},
		{"John_Doe", false},
	}
	for _, tt := range tests {
		if got := IsValidName(tt.name); got != tt.want {
			t.Errorf("IsValidName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestIsExpiryDateValid(t *testing.T) {
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		expiry string
		want   bool
	}{
		{"current month passes", "08/26", true},
		{"previous month fails", "07/26", false},
		{"next month passes", "09/26", true},
		{"previous year fails", "12/25", false},
		{"far future passes", "01/34", true},
		{"month zero fails", "00/30", false},
		{"month thirteen fails", "13/30", false},
		{"incomplete fails", "08/2", false},
		{"empty fails", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsExpiryDateValid(tt.expiry, now); got != tt.want {
				t.Errorf("IsExpiryDateValid(%q) = %v, want %v", tt.expiry, got, tt.want)
			}
		})
	}
}

func TestIsExpiryDateInvalid(t *testing.T) {
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)

	// Half-typed dates are never flagged; only a complete bad date is.
	if IsExpiryDateInvalid("0", now) {
		t.Error("single digit should not be flagged")
	}
	if IsExpiryDateInvalid("07/2", now) {
		t.Error("three digits should not be flagged")
	}
	if !IsExpiryDateInvalid("07/26", now) {
		t.Error("complete past date should be flagged")
	}
	if IsExpiryDateInvalid("09/26", now) {
		t.Error("complete future date should not be flagged")
	}
}

func TestCheckForm(t *testing.T) {
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)

	valid := types.PaymentForm{
		CardNumber: "4242 4242 4242 4242",
		ExpiryDate: "12/30",
		CVV:        "123",
		NameOnCard: "John Doe",
	}

	if err := CheckForm(valid, now); err != nil {
		t.Fatalf("valid form: unexpected error %v", err)
	}
	if !ValidateForm(valid, now) {
		t.Error("ValidateForm should accept a valid form")
	}

	expired := valid
	expired.ExpiryDate = "07/26"
	if err := CheckForm(expired, now); !errors.Is(err, ErrCardExpired) {
		t.Errorf("expired card: got %v, want ErrCardExpired", err)
	}

	tests := []struct {
		name   string
		mutate func(f *types.PaymentForm)
	}{
		{"short card number", func(f *types.PaymentForm) { f.CardNumber = "4242 4242" }},
		{"half-typed expiry", func(f *types.PaymentForm) { f.ExpiryDate = "12/3" }},
		{"short cvv", func(f *types.PaymentForm) { f.CVV = "12" }},
		{"blank name", func(f *types.PaymentForm) { f.NameOnCard = "   " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid
			tt.mutate(&form)
			if err := CheckForm(form, now); !errors.Is(err, ErrIncompleteForm) {
				t.Errorf("got %v, want ErrIncompleteForm", err)
			}
		})
	}
}
