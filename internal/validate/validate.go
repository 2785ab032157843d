package validate

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/heymomentum/momentum-checkout-bot/types"
)

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nameRegex  = regexp.MustCompile(`^[a-zA-Z\s]+$`)
)

var (
	// ErrCardExpired marks a fully-typed expiry date that lies in the past.
	ErrCardExpired = errors.New("expiry date is invalid or expired")
	// ErrIncompleteForm marks any other way the form can fail validation.
	ErrIncompleteForm = errors.New("payment details are incomplete")
)

const (
	cardNumberLength = 16
	expiryDateLength = 4
	cvvMinLength     = 3
)

func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	return emailRegex.MatchString(email)
}

func IsValidName(name string) bool {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < 3 {
		return false
	}
	return nameRegex.MatchString(trimmed)
}

func expiryDigits(expiry string) string {
	return strings.ReplaceAll(expiry, "/", "")
}

// IsExpiryDateValid reports whether a 4-digit MM/YY expiry is this month or
// later. Cards expire at the end of their stated month, so the current month
// still passes.
func IsExpiryDateValid(expiry string, now time.Time) bool {
	cleaned := expiryDigits(expiry)
	if len(cleaned) != expiryDateLength {
		return false
	}

	month, err := strconv.Atoi(cleaned[:2])
	if err != nil || month < 1 || month > 12 {
		return false
	}
	yy, err := strconv.Atoi(cleaned[2:])
	if err != nil {
		return false
	}
	year := 2000 + yy

	if year > now.Year() {
		return true
	}
	if year < now.Year() {
		return false
	}
	return month >= int(now.Month())
}

// IsExpiryDateInvalid is the display flag: it only fires once all four digits
// are typed, so a half-typed date is never flagged.
func IsExpiryDateInvalid(expiry string, now time.Time) bool {
	if len(expiryDigits(expiry)) != expiryDateLength {
		return false
	}
	return !IsExpiryDateValid(expiry, now)
}

// CheckForm validates the whole form, returning ErrCardExpired for a
// completed-but-expired date and ErrIncompleteForm for everything else.
func CheckForm(form types.PaymentForm, now time.Time) error {
	cardCleaned := strings.ReplaceAll(form.CardNumber, " ", "")
	expiryCleaned := expiryDigits(form.ExpiryDate)

	if len(expiryCleaned) == expiryDateLength && !IsExpiryDateValid(form.ExpiryDate, now) {
		return ErrCardExpired
	}

	if len(cardCleaned) != cardNumberLength ||
		len(expiryCleaned) != expiryDateLength ||
		len(form.CVV) < cvvMinLength ||
		strings.TrimSpace(form.NameOnCard) == "" {
		return ErrIncompleteForm
	}

	return nil
}

func ValidateForm(form types.PaymentForm, now time.Time) bool {
	return CheckForm(form, now) == nil
}
