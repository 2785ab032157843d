package types

import "time"

// PaymentForm holds the card fields in their canonical formatted shape.
// It lives only on the checkout session and is never persisted.
type PaymentForm struct {
	CardNumber string `json:"card_number"`
	ExpiryDate string `json:"expiry_date"`
	CVV        string `json:"cvv"`
	NameOnCard string `json:"name_on_card"`
}

type CheckoutSession struct {
	ID             string      `json:"id"`
	UserID         int64       `json:"user_id"`
	ChatID         int64       `json:"chat_id"`
	State          FunnelState `json:"state"`
	Form           PaymentForm `json:"form"`
	PromoMessageID int         `json:"promo_message_id,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
	ExpiresAt      time.Time   `json:"expires_at"`
}

// ClearForm drops the card fields when the user leaves checkout.
func (s *CheckoutSession) ClearForm() {
	s.Form = PaymentForm{}
}

type SessionStore interface {
	CreateSession(session *CheckoutSession) error
	GetSession(sessionID string) (*CheckoutSession, error)
	GetUserSession(userID int64) (*CheckoutSession, error)
	UpdateSession(session *CheckoutSession) error
	UpdateSessionState(sessionID string, state FunnelState) error
	DeleteSession(sessionID string) error
}
