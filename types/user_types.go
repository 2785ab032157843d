package types

import "time"

type User struct {
	UserID    int64
	ChatID    int64
	Username  string
	FirstName string
	LastName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile is the persisted subset of a user's checkout state. It survives
// restarts; the discount flag deliberately does not.
type Profile struct {
	Email              string     `json:"email"`
	Name               string     `json:"name"`
	PromoCode          string     `json:"promo_code,omitempty"`
	PromoCodeCreatedAt *time.Time `json:"promo_code_created_at,omitempty"`
}

type Purchase struct {
	UserID      int64
	Name        string
	Email       string
	AmountCents int64
	Currency    string
	PromoCode   string
	ReceiptID   string
	CreatedAt   time.Time
}

type ProfileStore interface {
	Load(userID int64) (*Profile, error)
	Save(userID int64, profile Profile) error
	Delete(userID int64) error
}

type UserStore interface {
	UpsertUser(user User) error
	GetUser(userID int64) (*User, error)
}

type PurchaseStore interface {
	RecordPurchase(p Purchase) (inserted bool, err error)
	LatestPurchase(userID int64) (*Purchase, error)
}
