package store

import (
	"strings"
	"time"
)

// LoginMethod identifies which credential currently owns an account's
// password/provider fields.
type LoginMethod string

const (
	MethodPassword LoginMethod = "password"
	MethodGoogle   LoginMethod = "google"
	MethodTwitter  LoginMethod = "twitter"
)

// Account is one user. Email is the globally unique join key across
// login methods: linking a new method mutates LoginMethod and
// ProviderSubjectID on the existing record, it never creates a second
// account for the same email.
type Account struct {
	ID                string
	Email             string
	DisplayName       string
	LoginMethod       LoginMethod
	ProviderSubjectID string
	PasswordHash      string
	WalletAddress     string
	RewardPoints      int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Address is a shipping address owned by an account. At most one
// address per account carries IsDefault.
type Address struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	ZipCode   string    `json:"zipCode"`
	Country   string    `json:"country"`
	IsDefault bool      `json:"isDefault"`
	CreatedAt time.Time `json:"-"`
}

// AddressPatch carries a partial address update. Nil fields are left
// untouched; IsDefault is always applied.
type AddressPatch struct {
	Type      *string
	Street    *string
	City      *string
	State     *string
	ZipCode   *string
	Country   *string
	IsDefault bool
}

// RewardLog is one append-only reward bookkeeping entry.
type RewardLog struct {
	ID        string
	AccountID string
	Points    int
	Activity  string
	Metadata  map[string]any
	CreatedAt time.Time
}

// NormalizeEmail lowercases and trims an email so it can serve as the
// cross-provider join key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
