package domain

import (
	"time"

	"github.com/google/uuid"
)

// AccountStatus represents the state of a principal's account.
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "ACTIVE"
	AccountStatusSuspended AccountStatus = "SUSPENDED"
)

// Account is a registered principal. The Address is the on-ledger
// identity used as listing seller and proceeds key; the key pair
// authenticates signed marketplace calls.
type Account struct {
	ID           uuid.UUID     `json:"id"`
	Username     string        `json:"username"`
	PasswordHash string        `json:"-"` // Never expose
	Address      string        `json:"address"`
	AccessKey    string        `json:"access_key"`
	SecretKeyEnc string        `json:"-"` // Encrypted, never expose
	Status       AccountStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// IsActive returns true if the account may initiate operations.
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}
