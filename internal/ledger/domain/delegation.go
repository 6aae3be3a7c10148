package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Delegation grants a delegate authority to spend against an admin's limit
// until the expiry passes. Revocation flips IsActive but keeps the record,
// so reverse indices preserve history. Expiry is evaluated lazily at read
// and write time; nothing expires in the background.
type Delegation struct {
	Admin       string          `json:"admin"`
	Delegate    string          `json:"delegate"`
	SpendLimit  decimal.Decimal `json:"spend_limit"`
	SpentAmount decimal.Decimal `json:"spent_amount"`
	ExpiresAt   time.Time       `json:"expires_at"`
	IsActive    bool            `json:"is_active"`
}

// ActiveAt reports whether the delegation can authorize a spend at the
// given instant: the revocation flag and the expiry must both pass.
func (d *Delegation) ActiveAt(now time.Time) bool {
	return d.IsActive && now.Before(d.ExpiresAt)
}

// Remaining is spendLimit - spentAmount.
func (d *Delegation) Remaining() decimal.Decimal {
	return d.SpendLimit.Sub(d.SpentAmount)
}

type DelegationRepository interface {
	Get(admin, delegate string) (*Delegation, error)
	Save(delegation Delegation) error
	// DelegatesOf and AdminsOf are the deduplicated reverse indices; they
	// include revoked and expired pairs (history is never dropped).
	DelegatesOf(admin string) ([]string, error)
	AdminsOf(delegate string) ([]string, error)
}
