package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vantro/chainledger/internal/ledger/errors"
)

// Expense is an append-only record of a single spend. Amounts carry
// 18-decimal fixed-point token values, so they are decimals rather than
// int64 (one full token is 1e18 base units).
type Expense struct {
	ID           int64           `json:"id"`
	User         string          `json:"user"`
	Amount       decimal.Decimal `json:"amount"`
	Category     string          `json:"category"`
	Description  string          `json:"description"`
	Reimbursable bool            `json:"reimbursable"`
	RecordedAt   time.Time       `json:"recorded_at"`
}

func (e *Expense) Validate() error {
	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return errors.ErrInvalidAmount
	}
	if e.User == "" {
		return errors.NewValidationError("user account is required")
	}
	if e.Category == "" {
		return errors.ErrUnknownCategory
	}
	return nil
}

// DefaultCategories seeds the category registry; the registry owner can
// extend it at runtime.
var DefaultCategories = []string{
	"Food",
	"Transportation",
	"Accommodation",
	"Entertainment",
	"Utilities",
	"Other",
}

type ExpenseRepository interface {
	SaveCategory(name string) error
	CategoryExists(name string) (bool, error)
	ListCategories() ([]string, error)
	Save(expense Expense) (int64, error)
	FindByID(id int64) (*Expense, error)
	FindByUser(user string) ([]Expense, error)
	FindByUserAndCategory(user, category string) ([]Expense, error)
}
