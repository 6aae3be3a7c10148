package token

import (
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/vantro/chainledger/internal/ledger/errors"
)

type Repository interface {
	BalanceOf(account string) (decimal.Decimal, error)
	AddWithTransaction(tx *sql.Tx, account string, amount decimal.Decimal) error
}

// Service is the fungible reward-unit ledger. Minting is an internal
// capability: the only holder is the achievement claim path, and no HTTP
// route reaches MintWithTransaction.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// MintWithTransaction credits reward units inside the caller's transaction
// so a failed claim leaves no balance behind.
func (s *Service) MintWithTransaction(tx *sql.Tx, to string, amount decimal.Decimal) error {
	if to == "" {
		return errors.NewValidationError("mint recipient is required")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return errors.ErrInvalidAmount
	}
	return s.repo.AddWithTransaction(tx, to, amount)
}

func (s *Service) BalanceOf(account string) (decimal.Decimal, error) {
	return s.repo.BalanceOf(account)
}
