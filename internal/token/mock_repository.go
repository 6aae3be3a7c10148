package token

import (
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"
)

// MockRepository keeps balances in memory for tests. The transaction
// argument is ignored; mutation failures are simulated with ShouldFail.
type MockRepository struct {
	Balances   map[string]decimal.Decimal
	ShouldFail bool
}

func NewMockRepository() *MockRepository {
	return &MockRepository{Balances: make(map[string]decimal.Decimal)}
}

func (m *MockRepository) BalanceOf(account string) (decimal.Decimal, error) {
	balance, ok := m.Balances[account]
	if !ok {
		return decimal.Zero, nil
	}
	return balance, nil
}

func (m *MockRepository) AddWithTransaction(_ *sql.Tx, account string, amount decimal.Decimal) error {
	if m.ShouldFail {
		return errors.New("mock mint failure")
	}
	m.Balances[account] = m.Balances[account].Add(amount)
	return nil
}
