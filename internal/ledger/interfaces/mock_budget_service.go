package interfaces

import (
	"github.com/shopspring/decimal"

	"github.com/vantro/chainledger/internal/ledger/domain"
	"github.com/vantro/chainledger/internal/ledger/errors"
)

type MockBudgetService struct {
	budgets map[string]domain.Budget
	tracked []decimal.Decimal
}

func newMockBudgetService() *MockBudgetService {
	return &MockBudgetService{budgets: make(map[string]domain.Budget)}
}

func (m *MockBudgetService) CreateBudget(caller, category string, amount decimal.Decimal, period domain.Period) (*domain.Budget, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.ErrInvalidAmount
	}
	budget := domain.Budget{User: caller, Category: category, Amount: amount, Period: period, IsActive: true}
	m.budgets[caller+"|"+category] = budget
	return &budget, nil
}

func (m *MockBudgetService) TrackExpense(user string, amount decimal.Decimal, category string) error {
	m.tracked = append(m.tracked, amount)
	return nil
}

func (m *MockBudgetService) GetBudget(user, category string) (*domain.Budget, error) {
	budget, ok := m.budgets[user+"|"+category]
	if !ok {
		return nil, errors.ErrBudgetNotFound
	}
	return &budget, nil
}

func (m *MockBudgetService) GetRemainingBudget(user, category string) (decimal.Decimal, error) {
	budget, err := m.GetBudget(user, category)
	if err != nil {
		return decimal.Zero, err
	}
	return budget.Amount.Sub(budget.Spent), nil
}
