package interfaces

import (
	"github.com/shopspring/decimal"

	"github.com/vantro/chainledger/internal/ledger/domain"
	"github.com/vantro/chainledger/internal/ledger/errors"
)

type MockExpenseService struct {
	categories map[string]bool
	expenses   []domain.Expense
}

func newMockExpenseService() *MockExpenseService {
	m := &MockExpenseService{categories: make(map[string]bool)}
	for _, name := range domain.DefaultCategories {
		m.categories[name] = true
	}
	return m
}

func (m *MockExpenseService) AddCategory(caller, name string) error {
	if m.categories[name] {
		return errors.ErrDuplicateCategory
	}
	m.categories[name] = true
	return nil
}

func (m *MockExpenseService) ListCategories() ([]string, error) {
	var names []string
	for name := range m.categories {
		names = append(names, name)
	}
	return names, nil
}

func (m *MockExpenseService) RecordExpense(caller string, amount decimal.Decimal, category, description string, reimbursable bool) (*domain.Expense, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.ErrInvalidAmount
	}
	if !m.categories[category] {
		return nil, errors.ErrUnknownCategory
	}
	expense := domain.Expense{
		ID:           int64(len(m.expenses) + 1),
		User:         caller,
		Amount:       amount,
		Category:     category,
		Description:  description,
		Reimbursable: reimbursable,
	}
	m.expenses = append(m.expenses, expense)
	return &expense, nil
}

func (m *MockExpenseService) GetExpense(id int64) (*domain.Expense, error) {
	for _, expense := range m.expenses {
		if expense.ID == id {
			found := expense
			return &found, nil
		}
	}
	return nil, errors.ErrExpenseNotFound
}

func (m *MockExpenseService) GetUserExpenses(user string) ([]domain.Expense, error) {
	var expenses []domain.Expense
	for _, expense := range m.expenses {
		if expense.User == user {
			expenses = append(expenses, expense)
		}
	}
	return expenses, nil
}

func (m *MockExpenseService) GetUserExpensesByCategory(user, category string) ([]domain.Expense, error) {
	var expenses []domain.Expense
	for _, expense := range m.expenses {
		if expense.User == user && expense.Category == category {
			expenses = append(expenses, expense)
		}
	}
	return expenses, nil
}
