package infrastructure

import (
	"sort"

	"github.com/vantro/chainledger/internal/ledger/domain"
)

// MockExpenseRepository keeps the expense log and category registry in
// memory for tests. IDs are assigned from a monotonic counter.
type MockExpenseRepository struct {
	Categories map[string]bool
	Expenses   []domain.Expense
	nextID     int64
}

func NewMockExpenseRepository() *MockExpenseRepository {
	repo := &MockExpenseRepository{Categories: make(map[string]bool), nextID: 1}
	for _, name := range domain.DefaultCategories {
		repo.Categories[name] = true
	}
	return repo
}

func (m *MockExpenseRepository) SaveCategory(name string) error {
	m.Categories[name] = true
	return nil
}

func (m *MockExpenseRepository) CategoryExists(name string) (bool, error) {
	return m.Categories[name], nil
}

func (m *MockExpenseRepository) ListCategories() ([]string, error) {
	var names []string
	for name := range m.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *MockExpenseRepository) Save(expense domain.Expense) (int64, error) {
	expense.ID = m.nextID
	m.nextID++
	m.Expenses = append(m.Expenses, expense)
	return expense.ID, nil
}

func (m *MockExpenseRepository) FindByID(id int64) (*domain.Expense, error) {
	for _, expense := range m.Expenses {
		if expense.ID == id {
			found := expense
			return &found, nil
		}
	}
	return nil, nil
}

func (m *MockExpenseRepository) FindByUser(user string) ([]domain.Expense, error) {
	var expenses []domain.Expense
	for _, expense := range m.Expenses {
		if expense.User == user {
			expenses = append(expenses, expense)
		}
	}
	return expenses, nil
}

func (m *MockExpenseRepository) FindByUserAndCategory(user, category string) ([]domain.Expense, error) {
	var expenses []domain.Expense
	for _, expense := range m.Expenses {
		if expense.User == user && expense.Category == category {
			expenses = append(expenses, expense)
		}
	}
	return expenses, nil
}
