package infrastructure

import (
	"sort"

	"github.com/vantro/chainledger/internal/ledger/domain"
)

// MockBudgetRepository keeps budgets in memory for tests, keyed by
// (user, category).
type MockBudgetRepository struct {
	Budgets map[string]domain.Budget
}

func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{Budgets: make(map[string]domain.Budget)}
}

func mockBudgetKey(user, category string) string {
	return user + "|" + category
}

func (m *MockBudgetRepository) Get(user, category string) (*domain.Budget, error) {
	budget, ok := m.Budgets[mockBudgetKey(user, category)]
	if !ok {
		return nil, nil
	}
	return &budget, nil
}

func (m *MockBudgetRepository) Save(budget domain.Budget) error {
	m.Budgets[mockBudgetKey(budget.User, budget.Category)] = budget
	return nil
}

func (m *MockBudgetRepository) ListActive() ([]domain.Budget, error) {
	var keys []string
	for key, budget := range m.Budgets {
		if budget.IsActive {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var budgets []domain.Budget
	for _, key := range keys {
		budgets = append(budgets, m.Budgets[key])
	}
	return budgets, nil
}
