package application

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/vantro/chainledger/internal/ledger/domain"
	"github.com/vantro/chainledger/internal/ledger/errors"
	"github.com/vantro/chainledger/internal/ledger/infrastructure"
)

func newExpenseService() (*ExpenseService, *MockEventPublisher) {
	publisher := &MockEventPublisher{}
	roles := &MockRoleChecker{Owner: "0xowner"}
	return NewExpenseService(infrastructure.NewMockExpenseRepository(), roles, publisher), publisher
}

func TestAddCategory_OwnerOnly(t *testing.T) {
	service, _ := newExpenseService()

	err := service.AddCategory("0xintruder", "Subscriptions")
	assert.ErrorIs(t, err, errors.ErrUnauthorized)

	assert.NoError(t, service.AddCategory("0xowner", "Subscriptions"))

	categories, err := service.ListCategories()
	assert.NoError(t, err)
	assert.Contains(t, categories, "Subscriptions")
}

func TestAddCategory_RejectsDuplicates(t *testing.T) {
	service, _ := newExpenseService()

	err := service.AddCategory("0xowner", "Food")
	assert.ErrorIs(t, err, errors.ErrDuplicateCategory)

	assert.NoError(t, service.AddCategory("0xowner", "Subscriptions"))
	err = service.AddCategory("0xowner", "Subscriptions")
	assert.ErrorIs(t, err, errors.ErrDuplicateCategory)
}

func TestRecordExpense_Validation(t *testing.T) {
	service, _ := newExpenseService()

	_, err := service.RecordExpense("0xalice", decimal.Zero, "Food", "lunch", false)
	assert.ErrorIs(t, err, errors.ErrInvalidAmount)

	_, err = service.RecordExpense("0xalice", decimal.NewFromInt(10), "Spaceships", "rocket fuel", false)
	assert.ErrorIs(t, err, errors.ErrUnknownCategory)
}

func TestRecordExpense_MonotonicIDs(t *testing.T) {
	service, publisher := newExpenseService()

	first, err := service.RecordExpense("0xalice", decimal.NewFromInt(12), "Food", "lunch", false)
	assert.NoError(t, err)
	second, err := service.RecordExpense("0xalice", decimal.NewFromInt(30), "Transportation", "taxi", true)
	assert.NoError(t, err)

	assert.Greater(t, second.ID, first.ID)
	assert.Len(t, publisher.Events, 2)
	recorded, ok := publisher.Events[0].(domain.ExpenseRecorded)
	assert.True(t, ok)
	assert.Equal(t, first.ID, recorded.ExpenseID)
	assert.Equal(t, "Food", recorded.Category)
}

func TestGetExpense(t *testing.T) {
	service, _ := newExpenseService()

	created, err := service.RecordExpense("0xalice", decimal.NewFromInt(12), "Food", "lunch", false)
	assert.NoError(t, err)

	found, err := service.GetExpense(created.ID)
	assert.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.True(t, found.Amount.Equal(decimal.NewFromInt(12)))

	_, err = service.GetExpense(999)
	assert.ErrorIs(t, err, errors.ErrExpenseNotFound)
}

func TestGetUserExpenses_CreationOrderAndScope(t *testing.T) {
	service, _ := newExpenseService()

	_, err := service.RecordExpense("0xalice", decimal.NewFromInt(10), "Food", "breakfast", false)
	assert.NoError(t, err)
	_, err = service.RecordExpense("0xbob", decimal.NewFromInt(99), "Food", "dinner", false)
	assert.NoError(t, err)
	_, err = service.RecordExpense("0xalice", decimal.NewFromInt(20), "Transportation", "bus", false)
	assert.NoError(t, err)
	_, err = service.RecordExpense("0xalice", decimal.NewFromInt(30), "Food", "lunch", true)
	assert.NoError(t, err)

	expenses, err := service.GetUserExpenses("0xalice")
	assert.NoError(t, err)
	assert.Len(t, expenses, 3)
	for i := 1; i < len(expenses); i++ {
		assert.Greater(t, expenses[i].ID, expenses[i-1].ID)
	}

	food, err := service.GetUserExpensesByCategory("0xalice", "Food")
	assert.NoError(t, err)
	assert.Len(t, food, 2)
	assert.Equal(t, "breakfast", food[0].Description)
	assert.Equal(t, "lunch", food[1].Description)
}
