package application

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vantro/chainledger/internal/ledger/domain"
	"github.com/vantro/chainledger/internal/ledger/errors"
)

// RoleChecker is the role-lookup capability injected into every service
// that has owner- or recorder-gated operations.
type RoleChecker interface {
	IsOwner(account string) bool
	IsRecorder(keyID string) bool
}

// EventPublisher receives domain events after a mutation has been
// persisted; delivery happens outside the mutating call.
type EventPublisher interface {
	Publish(event interface{})
}

// ExpenseService is the append-only expense log and category registry. It
// is a leaf: budget tracking is wired by the caller, not by this service.
type ExpenseService struct {
	repo      domain.ExpenseRepository
	roles     RoleChecker
	publisher EventPublisher
	now       func() time.Time
}

func NewExpenseService(repo domain.ExpenseRepository, roles RoleChecker, publisher EventPublisher) *ExpenseService {
	return &ExpenseService{repo: repo, roles: roles, publisher: publisher, now: time.Now}
}

// AddCategory registers a new expense category. Owner-only; duplicates are
// rejected.
func (s *ExpenseService) AddCategory(caller, name string) error {
	if !s.roles.IsOwner(caller) {
		return errors.ErrUnauthorized
	}
	if name == "" {
		return errors.NewValidationError("category name is required")
	}
	exists, err := s.repo.CategoryExists(name)
	if err != nil {
		return err
	}
	if exists {
		return errors.ErrDuplicateCategory
	}
	return s.repo.SaveCategory(name)
}

func (s *ExpenseService) ListCategories() ([]string, error) {
	return s.repo.ListCategories()
}

// RecordExpense appends an expense owned by the caller. The id is assigned
// by the repository and is monotonic over the life of the log.
func (s *ExpenseService) RecordExpense(caller string, amount decimal.Decimal, category, description string, reimbursable bool) (*domain.Expense, error) {
	expense := domain.Expense{
		User:         caller,
		Amount:       amount,
		Category:     category,
		Description:  description,
		Reimbursable: reimbursable,
		RecordedAt:   s.now().UTC(),
	}
	if err := expense.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.CategoryExists(category)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.ErrUnknownCategory
	}

	id, err := s.repo.Save(expense)
	if err != nil {
		return nil, err
	}
	expense.ID = id

	s.publisher.Publish(domain.ExpenseRecorded{
		ExpenseID:    expense.ID,
		User:         expense.User,
		Category:     expense.Category,
		Amount:       expense.Amount,
		Reimbursable: expense.Reimbursable,
		RecordedAt:   expense.RecordedAt,
	})
	return &expense, nil
}

func (s *ExpenseService) GetExpense(id int64) (*domain.Expense, error) {
	expense, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, errors.ErrExpenseNotFound
	}
	return expense, nil
}

// GetUserExpenses returns the user's expenses in creation order.
func (s *ExpenseService) GetUserExpenses(user string) ([]domain.Expense, error) {
	return s.repo.FindByUser(user)
}

// GetUserExpensesByCategory returns the user's expenses for one category
// in creation order.
func (s *ExpenseService) GetUserExpensesByCategory(user, category string) ([]domain.Expense, error) {
	return s.repo.FindByUserAndCategory(user, category)
}
