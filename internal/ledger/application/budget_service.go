package application

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vantro/chainledger/internal/ledger/domain"
	"github.com/vantro/chainledger/internal/ledger/errors"
)

// BudgetService tracks per-(user, category) spending caps with lazy
// periodic reset and threshold notifications.
type BudgetService struct {
	repo      domain.BudgetRepository
	publisher EventPublisher
	locks     *keyedMutex
	now       func() time.Time
}

func NewBudgetService(repo domain.BudgetRepository, publisher EventPublisher) *BudgetService {
	return &BudgetService{repo: repo, publisher: publisher, locks: newKeyedMutex(), now: time.Now}
}

func budgetKey(user, category string) string {
	return user + "|" + category
}

// CreateBudget creates or overwrites the caller's budget for the category.
// Spent restarts at zero and the period starts now.
func (s *BudgetService) CreateBudget(caller, category string, amount decimal.Decimal, period domain.Period) (*domain.Budget, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.ErrInvalidAmount
	}
	if err := period.Validate(); err != nil {
		return nil, err
	}
	if category == "" {
		return nil, errors.ErrUnknownCategory
	}

	unlock := s.locks.lock(budgetKey(caller, category))
	defer unlock()

	budget := domain.Budget{
		User:        caller,
		Category:    category,
		Amount:      amount,
		Spent:       decimal.Zero,
		Period:      period,
		PeriodStart: s.now().UTC(),
		IsActive:    true,
	}
	if err := s.repo.Save(budget); err != nil {
		return nil, err
	}
	return &budget, nil
}

// TrackExpense accumulates a spend against the user's budget for the
// category. A missing or inactive budget is a silent no-op: budgets are
// opt-in observers of spending. When the period has elapsed the spent
// accumulator resets before the new amount is added. Every threshold
// crossed by this single update emits one event carrying the post-update
// percentage, which exceeds 100 when the budget is overspent.
func (s *BudgetService) TrackExpense(user string, amount decimal.Decimal, category string) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return errors.ErrInvalidAmount
	}

	unlock := s.locks.lock(budgetKey(user, category))
	defer unlock()

	budget, err := s.repo.Get(user, category)
	if err != nil {
		return err
	}
	if budget == nil || !budget.IsActive {
		return nil
	}

	now := s.now().UTC()
	if budget.PeriodElapsed(now) {
		budget.Spent = decimal.Zero
		budget.PeriodStart = now
	}

	previousPct := budget.SpentPercentage()
	budget.Spent = budget.Spent.Add(amount)
	newPct := budget.SpentPercentage()

	if err := s.repo.Save(*budget); err != nil {
		return err
	}

	for _, threshold := range domain.BudgetThresholds {
		if previousPct < threshold && threshold <= newPct {
			s.publisher.Publish(domain.BudgetThresholdExceeded{
				User:       user,
				Category:   category,
				Threshold:  threshold,
				Percentage: newPct,
			})
		}
	}
	return nil
}

func (s *BudgetService) GetBudget(user, category string) (*domain.Budget, error) {
	budget, err := s.repo.Get(user, category)
	if err != nil {
		return nil, err
	}
	if budget == nil {
		return nil, errors.ErrBudgetNotFound
	}
	return budget, nil
}

// GetRemainingBudget returns amount - spent, floored at zero: it answers
// how much can still be spent, and overspend visibility comes from the
// threshold events instead.
func (s *BudgetService) GetRemainingBudget(user, category string) (decimal.Decimal, error) {
	budget, err := s.GetBudget(user, category)
	if err != nil {
		return decimal.Zero, err
	}
	remaining := budget.Amount.Sub(budget.Spent)
	if remaining.IsNegative() {
		return decimal.Zero, nil
	}
	return remaining, nil
}

// HighUtilization lists active budgets at or above the given spent
// percentage; the daily digest job reads it.
func (s *BudgetService) HighUtilization(minPct int64) ([]domain.Budget, error) {
	budgets, err := s.repo.ListActive()
	if err != nil {
		return nil, err
	}
	var high []domain.Budget
	for _, budget := range budgets {
		if budget.SpentPercentage() >= minPct {
			high = append(high, budget)
		}
	}
	return high, nil
}
