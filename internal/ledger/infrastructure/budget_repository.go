package infrastructure

import (
	"database/sql"
	"errors"

	"github.com/vantro/chainledger/internal/ledger/domain"
)

type BudgetRepository struct {
	db *sql.DB
}

func NewBudgetRepository(db *sql.DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

func (r *BudgetRepository) Get(user, category string) (*domain.Budget, error) {
	var budget domain.Budget
	err := r.db.QueryRow(
		`SELECT user_id, category, amount, spent, period, period_start, is_active
         FROM budgets WHERE user_id = $1 AND category = $2`,
		user, category,
	).Scan(&budget.User, &budget.Category, &budget.Amount, &budget.Spent, &budget.Period, &budget.PeriodStart, &budget.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

func (r *BudgetRepository) Save(budget domain.Budget) error {
	_, err := r.db.Exec(
		`INSERT INTO budgets (user_id, category, amount, spent, period, period_start, is_active)
         VALUES ($1, $2, $3, $4, $5, $6, $7)
         ON CONFLICT (user_id, category) DO UPDATE SET
           amount = EXCLUDED.amount,
           spent = EXCLUDED.spent,
           period = EXCLUDED.period,
           period_start = EXCLUDED.period_start,
           is_active = EXCLUDED.is_active`,
		budget.User, budget.Category, budget.Amount, budget.Spent, budget.Period, budget.PeriodStart, budget.IsActive,
	)
	return err
}

func (r *BudgetRepository) ListActive() ([]domain.Budget, error) {
	rows, err := r.db.Query(
		`SELECT user_id, category, amount, spent, period, period_start, is_active
         FROM budgets WHERE is_active ORDER BY user_id, category`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []domain.Budget
	for rows.Next() {
		var budget domain.Budget
		if err := rows.Scan(&budget.User, &budget.Category, &budget.Amount, &budget.Spent, &budget.Period, &budget.PeriodStart, &budget.IsActive); err != nil {
			return nil, err
		}
		budgets = append(budgets, budget)
	}
	return budgets, rows.Err()
}
