package infrastructure

import (
	"database/sql"
	"errors"

	"github.com/vantro/chainledger/internal/ledger/domain"
)

type ExpenseRepository struct {
	db *sql.DB
}

func NewExpenseRepository(db *sql.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) SaveCategory(name string) error {
	_, err := r.db.Exec(`INSERT INTO categories (name) VALUES ($1)`, name)
	return err
}

func (r *ExpenseRepository) CategoryExists(name string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM categories WHERE name = $1)`, name).Scan(&exists)
	return exists, err
}

func (r *ExpenseRepository) ListCategories() ([]string, error) {
	rows, err := r.db.Query(`SELECT name FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		categories = append(categories, name)
	}
	return categories, rows.Err()
}

func (r *ExpenseRepository) Save(expense domain.Expense) (int64, error) {
	var id int64
	err := r.db.QueryRow(
		`INSERT INTO expenses (user_id, amount, category, description, reimbursable, recorded_at)
         VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		expense.User, expense.Amount, expense.Category, expense.Description, expense.Reimbursable, expense.RecordedAt,
	).Scan(&id)
	return id, err
}

func (r *ExpenseRepository) FindByID(id int64) (*domain.Expense, error) {
	var expense domain.Expense
	err := r.db.QueryRow(
		`SELECT id, user_id, amount, category, description, reimbursable, recorded_at
         FROM expenses WHERE id = $1`,
		id,
	).Scan(&expense.ID, &expense.User, &expense.Amount, &expense.Category, &expense.Description, &expense.Reimbursable, &expense.RecordedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *ExpenseRepository) FindByUser(user string) ([]domain.Expense, error) {
	rows, err := r.db.Query(
		`SELECT id, user_id, amount, category, description, reimbursable, recorded_at
         FROM expenses WHERE user_id = $1 ORDER BY id`,
		user,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanExpenses(rows)
}

func (r *ExpenseRepository) FindByUserAndCategory(user, category string) ([]domain.Expense, error) {
	rows, err := r.db.Query(
		`SELECT id, user_id, amount, category, description, reimbursable, recorded_at
         FROM expenses WHERE user_id = $1 AND category = $2 ORDER BY id`,
		user, category,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanExpenses(rows)
}

func scanExpenses(rows *sql.Rows) ([]domain.Expense, error) {
	var expenses []domain.Expense
	for rows.Next() {
		var expense domain.Expense
		if err := rows.Scan(&expense.ID, &expense.User, &expense.Amount, &expense.Category, &expense.Description, &expense.Reimbursable, &expense.RecordedAt); err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}
