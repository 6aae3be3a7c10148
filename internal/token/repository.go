package token

import (
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) BalanceOf(account string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.db.QueryRow(
		`SELECT balance FROM token_balances WHERE account = $1`,
		account,
	).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

func (r *PostgresRepository) AddWithTransaction(tx *sql.Tx, account string, amount decimal.Decimal) error {
	_, err := tx.Exec(
		`INSERT INTO token_balances (account, balance) VALUES ($1, $2)
         ON CONFLICT (account) DO UPDATE SET balance = token_balances.balance + EXCLUDED.balance`,
		account, amount,
	)
	return err
}
