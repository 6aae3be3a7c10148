package infrastructure

import (
	"database/sql"
	"errors"

	"github.com/vantro/chainledger/internal/ledger/domain"
)

type DelegationRepository struct {
	db *sql.DB
}

func NewDelegationRepository(db *sql.DB) *DelegationRepository {
	return &DelegationRepository{db: db}
}

func (r *DelegationRepository) Get(admin, delegate string) (*domain.Delegation, error) {
	var delegation domain.Delegation
	err := r.db.QueryRow(
		`SELECT admin, delegate, spend_limit, spent_amount, expires_at, is_active
         FROM delegations WHERE admin = $1 AND delegate = $2`,
		admin, delegate,
	).Scan(&delegation.Admin, &delegation.Delegate, &delegation.SpendLimit, &delegation.SpentAmount, &delegation.ExpiresAt, &delegation.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &delegation, nil
}

// Save upserts on the (admin, delegate) key; rows are never deleted, which
// is what keeps the reverse indices historic and deduplicated.
func (r *DelegationRepository) Save(delegation domain.Delegation) error {
	_, err := r.db.Exec(
		`INSERT INTO delegations (admin, delegate, spend_limit, spent_amount, expires_at, is_active)
         VALUES ($1, $2, $3, $4, $5, $6)
         ON CONFLICT (admin, delegate) DO UPDATE SET
           spend_limit = EXCLUDED.spend_limit,
           spent_amount = EXCLUDED.spent_amount,
           expires_at = EXCLUDED.expires_at,
           is_active = EXCLUDED.is_active`,
		delegation.Admin, delegation.Delegate, delegation.SpendLimit, delegation.SpentAmount, delegation.ExpiresAt, delegation.IsActive,
	)
	return err
}

func (r *DelegationRepository) DelegatesOf(admin string) ([]string, error) {
	rows, err := r.db.Query(`SELECT delegate FROM delegations WHERE admin = $1 ORDER BY delegate`, admin)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAccounts(rows)
}

func (r *DelegationRepository) AdminsOf(delegate string) ([]string, error) {
	rows, err := r.db.Query(`SELECT admin FROM delegations WHERE delegate = $1 ORDER BY admin`, delegate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAccounts(rows)
}

func scanAccounts(rows *sql.Rows) ([]string, error) {
	var accounts []string
	for rows.Next() {
		var account string
		if err := rows.Scan(&account); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}
