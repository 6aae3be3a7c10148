package badge

import (
	"database/sql"
	"errors"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) SaveBadge(badge Badge) error {
	_, err := r.db.Exec(
		`INSERT INTO badges (id, name, description, uri, rarity) VALUES ($1, $2, $3, $4, $5)`,
		badge.ID, badge.Name, badge.Description, badge.URI, badge.Rarity,
	)
	return err
}

func (r *PostgresRepository) FindBadge(id int) (*Badge, error) {
	var badge Badge
	err := r.db.QueryRow(
		`SELECT id, name, description, uri, rarity FROM badges WHERE id = $1`,
		id,
	).Scan(&badge.ID, &badge.Name, &badge.Description, &badge.URI, &badge.Rarity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &badge, nil
}

func (r *PostgresRepository) ListBadges() ([]Badge, error) {
	rows, err := r.db.Query(`SELECT id, name, description, uri, rarity FROM badges ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var badges []Badge
	for rows.Next() {
		var badge Badge
		if err := rows.Scan(&badge.ID, &badge.Name, &badge.Description, &badge.URI, &badge.Rarity); err != nil {
			return nil, err
		}
		badges = append(badges, badge)
	}
	return badges, rows.Err()
}

func (r *PostgresRepository) NextBadgeID() (int, error) {
	var next int
	err := r.db.QueryRow(`SELECT COALESCE(MAX(id) + 1, 0) FROM badges`).Scan(&next)
	return next, err
}

func (r *PostgresRepository) AddOwnerWithTransaction(tx *sql.Tx, owner string, badgeID int) error {
	_, err := tx.Exec(
		`INSERT INTO badge_owners (owner, badge_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		owner, badgeID,
	)
	return err
}

func (r *PostgresRepository) HasBadge(owner string, badgeID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM badge_owners WHERE owner = $1 AND badge_id = $2)`,
		owner, badgeID,
	).Scan(&exists)
	return exists, err
}
