package access

import (
	"database/sql"
	"errors"
)

type PostgresRecorderKeyRepository struct {
	db *sql.DB
}

func NewPostgresRecorderKeyRepository(db *sql.DB) *PostgresRecorderKeyRepository {
	return &PostgresRecorderKeyRepository{db: db}
}

func (r *PostgresRecorderKeyRepository) Save(key RecorderKey) error {
	_, err := r.db.Exec(
		`INSERT INTO recorder_keys (key_id, key_hash) VALUES ($1, $2)
         ON CONFLICT (key_id) DO UPDATE SET key_hash = EXCLUDED.key_hash`,
		key.KeyID, key.KeyHash,
	)
	return err
}

func (r *PostgresRecorderKeyRepository) Find(keyID string) (*RecorderKey, error) {
	var key RecorderKey
	err := r.db.QueryRow(
		`SELECT key_id, key_hash FROM recorder_keys WHERE key_id = $1`,
		keyID,
	).Scan(&key.KeyID, &key.KeyHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &key, nil
}
