package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/vantro/chainledger/internal/badge"
	"github.com/vantro/chainledger/internal/ledger/domain"
)

// DBService represents a service that interacts with a database.
type DBService struct {
	DB *sql.DB
}

// NewDBService initializes a new database service by loading environment variables,
// establishing a connection to the database and running the schema migration.
func NewDBService() (*DBService, error) {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, continuing with system environment variables")
	}

	// Get the connection string from environment variables
	connStr := os.Getenv("DB_CONNECTION_STRING")
	if connStr == "" {
		return nil, fmt.Errorf("missing DB_CONNECTION_STRING in environment variables")
	}

	// Open the database connection
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("could not open db connection: %v", err)
	}

	// Set database connection settings
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Ping the database to check connection
	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("could not connect to the database: %v", err)
	}

	service := &DBService{DB: db}
	if err := service.Migrate(); err != nil {
		return nil, fmt.Errorf("could not migrate database schema: %v", err)
	}

	return service, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		name TEXT PRIMARY KEY
	)`,
	`CREATE TABLE IF NOT EXISTS expenses (
		id BIGSERIAL PRIMARY KEY,
		user_id TEXT NOT NULL,
		amount NUMERIC(38, 18) NOT NULL,
		category TEXT NOT NULL REFERENCES categories(name),
		description TEXT NOT NULL DEFAULT '',
		reimbursable BOOLEAN NOT NULL DEFAULT FALSE,
		recorded_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_user ON expenses (user_id, category)`,
	`CREATE TABLE IF NOT EXISTS budgets (
		user_id TEXT NOT NULL,
		category TEXT NOT NULL,
		amount NUMERIC(38, 18) NOT NULL,
		spent NUMERIC(38, 18) NOT NULL DEFAULT 0,
		period TEXT NOT NULL,
		period_start TIMESTAMPTZ NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		PRIMARY KEY (user_id, category)
	)`,
	`CREATE TABLE IF NOT EXISTS delegations (
		admin TEXT NOT NULL,
		delegate TEXT NOT NULL,
		spend_limit NUMERIC(38, 18) NOT NULL,
		spent_amount NUMERIC(38, 18) NOT NULL DEFAULT 0,
		expires_at TIMESTAMPTZ NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		PRIMARY KEY (admin, delegate)
	)`,
	`CREATE TABLE IF NOT EXISTS achievements (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		token_reward NUMERIC(38, 18) NOT NULL,
		badge_id INTEGER NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS user_achievements (
		user_id TEXT NOT NULL,
		achievement_id INTEGER NOT NULL REFERENCES achievements(id),
		awarded_at TIMESTAMPTZ NOT NULL,
		claimed BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (user_id, achievement_id)
	)`,
	`CREATE TABLE IF NOT EXISTS token_balances (
		account TEXT PRIMARY KEY,
		balance NUMERIC(38, 18) NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS badges (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		uri TEXT NOT NULL DEFAULT '',
		rarity TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS badge_owners (
		owner TEXT NOT NULL,
		badge_id INTEGER NOT NULL REFERENCES badges(id),
		PRIMARY KEY (owner, badge_id)
	)`,
	`CREATE TABLE IF NOT EXISTS recorder_keys (
		key_id TEXT PRIMARY KEY,
		key_hash TEXT NOT NULL
	)`,
}

// Migrate creates the schema and seeds the default catalogs. Every statement
// is idempotent, so running it on every startup is safe.
func (s *DBService) Migrate() error {
	for _, statement := range schema {
		if _, err := s.DB.Exec(statement); err != nil {
			return err
		}
	}
	return s.seed()
}

func (s *DBService) seed() error {
	for _, name := range domain.DefaultCategories {
		_, err := s.DB.Exec(`INSERT INTO categories (name) VALUES ($1) ON CONFLICT DO NOTHING`, name)
		if err != nil {
			return err
		}
	}

	for _, b := range badge.DefaultBadges {
		_, err := s.DB.Exec(
			`INSERT INTO badges (id, name, description, uri, rarity)
             VALUES ($1, $2, $3, $4, $5) ON CONFLICT DO NOTHING`,
			b.ID, b.Name, b.Description, b.URI, b.Rarity,
		)
		if err != nil {
			return err
		}
	}

	for _, a := range domain.DefaultAchievements {
		_, err := s.DB.Exec(
			`INSERT INTO achievements (id, name, description, token_reward, badge_id, is_active)
             VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT DO NOTHING`,
			a.ID, a.Name, a.Description, a.TokenReward, a.BadgeID, a.IsActive,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// Health checks the health of the database connection by pinging the database.
// It returns a map with keys indicating various health statistics.
func (s *DBService) Health() map[string]string {
	stats := make(map[string]string)

	err := s.DB.Ping()
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"
	return stats
}

// Close closes the database connection.
// It logs a message indicating the disconnection from the specific database.
func (s *DBService) Close() error {
	log.Println("Closing database connection")
	return s.DB.Close()
}
