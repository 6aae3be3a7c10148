package infrastructure

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	database "github.com/vantro/chainledger/db"
	"github.com/vantro/chainledger/internal/ledger/domain"
)

// Spins up a throwaway Postgres and runs the repositories against the real
// schema. Gated behind INTEGRATION_TESTS because it needs a Docker daemon.
func setupPostgres(t *testing.T) *sql.DB {
	t.Helper()
	if os.Getenv("INTEGRATION_TESTS") == "" {
		t.Skip("set INTEGRATION_TESTS to run container-backed tests")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("chainledger"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", connStr)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	service := &database.DBService{DB: db}
	require.NoError(t, service.Migrate())
	return db
}

func TestExpenseRepository_Postgres(t *testing.T) {
	db := setupPostgres(t)
	repo := NewExpenseRepository(db)

	exists, err := repo.CategoryExists("Food")
	assert.NoError(t, err)
	assert.True(t, exists, "default categories should be seeded")

	id, err := repo.Save(domain.Expense{
		User:        "0xalice",
		Amount:      decimal.RequireFromString("42.5"),
		Category:    "Food",
		Description: "groceries",
		RecordedAt:  time.Now().UTC(),
	})
	assert.NoError(t, err)

	found, err := repo.FindByID(id)
	assert.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "0xalice", found.User)
	assert.True(t, found.Amount.Equal(decimal.RequireFromString("42.5")))

	byCategory, err := repo.FindByUserAndCategory("0xalice", "Food")
	assert.NoError(t, err)
	assert.Len(t, byCategory, 1)
}

func TestBudgetRepository_Postgres(t *testing.T) {
	db := setupPostgres(t)
	repo := NewBudgetRepository(db)

	budget := domain.Budget{
		User:        "0xalice",
		Category:    "Food",
		Amount:      decimal.RequireFromString("100"),
		Spent:       decimal.Zero,
		Period:      domain.PeriodDaily,
		PeriodStart: time.Now().UTC(),
		IsActive:    true,
	}
	assert.NoError(t, repo.Save(budget))

	budget.Spent = decimal.RequireFromString("30")
	assert.NoError(t, repo.Save(budget))

	found, err := repo.Get("0xalice", "Food")
	assert.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, found.Spent.Equal(decimal.RequireFromString("30")), "upsert should replace, not duplicate")

	active, err := repo.ListActive()
	assert.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestDelegationRepository_Postgres(t *testing.T) {
	db := setupPostgres(t)
	repo := NewDelegationRepository(db)

	delegation := domain.Delegation{
		Admin:       "0xadmin",
		Delegate:    "0xbob",
		SpendLimit:  decimal.RequireFromString("500"),
		SpentAmount: decimal.Zero,
		ExpiresAt:   time.Now().UTC().Add(24 * time.Hour),
		IsActive:    true,
	}
	assert.NoError(t, repo.Save(delegation))
	// Overwriting keeps the reverse indices deduplicated.
	assert.NoError(t, repo.Save(delegation))

	delegates, err := repo.DelegatesOf("0xadmin")
	assert.NoError(t, err)
	assert.Equal(t, []string{"0xbob"}, delegates)

	admins, err := repo.AdminsOf("0xbob")
	assert.NoError(t, err)
	assert.Equal(t, []string{"0xadmin"}, admins)
}

func TestAchievementRepository_ClaimTransaction_Postgres(t *testing.T) {
	db := setupPostgres(t)
	repo := NewAchievementRepository(db)

	achievements, err := repo.ListAchievements()
	assert.NoError(t, err)
	require.NotEmpty(t, achievements, "default catalog should be seeded")

	award := domain.UserAchievement{
		User:          "0xalice",
		AchievementID: achievements[0].ID,
		AwardedAt:     time.Now().UTC(),
	}
	require.NoError(t, repo.SaveUserAchievement(award))

	tx, err := repo.BeginTransaction()
	require.NoError(t, err)
	assert.NoError(t, repo.MarkClaimedWithTransaction(tx, award.User, award.AchievementID))
	require.NoError(t, tx.Commit())

	found, err := repo.FindUserAchievement(award.User, award.AchievementID)
	assert.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, found.Claimed)

	// A second claim attempt inside a fresh transaction finds no row to flip.
	tx, err = repo.BeginTransaction()
	require.NoError(t, err)
	assert.Error(t, repo.MarkClaimedWithTransaction(tx, award.User, award.AchievementID))
	assert.NoError(t, tx.Rollback())
}
