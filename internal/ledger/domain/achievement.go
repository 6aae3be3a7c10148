package domain

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Achievement is a catalog entry. TokenReward is denominated in reward
// units (18-decimal fixed point, like every other amount); BadgeID names
// the badge minted alongside the tokens when the achievement is claimed.
type Achievement struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	TokenReward decimal.Decimal `json:"token_reward"`
	BadgeID     int             `json:"badge_id"`
	IsActive    bool            `json:"is_active"`
}

// UserAchievement tracks one award of a catalog achievement to a user.
// Claimed flips exactly once, atomically with the reward minting.
type UserAchievement struct {
	User          string    `json:"user"`
	AchievementID int       `json:"achievement_id"`
	AwardedAt     time.Time `json:"awarded_at"`
	Claimed       bool      `json:"claimed"`
}

// DefaultAchievements seeds the catalog. IDs are sequential from zero;
// owner-created entries continue the sequence.
var DefaultAchievements = []Achievement{
	{ID: 0, Name: "First Steps", Description: "Record your first expense", TokenReward: decimal.NewFromInt(50), BadgeID: 0, IsActive: true},
	{ID: 1, Name: "Budget Boss", Description: "Keep a budget through a full period", TokenReward: decimal.NewFromInt(100), BadgeID: 1, IsActive: true},
	{ID: 2, Name: "Savvy Saver", Description: "Finish a period under half of a budget", TokenReward: decimal.NewFromInt(150), BadgeID: 2, IsActive: true},
	{ID: 3, Name: "Trusted Hands", Description: "Complete a delegated spend", TokenReward: decimal.NewFromInt(200), BadgeID: 3, IsActive: true},
	{ID: 4, Name: "Chain Veteran", Description: "Record one hundred expenses", TokenReward: decimal.NewFromInt(500), BadgeID: 4, IsActive: true},
}

type AchievementRepository interface {
	SaveAchievement(achievement Achievement) error
	FindAchievement(id int) (*Achievement, error)
	ListAchievements() ([]Achievement, error)
	NextAchievementID() (int, error)

	FindUserAchievement(user string, achievementID int) (*UserAchievement, error)
	ListUserAchievements(user string) ([]UserAchievement, error)
	SaveUserAchievement(award UserAchievement) error

	// Claiming spans the award row, the token balance and the badge
	// ownership set, so the repository exposes the transaction and a
	// tx-scoped claim write the way the spend repositories do.
	BeginTransaction() (*sql.Tx, error)
	MarkClaimedWithTransaction(tx *sql.Tx, user string, achievementID int) error
}
