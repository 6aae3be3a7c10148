package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Domain events are published after a mutation commits; subscribers
// (notification services) consume them outside the call that produced
// them. They are plain values so a subscriber can marshal them as-is.

type ExpenseRecorded struct {
	ExpenseID    int64           `json:"expense_id"`
	User         string          `json:"user"`
	Category     string          `json:"category"`
	Amount       decimal.Decimal `json:"amount"`
	Reimbursable bool            `json:"reimbursable"`
	RecordedAt   time.Time       `json:"recorded_at"`
}

// BudgetThresholdExceeded fires once per threshold crossed by a single
// tracking call. Percentage is the post-update percentage and exceeds 100
// when the budget is overspent.
type BudgetThresholdExceeded struct {
	User       string `json:"user"`
	Category   string `json:"category"`
	Threshold  int64  `json:"threshold"`
	Percentage int64  `json:"percentage"`
}

type DelegationCreated struct {
	Admin      string          `json:"admin"`
	Delegate   string          `json:"delegate"`
	SpendLimit decimal.Decimal `json:"spend_limit"`
	ExpiresAt  time.Time       `json:"expires_at"`
}

type DelegationRevoked struct {
	Admin    string `json:"admin"`
	Delegate string `json:"delegate"`
}

type AchievementAwarded struct {
	User          string    `json:"user"`
	AchievementID int       `json:"achievement_id"`
	AwardedAt     time.Time `json:"awarded_at"`
}

type AchievementClaimed struct {
	User          string          `json:"user"`
	AchievementID int             `json:"achievement_id"`
	TokenReward   decimal.Decimal `json:"token_reward"`
	BadgeID       int             `json:"badge_id"`
}
