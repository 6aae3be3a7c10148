package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vantro/chainledger/internal/ledger/errors"
)

type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// Seconds returns the fixed span of the period. Months are 30 days and
// years 365 days: budget resets are driven by elapsed seconds against the
// recorded period start, never by calendar arithmetic.
func (p Period) Seconds() int64 {
	switch p {
	case PeriodDaily:
		return 86_400
	case PeriodWeekly:
		return 604_800
	case PeriodMonthly:
		return 2_592_000
	case PeriodYearly:
		return 31_536_000
	}
	return 0
}

func (p Period) Validate() error {
	if p.Seconds() == 0 {
		return errors.ErrInvalidPeriod
	}
	return nil
}

// Budget caps spending for one (user, category) pair. Spent accumulates
// within the current period and is lazily reset the first time a tracking
// call observes that the period has elapsed.
type Budget struct {
	User        string          `json:"user"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Spent       decimal.Decimal `json:"spent"`
	Period      Period          `json:"period"`
	PeriodStart time.Time       `json:"period_start"`
	IsActive    bool            `json:"is_active"`
}

// PeriodElapsed reports whether now is at or past the end of the current
// tracking period.
func (b *Budget) PeriodElapsed(now time.Time) bool {
	return !now.Before(b.PeriodStart.Add(time.Duration(b.Period.Seconds()) * time.Second))
}

// SpentPercentage is floor(spent * 100 / amount); it exceeds 100 when the
// budget is overspent.
func (b *Budget) SpentPercentage() int64 {
	if b.Amount.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	return b.Spent.Mul(decimal.NewFromInt(100)).Div(b.Amount).IntPart()
}

// BudgetThresholds are the percentage boundaries that trigger a
// notification event when crossed by a single tracking call.
var BudgetThresholds = []int64{50, 75, 90, 100}

type BudgetRepository interface {
	Get(user, category string) (*Budget, error)
	Save(budget Budget) error
	ListActive() ([]Budget, error)
}
