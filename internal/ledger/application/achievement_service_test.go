package application

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/vantro/chainledger/internal/badge"
	"github.com/vantro/chainledger/internal/ledger/domain"
	"github.com/vantro/chainledger/internal/ledger/errors"
	"github.com/vantro/chainledger/internal/ledger/infrastructure"
	"github.com/vantro/chainledger/internal/token"
)

type achievementFixture struct {
	service   *AchievementService
	repo      *infrastructure.MockAchievementRepository
	tokens    *token.MockRepository
	badges    *badge.MockRepository
	publisher *MockEventPublisher
}

func newAchievementFixture() *achievementFixture {
	repo := infrastructure.NewMockAchievementRepository()
	tokenRepo := token.NewMockRepository()
	badgeRepo := badge.NewMockRepository()
	roles := &MockRoleChecker{Owner: "0xowner"}
	publisher := &MockEventPublisher{}
	service := NewAchievementService(
		repo,
		token.NewService(tokenRepo),
		badge.NewService(badgeRepo, roles),
		roles,
		publisher,
	)
	return &achievementFixture{
		service:   service,
		repo:      repo,
		tokens:    tokenRepo,
		badges:    badgeRepo,
		publisher: publisher,
	}
}

func TestAwardAchievement_OwnerOnly(t *testing.T) {
	f := newAchievementFixture()

	err := f.service.AwardAchievement("0xintruder", "0xalice", 0)
	assert.ErrorIs(t, err, errors.ErrUnauthorized)
}

func TestAwardAchievement_Unknown(t *testing.T) {
	f := newAchievementFixture()

	err := f.service.AwardAchievement("0xowner", "0xalice", 999)
	assert.ErrorIs(t, err, errors.ErrUnknownAchievement)
}

func TestAwardAchievement_InactiveRejected(t *testing.T) {
	f := newAchievementFixture()

	retired := f.repo.Achievements[4]
	retired.IsActive = false
	f.repo.Achievements[4] = retired

	err := f.service.AwardAchievement("0xowner", "0xalice", 4)
	assert.ErrorIs(t, err, errors.ErrUnknownAchievement)
}

func TestAwardAchievement_RejectsDuplicates(t *testing.T) {
	f := newAchievementFixture()

	assert.NoError(t, f.service.AwardAchievement("0xowner", "0xalice", 0))
	err := f.service.AwardAchievement("0xowner", "0xalice", 0)
	assert.ErrorIs(t, err, errors.ErrAlreadyAwarded)

	awards, err := f.service.GetUserAchievements("0xalice")
	assert.NoError(t, err)
	assert.Len(t, awards, 1)
}

func TestClaimRewards_OnceOnly(t *testing.T) {
	f := newAchievementFixture()

	assert.NoError(t, f.service.AwardAchievement("0xowner", "0xalice", 0))
	assert.NoError(t, f.service.ClaimRewards("0xalice", 0))

	// Tokens and the badge arrive exactly once.
	balance, err := f.tokens.BalanceOf("0xalice")
	assert.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(50)))

	held, err := f.badges.HasBadge("0xalice", 0)
	assert.NoError(t, err)
	assert.True(t, held)

	err = f.service.ClaimRewards("0xalice", 0)
	assert.ErrorIs(t, err, errors.ErrAlreadyClaimed)

	balance, err = f.tokens.BalanceOf("0xalice")
	assert.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(50)), "second claim must not mint again")
}

func TestClaimRewards_NotAwarded(t *testing.T) {
	f := newAchievementFixture()

	err := f.service.ClaimRewards("0xalice", 0)
	assert.ErrorIs(t, err, errors.ErrNotAwarded)
}

func TestClaimRewards_BadgeFailureLeavesUnclaimed(t *testing.T) {
	f := newAchievementFixture()
	f.badges.ShouldFail = true

	assert.NoError(t, f.service.AwardAchievement("0xowner", "0xalice", 0))
	err := f.service.ClaimRewards("0xalice", 0)
	assert.Error(t, err)

	awards, listErr := f.service.GetUserAchievements("0xalice")
	assert.NoError(t, listErr)
	assert.Len(t, awards, 1)
	assert.False(t, awards[0].Claimed, "failed claim must not mark the award claimed")

	// And no claim event goes out.
	for _, event := range f.publisher.Events {
		_, claimed := event.(domain.AchievementClaimed)
		assert.False(t, claimed)
	}
}

func TestClaimRewards_Events(t *testing.T) {
	f := newAchievementFixture()

	assert.NoError(t, f.service.AwardAchievement("0xowner", "0xalice", 0))
	assert.NoError(t, f.service.ClaimRewards("0xalice", 0))

	assert.Len(t, f.publisher.Events, 2)
	awarded, ok := f.publisher.Events[0].(domain.AchievementAwarded)
	assert.True(t, ok)
	assert.Equal(t, 0, awarded.AchievementID)
	claimed, ok := f.publisher.Events[1].(domain.AchievementClaimed)
	assert.True(t, ok)
	assert.True(t, claimed.TokenReward.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, 0, claimed.BadgeID)
}

func TestMilestones_PartitionTheCatalog(t *testing.T) {
	f := newAchievementFixture()

	assert.NoError(t, f.service.AwardAchievement("0xowner", "0xalice", 0))
	assert.NoError(t, f.service.AwardAchievement("0xowner", "0xalice", 2))
	assert.NoError(t, f.service.ClaimRewards("0xalice", 0))

	milestones, err := f.service.GetNextAchievementMilestones("0xalice")
	assert.NoError(t, err)
	awards, err := f.service.GetUserAchievements("0xalice")
	assert.NoError(t, err)

	seen := make(map[int]bool)
	for _, award := range awards {
		seen[award.AchievementID] = true
	}
	for _, milestone := range milestones {
		assert.False(t, seen[milestone.ID], "awarded and pending must not overlap")
		seen[milestone.ID] = true
	}

	catalog, err := f.service.ListAchievements()
	assert.NoError(t, err)
	for _, achievement := range catalog {
		if achievement.IsActive {
			assert.True(t, seen[achievement.ID], "achievement %d missing from the partition", achievement.ID)
		}
	}
	assert.Len(t, milestones, len(catalog)-2)
}

func TestCreateAchievement_SequentialIDs(t *testing.T) {
	f := newAchievementFixture()

	created, err := f.service.CreateAchievement("0xowner", "Streak Keeper", "Record expenses seven days in a row", decimal.NewFromInt(250), 1)
	assert.NoError(t, err)
	assert.Equal(t, len(domain.DefaultAchievements), created.ID)

	next, err := f.service.CreateAchievement("0xowner", "Big Spender", "Record a single expense over 1000", decimal.NewFromInt(300), 2)
	assert.NoError(t, err)
	assert.Equal(t, created.ID+1, next.ID)
}

func TestCreateAchievement_OwnerOnly(t *testing.T) {
	f := newAchievementFixture()

	_, err := f.service.CreateAchievement("0xintruder", "Forged", "", decimal.NewFromInt(10), 0)
	assert.ErrorIs(t, err, errors.ErrUnauthorized)
}

func TestAwardAchievement_AwardOrderPreserved(t *testing.T) {
	f := newAchievementFixture()
	base := time.Unix(1_700_000_000, 0)
	step := 0
	f.service.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Minute)
	}

	assert.NoError(t, f.service.AwardAchievement("0xowner", "0xalice", 3))
	assert.NoError(t, f.service.AwardAchievement("0xowner", "0xalice", 1))

	awards, err := f.service.GetUserAchievements("0xalice")
	assert.NoError(t, err)
	assert.Len(t, awards, 2)
	assert.Equal(t, 3, awards[0].AchievementID)
	assert.Equal(t, 1, awards[1].AchievementID)
	assert.True(t, awards[0].AwardedAt.Before(awards[1].AwardedAt))
}
