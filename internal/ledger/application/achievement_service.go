package application

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vantro/chainledger/internal/ledger/domain"
	"github.com/vantro/chainledger/internal/ledger/errors"
)

// TokenMinter mints fungible reward units inside the claim transaction.
type TokenMinter interface {
	MintWithTransaction(tx *sql.Tx, to string, amount decimal.Decimal) error
}

// BadgeMinter grants badge ownership inside the claim transaction.
type BadgeMinter interface {
	MintBadgeWithTransaction(tx *sql.Tx, to string, badgeID int) error
}

// AchievementService keeps the achievement catalog, per-user awards, and
// the one-shot claim that mints tokens and a badge atomically.
type AchievementService struct {
	repo      domain.AchievementRepository
	tokens    TokenMinter
	badges    BadgeMinter
	roles     RoleChecker
	publisher EventPublisher
	locks     *keyedMutex
	now       func() time.Time
}

func NewAchievementService(repo domain.AchievementRepository, tokens TokenMinter, badges BadgeMinter, roles RoleChecker, publisher EventPublisher) *AchievementService {
	return &AchievementService{
		repo:      repo,
		tokens:    tokens,
		badges:    badges,
		roles:     roles,
		publisher: publisher,
		locks:     newKeyedMutex(),
		now:       time.Now,
	}
}

// CreateAchievement appends a catalog entry under the next sequential id.
// Owner-only.
func (s *AchievementService) CreateAchievement(caller, name, description string, tokenReward decimal.Decimal, badgeID int) (*domain.Achievement, error) {
	if !s.roles.IsOwner(caller) {
		return nil, errors.ErrUnauthorized
	}
	if name == "" {
		return nil, errors.NewValidationError("achievement name is required")
	}
	if tokenReward.LessThanOrEqual(decimal.Zero) {
		return nil, errors.ErrInvalidAmount
	}

	id, err := s.repo.NextAchievementID()
	if err != nil {
		return nil, err
	}
	achievement := domain.Achievement{
		ID:          id,
		Name:        name,
		Description: description,
		TokenReward: tokenReward,
		BadgeID:     badgeID,
		IsActive:    true,
	}
	if err := s.repo.SaveAchievement(achievement); err != nil {
		return nil, err
	}
	return &achievement, nil
}

func (s *AchievementService) ListAchievements() ([]domain.Achievement, error) {
	return s.repo.ListAchievements()
}

// AwardAchievement grants a catalog achievement to a user. Owner-only.
// Re-awarding is rejected so the per-user award list stays duplicate-free.
func (s *AchievementService) AwardAchievement(caller, user string, achievementID int) error {
	if !s.roles.IsOwner(caller) {
		return errors.ErrUnauthorized
	}
	achievement, err := s.repo.FindAchievement(achievementID)
	if err != nil {
		return err
	}
	if achievement == nil || !achievement.IsActive {
		return errors.ErrUnknownAchievement
	}

	unlock := s.locks.lock(user)
	defer unlock()

	existing, err := s.repo.FindUserAchievement(user, achievementID)
	if err != nil {
		return err
	}
	if existing != nil {
		return errors.ErrAlreadyAwarded
	}

	award := domain.UserAchievement{
		User:          user,
		AchievementID: achievementID,
		AwardedAt:     s.now().UTC(),
		Claimed:       false,
	}
	if err := s.repo.SaveUserAchievement(award); err != nil {
		return err
	}

	s.publisher.Publish(domain.AchievementAwarded{
		User:          user,
		AchievementID: achievementID,
		AwardedAt:     award.AwardedAt,
	})
	return nil
}

// ClaimRewards converts an awarded-but-unclaimed achievement into minted
// reward tokens and a badge. The claim mark, the token credit and the
// badge grant share one transaction: a failure anywhere rolls back all
// three.
func (s *AchievementService) ClaimRewards(caller string, achievementID int) error {
	unlock := s.locks.lock(caller)
	defer unlock()

	award, err := s.repo.FindUserAchievement(caller, achievementID)
	if err != nil {
		return err
	}
	if award == nil {
		return errors.ErrNotAwarded
	}
	if award.Claimed {
		return errors.ErrAlreadyClaimed
	}

	achievement, err := s.repo.FindAchievement(achievementID)
	if err != nil {
		return err
	}
	if achievement == nil {
		return errors.ErrUnknownAchievement
	}

	tx, err := s.repo.BeginTransaction()
	if err != nil {
		return err
	}
	if err := s.claimWithTransaction(tx, caller, achievement); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		return err
	}
	if tx != nil {
		if err := tx.Commit(); err != nil {
			return err
		}
	}

	s.publisher.Publish(domain.AchievementClaimed{
		User:          caller,
		AchievementID: achievement.ID,
		TokenReward:   achievement.TokenReward,
		BadgeID:       achievement.BadgeID,
	})
	return nil
}

func (s *AchievementService) claimWithTransaction(tx *sql.Tx, caller string, achievement *domain.Achievement) error {
	if err := s.tokens.MintWithTransaction(tx, caller, achievement.TokenReward); err != nil {
		return err
	}
	if err := s.badges.MintBadgeWithTransaction(tx, caller, achievement.BadgeID); err != nil {
		return err
	}
	return s.repo.MarkClaimedWithTransaction(tx, caller, achievement.ID)
}

// GetUserAchievements returns the user's awards, claimed and unclaimed, in
// award order.
func (s *AchievementService) GetUserAchievements(user string) ([]domain.UserAchievement, error) {
	return s.repo.ListUserAchievements(user)
}

// GetNextAchievementMilestones returns every active catalog achievement
// the user has not been awarded yet, in catalog order. Together with
// GetUserAchievements it partitions the active catalog.
func (s *AchievementService) GetNextAchievementMilestones(user string) ([]domain.Achievement, error) {
	catalog, err := s.repo.ListAchievements()
	if err != nil {
		return nil, err
	}
	awards, err := s.repo.ListUserAchievements(user)
	if err != nil {
		return nil, err
	}

	awarded := make(map[int]bool, len(awards))
	for _, award := range awards {
		awarded[award.AchievementID] = true
	}

	var milestones []domain.Achievement
	for _, achievement := range catalog {
		if achievement.IsActive && !awarded[achievement.ID] {
			milestones = append(milestones, achievement)
		}
	}
	return milestones, nil
}
