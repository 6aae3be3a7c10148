package infrastructure

import (
	"database/sql"
	"errors"

	"github.com/vantro/chainledger/internal/ledger/domain"
)

type AchievementRepository struct {
	db *sql.DB
}

func NewAchievementRepository(db *sql.DB) *AchievementRepository {
	return &AchievementRepository{db: db}
}

func (r *AchievementRepository) SaveAchievement(achievement domain.Achievement) error {
	_, err := r.db.Exec(
		`INSERT INTO achievements (id, name, description, token_reward, badge_id, is_active)
         VALUES ($1, $2, $3, $4, $5, $6)`,
		achievement.ID, achievement.Name, achievement.Description, achievement.TokenReward, achievement.BadgeID, achievement.IsActive,
	)
	return err
}

func (r *AchievementRepository) FindAchievement(id int) (*domain.Achievement, error) {
	var achievement domain.Achievement
	err := r.db.QueryRow(
		`SELECT id, name, description, token_reward, badge_id, is_active
         FROM achievements WHERE id = $1`,
		id,
	).Scan(&achievement.ID, &achievement.Name, &achievement.Description, &achievement.TokenReward, &achievement.BadgeID, &achievement.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &achievement, nil
}

func (r *AchievementRepository) ListAchievements() ([]domain.Achievement, error) {
	rows, err := r.db.Query(
		`SELECT id, name, description, token_reward, badge_id, is_active
         FROM achievements ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var achievements []domain.Achievement
	for rows.Next() {
		var achievement domain.Achievement
		if err := rows.Scan(&achievement.ID, &achievement.Name, &achievement.Description, &achievement.TokenReward, &achievement.BadgeID, &achievement.IsActive); err != nil {
			return nil, err
		}
		achievements = append(achievements, achievement)
	}
	return achievements, rows.Err()
}

func (r *AchievementRepository) NextAchievementID() (int, error) {
	var next int
	err := r.db.QueryRow(`SELECT COALESCE(MAX(id) + 1, 0) FROM achievements`).Scan(&next)
	return next, err
}

func (r *AchievementRepository) FindUserAchievement(user string, achievementID int) (*domain.UserAchievement, error) {
	var award domain.UserAchievement
	err := r.db.QueryRow(
		`SELECT user_id, achievement_id, awarded_at, claimed
         FROM user_achievements WHERE user_id = $1 AND achievement_id = $2`,
		user, achievementID,
	).Scan(&award.User, &award.AchievementID, &award.AwardedAt, &award.Claimed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &award, nil
}

func (r *AchievementRepository) ListUserAchievements(user string) ([]domain.UserAchievement, error) {
	rows, err := r.db.Query(
		`SELECT user_id, achievement_id, awarded_at, claimed
         FROM user_achievements WHERE user_id = $1 ORDER BY awarded_at, achievement_id`,
		user,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var awards []domain.UserAchievement
	for rows.Next() {
		var award domain.UserAchievement
		if err := rows.Scan(&award.User, &award.AchievementID, &award.AwardedAt, &award.Claimed); err != nil {
			return nil, err
		}
		awards = append(awards, award)
	}
	return awards, rows.Err()
}

func (r *AchievementRepository) SaveUserAchievement(award domain.UserAchievement) error {
	_, err := r.db.Exec(
		`INSERT INTO user_achievements (user_id, achievement_id, awarded_at, claimed)
         VALUES ($1, $2, $3, $4)`,
		award.User, award.AchievementID, award.AwardedAt, award.Claimed,
	)
	return err
}

func (r *AchievementRepository) BeginTransaction() (*sql.Tx, error) {
	return r.db.Begin()
}

func (r *AchievementRepository) MarkClaimedWithTransaction(tx *sql.Tx, user string, achievementID int) error {
	result, err := tx.Exec(
		`UPDATE user_achievements SET claimed = TRUE
         WHERE user_id = $1 AND achievement_id = $2 AND NOT claimed`,
		user, achievementID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.New("claim row missing or already claimed")
	}
	return nil
}
