package infrastructure

import (
	"database/sql"
	"errors"
	"sort"

	"github.com/vantro/chainledger/internal/ledger/domain"
)

// MockAchievementRepository keeps the catalog and awards in memory for
// tests, seeded with the default catalog. BeginTransaction returns a nil
// transaction; writes apply immediately.
type MockAchievementRepository struct {
	Achievements map[int]domain.Achievement
	Awards       []domain.UserAchievement
}

func NewMockAchievementRepository() *MockAchievementRepository {
	repo := &MockAchievementRepository{Achievements: make(map[int]domain.Achievement)}
	for _, achievement := range domain.DefaultAchievements {
		repo.Achievements[achievement.ID] = achievement
	}
	return repo
}

func (m *MockAchievementRepository) SaveAchievement(achievement domain.Achievement) error {
	m.Achievements[achievement.ID] = achievement
	return nil
}

func (m *MockAchievementRepository) FindAchievement(id int) (*domain.Achievement, error) {
	achievement, ok := m.Achievements[id]
	if !ok {
		return nil, nil
	}
	return &achievement, nil
}

func (m *MockAchievementRepository) ListAchievements() ([]domain.Achievement, error) {
	var achievements []domain.Achievement
	for _, achievement := range m.Achievements {
		achievements = append(achievements, achievement)
	}
	sort.Slice(achievements, func(i, j int) bool { return achievements[i].ID < achievements[j].ID })
	return achievements, nil
}

func (m *MockAchievementRepository) NextAchievementID() (int, error) {
	next := 0
	for id := range m.Achievements {
		if id >= next {
			next = id + 1
		}
	}
	return next, nil
}

func (m *MockAchievementRepository) FindUserAchievement(user string, achievementID int) (*domain.UserAchievement, error) {
	for _, award := range m.Awards {
		if award.User == user && award.AchievementID == achievementID {
			found := award
			return &found, nil
		}
	}
	return nil, nil
}

func (m *MockAchievementRepository) ListUserAchievements(user string) ([]domain.UserAchievement, error) {
	var awards []domain.UserAchievement
	for _, award := range m.Awards {
		if award.User == user {
			awards = append(awards, award)
		}
	}
	return awards, nil
}

func (m *MockAchievementRepository) SaveUserAchievement(award domain.UserAchievement) error {
	m.Awards = append(m.Awards, award)
	return nil
}

func (m *MockAchievementRepository) BeginTransaction() (*sql.Tx, error) {
	return nil, nil
}

func (m *MockAchievementRepository) MarkClaimedWithTransaction(_ *sql.Tx, user string, achievementID int) error {
	for i, award := range m.Awards {
		if award.User == user && award.AchievementID == achievementID && !award.Claimed {
			m.Awards[i].Claimed = true
			return nil
		}
	}
	return errors.New("claim row missing or already claimed")
}
