package badge

import (
	"database/sql"
	"errors"
	"sort"
)

// MockRepository keeps the catalog and ownership in memory for tests.
type MockRepository struct {
	Badges     map[int]Badge
	Owners     map[string]map[int]bool
	ShouldFail bool
}

func NewMockRepository() *MockRepository {
	repo := &MockRepository{
		Badges: make(map[int]Badge),
		Owners: make(map[string]map[int]bool),
	}
	for _, badge := range DefaultBadges {
		repo.Badges[badge.ID] = badge
	}
	return repo
}

func (m *MockRepository) SaveBadge(badge Badge) error {
	m.Badges[badge.ID] = badge
	return nil
}

func (m *MockRepository) FindBadge(id int) (*Badge, error) {
	badge, ok := m.Badges[id]
	if !ok {
		return nil, nil
	}
	return &badge, nil
}

func (m *MockRepository) ListBadges() ([]Badge, error) {
	var badges []Badge
	for _, badge := range m.Badges {
		badges = append(badges, badge)
	}
	sort.Slice(badges, func(i, j int) bool { return badges[i].ID < badges[j].ID })
	return badges, nil
}

func (m *MockRepository) NextBadgeID() (int, error) {
	next := 0
	for id := range m.Badges {
		if id >= next {
			next = id + 1
		}
	}
	return next, nil
}

func (m *MockRepository) AddOwnerWithTransaction(_ *sql.Tx, owner string, badgeID int) error {
	if m.ShouldFail {
		return errors.New("mock badge mint failure")
	}
	if m.Owners[owner] == nil {
		m.Owners[owner] = make(map[int]bool)
	}
	m.Owners[owner][badgeID] = true
	return nil
}

func (m *MockRepository) HasBadge(owner string, badgeID int) (bool, error) {
	return m.Owners[owner][badgeID], nil
}
