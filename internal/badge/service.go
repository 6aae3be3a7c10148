package badge

import (
	"database/sql"

	"github.com/vantro/chainledger/internal/ledger/errors"
)

// Badge is a non-fungible catalog entry. Ownership is a set: an account
// either holds a badge id or it does not.
type Badge struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	URI         string `json:"uri"`
	Rarity      string `json:"rarity"`
}

// DefaultBadges seeds the registry with the badges of the seeded
// achievement catalog, one per achievement, ids aligned.
var DefaultBadges = []Badge{
	{ID: 0, Name: "First Steps", Description: "Recorded a first expense", URI: "ipfs://badges/first-steps", Rarity: "common"},
	{ID: 1, Name: "Budget Boss", Description: "Kept a budget through a full period", URI: "ipfs://badges/budget-boss", Rarity: "uncommon"},
	{ID: 2, Name: "Savvy Saver", Description: "Finished a period under half budget", URI: "ipfs://badges/savvy-saver", Rarity: "rare"},
	{ID: 3, Name: "Trusted Hands", Description: "Completed a delegated spend", URI: "ipfs://badges/trusted-hands", Rarity: "epic"},
	{ID: 4, Name: "Chain Veteran", Description: "Recorded one hundred expenses", URI: "ipfs://badges/chain-veteran", Rarity: "legendary"},
}

type Repository interface {
	SaveBadge(badge Badge) error
	FindBadge(id int) (*Badge, error)
	ListBadges() ([]Badge, error)
	NextBadgeID() (int, error)
	AddOwnerWithTransaction(tx *sql.Tx, owner string, badgeID int) error
	HasBadge(owner string, badgeID int) (bool, error)
}

type RoleChecker interface {
	IsOwner(account string) bool
}

type Service struct {
	repo  Repository
	roles RoleChecker
}

func NewService(repo Repository, roles RoleChecker) *Service {
	return &Service{repo: repo, roles: roles}
}

// CreateBadge appends a catalog entry under the next sequential id.
// Owner-only.
func (s *Service) CreateBadge(caller, name, description, uri, rarity string) (*Badge, error) {
	if !s.roles.IsOwner(caller) {
		return nil, errors.ErrUnauthorized
	}
	if name == "" {
		return nil, errors.NewValidationError("badge name is required")
	}
	id, err := s.repo.NextBadgeID()
	if err != nil {
		return nil, err
	}
	badge := Badge{ID: id, Name: name, Description: description, URI: uri, Rarity: rarity}
	if err := s.repo.SaveBadge(badge); err != nil {
		return nil, err
	}
	return &badge, nil
}

// MintBadgeWithTransaction grants badge ownership inside the caller's
// transaction. Like token minting it is an internal capability of the
// achievement claim path.
func (s *Service) MintBadgeWithTransaction(tx *sql.Tx, to string, badgeID int) error {
	if to == "" {
		return errors.NewValidationError("badge recipient is required")
	}
	badge, err := s.repo.FindBadge(badgeID)
	if err != nil {
		return err
	}
	if badge == nil {
		return errors.ErrBadgeNotFound
	}
	return s.repo.AddOwnerWithTransaction(tx, to, badgeID)
}

func (s *Service) GetBadge(badgeID int) (*Badge, error) {
	badge, err := s.repo.FindBadge(badgeID)
	if err != nil {
		return nil, err
	}
	if badge == nil {
		return nil, errors.ErrBadgeNotFound
	}
	return badge, nil
}

func (s *Service) HasBadge(owner string, badgeID int) (bool, error) {
	return s.repo.HasBadge(owner, badgeID)
}

func (s *Service) ListBadges() ([]Badge, error) {
	return s.repo.ListBadges()
}
