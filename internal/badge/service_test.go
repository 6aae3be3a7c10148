package badge

import (
	"testing"

	"github.com/stretchr/testify/assert"

	ledgerErrors "github.com/vantro/chainledger/internal/ledger/errors"
)

type stubRoles struct {
	owner string
}

func (s stubRoles) IsOwner(account string) bool { return account == s.owner }

func TestCreateBadge_SequentialIDs(t *testing.T) {
	service := NewService(NewMockRepository(), stubRoles{owner: "0xowner"})

	first, err := service.CreateBadge("0xowner", "Night Owl", "Recorded an expense after midnight", "ipfs://badges/night-owl", "rare")
	assert.NoError(t, err)
	assert.Equal(t, len(DefaultBadges), first.ID)

	second, err := service.CreateBadge("0xowner", "Globetrotter", "Expenses in five categories", "ipfs://badges/globetrotter", "epic")
	assert.NoError(t, err)
	assert.Equal(t, first.ID+1, second.ID)
}

func TestCreateBadge_OwnerOnly(t *testing.T) {
	service := NewService(NewMockRepository(), stubRoles{owner: "0xowner"})

	_, err := service.CreateBadge("0xintruder", "Forged", "", "", "common")
	assert.ErrorIs(t, err, ledgerErrors.ErrUnauthorized)
}

func TestMintBadge_UnknownBadge(t *testing.T) {
	service := NewService(NewMockRepository(), stubRoles{owner: "0xowner"})

	err := service.MintBadgeWithTransaction(nil, "0xalice", 999)
	assert.ErrorIs(t, err, ledgerErrors.ErrBadgeNotFound)
}

func TestMintBadge_Ownership(t *testing.T) {
	service := NewService(NewMockRepository(), stubRoles{owner: "0xowner"})

	held, err := service.HasBadge("0xalice", 0)
	assert.NoError(t, err)
	assert.False(t, held)

	assert.NoError(t, service.MintBadgeWithTransaction(nil, "0xalice", 0))

	held, err = service.HasBadge("0xalice", 0)
	assert.NoError(t, err)
	assert.True(t, held)
}
