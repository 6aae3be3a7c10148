package token

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	ledgerErrors "github.com/vantro/chainledger/internal/ledger/errors"
)

func TestMintWithTransaction(t *testing.T) {
	repo := NewMockRepository()
	service := NewService(repo)

	err := service.MintWithTransaction(nil, "0xalice", decimal.NewFromInt(50))
	assert.NoError(t, err)
	err = service.MintWithTransaction(nil, "0xalice", decimal.NewFromInt(25))
	assert.NoError(t, err)

	balance, err := service.BalanceOf("0xalice")
	assert.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(75)))
}

func TestMintWithTransaction_Validation(t *testing.T) {
	service := NewService(NewMockRepository())

	err := service.MintWithTransaction(nil, "", decimal.NewFromInt(50))
	assert.True(t, ledgerErrors.IsValidationError(err))

	err = service.MintWithTransaction(nil, "0xalice", decimal.Zero)
	assert.ErrorIs(t, err, ledgerErrors.ErrInvalidAmount)
}

func TestBalanceOf_UnknownAccount(t *testing.T) {
	service := NewService(NewMockRepository())

	balance, err := service.BalanceOf("0xnobody")
	assert.NoError(t, err)
	assert.True(t, balance.IsZero())
}
