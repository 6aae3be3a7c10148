package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	ledgerErrors "github.com/vantro/chainledger/internal/ledger/errors"
)

const testOwner = "0xowner"

func TestGrantExpenseRecorderRole_OwnerOnly(t *testing.T) {
	service := NewService(testOwner, NewMockRecorderKeyRepository())

	err := service.GrantExpenseRecorderRole("0xintruder", "relayer-1", "secret-key")
	assert.ErrorIs(t, err, ledgerErrors.ErrUnauthorized)
	assert.False(t, service.IsRecorder("relayer-1"))

	err = service.GrantExpenseRecorderRole(testOwner, "relayer-1", "secret-key")
	assert.NoError(t, err)
	assert.True(t, service.IsRecorder("relayer-1"))
}

func TestVerifyRecorderKey(t *testing.T) {
	service := NewService(testOwner, NewMockRecorderKeyRepository())
	err := service.GrantExpenseRecorderRole(testOwner, "relayer-1", "secret-key")
	assert.NoError(t, err)

	assert.NoError(t, service.VerifyRecorderKey("relayer-1", "secret-key"))
	assert.ErrorIs(t, service.VerifyRecorderKey("relayer-1", "wrong-key"), ledgerErrors.ErrMissingRole)
	assert.ErrorIs(t, service.VerifyRecorderKey("unknown", "secret-key"), ledgerErrors.ErrMissingRole)
}

func TestIsOwner(t *testing.T) {
	service := NewService(testOwner, NewMockRecorderKeyRepository())

	assert.True(t, service.IsOwner(testOwner))
	assert.False(t, service.IsOwner("0xother"))
	assert.False(t, service.IsOwner(""))
}
