package application

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/vantro/chainledger/internal/ledger/domain"
	"github.com/vantro/chainledger/internal/ledger/errors"
	"github.com/vantro/chainledger/internal/ledger/infrastructure"
)

const recorderKey = "relayer-1"

func newDelegationServiceAt(start time.Time) (*DelegationService, *MockEventPublisher, *time.Time) {
	publisher := &MockEventPublisher{}
	roles := &MockRoleChecker{Owner: "0xowner", Recorders: map[string]bool{recorderKey: true}}
	service := NewDelegationService(infrastructure.NewMockDelegationRepository(), roles, publisher)
	now := start
	service.now = func() time.Time { return now }
	return service, publisher, &now
}

func TestCreateDelegation_InvalidLimit(t *testing.T) {
	service, _, _ := newDelegationServiceAt(time.Unix(1_700_000_000, 0))

	_, err := service.CreateDelegation("0xadmin", "0xdelegate", decimal.Zero, time.Hour)
	assert.ErrorIs(t, err, errors.ErrInvalidLimit)
}

func TestRecordDelegatedSpend_RequiresRecorderRole(t *testing.T) {
	service, _, _ := newDelegationServiceAt(time.Unix(1_700_000_000, 0))

	_, err := service.CreateDelegation("0xadmin", "0xdelegate", decimal.NewFromInt(100), time.Hour)
	assert.NoError(t, err)

	err = service.RecordDelegatedSpend("not-a-recorder", "0xadmin", "0xdelegate", decimal.NewFromInt(10))
	assert.ErrorIs(t, err, errors.ErrMissingRole)
}

func TestRecordDelegatedSpend_LimitEnforcement(t *testing.T) {
	service, _, _ := newDelegationServiceAt(time.Unix(1_700_000_000, 0))

	_, err := service.CreateDelegation("0xadmin", "0xdelegate", decimal.NewFromInt(100), time.Hour)
	assert.NoError(t, err)

	assert.NoError(t, service.RecordDelegatedSpend(recorderKey, "0xadmin", "0xdelegate", decimal.NewFromInt(60)))
	// Spending exactly up to the limit succeeds.
	assert.NoError(t, service.RecordDelegatedSpend(recorderKey, "0xadmin", "0xdelegate", decimal.NewFromInt(40)))

	// One unit over must be rejected whole, leaving spent unchanged.
	err = service.RecordDelegatedSpend(recorderKey, "0xadmin", "0xdelegate", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, errors.ErrLimitExceeded)

	delegation, err := service.GetDelegation("0xadmin", "0xdelegate")
	assert.NoError(t, err)
	assert.True(t, delegation.SpentAmount.Equal(decimal.NewFromInt(100)))

	remaining, err := service.GetRemainingSpendLimit("0xadmin", "0xdelegate")
	assert.NoError(t, err)
	assert.True(t, remaining.IsZero())
}

func TestRecordDelegatedSpend_UnknownPair(t *testing.T) {
	service, _, _ := newDelegationServiceAt(time.Unix(1_700_000_000, 0))

	err := service.RecordDelegatedSpend(recorderKey, "0xadmin", "0xdelegate", decimal.NewFromInt(10))
	assert.ErrorIs(t, err, errors.ErrDelegationNotFound)
}

func TestReverseIndices_SymmetryAndDedup(t *testing.T) {
	service, _, _ := newDelegationServiceAt(time.Unix(1_700_000_000, 0))

	_, err := service.CreateDelegation("0xadmin", "0xdelegate", decimal.NewFromInt(100), time.Hour)
	assert.NoError(t, err)
	// Overwriting the same pair must not duplicate index entries.
	_, err = service.CreateDelegation("0xadmin", "0xdelegate", decimal.NewFromInt(200), 2*time.Hour)
	assert.NoError(t, err)

	delegates, err := service.GetAdminDelegates("0xadmin")
	assert.NoError(t, err)
	assert.Equal(t, []string{"0xdelegate"}, delegates)

	admins, err := service.GetDelegateAdmins("0xdelegate")
	assert.NoError(t, err)
	assert.Equal(t, []string{"0xadmin"}, admins)
}

func TestCreateDelegation_OverwriteResetsSpent(t *testing.T) {
	service, _, _ := newDelegationServiceAt(time.Unix(1_700_000_000, 0))

	_, err := service.CreateDelegation("0xadmin", "0xdelegate", decimal.NewFromInt(100), time.Hour)
	assert.NoError(t, err)
	assert.NoError(t, service.RecordDelegatedSpend(recorderKey, "0xadmin", "0xdelegate", decimal.NewFromInt(80)))

	_, err = service.CreateDelegation("0xadmin", "0xdelegate", decimal.NewFromInt(50), time.Hour)
	assert.NoError(t, err)

	delegation, err := service.GetDelegation("0xadmin", "0xdelegate")
	assert.NoError(t, err)
	assert.True(t, delegation.SpentAmount.IsZero())
	assert.True(t, delegation.SpendLimit.Equal(decimal.NewFromInt(50)))
}

func TestRevokeDelegation(t *testing.T) {
	service, publisher, _ := newDelegationServiceAt(time.Unix(1_700_000_000, 0))

	_, err := service.CreateDelegation("0xadmin", "0xdelegate", decimal.NewFromInt(100), time.Hour)
	assert.NoError(t, err)

	assert.NoError(t, service.RevokeDelegation("0xadmin", "0xdelegate"))

	active, err := service.IsDelegationActive("0xadmin", "0xdelegate")
	assert.NoError(t, err)
	assert.False(t, active)

	// History persists in the reverse indices after revocation.
	delegates, err := service.GetAdminDelegates("0xadmin")
	assert.NoError(t, err)
	assert.Equal(t, []string{"0xdelegate"}, delegates)

	// Revoking again is a safe no-op and publishes nothing new.
	eventsBefore := len(publisher.Events)
	assert.NoError(t, service.RevokeDelegation("0xadmin", "0xdelegate"))
	assert.Equal(t, eventsBefore, len(publisher.Events))
}

func TestRevokeDelegation_Unknown(t *testing.T) {
	service, _, _ := newDelegationServiceAt(time.Unix(1_700_000_000, 0))

	err := service.RevokeDelegation("0xadmin", "0xnobody")
	assert.ErrorIs(t, err, errors.ErrDelegationNotFound)
}

func TestDelegation_LazyExpiry(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	service, _, now := newDelegationServiceAt(start)

	_, err := service.CreateDelegation("0xadmin", "0xdelegate", decimal.NewFromInt(100), time.Hour)
	assert.NoError(t, err)

	active, err := service.IsDelegationActive("0xadmin", "0xdelegate")
	assert.NoError(t, err)
	assert.True(t, active)

	*now = start.Add(2 * time.Hour)

	active, err = service.IsDelegationActive("0xadmin", "0xdelegate")
	assert.NoError(t, err)
	assert.False(t, active)

	err = service.RecordDelegatedSpend(recorderKey, "0xadmin", "0xdelegate", decimal.NewFromInt(10))
	assert.ErrorIs(t, err, errors.ErrDelegationInactive)
}

func TestUpdateDelegation(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	service, _, now := newDelegationServiceAt(start)

	_, err := service.CreateDelegation("0xadmin", "0xdelegate", decimal.NewFromInt(100), time.Hour)
	assert.NoError(t, err)
	assert.NoError(t, service.RecordDelegatedSpend(recorderKey, "0xadmin", "0xdelegate", decimal.NewFromInt(30)))

	*now = start.Add(30 * time.Minute)
	updated, err := service.UpdateDelegation("0xadmin", "0xdelegate", decimal.NewFromInt(200), time.Hour)
	assert.NoError(t, err)

	// The limit and expiry change; the spent accumulator is kept.
	assert.True(t, updated.SpendLimit.Equal(decimal.NewFromInt(200)))
	assert.True(t, updated.SpentAmount.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, start.Add(90*time.Minute).UTC(), updated.ExpiresAt)
}

func TestUpdateDelegation_NotActive(t *testing.T) {
	service, _, _ := newDelegationServiceAt(time.Unix(1_700_000_000, 0))

	_, err := service.UpdateDelegation("0xadmin", "0xdelegate", decimal.NewFromInt(200), time.Hour)
	assert.ErrorIs(t, err, errors.ErrDelegationNotFound)

	_, err = service.CreateDelegation("0xadmin", "0xdelegate", decimal.NewFromInt(100), time.Hour)
	assert.NoError(t, err)
	assert.NoError(t, service.RevokeDelegation("0xadmin", "0xdelegate"))

	_, err = service.UpdateDelegation("0xadmin", "0xdelegate", decimal.NewFromInt(200), time.Hour)
	assert.ErrorIs(t, err, errors.ErrDelegationNotFound)
}

func TestDelegationEvents(t *testing.T) {
	service, publisher, _ := newDelegationServiceAt(time.Unix(1_700_000_000, 0))

	_, err := service.CreateDelegation("0xadmin", "0xdelegate", decimal.NewFromInt(100), time.Hour)
	assert.NoError(t, err)
	assert.NoError(t, service.RevokeDelegation("0xadmin", "0xdelegate"))

	assert.Len(t, publisher.Events, 2)
	created, ok := publisher.Events[0].(domain.DelegationCreated)
	assert.True(t, ok)
	assert.Equal(t, "0xdelegate", created.Delegate)
	revoked, ok := publisher.Events[1].(domain.DelegationRevoked)
	assert.True(t, ok)
	assert.Equal(t, "0xadmin", revoked.Admin)
}
