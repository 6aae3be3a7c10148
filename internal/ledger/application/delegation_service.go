package application

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vantro/chainledger/internal/ledger/domain"
	"github.com/vantro/chainledger/internal/ledger/errors"
)

// DelegationService manages the spending authority an admin grants to a
// delegate: a cap, an expiry, and a recorder-gated spend entry point.
type DelegationService struct {
	repo      domain.DelegationRepository
	roles     RoleChecker
	publisher EventPublisher
	locks     *keyedMutex
	now       func() time.Time
}

func NewDelegationService(repo domain.DelegationRepository, roles RoleChecker, publisher EventPublisher) *DelegationService {
	return &DelegationService{repo: repo, roles: roles, publisher: publisher, locks: newKeyedMutex(), now: time.Now}
}

func delegationKey(admin, delegate string) string {
	return admin + "|" + delegate
}

// CreateDelegation creates or overwrites the (admin, delegate) record.
// Overwriting resets the spent accumulator and restarts the expiry clock.
func (s *DelegationService) CreateDelegation(admin, delegate string, spendLimit decimal.Decimal, expiryDuration time.Duration) (*domain.Delegation, error) {
	if spendLimit.LessThanOrEqual(decimal.Zero) {
		return nil, errors.ErrInvalidLimit
	}
	if delegate == "" {
		return nil, errors.NewValidationError("delegate account is required")
	}

	unlock := s.locks.lock(delegationKey(admin, delegate))
	defer unlock()

	delegation := domain.Delegation{
		Admin:       admin,
		Delegate:    delegate,
		SpendLimit:  spendLimit,
		SpentAmount: decimal.Zero,
		ExpiresAt:   s.now().UTC().Add(expiryDuration),
		IsActive:    true,
	}
	if err := s.repo.Save(delegation); err != nil {
		return nil, err
	}

	s.publisher.Publish(domain.DelegationCreated{
		Admin:      delegation.Admin,
		Delegate:   delegation.Delegate,
		SpendLimit: delegation.SpendLimit,
		ExpiresAt:  delegation.ExpiresAt,
	})
	return &delegation, nil
}

// UpdateDelegation changes the limit and restarts the expiry of an active
// delegation; the spent accumulator is kept.
func (s *DelegationService) UpdateDelegation(admin, delegate string, newSpendLimit decimal.Decimal, newExpiryDuration time.Duration) (*domain.Delegation, error) {
	if newSpendLimit.LessThanOrEqual(decimal.Zero) {
		return nil, errors.ErrInvalidLimit
	}

	unlock := s.locks.lock(delegationKey(admin, delegate))
	defer unlock()

	delegation, err := s.repo.Get(admin, delegate)
	if err != nil {
		return nil, err
	}
	if delegation == nil || !delegation.ActiveAt(s.now().UTC()) {
		return nil, errors.ErrDelegationNotFound
	}

	delegation.SpendLimit = newSpendLimit
	delegation.ExpiresAt = s.now().UTC().Add(newExpiryDuration)
	if err := s.repo.Save(*delegation); err != nil {
		return nil, err
	}
	return delegation, nil
}

// RevokeDelegation deactivates the delegation. Revoking an already-revoked
// delegation is a no-op so callers can retry safely; the pair stays in the
// reverse indices.
func (s *DelegationService) RevokeDelegation(admin, delegate string) error {
	unlock := s.locks.lock(delegationKey(admin, delegate))
	defer unlock()

	delegation, err := s.repo.Get(admin, delegate)
	if err != nil {
		return err
	}
	if delegation == nil {
		return errors.ErrDelegationNotFound
	}
	if !delegation.IsActive {
		return nil
	}

	delegation.IsActive = false
	if err := s.repo.Save(*delegation); err != nil {
		return err
	}

	s.publisher.Publish(domain.DelegationRevoked{Admin: admin, Delegate: delegate})
	return nil
}

// RecordDelegatedSpend consumes part of the delegation limit. Only holders
// of the expense-recorder role may call it; a spend pushing past the limit
// is rejected whole.
func (s *DelegationService) RecordDelegatedSpend(recorderKey, admin, delegate string, amount decimal.Decimal) error {
	if !s.roles.IsRecorder(recorderKey) {
		return errors.ErrMissingRole
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return errors.ErrInvalidAmount
	}

	unlock := s.locks.lock(delegationKey(admin, delegate))
	defer unlock()

	delegation, err := s.repo.Get(admin, delegate)
	if err != nil {
		return err
	}
	if delegation == nil {
		return errors.ErrDelegationNotFound
	}
	if !delegation.ActiveAt(s.now().UTC()) {
		return errors.ErrDelegationInactive
	}
	if delegation.SpentAmount.Add(amount).GreaterThan(delegation.SpendLimit) {
		return errors.ErrLimitExceeded
	}

	delegation.SpentAmount = delegation.SpentAmount.Add(amount)
	return s.repo.Save(*delegation)
}

// IsDelegationActive checks both the revocation flag and the expiry;
// expiry is evaluated lazily, nothing deactivates in the background.
func (s *DelegationService) IsDelegationActive(admin, delegate string) (bool, error) {
	delegation, err := s.repo.Get(admin, delegate)
	if err != nil {
		return false, err
	}
	if delegation == nil {
		return false, nil
	}
	return delegation.ActiveAt(s.now().UTC()), nil
}

func (s *DelegationService) GetDelegation(admin, delegate string) (*domain.Delegation, error) {
	delegation, err := s.repo.Get(admin, delegate)
	if err != nil {
		return nil, err
	}
	if delegation == nil {
		return nil, errors.ErrDelegationNotFound
	}
	return delegation, nil
}

func (s *DelegationService) GetRemainingSpendLimit(admin, delegate string) (decimal.Decimal, error) {
	delegation, err := s.GetDelegation(admin, delegate)
	if err != nil {
		return decimal.Zero, err
	}
	return delegation.Remaining(), nil
}

// GetAdminDelegates lists every delegate the admin has ever delegated to,
// revoked and expired pairs included.
func (s *DelegationService) GetAdminDelegates(admin string) ([]string, error) {
	return s.repo.DelegatesOf(admin)
}

// GetDelegateAdmins lists every admin that has ever delegated to the
// delegate.
func (s *DelegationService) GetDelegateAdmins(delegate string) ([]string, error) {
	return s.repo.AdminsOf(delegate)
}
