package infrastructure

import (
	"sort"

	"github.com/vantro/chainledger/internal/ledger/domain"
)

// MockDelegationRepository keeps delegations in memory for tests. Rows are
// upserted and never deleted, matching the historic reverse indices of the
// Postgres repository.
type MockDelegationRepository struct {
	Delegations map[string]domain.Delegation
}

func NewMockDelegationRepository() *MockDelegationRepository {
	return &MockDelegationRepository{Delegations: make(map[string]domain.Delegation)}
}

func mockDelegationKey(admin, delegate string) string {
	return admin + "|" + delegate
}

func (m *MockDelegationRepository) Get(admin, delegate string) (*domain.Delegation, error) {
	delegation, ok := m.Delegations[mockDelegationKey(admin, delegate)]
	if !ok {
		return nil, nil
	}
	return &delegation, nil
}

func (m *MockDelegationRepository) Save(delegation domain.Delegation) error {
	m.Delegations[mockDelegationKey(delegation.Admin, delegation.Delegate)] = delegation
	return nil
}

func (m *MockDelegationRepository) DelegatesOf(admin string) ([]string, error) {
	var delegates []string
	for _, delegation := range m.Delegations {
		if delegation.Admin == admin {
			delegates = append(delegates, delegation.Delegate)
		}
	}
	sort.Strings(delegates)
	return delegates, nil
}

func (m *MockDelegationRepository) AdminsOf(delegate string) ([]string, error) {
	var admins []string
	for _, delegation := range m.Delegations {
		if delegation.Delegate == delegate {
			admins = append(admins, delegation.Admin)
		}
	}
	sort.Strings(admins)
	return admins, nil
}
