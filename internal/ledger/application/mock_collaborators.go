package application

// MockRoleChecker answers role lookups from fixed data in tests.
type MockRoleChecker struct {
	Owner     string
	Recorders map[string]bool
}

func (m *MockRoleChecker) IsOwner(account string) bool {
	return account != "" && account == m.Owner
}

func (m *MockRoleChecker) IsRecorder(keyID string) bool {
	return m.Recorders[keyID]
}

// MockEventPublisher records published events for assertions.
type MockEventPublisher struct {
	Events []interface{}
}

func (m *MockEventPublisher) Publish(event interface{}) {
	m.Events = append(m.Events, event)
}
