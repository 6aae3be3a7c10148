package access

// MockRecorderKeyRepository keeps recorder credentials in memory for tests.
type MockRecorderKeyRepository struct {
	Keys map[string]RecorderKey
}

func NewMockRecorderKeyRepository() *MockRecorderKeyRepository {
	return &MockRecorderKeyRepository{Keys: make(map[string]RecorderKey)}
}

func (m *MockRecorderKeyRepository) Save(key RecorderKey) error {
	m.Keys[key.KeyID] = key
	return nil
}

func (m *MockRecorderKeyRepository) Find(keyID string) (*RecorderKey, error) {
	key, ok := m.Keys[keyID]
	if !ok {
		return nil, nil
	}
	return &key, nil
}
