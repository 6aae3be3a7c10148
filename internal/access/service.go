package access

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	ledgerErrors "github.com/vantro/chainledger/internal/ledger/errors"
)

const bcryptCost = 12

// RecorderKey is a service credential granting the expense-recorder role.
// Only the bcrypt hash of the key is stored.
type RecorderKey struct {
	KeyID   string
	KeyHash string
}

type RecorderKeyRepository interface {
	Save(key RecorderKey) error
	Find(keyID string) (*RecorderKey, error)
}

// Service is the role-lookup capability injected into the ledger services:
// it answers who the owner is and which credentials hold the recorder role.
type Service struct {
	ownerAccount string
	repo         RecorderKeyRepository
}

func NewService(ownerAccount string, repo RecorderKeyRepository) *Service {
	return &Service{ownerAccount: ownerAccount, repo: repo}
}

// IsOwner reports whether the account is the global ledger owner.
func (s *Service) IsOwner(account string) bool {
	return account != "" && account == s.ownerAccount
}

// GrantExpenseRecorderRole stores a new recorder credential. Owner-only.
func (s *Service) GrantExpenseRecorderRole(caller, keyID, apiKey string) error {
	if !s.IsOwner(caller) {
		return ledgerErrors.ErrUnauthorized
	}
	if keyID == "" || apiKey == "" {
		return ledgerErrors.NewValidationError("key id and api key are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcryptCost)
	if err != nil {
		return err
	}
	return s.repo.Save(RecorderKey{KeyID: keyID, KeyHash: string(hash)})
}

// VerifyRecorderKey checks a presented credential against the stored hash.
func (s *Service) VerifyRecorderKey(keyID, apiKey string) error {
	key, err := s.repo.Find(keyID)
	if err != nil {
		return err
	}
	if key == nil {
		return ledgerErrors.ErrMissingRole
	}
	if err := bcrypt.CompareHashAndPassword([]byte(key.KeyHash), []byte(apiKey)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ledgerErrors.ErrMissingRole
		}
		return err
	}
	return nil
}

// IsRecorder reports whether the key id has been granted the recorder role.
func (s *Service) IsRecorder(keyID string) bool {
	key, err := s.repo.Find(keyID)
	return err == nil && key != nil
}
