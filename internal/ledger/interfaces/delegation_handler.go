package interfaces

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vantro/chainledger/internal/access"
	"github.com/vantro/chainledger/internal/auth"
	"github.com/vantro/chainledger/internal/ledger/domain"
)

type DelegationServiceInterface interface {
	CreateDelegation(admin, delegate string, spendLimit decimal.Decimal, expiryDuration time.Duration) (*domain.Delegation, error)
	UpdateDelegation(admin, delegate string, newSpendLimit decimal.Decimal, newExpiryDuration time.Duration) (*domain.Delegation, error)
	RevokeDelegation(admin, delegate string) error
	RecordDelegatedSpend(recorderKey, admin, delegate string, amount decimal.Decimal) error
	IsDelegationActive(admin, delegate string) (bool, error)
	GetDelegation(admin, delegate string) (*domain.Delegation, error)
	GetRemainingSpendLimit(admin, delegate string) (decimal.Decimal, error)
	GetAdminDelegates(admin string) ([]string, error)
	GetDelegateAdmins(delegate string) ([]string, error)
}

type DelegationHandler struct {
	service      DelegationServiceInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewDelegationHandler(
	service DelegationServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string),
) *DelegationHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &DelegationHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

type createDelegationRequest struct {
	Delegate      string `json:"delegate"`
	SpendLimit    string `json:"spend_limit"`
	ExpirySeconds int64  `json:"expiry_seconds"`
}

func (h *DelegationHandler) CreateDelegation(w http.ResponseWriter, r *http.Request) {
	var req createDelegationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	limit, err := decimal.NewFromString(req.SpendLimit)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid spend limit")
		return
	}

	admin := auth.CallerFromContext(r.Context())
	delegation, err := h.service.CreateDelegation(admin, req.Delegate, limit, time.Duration(req.ExpirySeconds)*time.Second)
	if err != nil {
		respondServiceError(h.respondError, w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":     "success",
		"message":    "Delegation created successfully.",
		"delegation": delegation,
	})
}

type updateDelegationRequest struct {
	SpendLimit    string `json:"spend_limit"`
	ExpirySeconds int64  `json:"expiry_seconds"`
}

func (h *DelegationHandler) UpdateDelegation(w http.ResponseWriter, r *http.Request) {
	var req updateDelegationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	limit, err := decimal.NewFromString(req.SpendLimit)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid spend limit")
		return
	}

	admin := auth.CallerFromContext(r.Context())
	delegation, err := h.service.UpdateDelegation(admin, r.PathValue("delegate"), limit, time.Duration(req.ExpirySeconds)*time.Second)
	if err != nil {
		respondServiceError(h.respondError, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "success",
		"message":    "Delegation updated successfully.",
		"delegation": delegation,
	})
}

func (h *DelegationHandler) RevokeDelegation(w http.ResponseWriter, r *http.Request) {
	admin := auth.CallerFromContext(r.Context())
	if err := h.service.RevokeDelegation(admin, r.PathValue("delegate")); err != nil {
		respondServiceError(h.respondError, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Delegation revoked.",
	})
}

func (h *DelegationHandler) GetDelegationStatus(w http.ResponseWriter, r *http.Request) {
	admin := auth.CallerFromContext(r.Context())
	delegate := r.PathValue("delegate")

	delegation, err := h.service.GetDelegation(admin, delegate)
	if err != nil {
		respondServiceError(h.respondError, w, err)
		return
	}
	active, err := h.service.IsDelegationActive(admin, delegate)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to check delegation")
		return
	}
	remaining, err := h.service.GetRemainingSpendLimit(admin, delegate)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to check delegation")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "success",
		"delegation": delegation,
		"active":     active,
		"remaining":  remaining,
	})
}

func (h *DelegationHandler) GetAdminDelegates(w http.ResponseWriter, r *http.Request) {
	delegates, err := h.service.GetAdminDelegates(auth.CallerFromContext(r.Context()))
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve delegates")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "success",
		"delegates": delegates,
	})
}

func (h *DelegationHandler) GetDelegateAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.service.GetDelegateAdmins(auth.CallerFromContext(r.Context()))
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve admins")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"admins": admins,
	})
}

type delegatedSpendRequest struct {
	Admin    string `json:"admin"`
	Delegate string `json:"delegate"`
	Amount   string `json:"amount"`
}

// RecordDelegatedSpend is reached through the recorder key middleware; the
// verified key id in the context is the recorder identity the service
// checks.
func (h *DelegationHandler) RecordDelegatedSpend(w http.ResponseWriter, r *http.Request) {
	var req delegatedSpendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid amount")
		return
	}

	recorderKey := access.RecorderFromContext(r.Context())
	if err := h.service.RecordDelegatedSpend(recorderKey, req.Admin, req.Delegate, amount); err != nil {
		respondServiceError(h.respondError, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Delegated spend recorded.",
	})
}
