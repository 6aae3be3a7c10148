package interfaces

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/vantro/chainledger/internal/auth"
	"github.com/vantro/chainledger/internal/ledger/domain"
)

type BudgetServiceInterface interface {
	CreateBudget(caller, category string, amount decimal.Decimal, period domain.Period) (*domain.Budget, error)
	TrackExpense(user string, amount decimal.Decimal, category string) error
	GetBudget(user, category string) (*domain.Budget, error)
	GetRemainingBudget(user, category string) (decimal.Decimal, error)
}

type BudgetHandler struct {
	service      BudgetServiceInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewBudgetHandler(
	service BudgetServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string),
) *BudgetHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &BudgetHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

type createBudgetRequest struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Period   string `json:"period"`
}

func (h *BudgetHandler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	var req createBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid amount")
		return
	}

	budget, err := h.service.CreateBudget(auth.CallerFromContext(r.Context()), req.Category, amount, domain.Period(req.Period))
	if err != nil {
		respondServiceError(h.respondError, w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Budget created successfully.",
		"budget":  budget,
	})
}

func (h *BudgetHandler) GetBudget(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromContext(r.Context())
	category := r.PathValue("category")

	budget, err := h.service.GetBudget(caller, category)
	if err != nil {
		respondServiceError(h.respondError, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"budget": budget,
	})
}

func (h *BudgetHandler) GetRemainingBudget(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromContext(r.Context())
	category := r.PathValue("category")

	remaining, err := h.service.GetRemainingBudget(caller, category)
	if err != nil {
		respondServiceError(h.respondError, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "success",
		"category":  category,
		"remaining": remaining,
	})
}

type trackExpenseRequest struct {
	User     string `json:"user"`
	Amount   string `json:"amount"`
	Category string `json:"category"`
}

// TrackExpense is the recorder entry point for spends that reached the
// chain outside the expense log (relayers, importers).
func (h *BudgetHandler) TrackExpense(w http.ResponseWriter, r *http.Request) {
	var req trackExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid amount")
		return
	}

	if err := h.service.TrackExpense(req.User, amount, req.Category); err != nil {
		respondServiceError(h.respondError, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Expense tracked successfully.",
	})
}
