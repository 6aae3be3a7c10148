package interfaces

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/vantro/chainledger/internal/auth"
	"github.com/vantro/chainledger/internal/ledger/domain"
)

type ExpenseServiceInterface interface {
	AddCategory(caller, name string) error
	ListCategories() ([]string, error)
	RecordExpense(caller string, amount decimal.Decimal, category, description string, reimbursable bool) (*domain.Expense, error)
	GetExpense(id int64) (*domain.Expense, error)
	GetUserExpenses(user string) ([]domain.Expense, error)
	GetUserExpensesByCategory(user, category string) ([]domain.Expense, error)
}

// BudgetTrackerInterface is the push from the expense log into the budget
// ledger: recording an expense updates the caller's budget for that
// category in the same request.
type BudgetTrackerInterface interface {
	TrackExpense(user string, amount decimal.Decimal, category string) error
}

type ExpenseHandler struct {
	service      ExpenseServiceInterface
	tracker      BudgetTrackerInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewExpenseHandler(
	service ExpenseServiceInterface,
	tracker BudgetTrackerInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string),
) *ExpenseHandler {
	if service == nil || tracker == nil || respondJSON == nil || respondError == nil {
		panic("Service, tracker and response functions must not be nil")
	}
	return &ExpenseHandler{
		service:      service,
		tracker:      tracker,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

type addCategoryRequest struct {
	Name string `json:"name"`
}

func (h *ExpenseHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	var req addCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.AddCategory(auth.CallerFromContext(r.Context()), req.Name); err != nil {
		respondServiceError(h.respondError, w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":   "success",
		"message":  "Category registered successfully.",
		"category": req.Name,
	})
}

func (h *ExpenseHandler) GetCategories(w http.ResponseWriter, _ *http.Request) {
	categories, err := h.service.ListCategories()
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve categories")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "success",
		"categories": categories,
	})
}

type recordExpenseRequest struct {
	Amount       string `json:"amount"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	Reimbursable bool   `json:"reimbursable"`
}

func (h *ExpenseHandler) RecordExpense(w http.ResponseWriter, r *http.Request) {
	var req recordExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid amount")
		return
	}

	caller := auth.CallerFromContext(r.Context())
	expense, err := h.service.RecordExpense(caller, amount, req.Category, req.Description, req.Reimbursable)
	if err != nil {
		respondServiceError(h.respondError, w, err)
		return
	}

	// Budget tracking is best-effort from the caller's perspective: the
	// expense is already on the log, a missing budget is a no-op.
	if err := h.tracker.TrackExpense(caller, amount, req.Category); err != nil {
		respondServiceError(h.respondError, w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Expense recorded successfully.",
		"expense": expense,
	})
}

func (h *ExpenseHandler) GetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid expense id")
		return
	}

	expense, err := h.service.GetExpense(id)
	if err != nil {
		respondServiceError(h.respondError, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"expense": expense,
	})
}

// GetUserExpenses lists the caller's expenses, optionally narrowed to one
// category with ?category=.
func (h *ExpenseHandler) GetUserExpenses(w http.ResponseWriter, r *http.Request) {
	caller := auth.CallerFromContext(r.Context())
	category := r.URL.Query().Get("category")

	var expenses []domain.Expense
	var err error
	if category != "" {
		expenses, err = h.service.GetUserExpensesByCategory(caller, category)
	} else {
		expenses, err = h.service.GetUserExpenses(caller)
	}
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve expenses")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "success",
		"expenses": expenses,
	})
}
