package interfaces

import (
	"errors"
	"net/http"

	ledgerErrors "github.com/vantro/chainledger/internal/ledger/errors"
)

var notFoundErrors = []error{
	ledgerErrors.ErrExpenseNotFound,
	ledgerErrors.ErrBudgetNotFound,
	ledgerErrors.ErrDelegationNotFound,
	ledgerErrors.ErrBadgeNotFound,
	ledgerErrors.ErrNotAwarded,
}

// statusForError maps the ledger error taxonomy onto HTTP status codes:
// validation 400, authorization 403, missing state 404, conflicting state
// 409, everything else 500.
func statusForError(err error) int {
	switch {
	case ledgerErrors.IsValidationError(err):
		return http.StatusBadRequest
	case ledgerErrors.IsAuthorizationError(err):
		return http.StatusForbidden
	case ledgerErrors.IsStateError(err):
		for _, notFound := range notFoundErrors {
			if errors.Is(err, notFound) {
				return http.StatusNotFound
			}
		}
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func respondServiceError(
	respondError func(w http.ResponseWriter, status int, message string),
	w http.ResponseWriter,
	err error,
) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		respondError(w, status, "Internal server error")
		return
	}
	respondError(w, status, err.Error())
}
