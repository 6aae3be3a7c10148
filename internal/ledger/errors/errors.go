package errors

import (
	"errors"
)

// The ledger surfaces three kinds of failures: validation (the request is
// malformed), authorization (the caller lacks the required role) and state
// (the request is well-formed but the ledger is not in a state that allows
// it). Handlers map the kinds onto HTTP status codes.

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	ok := errors.As(err, &validationError)
	return ok
}

type AuthorizationError struct {
	Msg string
}

func (e *AuthorizationError) Error() string {
	return e.Msg
}

func NewAuthorizationError(msg string) error {
	return &AuthorizationError{Msg: msg}
}

func IsAuthorizationError(err error) bool {
	var authorizationError *AuthorizationError
	ok := errors.As(err, &authorizationError)
	return ok
}

type StateError struct {
	Msg string
}

func (e *StateError) Error() string {
	return e.Msg
}

func NewStateError(msg string) error {
	return &StateError{Msg: msg}
}

func IsStateError(err error) bool {
	var stateError *StateError
	ok := errors.As(err, &stateError)
	return ok
}

var (
	ErrUnauthorized = NewAuthorizationError("caller is not the ledger owner")
	ErrMissingRole  = NewAuthorizationError("caller does not hold the required role")

	ErrInvalidAmount      = NewValidationError("amount must be greater than zero")
	ErrInvalidLimit       = NewValidationError("spend limit must be greater than zero")
	ErrUnknownCategory    = NewValidationError("category is not registered")
	ErrDuplicateCategory  = NewValidationError("category is already registered")
	ErrUnknownAchievement = NewValidationError("achievement does not exist or is inactive")
	ErrInvalidPeriod      = NewValidationError("period must be daily, weekly, monthly or yearly")

	ErrExpenseNotFound    = NewStateError("expense not found")
	ErrBudgetNotFound     = NewStateError("no budget exists for this user and category")
	ErrDelegationNotFound = NewStateError("no delegation exists for this admin and delegate")
	ErrDelegationInactive = NewStateError("delegation is revoked or expired")
	ErrLimitExceeded      = NewStateError("spend would exceed the delegation limit")
	ErrAlreadyAwarded     = NewStateError("achievement already awarded to this user")
	ErrNotAwarded         = NewStateError("achievement has not been awarded to this user")
	ErrAlreadyClaimed     = NewStateError("achievement rewards already claimed")
	ErrBadgeNotFound      = NewStateError("badge not found")
)
