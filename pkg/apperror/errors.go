package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// CodeOf extracts the AppError code from err, or "" if err is not an AppError.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// ---- Validation (VAL) ----

// Validation returns a field/reference validation error. Never retried.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

func ErrInvalidAmount() *AppError {
	return New("VAL_002", "Amount must be greater than zero", http.StatusBadRequest)
}

func ErrInvalidRate() *AppError {
	return New("VAL_003", "Rates must be between 0 and 100", http.StatusBadRequest)
}

// ---- Ledger Business Logic (LED) ----

func ErrInsufficientBalance() *AppError {
	return New("LED_001", "Insufficient wallet balance", http.StatusPaymentRequired)
}

func ErrNotFound(entity string) *AppError {
	return New("LED_002", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ErrWriteConflict signals a concurrent write detected by the store.
// The engine retries these internally with bounded attempts.
func ErrWriteConflict() *AppError {
	return New("LED_003", "Concurrent update detected, please retry", http.StatusConflict)
}

func ErrBranchInactive() *AppError {
	return New("LED_004", "Branch is inactive", http.StatusBadRequest)
}

func ErrDuplicateBranchCode() *AppError {
	return New("LED_005", "Branch code already exists", http.StatusConflict)
}

// ---- Authorization (AUTH) ----

func ErrBranchAccessDenied() *AppError {
	return New("AUTH_001", "Staff does not have access to this branch", http.StatusForbidden)
}

func ErrReversalDenied() *AppError {
	return New("AUTH_002", "Only an admin or the creating staff may reverse a transaction", http.StatusForbidden)
}

func ErrReversalWindowElapsed() *AppError {
	return New("AUTH_003", "Transactions older than the reversal window require an admin", http.StatusForbidden)
}

func ErrAccessDenied() *AppError {
	return New("AUTH_004", "Access denied", http.StatusForbidden)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// ErrStoreUnavailable signals the backing store could not serve the
// request at all. Fatal for this request; nothing was committed.
func ErrStoreUnavailable(err error) *AppError {
	return Wrap("SYS_002", "Storage unavailable", http.StatusServiceUnavailable, err)
}

// IsConflict reports whether err is the retryable concurrent-write error.
func IsConflict(err error) bool {
	return CodeOf(err) == "LED_003"
}
