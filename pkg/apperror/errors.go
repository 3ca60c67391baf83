package apperror

import (
	"errors"
	"net/http"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int                    `json:"code"`
	Reason  string                 `json:"reason,omitempty"`
	Message string                 `json:"message"`
	Errors  []FieldError           `json:"errors,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Is matches errors carrying the same status code and reason, so callers can
// compare against the sentinel values below with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Reason == t.Reason
}

// Stable machine-readable reasons
const (
	ReasonInvoiceExists           = "invoice_exists"
	ReasonReceiptExists           = "receipt_exists"
	ReasonEditLocked              = "edit_locked"
	ReasonInvoiceNotConfirmed     = "invoice_not_confirmed"
	ReasonInvoiceNotDraft         = "invoice_not_draft"
	ReasonInvoiceNoDeal           = "invoice_no_deal"
	ReasonInvalidStatusTransition = "invalid_status_transition"
	ReasonAllocationExhausted     = "allocation_exhausted"
)

// Common errors
var (
	ErrNotFound       = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrUnauthorized   = &AppError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrForbidden      = &AppError{Code: http.StatusForbidden, Message: "Forbidden"}
	ErrBadRequest     = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrUnprocessable  = &AppError{Code: http.StatusUnprocessableEntity, Message: "Unprocessable entity"}

	ErrEditLocked = &AppError{
		Code:    http.StatusBadRequest,
		Reason:  ReasonEditLocked,
		Message: "Document is locked for editing; include a status field to revert it to DRAFT first",
	}
	ErrInvoiceNotConfirmed = &AppError{
		Code:    http.StatusBadRequest,
		Reason:  ReasonInvoiceNotConfirmed,
		Message: "Confirm the invoice first",
	}
	ErrInvoiceNotDraft = &AppError{
		Code:    http.StatusBadRequest,
		Reason:  ReasonInvoiceNotDraft,
		Message: "Only DRAFT invoices can be synchronized",
	}
	ErrInvoiceNoDeal = &AppError{
		Code:    http.StatusBadRequest,
		Reason:  ReasonInvoiceNoDeal,
		Message: "Invoice has no associated deal",
	}
	ErrAllocationExhausted = &AppError{
		Code:    http.StatusInternalServerError,
		Reason:  ReasonAllocationExhausted,
		Message: "Could not allocate a document number, please retry",
	}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewForbiddenError creates a forbidden error with a custom message
func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    http.StatusForbidden,
		Message: message,
	}
}

// NewConflictError reports a duplicate generation. It is rendered as 400 and
// carries the existing entity so a retrying client can continue with it.
func NewConflictError(reason, message string, data map[string]interface{}) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Reason:  reason,
		Message: message,
		Data:    data,
	}
}

// NewPreconditionError reports an operation attempted in the wrong state
func NewPreconditionError(reason, message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Reason:  reason,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
