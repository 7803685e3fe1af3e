// Package error defines domain-specific errors for the recurring payments service.
package error

import (
	"errors"
	"strings"
)

// Recurring payment domain errors.
var (
	// ErrValidationFailed is returned when an input violates one or more business rules.
	ErrValidationFailed = errors.New("validation failed")

	// ErrDefinitionNotFound is returned when a payment definition does not exist.
	ErrDefinitionNotFound = errors.New("payment definition not found")

	// ErrOccurrenceNotFound is returned when a payment occurrence does not exist.
	ErrOccurrenceNotFound = errors.New("payment occurrence not found")

	// ErrCategoryNotFound is returned when a referenced category does not exist.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrTransactionNotFound is returned when a referenced transaction does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrBalanceNotFound is returned when a definition has no saving balance.
	ErrBalanceNotFound = errors.New("saving balance not found")

	// ErrInvalidRecurrence is returned when a definition's recurrence interval is not positive.
	ErrInvalidRecurrence = errors.New("invalid recurrence interval")

	// ErrInvalidHorizon is returned when a synchronization horizon is negative.
	ErrInvalidHorizon = errors.New("invalid synchronization horizon")

	// ErrPersistenceFailed wraps failures of the underlying storage.
	ErrPersistenceFailed = errors.New("persistence failed")

	// ErrPatternUnresolvable is returned when a day-of-month pattern has no date in a month.
	ErrPatternUnresolvable = errors.New("day-of-month pattern cannot be resolved")
)

// RecurringPaymentErrorCode defines error codes for recurring payment errors.
// Format: RPM-XXYYYY where XX is category and YYYY is specific error.
type RecurringPaymentErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeValidationFailed  RecurringPaymentErrorCode = "RPM-010001"
	ErrCodeInvalidRecurrence RecurringPaymentErrorCode = "RPM-010002"
	ErrCodeInvalidHorizon    RecurringPaymentErrorCode = "RPM-010003"
	ErrCodeInvalidRequest    RecurringPaymentErrorCode = "RPM-010004"

	// Lookup errors (02XXXX)
	ErrCodeDefinitionNotFound  RecurringPaymentErrorCode = "RPM-020001"
	ErrCodeOccurrenceNotFound  RecurringPaymentErrorCode = "RPM-020002"
	ErrCodeCategoryNotFound    RecurringPaymentErrorCode = "RPM-020003"
	ErrCodeTransactionNotFound RecurringPaymentErrorCode = "RPM-020004"
	ErrCodeBalanceNotFound     RecurringPaymentErrorCode = "RPM-020005"

	// Storage errors (03XXXX)
	ErrCodePersistenceFailed RecurringPaymentErrorCode = "RPM-030001"

	// Throttling errors (04XXXX)
	ErrCodeRateLimited RecurringPaymentErrorCode = "RPM-040001"
)

// RecurringPaymentError represents a recurring payment error with code, message and reasons.
type RecurringPaymentError struct {
	Code    RecurringPaymentErrorCode
	Message string
	Reasons []string
	Err     error
}

// Error implements the error interface.
func (e *RecurringPaymentError) Error() string {
	msg := e.Message
	if len(e.Reasons) > 0 {
		msg += ": " + strings.Join(e.Reasons, "; ")
	}
	if e.Err != nil && e.Code == ErrCodePersistenceFailed {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *RecurringPaymentError) Unwrap() error {
	return e.Err
}

// Messages returns the human-readable message list for display.
func (e *RecurringPaymentError) Messages() []string {
	if len(e.Reasons) > 0 {
		return append([]string(nil), e.Reasons...)
	}
	if e.Code == ErrCodePersistenceFailed && e.Err != nil {
		return []string{e.Err.Error()}
	}
	return []string{e.Message}
}

// NewRecurringPaymentError creates a new RecurringPaymentError with the given code and message.
func NewRecurringPaymentError(code RecurringPaymentErrorCode, message string, err error) *RecurringPaymentError {
	return &RecurringPaymentError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewValidationError creates a ValidationFailed error carrying every violated rule.
func NewValidationError(reasons ...string) *RecurringPaymentError {
	return &RecurringPaymentError{
		Code:    ErrCodeValidationFailed,
		Message: "validation failed",
		Reasons: reasons,
		Err:     ErrValidationFailed,
	}
}

// NewInvalidRequestError creates an error for a malformed request body, path or query.
func NewInvalidRequestError(reasons ...string) *RecurringPaymentError {
	return &RecurringPaymentError{
		Code:    ErrCodeInvalidRequest,
		Message: "invalid request",
		Reasons: reasons,
		Err:     ErrValidationFailed,
	}
}

// NewNotFoundError maps a not-found sentinel to its coded error.
func NewNotFoundError(err error) *RecurringPaymentError {
	switch {
	case errors.Is(err, ErrDefinitionNotFound):
		return NewRecurringPaymentError(ErrCodeDefinitionNotFound, "payment definition not found", ErrDefinitionNotFound)
	case errors.Is(err, ErrOccurrenceNotFound):
		return NewRecurringPaymentError(ErrCodeOccurrenceNotFound, "payment occurrence not found", ErrOccurrenceNotFound)
	case errors.Is(err, ErrCategoryNotFound):
		return NewRecurringPaymentError(ErrCodeCategoryNotFound, "category not found", ErrCategoryNotFound)
	case errors.Is(err, ErrTransactionNotFound):
		return NewRecurringPaymentError(ErrCodeTransactionNotFound, "transaction not found", ErrTransactionNotFound)
	case errors.Is(err, ErrBalanceNotFound):
		return NewRecurringPaymentError(ErrCodeBalanceNotFound, "saving balance not found", ErrBalanceNotFound)
	default:
		return NewPersistenceError(err)
	}
}

// NewInvalidRecurrenceError is returned when a definition recurs every zero or fewer months.
func NewInvalidRecurrenceError() *RecurringPaymentError {
	return NewRecurringPaymentError(ErrCodeInvalidRecurrence, "recurrence interval must be at least one month", ErrInvalidRecurrence)
}

// NewInvalidHorizonError is returned when a negative horizon is requested.
func NewInvalidHorizonError() *RecurringPaymentError {
	return NewRecurringPaymentError(ErrCodeInvalidHorizon, "horizon months must not be negative", ErrInvalidHorizon)
}

// NewPersistenceError wraps a storage failure. The original message is kept verbatim.
func NewPersistenceError(err error) *RecurringPaymentError {
	return &RecurringPaymentError{
		Code:    ErrCodePersistenceFailed,
		Message: ErrPersistenceFailed.Error(),
		Err:     err,
	}
}

// IsNotFound reports whether err is one of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDefinitionNotFound) ||
		errors.Is(err, ErrOccurrenceNotFound) ||
		errors.Is(err, ErrCategoryNotFound) ||
		errors.Is(err, ErrTransactionNotFound) ||
		errors.Is(err, ErrBalanceNotFound)
}

// Wrap converts any error returned by a collaborator into a RecurringPaymentError.
// Errors that are already coded pass through untouched.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	var rpErr *RecurringPaymentError
	if errors.As(err, &rpErr) {
		return err
	}
	if IsNotFound(err) {
		return NewNotFoundError(err)
	}
	return NewPersistenceError(err)
}
