package error

import (
	"errors"
	"fmt"
	"testing"
)

func TestRecurringPaymentError(t *testing.T) {
	t.Run("validation error keeps every reason", func(t *testing.T) {
		err := NewValidationError("name must not be empty", "amount must be greater than zero")

		if !errors.Is(err, ErrValidationFailed) {
			t.Error("expected error to wrap ErrValidationFailed")
		}
		if got := err.Messages(); len(got) != 2 {
			t.Errorf("expected 2 messages, got %d", len(got))
		}
		if err.Code != ErrCodeValidationFailed {
			t.Errorf("expected code %s, got %s", ErrCodeValidationFailed, err.Code)
		}
	})

	t.Run("persistence error keeps original message", func(t *testing.T) {
		err := NewPersistenceError(errors.New("connection reset by peer"))

		if got := err.Messages(); len(got) != 1 || got[0] != "connection reset by peer" {
			t.Errorf("expected original message, got %v", got)
		}
	})

	t.Run("wrap maps not found sentinels", func(t *testing.T) {
		err := Wrap(fmt.Errorf("lookup: %w", ErrOccurrenceNotFound))

		var rpErr *RecurringPaymentError
		if !errors.As(err, &rpErr) {
			t.Fatal("expected RecurringPaymentError")
		}
		if rpErr.Code != ErrCodeOccurrenceNotFound {
			t.Errorf("expected code %s, got %s", ErrCodeOccurrenceNotFound, rpErr.Code)
		}
		if !errors.Is(err, ErrOccurrenceNotFound) {
			t.Error("expected error to wrap ErrOccurrenceNotFound")
		}
	})

	t.Run("wrap passes coded errors through", func(t *testing.T) {
		original := NewInvalidHorizonError()
		if got := Wrap(original); got != error(original) {
			t.Errorf("expected the same error, got %v", got)
		}
		if Wrap(nil) != nil {
			t.Error("expected nil for nil error")
		}
	})

	t.Run("invalid request error carries reasons", func(t *testing.T) {
		err := NewInvalidRequestError("id is not a valid UUID")

		if err.Code != ErrCodeInvalidRequest {
			t.Errorf("expected code %s, got %s", ErrCodeInvalidRequest, err.Code)
		}
		if got := err.Messages(); len(got) != 1 || got[0] != "id is not a valid UUID" {
			t.Errorf("unexpected messages %v", got)
		}
	})
}
