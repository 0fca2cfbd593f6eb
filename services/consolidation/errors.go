package consolidation

import "fmt"

// ConsolidationError rejects a malformed confirmation; no state is mutated.
type ConsolidationError struct {
	Code    string
	Message string
}

func (e *ConsolidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewMalformedBookingError(msg string) error {
	return &ConsolidationError{
		Code:    "malformedBooking",
		Message: msg,
	}
}
