package ranking

import "fmt"

// RankError signals invalid provider input; the whole ranking call fails.
type RankError struct {
	Code    string
	Message string
}

func (e *RankError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewInvalidProviderError(msg string) error {
	return &RankError{
		Code:    "invalidProvider",
		Message: msg,
	}
}
