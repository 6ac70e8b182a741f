package models

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrPredictionNotFound is returned when no ledger record has the requested id.
var ErrPredictionNotFound = errors.New("prediction not found")

// ProviderError reports a failed or rejected call to the quote provider.
type ProviderError struct {
	Op         string
	StatusCode int // upstream HTTP status, 0 when the request never got a response
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("provider %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// RateLimited reports whether the upstream answered 429.
func (e *ProviderError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}
