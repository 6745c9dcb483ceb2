package exely

import (
	"errors"
	"fmt"
)

// APIError is the single failure shape of the distribution API client.
// Network failures, non-2xx statuses, non-JSON bodies and error arrays
// embedded in 200 responses all normalize to it.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("exely: %s (status %d, code %s)", e.Message, e.StatusCode, e.Code)
	}
	return fmt.Sprintf("exely: %s (status %d)", e.Message, e.StatusCode)
}

// AsAPIError unwraps err into an *APIError if it is one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func newNetworkError(err error) *APIError {
	return &APIError{Message: fmt.Sprintf("network request failed: %v", err)}
}

func newStatusError(status int, body string) *APIError {
	if len(body) > 500 {
		body = body[:500] + "..."
	}
	return &APIError{StatusCode: status, Message: fmt.Sprintf("request failed: %s", body)}
}
