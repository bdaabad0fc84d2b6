package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrUnauthorized indicates the configured credentials were rejected
	ErrUnauthorized = errors.New("unauthorized")

	// ErrServerOffline indicates the remote service is unreachable
	ErrServerOffline = errors.New("media service is unreachable")

	// ErrNotFound indicates the requested entity does not exist
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates input was rejected before reaching the network
	ErrValidation = errors.New("validation failed")
)

// APIError is a non-2xx response from the remote service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return e.Message
}

// ErrorMessage extracts the human-readable message of a remote failure.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
