package etapi

import (
	"errors"
	"fmt"
	"net/http"
)

// StoreError is an opaque passthrough of a transport or server failure.
// This layer never interprets it beyond not-found detection; the caller
// sees exactly what the store reported.
type StoreError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StoreError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("store: %s (%s, HTTP %d)", e.Message, e.Code, e.StatusCode)
	}
	return fmt.Sprintf("store: %s (HTTP %d)", e.Message, e.StatusCode)
}

// IsNotFound reports whether err is a store rejection for a missing entity.
func IsNotFound(err error) bool {
	var se *StoreError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}
