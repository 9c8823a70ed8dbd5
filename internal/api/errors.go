// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
)

// Error variables for common backend errors.
var (
	// ErrNotConfigured indicates the server base URL is not set.
	ErrNotConfigured = errors.New("chat server URL not configured")

	// ErrUnauthorized indicates the backend rejected the bearer token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound indicates the requested chat does not exist.
	ErrNotFound = errors.New("chat not found")

	// ErrRateLimited indicates the client-side submission limiter refused
	// the call before it reached the network.
	ErrRateLimited = errors.New("too many submissions")
)

// APIError represents a non-2xx response from the backend that does not
// map to a sentinel error.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("chat API error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("chat API error (HTTP %d)", e.Status)
}

// IsNotFound reports whether err is the not-found condition. The session
// view-model uses this to fall back to the new-chat state instead of
// surfacing an error for a stale id in the route.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnauthorized reports whether err is the unauthorized condition.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
