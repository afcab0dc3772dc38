// Copyright 2026 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package backend

import (
	"errors"
	"fmt"
)

// ErrMissingResults is returned when a successful response
// does not carry the results field.
var ErrMissingResults = errors.New("invalid response format: missing results field")

// ErrNullResult is returned when an element of the results list is null.
var ErrNullResult = errors.New("invalid response format: null result")

// Error is returned when the backend rejects a request with a non-200 status.
type Error struct {
	StatusCode int
	Body       string
}

// Error returns the backend response body as the error message.
func (e *Error) Error() string {
	return fmt.Sprintf("API server error: %s", e.Body)
}
