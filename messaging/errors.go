// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MatrixError is a homeserver error body, {"errcode": ..., "error": ...}.
// A saved /sync or /messages response holding one instead of events
// decodes to this, so callers can use errors.As:
//
//	var matrixErr *MatrixError
//	if errors.As(err, &matrixErr) && matrixErr.Code == ErrCodeForbidden { ... }
type MatrixError struct {
	// Code is the Matrix error code (e.g., "M_FORBIDDEN").
	Code string `json:"errcode"`
	// Message is the human-readable description from the server.
	Message string `json:"error"`
}

func (e *MatrixError) Error() string {
	if e.Message == "" {
		return "matrix: " + e.Code
	}
	return fmt.Sprintf("matrix: %s: %s", e.Code, e.Message)
}

// Matrix error codes a saved response commonly carries.
const (
	ErrCodeForbidden     = "M_FORBIDDEN"
	ErrCodeUnknownToken  = "M_UNKNOWN_TOKEN"
	ErrCodeNotFound      = "M_NOT_FOUND"
	ErrCodeLimitExceeded = "M_LIMIT_EXCEEDED"
	ErrCodeUnknown       = "M_UNKNOWN"
)

// ParseErrorResponse reports whether body is a homeserver error body
// and returns it. Bodies that are not JSON objects, or that have no
// errcode, are not errors.
func ParseErrorResponse(body []byte) (*MatrixError, bool) {
	var matrixErr MatrixError
	if err := json.Unmarshal(body, &matrixErr); err != nil || matrixErr.Code == "" {
		return nil, false
	}
	return &matrixErr, true
}

// IsMatrixError reports whether err is a *MatrixError with the given
// code.
func IsMatrixError(err error, code string) bool {
	var matrixErr *MatrixError
	if errors.As(err, &matrixErr) {
		return matrixErr.Code == code
	}
	return false
}
