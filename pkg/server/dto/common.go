// Package dto defines the request and response shapes of the HTTP API.
package dto

import (
	"errors"
	"strings"
)

// MaxQueryLength bounds incoming query text.
const MaxQueryLength = 4096

// ErrQueryTooLong is returned for queries over MaxQueryLength.
var ErrQueryTooLong = errors.New("query exceeds maximum length")

// QueryRequest asks for a full pipeline answer.
type QueryRequest struct {
	Query string `json:"query" binding:"required"`
}

// Validate performs validation on QueryRequest
func (r *QueryRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return errors.New("query cannot be empty")
	}
	if len(r.Query) > MaxQueryLength {
		return ErrQueryTooLong
	}
	return nil
}

// RetrieveRequest asks for raw hybrid retrieval without generation.
type RetrieveRequest struct {
	Query string `json:"query" binding:"required"`
}

// Validate performs validation on RetrieveRequest
func (r *RetrieveRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return errors.New("query cannot be empty")
	}
	if len(r.Query) > MaxQueryLength {
		return ErrQueryTooLong
	}
	return nil
}

// Result represents a generic API result
type Result struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
