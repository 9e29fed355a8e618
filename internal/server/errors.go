// Package server provides the HTTP REST API for the matching pipeline.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/taskpro/taskpro-backend/internal/pipeline"
)

// ErrInvalidCredentials indicates invalid login credentials.
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid document or password"
}

// ErrWorkerNotFound indicates the worker was not found.
type ErrWorkerNotFound struct {
	WorkerID int64
}

func (e *ErrWorkerNotFound) Error() string {
	return fmt.Sprintf("worker not found: %d", e.WorkerID)
}

// ErrValidation indicates request validation failure.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	var storeErr *pipeline.StoreError
	if errors.As(err, &storeErr) {
		return http.StatusServiceUnavailable
	}

	switch err.(type) {
	case *ErrInvalidCredentials:
		return http.StatusUnauthorized
	case *ErrWorkerNotFound:
		return http.StatusNotFound
	case *ErrValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
