// Package server provides the HTTP REST API for the interview simulator.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/interview-simulator/internal/db"
	"github.com/jonathan/interview-simulator/internal/orchestrator"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var validationErr *ErrValidation
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, orchestrator.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, db.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, orchestrator.ErrRoundNotActive):
		return http.StatusBadRequest
	case errors.Is(err, orchestrator.ErrNoCodingRound):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
