package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/profile-agent/internal/builder"
	"github.com/jonathan/profile-agent/internal/extraction"
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
	var validation *ErrValidation
	var unsupported *builder.UnsupportedPlatformError
	switch {
	case errors.As(err, &validation), errors.As(err, &unsupported):
		return http.StatusBadRequest
	case errors.Is(err, extraction.ErrInvalidURL), errors.Is(err, builder.ErrNoPortfolioData):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage returns the client-facing message for err.
func errorMessage(err error) string {
	var validation *ErrValidation
	if errors.As(err, &validation) {
		return validation.Message
	}
	return err.Error()
}
