package console

import (
	"errors"
	"net/http"

	"github.com/comptaflow/console/internal/forms"
	"github.com/comptaflow/console/internal/pages"
	"github.com/comptaflow/console/internal/session"
	"github.com/comptaflow/console/internal/upstream"
)

// httpError is the error response body of the console API.
type httpError struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// status maps an error to the HTTP status the console responds with.
// Backend statuses propagate verbatim.
func status(err error) int {
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}

	var protoErr *upstream.ProtocolError
	if errors.As(err, &protoErr) {
		return http.StatusBadGateway
	}

	var validationErr *forms.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusUnprocessableEntity
	}

	switch {
	case errors.Is(err, session.ErrSessionExpired):
		return http.StatusUnauthorized
	case errors.Is(err, pages.ErrConfirmationRequired), errors.Is(err, pages.ErrUnknownFlag):
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

func errorBody(err error) httpError {
	var validationErr *forms.ValidationError
	if errors.As(err, &validationErr) {
		return httpError{Error: validationErr.Message, Field: validationErr.Field}
	}

	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		return httpError{Error: apiErr.Message}
	}

	return httpError{Error: err.Error()}
}
