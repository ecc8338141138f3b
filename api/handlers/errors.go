package handlers

import (
	"errors"
	"net/http"

	"github.com/OleksandrShtyka/parser/internal/domain"
)

// statusForError maps domain failures to HTTP status codes. Caller input
// problems and engine rejections are 400; host-side faults are 500. The
// same mapping applies on every endpoint.
func statusForError(err error) int {
	var validationErr *domain.ValidationError
	var engineErr *domain.EngineError
	if errors.As(err, &validationErr) || errors.As(err, &engineErr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
