package api

import (
	"errors"
	"net/http"

	"github.com/okian/ringside/internal/domain/types"
)

// Sentinel error kinds for this package.
var (
	ErrBadRequest = errors.New("bad request")
)

// statusForError maps an engine error kind to an HTTP status code.
// Unrecognized errors become 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, types.ErrValidation),
		errors.Is(err, types.ErrPrecondition),
		errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrConflict),
		errors.Is(err, types.ErrCapacity):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
