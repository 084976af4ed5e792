package httpx

import (
	"errors"
	"net/http"

	"github.com/freightdesk/freightdesk/internal/shared"
)

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", shared.UserSafeMessage(err))
	case errors.Is(err, shared.ErrConfigNotFound):
		Problem(w, http.StatusNotFound, "Numbering Config Not Found", shared.UserSafeMessage(err))
	case errors.Is(err, shared.ErrDuplicateNumber):
		Problem(w, http.StatusConflict, "Duplicate Number", shared.UserSafeMessage(err))
	case errors.Is(err, shared.ErrConflict):
		Problem(w, http.StatusConflict, "Conflict", shared.UserSafeMessage(err))
	case errors.Is(err, shared.ErrInvalidFilter), errors.Is(err, shared.ErrValidation):
		Problem(w, http.StatusBadRequest, "Bad Request", shared.UserSafeMessage(err))
	case errors.Is(err, shared.ErrInvalidCredentials), errors.Is(err, shared.ErrUnauthorized):
		Problem(w, http.StatusUnauthorized, "Unauthorized", shared.UserSafeMessage(err))
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
