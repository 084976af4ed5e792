package shared

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateNumber indicates a manually supplied document number is already in use.
	ErrDuplicateNumber = errors.New("document number already in use")
	// ErrConfigNotFound indicates a numbering type that was never allocated from.
	ErrConfigNotFound = errors.New("numbering config not found")
	// ErrInvalidFilter indicates a date-range filter with end before start.
	ErrInvalidFilter = errors.New("invalid date range filter")
	// ErrConflict indicates the operation conflicts with the record's current state.
	ErrConflict = errors.New("conflict with current state")
	// ErrValidation indicates the request payload failed validation.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized indicates a missing or expired session.
	ErrUnauthorized = errors.New("unauthorized")
)

// UserSafeMessage returns an error message suitable for API consumers.
// Wrapped sentinel errors keep their text; anything else collapses to a
// generic message so internal details never leak.
func UserSafeMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrDuplicateNumber),
		errors.Is(err, ErrConfigNotFound),
		errors.Is(err, ErrInvalidFilter),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrValidation),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrUnauthorized):
		return err.Error()
	default:
		return "something went wrong, please try again"
	}
}
