package service

import "errors"

// Common service errors.
var (
	// ErrForbidden is a policy refusal: the caller is authenticated and the
	// request is well-formed, but the operation is not permitted for their
	// role/ownership. Distinct from store.ErrNotFound — a refused request
	// says nothing about whether the entity exists.
	ErrForbidden = errors.New("operation not permitted")

	// ErrInvalidCredentials is returned when authentication fails. Unknown
	// usernames and wrong passwords produce this same error so callers
	// cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
