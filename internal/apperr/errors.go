// Package apperr defines the error taxonomy shared by the catalog engines and
// the HTTP layer. Callers wrap these sentinels with fmt.Errorf and test for
// them with errors.Is.
package apperr

import "errors"

var (
	// ErrNotFound signals that the primary entity of a request does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized covers missing, invalid or expired credentials and
	// identities that no longer exist.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates the caller does not own the resource being mutated.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput indicates a malformed request.
	ErrInvalidInput = errors.New("invalid input")
	// ErrStorage indicates the durable write failed and nothing was committed.
	ErrStorage = errors.New("storage failure")
	// ErrResolver indicates a media link could not be produced.
	ErrResolver = errors.New("resolver failure")
)
