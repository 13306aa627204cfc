// README: Error kinds shared across modules; wrap them with %w and match with errors.Is.
package types

import "errors"

var (
	// ErrValidation marks malformed input rejected before any state change.
	ErrValidation = errors.New("validation failed")
	// ErrOutOfRange marks a bad stop, ledger, inventory or page index.
	ErrOutOfRange = errors.New("index out of range")
	// ErrNotAvailable means no taxi unit can satisfy the request.
	ErrNotAvailable = errors.New("taxi not available")
	// ErrDecode means a stored record is missing or malformed.
	ErrDecode = errors.New("decode failed")
	// ErrPersistenceUnavailable means the backing store could not be reached.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
)
