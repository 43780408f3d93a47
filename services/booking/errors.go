package booking

import "errors"

// Recoverable input errors: the flow stays on its current prompt.
var (
	ErrInvalidTimeFormat = errors.New("invalid time format")
	ErrEndNotAfterStart  = errors.New("end time must be after start time")
)

// ErrBadToken is returned for malformed callback tokens. Bad tokens are
// logged and answered with a generic message, never a crash.
var ErrBadToken = errors.New("malformed callback token")
