package consultation

import "errors"

var (
	// ErrEmptyInput, ErrBusy and ErrLocked are no-op rejections: the session
	// is left untouched.
	ErrEmptyInput = errors.New("empty input")
	ErrBusy       = errors.New("a reply is still pending")
	ErrLocked     = errors.New("consultation is complete")

	ErrNotConfigured  = errors.New("gateway credential is not configured")
	ErrRateLimited    = errors.New("rate limit exceeded")
	ErrQuotaExceeded  = errors.New("quota exceeded")
	ErrMalformedReply = errors.New("malformed assistant reply")

	ErrNotFound     = errors.New("consultation not found")
	ErrNotConcluded = errors.New("consultation has no final diagnosis")
)
