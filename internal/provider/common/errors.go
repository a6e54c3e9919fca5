package common

import "errors"

var (
	ErrMissingRetryAfter    = errors.New("rate limited without a usable Retry-After header")
	ErrRequestNotRewindable = errors.New("request body cannot be replayed")
)
