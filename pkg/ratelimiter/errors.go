package ratelimiter

import "errors"

// Package-level error definitions for rate limiter operations.
var (
	// ErrInvalidRule indicates that an endpoint's bucket rule is invalid.
	ErrInvalidRule = errors.New("invalid rule")

	// ErrUnknownEndpoint indicates that no rule exists for the endpoint.
	ErrUnknownEndpoint = errors.New("unknown endpoint")

	// ErrInvalidTokenCount indicates that the requested token count is invalid.
	ErrInvalidTokenCount = errors.New("invalid token count")

	// ErrStoreUnavailable indicates that the store backend is unavailable.
	ErrStoreUnavailable = errors.New("store unavailable")
)
