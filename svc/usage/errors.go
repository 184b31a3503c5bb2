package usage

import "errors"

var (
	// ErrLimitReached is returned by the conditional increments when the
	// counter is already at the tier limit. The increment did not happen.
	ErrLimitReached = errors.New("monthly usage limit reached")

	// ErrStoreFailure indicates a transient store error.
	ErrStoreFailure = errors.New("usage store failure")
)
