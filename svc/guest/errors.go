package guest

import "errors"

var (
	// ErrLimitReached is returned by RecordSeatmapRequest when the IP has
	// already consumed the lifetime cap. The counter did not advance.
	ErrLimitReached = errors.New("guest seat-map limit reached")

	// ErrStoreFailure indicates a transient store error.
	ErrStoreFailure = errors.New("guest access store failure")
)
