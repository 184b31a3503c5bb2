package tier

import "errors"

var (
	// ErrPolicyUnavailable is returned by Resolve when the tier policy table
	// could not be loaded or the requested tier is unknown. Callers must treat
	// it as a hard denial, never as an unlimited default.
	ErrPolicyUnavailable = errors.New("tier policy unavailable")

	// ErrLoadFailed indicates the initial policy scan threw or returned zero
	// usable rows.
	ErrLoadFailed = errors.New("failed to load tier definitions")
)
