package quota

import "errors"

var (
	// ErrQuotaExceeded is the sentinel matched by errors.Is against
	// *QuotaExceededError. It is the only error kind meant to be rendered
	// back to the end user as a denial.
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrInvalidTransition is returned when a tier change is not permitted.
	ErrInvalidTransition = errors.New("tier transition not allowed")
)

// QuotaExceededError carries the user-facing remediation text for a denied
// bookmark creation. Render Message verbatim with a 403-equivalent status.
type QuotaExceededError struct {
	Tier    string
	Message string
}

func (e *QuotaExceededError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrQuotaExceeded) match.
func (e *QuotaExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}
