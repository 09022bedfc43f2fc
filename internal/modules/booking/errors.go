package booking

import "errors"

// Validation reasons surfaced to the caller; these are correctable by the
// user and never retried automatically.
const (
	ReasonNonPositiveDuration = "non_positive_duration"
	ReasonUnauthenticated     = "unauthenticated"
)

// ValidationError marks a draft the caller can fix and resubmit.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "booking validation failed: " + e.Reason
}

var (
	ErrConflict                = errors.New("interval conflicts with an existing booking")
	ErrNotFound                = errors.New("booking not found")
	ErrSpaceNotFound           = errors.New("space not found")
	ErrForbidden               = errors.New("forbidden")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)
