package booking

import (
	"time"

	"spacebook/internal/domain"
)

// TaxRate applied on top of the subtotal.
const TaxRate = 0.10

// ComputeDuration returns the booked interval in hours, fractional hours
// included. An inverted or empty interval yields 0 rather than an error:
// the UI shows "0 hours" while the user is still editing the times, and
// ValidateDraft is the layer that rejects it.
func ComputeDuration(start, end time.Time) float64 {
	if !end.After(start) {
		return 0
	}
	return end.Sub(start).Hours()
}

// Quote is the priced breakdown of a draft. Values are kept unrounded;
// rounding to currency precision happens at presentation time only, so
// repeated recomputation cannot compound rounding error.
type Quote struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

func ComputeCost(hours, hourlyRate float64) Quote {
	subtotal := hours * hourlyRate
	tax := subtotal * TaxRate
	return Quote{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}

// CheckConflict reports whether any active booking for spaceID overlaps
// the half-open interval [start, end). Adjacent intervals sharing only a
// boundary do not conflict; cancelled bookings never count.
func CheckConflict(spaceID string, start, end time.Time, existing []domain.Booking) bool {
	for _, b := range existing {
		if b.SpaceID != spaceID || !b.Status.Active() {
			continue
		}
		if b.StartTime.Before(end) && b.EndTime.After(start) {
			return true
		}
	}
	return false
}
