package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case BookingPending, BookingConfirmed, BookingCancelled:
		return BookingStatus(s), true
	}
	return "", false
}

// CanTransitionTo encodes the booking state machine. Cancelled is terminal,
// confirm is only reachable from pending.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingPending:
		return next == BookingConfirmed || next == BookingCancelled
	case BookingConfirmed:
		return next == BookingCancelled
	default:
		return false
	}
}

// Active reports whether the booking still occupies its interval.
// Only active bookings count toward conflicts.
func (s BookingStatus) Active() bool {
	return s == BookingPending || s == BookingConfirmed
}

type Booking struct {
	ID          string        `json:"id"`
	SpaceID     string        `json:"space_id" validate:"required"`
	UserID      string        `json:"user_id" validate:"required"`
	StartTime   time.Time     `json:"start_time" validate:"required"`
	EndTime     time.Time     `json:"end_time" validate:"required"`
	TotalHours  float64       `json:"total_hours"`
	TotalCost   float64       `json:"total_cost" validate:"gte=0"`
	Tax         float64       `json:"tax" validate:"gte=0"`
	Status      BookingStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	CancelledAt *time.Time    `json:"cancelled_at,omitempty"`
}
