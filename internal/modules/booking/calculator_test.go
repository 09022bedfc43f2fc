package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"spacebook/internal/domain"
)

func at(hour, min int) time.Time {
	return time.Date(2026, time.March, 10, hour, min, 0, 0, time.UTC)
}

func TestComputeDuration(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  float64
	}{
		{"whole hours", at(9, 0), at(11, 0), 2},
		{"fractional hours", at(9, 0), at(11, 30), 2.5},
		{"equal times", at(9, 0), at(9, 0), 0},
		{"inverted interval", at(11, 0), at(9, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeDuration(tt.start, tt.end))
		})
	}
}

func TestComputeCost_TwoAndAHalfHoursAtFifty(t *testing.T) {
	hours := ComputeDuration(at(9, 0), at(11, 30))

	quote := ComputeCost(hours, 50)

	assert.Equal(t, 125.0, quote.Subtotal)
	assert.Equal(t, 12.5, quote.Tax)
	assert.Equal(t, 137.5, quote.Total)
}

func TestComputeCost_ZeroHoursIsFree(t *testing.T) {
	quote := ComputeCost(0, 100)

	assert.Equal(t, 0.0, quote.Subtotal)
	assert.Equal(t, 0.0, quote.Tax)
	assert.Equal(t, 0.0, quote.Total)
}

func activeBooking(spaceID string, status domain.BookingStatus, start, end time.Time) domain.Booking {
	return domain.Booking{
		ID:        "b-" + spaceID,
		SpaceID:   spaceID,
		UserID:    "u1",
		StartTime: start,
		EndTime:   end,
		Status:    status,
	}
}

func TestCheckConflict_OverlappingIntervalConflicts(t *testing.T) {
	existing := []domain.Booking{
		activeBooking("s1", domain.BookingPending, at(9, 0), at(10, 0)),
	}

	assert.True(t, CheckConflict("s1", at(9, 30), at(10, 30), existing))
	assert.True(t, CheckConflict("s1", at(8, 0), at(12, 0), existing))
	assert.True(t, CheckConflict("s1", at(9, 15), at(9, 45), existing))
}

func TestCheckConflict_AdjacentIntervalsDoNotConflict(t *testing.T) {
	existing := []domain.Booking{
		activeBooking("s1", domain.BookingConfirmed, at(9, 0), at(10, 0)),
	}

	// half-open intervals: [9,10) and [10,11) only share the boundary
	assert.False(t, CheckConflict("s1", at(10, 0), at(11, 0), existing))
	assert.False(t, CheckConflict("s1", at(8, 0), at(9, 0), existing))
}

func TestCheckConflict_CancelledBookingsNeverConflict(t *testing.T) {
	existing := []domain.Booking{
		activeBooking("s1", domain.BookingCancelled, at(9, 0), at(10, 0)),
	}

	assert.False(t, CheckConflict("s1", at(9, 0), at(10, 0), existing))
}

func TestCheckConflict_OtherSpacesAreIgnored(t *testing.T) {
	existing := []domain.Booking{
		activeBooking("s2", domain.BookingConfirmed, at(9, 0), at(10, 0)),
	}

	assert.False(t, CheckConflict("s1", at(9, 0), at(10, 0), existing))
}

func TestCheckConflict_EmptyLedgerNeverConflicts(t *testing.T) {
	assert.False(t, CheckConflict("s1", at(9, 0), at(10, 0), nil))
}
