package booking

import (
	"context"

	"spacebook/internal/domain"
)

// Ledger is the append-and-status-update-only collection of bookings.
type Ledger interface {
	Append(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID string) ([]domain.Booking, error)
	GetBySpaceID(ctx context.Context, spaceID string) ([]domain.Booking, error)
	GetActiveBySpaceID(ctx context.Context, spaceID string) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error
}

// SpaceReader is the catalog snapshot the calculator prices against.
type SpaceReader interface {
	Get(id string) (domain.Space, bool)
}

// Notifier pushes a booking update to one connected user. Bookings are
// private, so they go to the parties involved rather than to everyone.
type Notifier interface {
	SendToUser(userID string, msgType string, data any) bool
}
