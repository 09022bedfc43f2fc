package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"spacebook/internal/domain"
	"spacebook/internal/repository"
)

type Service struct {
	ledger Ledger
	spaces SpaceReader
	notifs Notifier
}

func NewService(ledger Ledger, spaces SpaceReader, notifs Notifier) *Service {
	return &Service{ledger: ledger, spaces: spaces, notifs: notifs}
}

// Draft is a booking request before validation and pricing.
type Draft struct {
	SpaceID   string
	UserID    string
	StartTime time.Time
	EndTime   time.Time
}

// ValidateDraft checks the draft's internal consistency and, on success,
// returns the booking skeleton: minted id, pending status, creation time.
// Pricing is attached later by Submit, after the rate snapshot is read.
func ValidateDraft(d Draft) (*domain.Booking, error) {
	if d.UserID == "" {
		return nil, &ValidationError{Reason: ReasonUnauthenticated}
	}
	hours := ComputeDuration(d.StartTime, d.EndTime)
	if hours <= 0 {
		return nil, &ValidationError{Reason: ReasonNonPositiveDuration}
	}

	now := time.Now().UTC()
	return &domain.Booking{
		ID:         uuid.NewString(),
		SpaceID:    d.SpaceID,
		UserID:     d.UserID,
		StartTime:  d.StartTime,
		EndTime:    d.EndTime,
		TotalHours: hours,
		Status:     domain.BookingPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Submit turns a draft into a persisted pending booking. The hourly rate
// is snapshotted from the catalog at this moment; later rate changes never
// reprice an existing booking.
func (s *Service) Submit(ctx context.Context, d Draft) (*domain.Booking, error) {
	b, err := ValidateDraft(d)
	if err != nil {
		return nil, err
	}

	space, ok := s.spaces.Get(d.SpaceID)
	if !ok {
		return nil, ErrSpaceNotFound
	}

	existing, err := s.ledger.GetActiveBySpaceID(ctx, d.SpaceID)
	if err != nil {
		return nil, err
	}
	if CheckConflict(d.SpaceID, d.StartTime, d.EndTime, existing) {
		return nil, ErrConflict
	}

	quote := ComputeCost(b.TotalHours, space.HourlyRate)
	b.TotalCost = quote.Subtotal
	b.Tax = quote.Tax

	if err := s.ledger.Append(ctx, b); err != nil {
		// The exclusion constraint catches the race two submits can win
		// past the read above.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23P01" {
			return nil, ErrConflict
		}
		return nil, err
	}

	s.notify(b)

	return b, nil
}

func (s *Service) GetMyBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.ledger.GetByUserID(ctx, userID)
}

// GetSpaceBookings lists a space's ledger entries for its owner or an
// admin.
func (s *Service) GetSpaceBookings(ctx context.Context, actor *domain.User, spaceID string) ([]domain.Booking, error) {
	space, ok := s.spaces.Get(spaceID)
	if !ok {
		return nil, ErrSpaceNotFound
	}
	if space.OwnerID != actor.ID && actor.Role != domain.RoleAdmin {
		return nil, ErrForbidden
	}
	return s.ledger.GetBySpaceID(ctx, spaceID)
}

// UpdateStatus applies an externally-decided transition (owner confirm,
// owner/admin/user cancel). The original draft is not re-validated; only
// the state machine and the actor's authority are checked.
func (s *Service) UpdateStatus(ctx context.Context, actor *domain.User, bookingID string, next domain.BookingStatus) (*domain.Booking, error) {
	b, err := s.ledger.GetByID(ctx, bookingID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if !s.mayModerate(actor, b, next) {
		return nil, ErrForbidden
	}
	if !b.Status.CanTransitionTo(next) {
		return nil, ErrInvalidStatusTransition
	}

	if err := s.ledger.UpdateStatus(ctx, bookingID, next); err != nil {
		return nil, err
	}

	b, err = s.ledger.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	s.notify(b)

	return b, nil
}

// notify pushes the update to the booker and the space owner. Delivery is
// best effort; offline parties see the change on their next fetch.
func (s *Service) notify(b *domain.Booking) {
	if s.notifs == nil {
		return
	}
	s.notifs.SendToUser(b.UserID, "booking_update", b)
	if space, ok := s.spaces.Get(b.SpaceID); ok && space.OwnerID != b.UserID {
		s.notifs.SendToUser(space.OwnerID, "booking_update", b)
	}
}

// mayModerate: admins always; the space owner for their space; the booking
// user only to cancel their own booking.
func (s *Service) mayModerate(actor *domain.User, b *domain.Booking, next domain.BookingStatus) bool {
	if actor.Role == domain.RoleAdmin {
		return true
	}
	if space, ok := s.spaces.Get(b.SpaceID); ok && space.OwnerID == actor.ID {
		return true
	}
	return b.UserID == actor.ID && next == domain.BookingCancelled
}
