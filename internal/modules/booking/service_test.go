package booking

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"spacebook/internal/domain"
	"spacebook/internal/repository"
)

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Append(ctx context.Context, b *domain.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockLedger) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockLedger) GetByUserID(ctx context.Context, userID string) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockLedger) GetBySpaceID(ctx context.Context, spaceID string) ([]domain.Booking, error) {
	args := m.Called(ctx, spaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockLedger) GetActiveBySpaceID(ctx context.Context, spaceID string) ([]domain.Booking, error) {
	args := m.Called(ctx, spaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockLedger) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

// fakeSpaces is an in-memory SpaceReader.
type fakeSpaces map[string]domain.Space

func (f fakeSpaces) Get(id string) (domain.Space, bool) {
	sp, ok := f[id]
	return sp, ok
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendToUser(userID string, msgType string, data any) bool {
	return m.Called(userID, msgType, data).Bool(0)
}

func studioCatalog() fakeSpaces {
	return fakeSpaces{
		"s1": {ID: "s1", Title: "Creative Studio", HourlyRate: 50, OwnerID: "owner-1"},
	}
}

func validDraft() Draft {
	return Draft{SpaceID: "s1", UserID: "u1", StartTime: at(9, 0), EndTime: at(11, 30)}
}

func TestValidateDraft_Success(t *testing.T) {
	b, err := ValidateDraft(validDraft())

	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, domain.BookingPending, b.Status)
	assert.Equal(t, 2.5, b.TotalHours)
	assert.Zero(t, b.TotalCost)
}

func TestValidateDraft_Unauthenticated(t *testing.T) {
	d := validDraft()
	d.UserID = ""

	_, err := ValidateDraft(d)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ReasonUnauthenticated, verr.Reason)
}

func TestValidateDraft_NonPositiveDuration(t *testing.T) {
	d := validDraft()
	d.EndTime = d.StartTime

	_, err := ValidateDraft(d)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ReasonNonPositiveDuration, verr.Reason)
}

func TestSubmit_Success(t *testing.T) {
	ledger := new(MockLedger)
	notifs := new(MockNotifier)
	service := NewService(ledger, studioCatalog(), notifs)

	ledger.On("GetActiveBySpaceID", mock.Anything, "s1").Return([]domain.Booking{}, nil)
	ledger.On("Append", mock.Anything, mock.AnythingOfType("*domain.Booking")).Return(nil)
	notifs.On("SendToUser", "u1", "booking_update", mock.Anything).Return(true)
	notifs.On("SendToUser", "owner-1", "booking_update", mock.Anything).Return(true)

	b, err := service.Submit(context.Background(), validDraft())

	require.NoError(t, err)
	assert.Equal(t, domain.BookingPending, b.Status)
	assert.Equal(t, 2.5, b.TotalHours)
	assert.Equal(t, 125.0, b.TotalCost)
	assert.Equal(t, 12.5, b.Tax)
	ledger.AssertExpectations(t)
	notifs.AssertExpectations(t)
}

func TestSubmit_NotifiesOnlyBookerAndOwner(t *testing.T) {
	ledger := new(MockLedger)
	notifs := new(MockNotifier)
	service := NewService(ledger, studioCatalog(), notifs)

	ledger.On("GetActiveBySpaceID", mock.Anything, "s1").Return([]domain.Booking{}, nil)
	ledger.On("Append", mock.Anything, mock.Anything).Return(nil)
	notifs.On("SendToUser", "owner-1", "booking_update", mock.Anything).Return(true)

	// owner booking their own space gets a single notification
	d := validDraft()
	d.UserID = "owner-1"
	_, err := service.Submit(context.Background(), d)

	require.NoError(t, err)
	notifs.AssertNumberOfCalls(t, "SendToUser", 1)
}

func TestSubmit_OverlappingBookingConflicts(t *testing.T) {
	ledger := new(MockLedger)
	service := NewService(ledger, studioCatalog(), nil)

	ledger.On("GetActiveBySpaceID", mock.Anything, "s1").Return([]domain.Booking{
		activeBooking("s1", domain.BookingPending, at(9, 0), at(10, 0)),
	}, nil)

	d := validDraft()
	d.StartTime = at(9, 30)
	d.EndTime = at(10, 30)

	_, err := service.Submit(context.Background(), d)

	assert.ErrorIs(t, err, ErrConflict)
	ledger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestSubmit_CancelledBookingDoesNotBlock(t *testing.T) {
	ledger := new(MockLedger)
	service := NewService(ledger, studioCatalog(), nil)

	ledger.On("GetActiveBySpaceID", mock.Anything, "s1").Return([]domain.Booking{
		activeBooking("s1", domain.BookingCancelled, at(9, 0), at(11, 30)),
	}, nil)
	ledger.On("Append", mock.Anything, mock.Anything).Return(nil)

	_, err := service.Submit(context.Background(), validDraft())

	require.NoError(t, err)
}

func TestSubmit_UnknownSpace(t *testing.T) {
	service := NewService(new(MockLedger), fakeSpaces{}, nil)

	_, err := service.Submit(context.Background(), validDraft())

	assert.ErrorIs(t, err, ErrSpaceNotFound)
}

func TestSubmit_ExclusionConstraintRaceMapsToConflict(t *testing.T) {
	ledger := new(MockLedger)
	service := NewService(ledger, studioCatalog(), nil)

	ledger.On("GetActiveBySpaceID", mock.Anything, "s1").Return([]domain.Booking{}, nil)
	ledger.On("Append", mock.Anything, mock.Anything).Return(&pgconn.PgError{Code: "23P01"})

	_, err := service.Submit(context.Background(), validDraft())

	assert.ErrorIs(t, err, ErrConflict)
}

func TestSubmit_RateSnapshotIgnoresLaterChanges(t *testing.T) {
	ledger := new(MockLedger)
	catalog := studioCatalog()
	service := NewService(ledger, catalog, nil)

	ledger.On("GetActiveBySpaceID", mock.Anything, "s1").Return([]domain.Booking{}, nil)
	ledger.On("Append", mock.Anything, mock.Anything).Return(nil)

	b, err := service.Submit(context.Background(), validDraft())
	require.NoError(t, err)

	sp := catalog["s1"]
	sp.HourlyRate = 500
	catalog["s1"] = sp

	assert.Equal(t, 125.0, b.TotalCost)
}

func TestUpdateStatus_OwnerConfirmsPending(t *testing.T) {
	ledger := new(MockLedger)
	notifs := new(MockNotifier)
	service := NewService(ledger, studioCatalog(), notifs)

	pending := activeBooking("s1", domain.BookingPending, at(9, 0), at(10, 0))
	confirmed := pending
	confirmed.Status = domain.BookingConfirmed

	ledger.On("GetByID", mock.Anything, pending.ID).Return(&pending, nil).Once()
	ledger.On("UpdateStatus", mock.Anything, pending.ID, domain.BookingConfirmed).Return(nil)
	ledger.On("GetByID", mock.Anything, pending.ID).Return(&confirmed, nil).Once()
	notifs.On("SendToUser", "u1", "booking_update", mock.Anything).Return(true)
	notifs.On("SendToUser", "owner-1", "booking_update", mock.Anything).Return(true)

	owner := &domain.User{ID: "owner-1", Role: domain.RoleSpaceOwner}
	b, err := service.UpdateStatus(context.Background(), owner, pending.ID, domain.BookingConfirmed)

	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, b.Status)
	ledger.AssertExpectations(t)
}

func TestUpdateStatus_UserMayCancelOwnBookingOnly(t *testing.T) {
	ledger := new(MockLedger)
	service := NewService(ledger, studioCatalog(), nil)

	pending := activeBooking("s1", domain.BookingPending, at(9, 0), at(10, 0))
	ledger.On("GetByID", mock.Anything, pending.ID).Return(&pending, nil)

	booker := &domain.User{ID: "u1", Role: domain.RoleClient}
	_, err := service.UpdateStatus(context.Background(), booker, pending.ID, domain.BookingConfirmed)
	assert.ErrorIs(t, err, ErrForbidden)

	stranger := &domain.User{ID: "u99", Role: domain.RoleClient}
	_, err = service.UpdateStatus(context.Background(), stranger, pending.ID, domain.BookingCancelled)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateStatus_CancelledIsTerminal(t *testing.T) {
	ledger := new(MockLedger)
	service := NewService(ledger, studioCatalog(), nil)

	cancelled := activeBooking("s1", domain.BookingCancelled, at(9, 0), at(10, 0))
	ledger.On("GetByID", mock.Anything, cancelled.ID).Return(&cancelled, nil)

	admin := &domain.User{ID: "a1", Role: domain.RoleAdmin}
	for _, next := range []domain.BookingStatus{domain.BookingPending, domain.BookingConfirmed, domain.BookingCancelled} {
		_, err := service.UpdateStatus(context.Background(), admin, cancelled.ID, next)
		assert.ErrorIs(t, err, ErrInvalidStatusTransition, "cancelled -> %s must be rejected", next)
	}
	ledger.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStatus_ConfirmedCannotGoBackToPending(t *testing.T) {
	ledger := new(MockLedger)
	service := NewService(ledger, studioCatalog(), nil)

	confirmed := activeBooking("s1", domain.BookingConfirmed, at(9, 0), at(10, 0))
	ledger.On("GetByID", mock.Anything, confirmed.ID).Return(&confirmed, nil)

	admin := &domain.User{ID: "a1", Role: domain.RoleAdmin}
	_, err := service.UpdateStatus(context.Background(), admin, confirmed.ID, domain.BookingPending)

	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestUpdateStatus_UnknownBooking(t *testing.T) {
	ledger := new(MockLedger)
	service := NewService(ledger, studioCatalog(), nil)

	ledger.On("GetByID", mock.Anything, "missing").Return(nil, repository.ErrNotFound)

	admin := &domain.User{ID: "a1", Role: domain.RoleAdmin}
	_, err := service.UpdateStatus(context.Background(), admin, "missing", domain.BookingCancelled)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetSpaceBookings_OwnershipCheck(t *testing.T) {
	ledger := new(MockLedger)
	service := NewService(ledger, studioCatalog(), nil)

	ledger.On("GetBySpaceID", mock.Anything, "s1").Return([]domain.Booking{}, nil)

	owner := &domain.User{ID: "owner-1", Role: domain.RoleSpaceOwner}
	_, err := service.GetSpaceBookings(context.Background(), owner, "s1")
	require.NoError(t, err)

	stranger := &domain.User{ID: "u2", Role: domain.RoleSpaceOwner}
	_, err = service.GetSpaceBookings(context.Background(), stranger, "s1")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGetMyBookings_DelegatesToLedger(t *testing.T) {
	ledger := new(MockLedger)
	service := NewService(ledger, studioCatalog(), nil)

	want := []domain.Booking{activeBooking("s1", domain.BookingPending, at(9, 0), at(10, 0))}
	ledger.On("GetByUserID", mock.Anything, "u1").Return(want, nil)

	got, err := service.GetMyBookings(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, want, got)
}
