package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"spacebook/internal/domain"
)

// BookingRepository is the booking ledger. Rows are appended and their
// status updated; nothing is ever deleted, cancelled bookings stay for
// history.
type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID          string     `gorm:"column:id;primaryKey"`
	SpaceID     string     `gorm:"column:space_id;index"`
	UserID      string     `gorm:"column:user_id;index"`
	StartTime   time.Time  `gorm:"column:start_time"`
	EndTime     time.Time  `gorm:"column:end_time"`
	TotalHours  float64    `gorm:"column:total_hours"`
	TotalCost   float64    `gorm:"column:total_cost"`
	Tax         float64    `gorm:"column:tax"`
	Status      string     `gorm:"column:status"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
	CancelledAt *time.Time `gorm:"column:cancelled_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) domain.Booking {
	return domain.Booking{
		ID:          m.ID,
		SpaceID:     m.SpaceID,
		UserID:      m.UserID,
		StartTime:   m.StartTime,
		EndTime:     m.EndTime,
		TotalHours:  m.TotalHours,
		TotalCost:   m.TotalCost,
		Tax:         m.Tax,
		Status:      domain.BookingStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		CancelledAt: m.CancelledAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	return bookingModel{
		ID:          b.ID,
		SpaceID:     b.SpaceID,
		UserID:      b.UserID,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		TotalHours:  b.TotalHours,
		TotalCost:   b.TotalCost,
		Tax:         b.Tax,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
		CancelledAt: b.CancelledAt,
	}
}

func (r *BookingRepository) Append(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*b = toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	var m bookingModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	b := toDomainBooking(m)
	return &b, nil
}

func (r *BookingRepository) GetByUserID(ctx context.Context, userID string) ([]domain.Booking, error) {
	var rows []bookingModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainBookings(rows), nil
}

func (r *BookingRepository) GetBySpaceID(ctx context.Context, spaceID string) ([]domain.Booking, error) {
	var rows []bookingModel
	err := r.db.WithContext(ctx).
		Where("space_id = ?", spaceID).
		Order("start_time ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainBookings(rows), nil
}

// GetActiveBySpaceID returns the bookings that count toward conflicts:
// pending and confirmed ones, cancelled never.
func (r *BookingRepository) GetActiveBySpaceID(ctx context.Context, spaceID string) ([]domain.Booking, error) {
	var rows []bookingModel
	err := r.db.WithContext(ctx).
		Where("space_id = ? AND status IN ?", spaceID,
			[]string{string(domain.BookingPending), string(domain.BookingConfirmed)}).
		Order("start_time ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainBookings(rows), nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	updates := map[string]any{
		"status":     string(status),
		"updated_at": time.Now().UTC(),
	}
	if status == domain.BookingCancelled {
		now := time.Now().UTC()
		updates["cancelled_at"] = &now
	}

	tx := r.db.WithContext(ctx).Model(&bookingModel{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func toDomainBookings(rows []bookingModel) []domain.Booking {
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainBooking(m))
	}
	return out
}
