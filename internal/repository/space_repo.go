package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"spacebook/internal/domain"
)

type SpaceRepository struct {
	db *gorm.DB
}

func NewSpaceRepository(db *gorm.DB) *SpaceRepository {
	return &SpaceRepository{db: db}
}

type spaceModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	Title       string    `gorm:"column:title"`
	Description string    `gorm:"column:description;type:text"`
	Location    string    `gorm:"column:location"`
	HourlyRate  float64   `gorm:"column:hourly_rate"`
	Capacity    int       `gorm:"column:capacity"`
	Category    string    `gorm:"column:category"`
	Amenities   []string  `gorm:"column:amenities;serializer:json"`
	Images      []string  `gorm:"column:images;serializer:json"`
	OwnerID     string    `gorm:"column:owner_id;index"`
	OwnerName   string    `gorm:"column:owner_name"`
	Rating      float64   `gorm:"column:rating"`
	Reviews     int       `gorm:"column:reviews"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (spaceModel) TableName() string { return "spaces" }

func toDomainSpace(m spaceModel) domain.Space {
	amenities := m.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	images := m.Images
	if images == nil {
		images = []string{}
	}

	return domain.Space{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Location:    m.Location,
		HourlyRate:  m.HourlyRate,
		Capacity:    m.Capacity,
		Category:    domain.SpaceCategory(m.Category),
		Amenities:   amenities,
		Images:      images,
		OwnerID:     m.OwnerID,
		OwnerName:   m.OwnerName,
		Rating:      m.Rating,
		Reviews:     m.Reviews,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toSpaceModel(sp *domain.Space) spaceModel {
	return spaceModel{
		ID:          sp.ID,
		Title:       sp.Title,
		Description: sp.Description,
		Location:    sp.Location,
		HourlyRate:  sp.HourlyRate,
		Capacity:    sp.Capacity,
		Category:    string(sp.Category),
		Amenities:   sp.Amenities,
		Images:      sp.Images,
		OwnerID:     sp.OwnerID,
		OwnerName:   sp.OwnerName,
		Rating:      sp.Rating,
		Reviews:     sp.Reviews,
		CreatedAt:   sp.CreatedAt,
		UpdatedAt:   sp.UpdatedAt,
	}
}

// GetAll returns the full collection in creation order; this is the bulk
// load behind the catalog mirror.
func (r *SpaceRepository) GetAll(ctx context.Context) ([]domain.Space, error) {
	var rows []spaceModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Space, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainSpace(m))
	}
	return out, nil
}

func (r *SpaceRepository) GetByID(ctx context.Context, id string) (*domain.Space, error) {
	var m spaceModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	sp := toDomainSpace(m)
	return &sp, nil
}

func (r *SpaceRepository) Create(ctx context.Context, sp *domain.Space) error {
	m := toSpaceModel(sp)
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *SpaceRepository) Update(ctx context.Context, sp *domain.Space) error {
	m := toSpaceModel(sp)
	return r.db.WithContext(ctx).Save(&m).Error
}

func (r *SpaceRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&spaceModel{}).Error
}
