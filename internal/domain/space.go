package domain

import "time"

type SpaceCategory string

const (
	CategoryMeetingRoom    SpaceCategory = "meeting-room"
	CategoryCreativeStudio SpaceCategory = "creative-studio"
	CategoryEventHall      SpaceCategory = "event-hall"
	CategoryCoworking      SpaceCategory = "coworking"
	CategoryOffice         SpaceCategory = "office"
	CategoryOther          SpaceCategory = "other"
)

func ParseSpaceCategory(s string) (SpaceCategory, bool) {
	switch SpaceCategory(s) {
	case CategoryMeetingRoom, CategoryCreativeStudio, CategoryEventHall,
		CategoryCoworking, CategoryOffice, CategoryOther:
		return SpaceCategory(s), true
	}
	return "", false
}

type Space struct {
	ID          string        `json:"id"`
	Title       string        `json:"title" validate:"required"`
	Description string        `json:"description"`
	Location    string        `json:"location" validate:"required"`
	HourlyRate  float64       `json:"hourly_rate" validate:"gte=0"`
	Capacity    int           `json:"capacity" validate:"required,gte=1"`
	Category    SpaceCategory `json:"category" validate:"required"`
	Amenities   []string      `json:"amenities"`
	Images      []string      `json:"images"`
	OwnerID     string        `json:"owner_id"`
	OwnerName   string        `json:"owner_name"`
	Rating      float64       `json:"rating" validate:"gte=0,lte=5"`
	Reviews     int           `json:"reviews" validate:"gte=0"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
