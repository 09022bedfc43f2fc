package catalog

import (
	"encoding/json"
	"time"

	"spacebook/internal/domain"
)

type EventType string

const (
	EventInsert EventType = "insert"
	EventUpdate EventType = "update"
	EventDelete EventType = "delete"
)

// ChangeEvent is the envelope carried by the change feed.
type ChangeEvent struct {
	Type   EventType       `json:"type"`
	Table  string          `json:"table"`
	Record json.RawMessage `json:"record"`
}

// spaceRecord mirrors the wire shape of a space row. Field names on the
// feed are snake_case and every field is optional, so everything decodes
// through pointers; only fields present in the payload end up in a Patch.
type spaceRecord struct {
	ID          *string    `json:"id"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	HourlyRate  *float64   `json:"hourly_rate"`
	Capacity    *int       `json:"capacity"`
	Category    *string    `json:"category"`
	Amenities   []string   `json:"amenities"`
	Images      []string   `json:"images"`
	OwnerID     *string    `json:"owner_id"`
	OwnerName   *string    `json:"owner_name"`
	Rating      *float64   `json:"rating"`
	Reviews     *int       `json:"reviews"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

func decodeSpaceRecord(raw json.RawMessage) (spaceRecord, error) {
	var r spaceRecord
	err := json.Unmarshal(raw, &r)
	return r, err
}

// toSpace materializes a full record for an insert event. Absent optional
// collections become empty slices, never nil.
func (r spaceRecord) toSpace() domain.Space {
	sp := domain.Space{
		Amenities: []string{},
		Images:    []string{},
	}
	if r.ID != nil {
		sp.ID = *r.ID
	}
	if r.Title != nil {
		sp.Title = *r.Title
	}
	if r.Description != nil {
		sp.Description = *r.Description
	}
	if r.Location != nil {
		sp.Location = *r.Location
	}
	if r.HourlyRate != nil {
		sp.HourlyRate = *r.HourlyRate
	}
	if r.Capacity != nil {
		sp.Capacity = *r.Capacity
	}
	if r.Category != nil {
		sp.Category = domain.SpaceCategory(*r.Category)
	}
	if r.Amenities != nil {
		sp.Amenities = r.Amenities
	}
	if r.Images != nil {
		sp.Images = r.Images
	}
	if r.OwnerID != nil {
		sp.OwnerID = *r.OwnerID
	}
	if r.OwnerName != nil {
		sp.OwnerName = *r.OwnerName
	}
	if r.Rating != nil {
		sp.Rating = *r.Rating
	}
	if r.Reviews != nil {
		sp.Reviews = *r.Reviews
	}
	if r.CreatedAt != nil {
		sp.CreatedAt = *r.CreatedAt
	}
	if r.UpdatedAt != nil {
		sp.UpdatedAt = *r.UpdatedAt
	}
	return sp
}

// toPatch keeps only the fields the update event actually carried.
func (r spaceRecord) toPatch() Patch {
	p := Patch{
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		HourlyRate:  r.HourlyRate,
		Capacity:    r.Capacity,
		OwnerID:     r.OwnerID,
		OwnerName:   r.OwnerName,
		Rating:      r.Rating,
		Reviews:     r.Reviews,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.Category != nil {
		c := domain.SpaceCategory(*r.Category)
		p.Category = &c
	}
	if r.Amenities != nil {
		a := r.Amenities
		p.Amenities = &a
	}
	if r.Images != nil {
		img := r.Images
		p.Images = &img
	}
	return p
}

// encodeSpaceRecord builds the wire form of a space for publishing.
func encodeSpaceRecord(sp domain.Space) json.RawMessage {
	amenities := sp.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	images := sp.Images
	if images == nil {
		images = []string{}
	}
	cat := string(sp.Category)
	created := sp.CreatedAt
	updated := sp.UpdatedAt
	raw, _ := json.Marshal(spaceRecord{
		ID:          &sp.ID,
		Title:       &sp.Title,
		Description: &sp.Description,
		Location:    &sp.Location,
		HourlyRate:  &sp.HourlyRate,
		Capacity:    &sp.Capacity,
		Category:    &cat,
		Amenities:   amenities,
		Images:      images,
		OwnerID:     &sp.OwnerID,
		OwnerName:   &sp.OwnerName,
		Rating:      &sp.Rating,
		Reviews:     &sp.Reviews,
		CreatedAt:   &created,
		UpdatedAt:   &updated,
	})
	return raw
}
