package catalog

type CreateSpaceRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Location    string   `json:"location" validate:"required"`
	HourlyRate  float64  `json:"hourly_rate" validate:"gte=0"`
	Capacity    int      `json:"capacity" validate:"required,gte=1"`
	Category    string   `json:"category" validate:"required"`
	Amenities   []string `json:"amenities"`
	Images      []string `json:"images"`
}

type UpdateSpaceRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Location    *string   `json:"location,omitempty"`
	HourlyRate  *float64  `json:"hourly_rate,omitempty"`
	Capacity    *int      `json:"capacity,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Amenities   *[]string `json:"amenities,omitempty"`
	Images      *[]string `json:"images,omitempty"`
}
