package dto

// CreateServiceRequest is the payload for adding a catalog service.
// Durations must land on the 15-minute booking grid.
type CreateServiceRequest struct {
	Name            string  `json:"name" validate:"required,max=200"`
	Description     *string `json:"description" validate:"omitempty,max=2000"`
	DurationMinutes int     `json:"duration_minutes" validate:"required,gt=0,lte=480"`
	Price           float64 `json:"price" validate:"gte=0"`
	Category        *string `json:"category" validate:"omitempty,max=100"`
}

// UpdateServiceRequest carries partial catalog updates.
type UpdateServiceRequest struct {
	Name            *string  `json:"name" validate:"omitempty,max=200"`
	Description     *string  `json:"description" validate:"omitempty,max=2000"`
	DurationMinutes *int     `json:"duration_minutes" validate:"omitempty,gt=0,lte=480"`
	Price           *float64 `json:"price" validate:"omitempty,gte=0"`
	Category        *string  `json:"category" validate:"omitempty,max=100"`
}
