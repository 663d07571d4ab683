package dto

// CreateStylistRequest is the payload for registering a stylist. Working
// hours are HH:MM clock strings; working days use 0=Sunday..6=Saturday.
type CreateStylistRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone" validate:"omitempty,max=32"`
	Bio         *string `json:"bio" validate:"omitempty,max=2000"`
	PhotoURL    *string `json:"photo_url" validate:"omitempty,url"`
	WorkingDays []int   `json:"working_days" validate:"required,min=1,dive,gte=0,lte=6"`
	StartTime   string  `json:"start_time" validate:"required"`
	EndTime     string  `json:"end_time" validate:"required"`
	BreakStart  *string `json:"break_start" validate:"omitempty"`
	BreakEnd    *string `json:"break_end" validate:"omitempty"`
}

// UpdateStylistRequest carries partial stylist updates. Nil fields are left
// unchanged.
type UpdateStylistRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone" validate:"omitempty,max=32"`
	Bio         *string `json:"bio" validate:"omitempty,max=2000"`
	PhotoURL    *string `json:"photo_url" validate:"omitempty,url"`
	WorkingDays *[]int  `json:"working_days" validate:"omitempty,min=1,dive,gte=0,lte=6"`
	StartTime   *string `json:"start_time" validate:"omitempty"`
	EndTime     *string `json:"end_time" validate:"omitempty"`
	BreakStart  *string `json:"break_start" validate:"omitempty"`
	BreakEnd    *string `json:"break_end" validate:"omitempty"`
	IsActive    *bool   `json:"is_active"`
}
