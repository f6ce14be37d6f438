package handler

// SaveReminderRequestDTO represents HTTP request for saving a reminder.
// Title and location presence are checked by the use case so the client
// receives the same messages as the save screen.
type SaveReminderRequestDTO struct {
	ID          string   `json:"id" validate:"omitempty,max=64,reminder_id"`
	Title       *string  `json:"title" validate:"omitempty,max=200,safe_text"`
	Description *string  `json:"description" validate:"omitempty,max=2000,safe_text"`
	Location    *string  `json:"location" validate:"omitempty,max=200,safe_text,no_sql_injection"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,longitude"`
}

// ReminderResponseDTO represents HTTP response for a reminder
type ReminderResponseDTO struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// ReminderListResponseDTO represents HTTP response for the reminder list
type ReminderListResponseDTO struct {
	Reminders  []ReminderResponseDTO `json:"reminders"`
	Total      int                   `json:"total"`
	ShowNoData bool                  `json:"show_no_data"`
}

// TriggeredQueryDTO represents the device position for a geofence check
type TriggeredQueryDTO struct {
	Latitude  *float64 `form:"lat" binding:"required,latitude"`
	Longitude *float64 `form:"lng" binding:"required,longitude"`
}

// ErrorResponseDTO represents HTTP error response
type ErrorResponseDTO struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}
