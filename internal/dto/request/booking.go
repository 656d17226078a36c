package request

type CreateBookingRequest struct {
	EventID string `json:"event_id" validate:"required,uuid4"`
	// PhoneNumber is the M-Pesa MSISDN; required for paid events, checked in
	// the service because it depends on the event's is_free flag.
	PhoneNumber string `json:"phone_number,omitempty" validate:"omitempty,min=9,max=15,numeric"`
}

type CreateGroupBookingRequest struct {
	EventID       string `json:"event_id" validate:"required,uuid4"`
	GroupName     string `json:"group_name" validate:"required,min=2,max=100"`
	AttendeeCount int    `json:"number_of_attendees" validate:"required,min=2"`
	PhoneNumber   string `json:"phone_number,omitempty" validate:"omitempty,min=9,max=15,numeric"`
}
