package response

import (
	"time"

	"event-booking/internal/data/entity"
)

type EventResponse struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Description       string     `json:"description,omitempty"`
	Location          string     `json:"location,omitempty"`
	StartTime         time.Time  `json:"start_time"`
	EndTime           time.Time  `json:"end_time"`
	MaxAttendees      *int       `json:"max_attendees,omitempty"`
	SeatsTaken        int        `json:"seats_taken"`
	IsFull            bool       `json:"is_full"`
	Price             string     `json:"price"`
	IsFree            bool       `json:"is_free"`
	EarlyBirdPrice    *string    `json:"early_bird_price,omitempty"`
	EarlyBirdDeadline *time.Time `json:"early_bird_deadline,omitempty"`
	AllowGroupBooking bool       `json:"allow_group_booking"`
	MaxGroupSize      int        `json:"max_group_size"`
	WaitlistSize      int        `json:"waitlist_size"`
}

func EventToResponse(event *entity.Event, waitlistSize int) EventResponse {
	resp := EventResponse{
		ID:                event.ID.String(),
		Title:             event.Title,
		Description:       event.Description,
		Location:          event.Location,
		StartTime:         event.StartTime,
		EndTime:           event.EndTime,
		MaxAttendees:      event.MaxAttendees,
		SeatsTaken:        event.SeatsTaken,
		IsFull:            event.IsFull(),
		Price:             event.Price.StringFixed(2),
		IsFree:            event.IsFree,
		EarlyBirdDeadline: event.EarlyBirdDeadline,
		AllowGroupBooking: event.AllowGroupBooking,
		MaxGroupSize:      event.MaxGroupSize,
		WaitlistSize:      waitlistSize,
	}

	if event.EarlyBirdPrice != nil {
		price := event.EarlyBirdPrice.StringFixed(2)
		resp.EarlyBirdPrice = &price
	}

	return resp
}
