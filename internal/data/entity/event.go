package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Event struct {
	Base
	OrganizerID       uuid.UUID        `db:"organizer_id"`
	Title             string           `db:"title"`
	Description       string           `db:"description"`
	Location          string           `db:"location"`
	StartTime         time.Time        `db:"start_time"`
	EndTime           time.Time        `db:"end_time"`
	MaxAttendees      *int             `db:"max_attendees"` // nil = unlimited
	SeatsTaken        int              `db:"seats_taken"`
	Price             decimal.Decimal  `db:"price"`
	IsFree            bool             `db:"is_free"`
	EarlyBirdPrice    *decimal.Decimal `db:"early_bird_price"`
	EarlyBirdDeadline *time.Time       `db:"early_bird_deadline"`
	AllowGroupBooking bool             `db:"allow_group_booking"`
	MaxGroupSize      int              `db:"max_group_size"`
	Published         bool             `db:"published"`
}

// Unlimited reports whether the event has no capacity cap.
func (e *Event) Unlimited() bool {
	return e.MaxAttendees == nil
}

// IsFull reports whether every seat is taken. Always false for unlimited events.
func (e *Event) IsFull() bool {
	return e.MaxAttendees != nil && e.SeatsTaken >= *e.MaxAttendees
}
