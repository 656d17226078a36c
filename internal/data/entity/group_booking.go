package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GroupBooking is a single purchase unit that consumes AttendeeCount seats
// of the event's capacity. It is one row, never expanded into individual
// Booking rows.
type GroupBooking struct {
	Base
	OrderID       string          `db:"order_id"`
	EventID       uuid.UUID       `db:"event_id"`
	LeaderID      uuid.UUID       `db:"leader_id"`
	GroupName     string          `db:"group_name"`
	AttendeeCount int             `db:"attendee_count"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
	Status        PaymentStatus   `db:"payment_status"`
	PayerPhone    *string         `db:"payer_phone"`
	TicketCode    *string         `db:"ticket_code"`
}
