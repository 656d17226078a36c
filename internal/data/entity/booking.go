package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// Terminal reports whether the status can no longer change.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusCancelled
}

type Booking struct {
	Base
	OrderID    string          `db:"order_id"`
	EventID    uuid.UUID       `db:"event_id"`
	UserID     uuid.UUID       `db:"user_id"`
	Amount     decimal.Decimal `db:"amount"`
	Status     PaymentStatus   `db:"payment_status"`
	PayerPhone *string         `db:"payer_phone"`
	TicketCode *string         `db:"ticket_code"` // set iff Status is completed
}
