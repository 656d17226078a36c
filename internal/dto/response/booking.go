package response

import (
	"time"

	"event-booking/internal/data/entity"
)

type BookingResponse struct {
	ID             string               `json:"id"`
	OrderID        string               `json:"order_id"`
	EventID        string               `json:"event_id"`
	UserID         string               `json:"user_id"`
	Amount         string               `json:"amount"`
	Status         entity.PaymentStatus `json:"status"`
	TicketCode     *string              `json:"ticket_code,omitempty"`
	PaymentMessage string               `json:"payment_message,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
}

func BookingToResponse(booking *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:         booking.ID.String(),
		OrderID:    booking.OrderID,
		EventID:    booking.EventID.String(),
		UserID:     booking.UserID.String(),
		Amount:     booking.Amount.StringFixed(2),
		Status:     booking.Status,
		TicketCode: booking.TicketCode,
		CreatedAt:  booking.CreatedAt,
	}
}

type GroupBookingResponse struct {
	ID             string               `json:"id"`
	OrderID        string               `json:"order_id"`
	EventID        string               `json:"event_id"`
	LeaderID       string               `json:"leader_id"`
	GroupName      string               `json:"group_name"`
	AttendeeCount  int                  `json:"number_of_attendees"`
	TotalAmount    string               `json:"total_amount"`
	Status         entity.PaymentStatus `json:"status"`
	TicketCode     *string              `json:"ticket_code,omitempty"`
	PaymentMessage string               `json:"payment_message,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
}

func GroupBookingToResponse(gb *entity.GroupBooking) GroupBookingResponse {
	return GroupBookingResponse{
		ID:            gb.ID.String(),
		OrderID:       gb.OrderID,
		EventID:       gb.EventID.String(),
		LeaderID:      gb.LeaderID.String(),
		GroupName:     gb.GroupName,
		AttendeeCount: gb.AttendeeCount,
		TotalAmount:   gb.TotalAmount.StringFixed(2),
		Status:        gb.Status,
		TicketCode:    gb.TicketCode,
		CreatedAt:     gb.CreatedAt,
	}
}

// UserBookingsResponse groups a user's individual and group purchases.
type UserBookingsResponse struct {
	Bookings      []BookingResponse      `json:"bookings"`
	GroupBookings []GroupBookingResponse `json:"group_bookings"`
	Pagination    PaginationMeta         `json:"pagination"`
}
