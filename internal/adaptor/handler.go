package adaptor

import (
	"event-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Event    *EventHandler
	Booking  *BookingHandler
	Waitlist *WaitlistHandler
	Payment  *PaymentHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Event:    NewEventHandler(service.Event, log),
		Booking:  NewBookingHandler(service.Booking, log),
		Waitlist: NewWaitlistHandler(service.Waitlist, log),
		Payment:  NewPaymentHandler(service.Booking, log),
	}
}
