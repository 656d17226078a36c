package usecase

import (
	"event-booking/internal/data/repository"
	"event-booking/internal/notify"
	"event-booking/internal/payment"
	"event-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Event    EventService
	Booking  BookingService
	Waitlist WaitlistService
	Capacity CapacityService
	Ticket   TicketService
}

func NewService(
	repo *repository.Repository,
	gateway payment.Gateway,
	notifier notify.Notifier,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	capacity := NewCapacityService(repo, log)
	tickets := NewTicketService(repo, log)

	return &Service{
		Event:    NewEventService(repo, log),
		Booking:  NewBookingService(repo, capacity, tickets, gateway, notifier, config, log),
		Waitlist: NewWaitlistService(repo, notifier, log),
		Capacity: capacity,
		Ticket:   tickets,
	}
}
