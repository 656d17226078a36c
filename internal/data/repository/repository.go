package repository

import (
	"event-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User         UserRepository
	Session      SessionRepository
	Event        EventRepository
	Booking      BookingRepository
	GroupBooking GroupBookingRepository
	Waitlist     WaitlistRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:         NewUserRepository(db, log),
		Session:      NewSessionRepository(db, log),
		Event:        NewEventRepository(db, log),
		Booking:      NewBookingRepository(db, log),
		GroupBooking: NewGroupBookingRepository(db, log),
		Waitlist:     NewWaitlistRepository(db, log),
	}
}
