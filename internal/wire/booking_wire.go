package wire

import (
	"event-booking/internal/adaptor"
	"event-booking/internal/data/repository"
	"event-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		// POST /api/bookings - Reserve a seat
		r.Post("/api/bookings", bookingHandler.CreateBooking)

		// POST /api/bookings/group - Reserve a block of seats
		r.Post("/api/bookings/group", bookingHandler.CreateGroupBooking)

		// GET /api/user/bookings - Booking history for the caller
		r.Get("/api/user/bookings", bookingHandler.GetUserBookings)

		// POST /api/bookings/{id}/cancel - Cancel and release the seat
		r.Post("/api/bookings/{id}/cancel", bookingHandler.CancelBooking)

		// GET /api/bookings/{id}/ticket - Ticket credential with QR code
		r.Get("/api/bookings/{id}/ticket", bookingHandler.GetTicket)
	})
}
