package wire

import (
	"event-booking/internal/adaptor"
	"event-booking/internal/data/repository"
	"event-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireWaitlist(
	r chi.Router,
	waitlistHandler *adaptor.WaitlistHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		// POST /api/events/{id}/waitlist - Join the queue
		r.Post("/api/events/{id}/waitlist", waitlistHandler.Join)

		// DELETE /api/events/{id}/waitlist - Leave the queue
		r.Delete("/api/events/{id}/waitlist", waitlistHandler.Leave)

		// GET /api/events/{id}/waitlist/position - Caller's queue position
		r.Get("/api/events/{id}/waitlist/position", waitlistHandler.Position)
	})
}
