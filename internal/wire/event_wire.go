package wire

import (
	"event-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireEvent(r chi.Router, eventHandler *adaptor.EventHandler, log *zap.Logger) {
	// GET /api/events - List published events (public)
	r.Get("/api/events", eventHandler.ListEvents)

	// GET /api/events/{id} - Event detail with live availability (public)
	r.Get("/api/events/{id}", eventHandler.GetEvent)
}
