package wire

import (
	"event-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePayment(r chi.Router, paymentHandler *adaptor.PaymentHandler, log *zap.Logger) {
	// POST /api/payments/callback - Gateway confirmation (public, idempotent)
	r.Post("/api/payments/callback", paymentHandler.Callback)
}
