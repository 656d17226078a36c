package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BookingAttempts counts admission outcomes per kind (individual/group).
	BookingAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_attempts_total",
			Help: "Total booking admission attempts by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	// PaymentCallbacks counts gateway confirmations by result, including
	// duplicates ignored by the idempotency guard.
	PaymentCallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_callbacks_total",
			Help: "Total payment confirmation callbacks by result",
		},
		[]string{"result"},
	)

	// WaitlistOperations counts joins and leaves.
	WaitlistOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waitlist_operations_total",
			Help: "Total waitlist operations by kind and outcome",
		},
		[]string{"operation", "outcome"},
	)

	// TicketsIssued counts minted credentials (not idempotent re-reads).
	TicketsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tickets_issued_total",
			Help: "Total ticket credentials minted",
		},
	)
)
