package notify

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier emits best-effort change signals for other parts of the system
// (live UI, analytics). Emission failures are logged and never reverse a
// booking's state; the transport behind this interface is an external
// concern.
type Notifier interface {
	BookingCountChanged(ctx context.Context, eventID uuid.UUID, seatsTaken int)
	WaitlistChanged(ctx context.Context, eventID uuid.UUID)
}

// LogNotifier writes the signals to the structured log. It stands in for a
// real-time channel in deployments that have not wired one.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log.With(zap.String("notifier", "log"))}
}

func (n *LogNotifier) BookingCountChanged(ctx context.Context, eventID uuid.UUID, seatsTaken int) {
	n.log.Info("Booking count changed",
		zap.String("event_id", eventID.String()),
		zap.Int("seats_taken", seatsTaken),
	)
}

func (n *LogNotifier) WaitlistChanged(ctx context.Context, eventID uuid.UUID) {
	n.log.Info("Waitlist changed",
		zap.String("event_id", eventID.String()),
	)
}
