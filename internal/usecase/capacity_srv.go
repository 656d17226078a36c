package usecase

import (
	"context"
	"fmt"

	"event-booking/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CapacityService is the read side of the capacity ledger. It is advisory:
// the binding admission check happens inside the repositories' reserve
// transactions, which re-check under the event row lock. All writers go
// through those transactions; nothing updates the counter directly.
type CapacityService interface {
	CurrentCount(ctx context.Context, eventID uuid.UUID) (int, error)
	HasRoom(ctx context.Context, eventID uuid.UUID, requestedSeats int) (bool, error)
}

type capacityService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCapacityService(repo *repository.Repository, log *zap.Logger) CapacityService {
	return &capacityService{
		repo: repo,
		log:  log.With(zap.String("service", "capacity")),
	}
}

// CurrentCount returns the seats reserved against the event, counting both
// completed bookings and optimistically-held pending ones.
func (s *capacityService) CurrentCount(ctx context.Context, eventID uuid.UUID) (int, error) {
	return s.repo.Event.SeatsTaken(ctx, eventID)
}

func (s *capacityService) HasRoom(ctx context.Context, eventID uuid.UUID, requestedSeats int) (bool, error) {
	event, err := s.repo.Event.FindByID(ctx, eventID)
	if err != nil {
		return false, fmt.Errorf("has room for event %s: %w", eventID.String(), err)
	}

	if event.Unlimited() {
		return true, nil
	}

	return event.SeatsTaken+requestedSeats <= *event.MaxAttendees, nil
}
