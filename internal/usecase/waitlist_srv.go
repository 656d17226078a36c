package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"event-booking/internal/data/entity"
	"event-booking/internal/data/repository"
	"event-booking/internal/dto/response"
	"event-booking/internal/notify"
	"event-booking/pkg/monitoring"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type WaitlistService interface {
	Join(ctx context.Context, userID, eventID string) (*response.WaitlistResponse, error)
	Leave(ctx context.Context, userID, eventID string) error
	PositionOf(ctx context.Context, userID, eventID string) (*response.WaitlistResponse, error)
}

type waitlistService struct {
	repo     *repository.Repository
	notifier notify.Notifier
	log      *zap.Logger
}

func NewWaitlistService(repo *repository.Repository, notifier notify.Notifier, log *zap.Logger) WaitlistService {
	return &waitlistService{
		repo:     repo,
		notifier: notifier,
		log:      log.With(zap.String("service", "waitlist")),
	}
}

func (s *waitlistService) Join(ctx context.Context, userID, eventID string) (*response.WaitlistResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user ID %s", ErrValidation, userID)
	}

	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid event ID %s", ErrValidation, eventID)
	}

	if _, err := s.repo.Event.FindByID(ctx, eventUUID); err != nil {
		return nil, fmt.Errorf("join waitlist: %w", err)
	}

	// A user with a live booking has no business on the waitlist.
	if err := s.rejectIfBooked(ctx, eventUUID, userUUID); err != nil {
		monitoring.WaitlistOperations.WithLabelValues("join", "rejected").Inc()
		return nil, err
	}

	entry := &entity.WaitlistEntry{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		EventID: eventUUID,
		UserID:  userUUID,
	}

	err = s.repo.Waitlist.Join(ctx, entry)
	if errors.Is(err, repository.ErrConcurrencyConflict) {
		// Lost the position race; one retry with a fresh identity.
		s.log.Warn("Waitlist join conflict, retrying",
			zap.String("event_id", eventID),
			zap.String("user_id", userID),
		)
		entry.ID = uuid.New()
		err = s.repo.Waitlist.Join(ctx, entry)
	}
	if err != nil {
		monitoring.WaitlistOperations.WithLabelValues("join", "error").Inc()
		return nil, fmt.Errorf("join waitlist: %w", err)
	}

	monitoring.WaitlistOperations.WithLabelValues("join", "success").Inc()
	s.notifier.WaitlistChanged(ctx, eventUUID)

	s.log.Info("User joined waitlist",
		zap.String("event_id", eventID),
		zap.String("user_id", userID),
		zap.Int("position", entry.Position),
	)

	resp := response.WaitlistToResponse(entry)
	return &resp, nil
}

func (s *waitlistService) Leave(ctx context.Context, userID, eventID string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("%w: invalid user ID %s", ErrValidation, userID)
	}

	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		return fmt.Errorf("%w: invalid event ID %s", ErrValidation, eventID)
	}

	if err := s.repo.Waitlist.Leave(ctx, eventUUID, userUUID); err != nil {
		monitoring.WaitlistOperations.WithLabelValues("leave", "error").Inc()
		return fmt.Errorf("leave waitlist: %w", err)
	}

	monitoring.WaitlistOperations.WithLabelValues("leave", "success").Inc()
	s.notifier.WaitlistChanged(ctx, eventUUID)

	s.log.Info("User left waitlist",
		zap.String("event_id", eventID),
		zap.String("user_id", userID),
	)

	return nil
}

func (s *waitlistService) PositionOf(ctx context.Context, userID, eventID string) (*response.WaitlistResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user ID %s", ErrValidation, userID)
	}

	eventUUID, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid event ID %s", ErrValidation, eventID)
	}

	entry, err := s.repo.Waitlist.FindByEventAndUser(ctx, eventUUID, userUUID)
	if err != nil {
		return nil, fmt.Errorf("waitlist position: %w", err)
	}

	resp := response.WaitlistToResponse(entry)
	return &resp, nil
}

func (s *waitlistService) rejectIfBooked(ctx context.Context, eventID, userID uuid.UUID) error {
	_, err := s.repo.Booking.FindActiveByEventAndUser(ctx, eventID, userID)
	if err == nil {
		return repository.ErrAlreadyBooked
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("check active booking: %w", err)
	}

	_, err = s.repo.GroupBooking.FindActiveByEventAndLeader(ctx, eventID, userID)
	if err == nil {
		return repository.ErrAlreadyBooked
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("check active group booking: %w", err)
	}

	return nil
}
