package usecase

import (
	"context"
	"fmt"

	"event-booking/internal/data/repository"
	"event-booking/internal/dto/request"
	"event-booking/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventService interface {
	ListEvents(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.EventResponse], error)
	GetEvent(ctx context.Context, eventID string) (*response.EventResponse, error)
}

type eventService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewEventService(repo *repository.Repository, log *zap.Logger) EventService {
	return &eventService{
		repo: repo,
		log:  log.With(zap.String("service", "event")),
	}
}

func (s *eventService) ListEvents(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.EventResponse], error) {
	limit := req.Limit()
	offset := req.Offset()

	events, err := s.repo.Event.ListPublished(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	total, err := s.repo.Event.CountPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}

	// The list view skips the waitlist size; the detail endpoint carries it.
	items := make([]response.EventResponse, len(events))
	for i, event := range events {
		items[i] = response.EventToResponse(event, 0)
	}

	return response.NewPaginatedResponse(items, req.Page, limit, total), nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID string) (*response.EventResponse, error) {
	id, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid event ID %s", ErrValidation, eventID)
	}

	event, err := s.repo.Event.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event %s: %w", eventID, err)
	}
	if !event.Published {
		return nil, fmt.Errorf("get event %s: %w", eventID, repository.ErrNotFound)
	}

	waitlistSize, err := s.repo.Waitlist.CountByEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event waitlist size: %w", err)
	}

	resp := response.EventToResponse(event, waitlistSize)
	return &resp, nil
}
