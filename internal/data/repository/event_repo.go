package repository

import (
	"context"
	"errors"
	"fmt"

	"event-booking/internal/data/entity"
	"event-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// EventRepository is read-only from the booking core's point of view: events
// are mutated by the organizer tooling, the core only consults capacity and
// pricing fields. The one exception is seats_taken, which is updated through
// the booking repositories' reserve/release transactions, never directly.
type EventRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	ListPublished(ctx context.Context, limit, offset int) ([]*entity.Event, error)
	CountPublished(ctx context.Context) (int64, error)
	SeatsTaken(ctx context.Context, id uuid.UUID) (int, error)
}

type eventRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewEventRepository(db database.PgxIface, log *zap.Logger) EventRepository {
	return &eventRepository{
		db:  db,
		log: log.With(zap.String("repository", "event")),
	}
}

const eventColumns = `
	id, organizer_id, title, description, location, start_time, end_time,
	max_attendees, seats_taken, price, is_free, early_bird_price,
	early_bird_deadline, allow_group_booking, max_group_size, published,
	created_at, updated_at
`

func scanEvent(row pgx.Row) (*entity.Event, error) {
	var event entity.Event
	err := row.Scan(
		&event.ID,
		&event.OrganizerID,
		&event.Title,
		&event.Description,
		&event.Location,
		&event.StartTime,
		&event.EndTime,
		&event.MaxAttendees,
		&event.SeatsTaken,
		&event.Price,
		&event.IsFree,
		&event.EarlyBirdPrice,
		&event.EarlyBirdDeadline,
		&event.AllowGroupBooking,
		&event.MaxGroupSize,
		&event.Published,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.log.Error("Failed to find event by ID",
			zap.Error(err),
			zap.String("event_id", id.String()),
		)
		return nil, fmt.Errorf("find event by ID %s: %w", id.String(), err)
	}

	return event, nil
}

func (r *eventRepository) ListPublished(ctx context.Context, limit, offset int) ([]*entity.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE published
		ORDER BY start_time
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list events",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []*entity.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			r.log.Error("Failed to scan event row", zap.Error(err))
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

func (r *eventRepository) CountPublished(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM events WHERE published`

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		r.log.Error("Failed to count events", zap.Error(err))
		return 0, fmt.Errorf("count events: %w", err)
	}

	return count, nil
}

// SeatsTaken reads the capacity ledger counter. Pending reservations are
// already included because the counter is incremented at admission time.
func (r *eventRepository) SeatsTaken(ctx context.Context, id uuid.UUID) (int, error) {
	query := `SELECT seats_taken FROM events WHERE id = $1`

	var taken int
	err := r.db.QueryRow(ctx, query, id).Scan(&taken)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		r.log.Error("Failed to read seats taken",
			zap.Error(err),
			zap.String("event_id", id.String()),
		)
		return 0, fmt.Errorf("read seats taken for event %s: %w", id.String(), err)
	}

	return taken, nil
}
