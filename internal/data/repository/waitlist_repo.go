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

type WaitlistRepository interface {
	// Join assigns the next FIFO position and inserts the entry atomically,
	// filling entry.Position on success.
	Join(ctx context.Context, entry *entity.WaitlistEntry) error

	Leave(ctx context.Context, eventID, userID uuid.UUID) error
	FindByEventAndUser(ctx context.Context, eventID, userID uuid.UUID) (*entity.WaitlistEntry, error)
	CountByEvent(ctx context.Context, eventID uuid.UUID) (int, error)
}

type waitlistRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewWaitlistRepository(db database.PgxIface, log *zap.Logger) WaitlistRepository {
	return &waitlistRepository{
		db:  db,
		log: log.With(zap.String("repository", "waitlist")),
	}
}

func (r *waitlistRepository) Join(ctx context.Context, entry *entity.WaitlistEntry) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin waitlist transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// Lock the event row so position assignment is serialized per event.
	// "Read max, add one, insert" without the lock is the classic race; the
	// unique (event_id, position) constraint is the backstop if two
	// transactions slip through anyway.
	var eventID uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT id FROM events WHERE id = $1 FOR UPDATE`,
		entry.EventID,
	).Scan(&eventID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("lock event row: %w", translatePgError(err))
	}

	err = tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(position), 0) + 1 FROM event_waitlist WHERE event_id = $1`,
		entry.EventID,
	).Scan(&entry.Position)
	if err != nil {
		return fmt.Errorf("next waitlist position: %w", translatePgError(err))
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO event_waitlist (id, event_id, user_id, position, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		entry.ID,
		entry.EventID,
		entry.UserID,
		entry.Position,
		entry.CreatedAt,
	)
	if err != nil {
		err = translatePgError(err)
		if errors.Is(err, ErrAlreadyWaitlisted) || errors.Is(err, ErrConcurrencyConflict) {
			return err
		}
		r.log.Error("Failed to insert waitlist entry",
			zap.Error(err),
			zap.String("event_id", entry.EventID.String()),
			zap.String("user_id", entry.UserID.String()),
		)
		return fmt.Errorf("insert waitlist entry: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		err = translatePgError(err)
		return fmt.Errorf("commit waitlist join: %w", err)
	}

	return nil
}

// Leave removes the entry. Positions of later entrants are left as assigned;
// the ordering stays FIFO without renumbering the whole list.
func (r *waitlistRepository) Leave(ctx context.Context, eventID, userID uuid.UUID) error {
	query := `DELETE FROM event_waitlist WHERE event_id = $1 AND user_id = $2`

	result, err := r.db.Exec(ctx, query, eventID, userID)
	if err != nil {
		r.log.Error("Failed to delete waitlist entry",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("delete waitlist entry: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *waitlistRepository) FindByEventAndUser(ctx context.Context, eventID, userID uuid.UUID) (*entity.WaitlistEntry, error) {
	query := `
		SELECT id, event_id, user_id, position, created_at
		FROM event_waitlist
		WHERE event_id = $1 AND user_id = $2
	`

	var entry entity.WaitlistEntry
	err := r.db.QueryRow(ctx, query, eventID, userID).Scan(
		&entry.ID,
		&entry.EventID,
		&entry.UserID,
		&entry.Position,
		&entry.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.log.Error("Failed to find waitlist entry",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find waitlist entry: %w", err)
	}

	return &entry, nil
}

func (r *waitlistRepository) CountByEvent(ctx context.Context, eventID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM event_waitlist WHERE event_id = $1`

	var count int
	if err := r.db.QueryRow(ctx, query, eventID).Scan(&count); err != nil {
		r.log.Error("Failed to count waitlist",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
		)
		return 0, fmt.Errorf("count waitlist for event %s: %w", eventID.String(), err)
	}

	return count, nil
}
