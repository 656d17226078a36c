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

type GroupBookingRepository interface {
	// ReserveAndCreate reserves AttendeeCount seats and inserts the single
	// group purchase row in one transaction.
	ReserveAndCreate(ctx context.Context, gb *entity.GroupBooking) error

	FindByID(ctx context.Context, id uuid.UUID) (*entity.GroupBooking, error)
	FindActiveByEventAndLeader(ctx context.Context, eventID, leaderID uuid.UUID) (*entity.GroupBooking, error)
	FindByLeaderID(ctx context.Context, leaderID uuid.UUID, limit, offset int) ([]*entity.GroupBooking, error)

	Complete(ctx context.Context, id uuid.UUID) (bool, error)
	CancelAndRelease(ctx context.Context, id uuid.UUID) (bool, error)
	SetTicketCode(ctx context.Context, id uuid.UUID, code string) (bool, error)
}

type groupBookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewGroupBookingRepository(db database.PgxIface, log *zap.Logger) GroupBookingRepository {
	return &groupBookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "group_booking")),
	}
}

func (r *groupBookingRepository) ReserveAndCreate(ctx context.Context, gb *entity.GroupBooking) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin admission transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = reserveSeats(ctx, tx, gb.EventID, gb.LeaderID, gb.AttendeeCount); err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO group_bookings
			(id, order_id, event_id, leader_id, group_name, attendee_count, total_amount,
			 payment_status, payer_phone, ticket_code, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		gb.ID,
		gb.OrderID,
		gb.EventID,
		gb.LeaderID,
		gb.GroupName,
		gb.AttendeeCount,
		gb.TotalAmount,
		gb.Status,
		gb.PayerPhone,
		gb.TicketCode,
		gb.CreatedAt,
		gb.UpdatedAt,
	)
	if err != nil {
		err = translatePgError(err)
		if errors.Is(err, ErrAlreadyBooked) || errors.Is(err, ErrConcurrencyConflict) {
			return err
		}
		r.log.Error("Failed to insert group booking",
			zap.Error(err),
			zap.String("order_id", gb.OrderID),
			zap.String("event_id", gb.EventID.String()),
		)
		return fmt.Errorf("insert group booking %s: %w", gb.OrderID, err)
	}

	if err = tx.Commit(ctx); err != nil {
		err = translatePgError(err)
		return fmt.Errorf("commit group admission: %w", err)
	}

	return nil
}

const groupBookingColumns = `
	id, order_id, event_id, leader_id, group_name, attendee_count, total_amount,
	payment_status, payer_phone, ticket_code, created_at, updated_at
`

func scanGroupBooking(row pgx.Row) (*entity.GroupBooking, error) {
	var gb entity.GroupBooking
	err := row.Scan(
		&gb.ID,
		&gb.OrderID,
		&gb.EventID,
		&gb.LeaderID,
		&gb.GroupName,
		&gb.AttendeeCount,
		&gb.TotalAmount,
		&gb.Status,
		&gb.PayerPhone,
		&gb.TicketCode,
		&gb.CreatedAt,
		&gb.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &gb, nil
}

func (r *groupBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.GroupBooking, error) {
	query := `SELECT ` + groupBookingColumns + ` FROM group_bookings WHERE id = $1`

	gb, err := scanGroupBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.log.Error("Failed to find group booking by ID",
			zap.Error(err),
			zap.String("group_booking_id", id.String()),
		)
		return nil, fmt.Errorf("find group booking by ID %s: %w", id.String(), err)
	}

	return gb, nil
}

func (r *groupBookingRepository) FindActiveByEventAndLeader(ctx context.Context, eventID, leaderID uuid.UUID) (*entity.GroupBooking, error) {
	query := `
		SELECT ` + groupBookingColumns + `
		FROM group_bookings
		WHERE event_id = $1 AND leader_id = $2 AND payment_status <> 'cancelled'
	`

	gb, err := scanGroupBooking(r.db.QueryRow(ctx, query, eventID, leaderID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.log.Error("Failed to find active group booking",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
			zap.String("leader_id", leaderID.String()),
		)
		return nil, fmt.Errorf("find active group booking: %w", err)
	}

	return gb, nil
}

func (r *groupBookingRepository) FindByLeaderID(ctx context.Context, leaderID uuid.UUID, limit, offset int) ([]*entity.GroupBooking, error) {
	query := `
		SELECT ` + groupBookingColumns + `
		FROM group_bookings
		WHERE leader_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, leaderID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find group bookings by leader",
			zap.Error(err),
			zap.String("leader_id", leaderID.String()),
		)
		return nil, fmt.Errorf("find group bookings by leader %s: %w", leaderID.String(), err)
	}
	defer rows.Close()

	var groupBookings []*entity.GroupBooking
	for rows.Next() {
		gb, err := scanGroupBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan group booking row", zap.Error(err))
			return nil, fmt.Errorf("scan group booking row: %w", err)
		}
		groupBookings = append(groupBookings, gb)
	}

	return groupBookings, rows.Err()
}

func (r *groupBookingRepository) Complete(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE group_bookings
		SET payment_status = 'completed', updated_at = NOW()
		WHERE id = $1 AND payment_status = 'pending'
	`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to complete group booking",
			zap.Error(err),
			zap.String("group_booking_id", id.String()),
		)
		return false, fmt.Errorf("complete group booking %s: %w", id.String(), translatePgError(err))
	}

	return result.RowsAffected() == 1, nil
}

func (r *groupBookingRepository) CancelAndRelease(ctx context.Context, id uuid.UUID) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin cancel transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var eventID uuid.UUID
	var seats int
	err = tx.QueryRow(ctx,
		`UPDATE group_bookings
		 SET payment_status = 'cancelled', updated_at = NOW()
		 WHERE id = $1 AND payment_status = 'pending'
		 RETURNING event_id, attendee_count`,
		id,
	).Scan(&eventID, &seats)
	if errors.Is(err, pgx.ErrNoRows) {
		err = nil
		_ = tx.Rollback(ctx)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cancel group booking %s: %w", id.String(), translatePgError(err))
	}

	if err = releaseSeats(ctx, tx, eventID, seats); err != nil {
		return false, err
	}

	if err = tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit cancel: %w", translatePgError(err))
	}

	return true, nil
}

func (r *groupBookingRepository) SetTicketCode(ctx context.Context, id uuid.UUID, code string) (bool, error) {
	query := `
		UPDATE group_bookings
		SET ticket_code = $2, updated_at = NOW()
		WHERE id = $1 AND ticket_code IS NULL
	`

	result, err := r.db.Exec(ctx, query, id, code)
	if err != nil {
		r.log.Error("Failed to set group ticket code",
			zap.Error(err),
			zap.String("group_booking_id", id.String()),
		)
		return false, fmt.Errorf("set ticket code for group booking %s: %w", id.String(), translatePgError(err))
	}

	return result.RowsAffected() == 1, nil
}
