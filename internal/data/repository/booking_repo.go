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

type BookingRepository interface {
	// ReserveAndCreate runs the admission check and the pending insert as a
	// single transaction against the event's seat counter.
	ReserveAndCreate(ctx context.Context, booking *entity.Booking) error

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindActiveByEventAndUser(ctx context.Context, eventID, userID uuid.UUID) (*entity.Booking, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)

	// Complete flips pending -> completed. Returns false when the booking was
	// already terminal, which makes duplicate payment callbacks no-ops.
	Complete(ctx context.Context, id uuid.UUID) (bool, error)

	// CancelAndRelease flips pending -> cancelled and gives the reserved seat
	// back to the event in the same transaction. Returns false when the
	// booking was already terminal.
	CancelAndRelease(ctx context.Context, id uuid.UUID) (bool, error)

	// SetTicketCode stores the credential only if none exists yet. Returns
	// false when another issuer won the race.
	SetTicketCode(ctx context.Context, id uuid.UUID, code string) (bool, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

// reserveSeats locks the event row, rejects duplicates, checks capacity and
// increments the seat counter. It must run inside the caller's transaction so
// the check and the reservation are one atomic unit; a plain read-then-insert
// here would oversell under concurrent admission.
func reserveSeats(ctx context.Context, tx pgx.Tx, eventID, userID uuid.UUID, seats int) error {
	var maxAttendees *int
	var seatsTaken int
	err := tx.QueryRow(ctx,
		`SELECT max_attendees, seats_taken
		 FROM events
		 WHERE id = $1 AND published
		 FOR UPDATE`,
		eventID,
	).Scan(&maxAttendees, &seatsTaken)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("lock event row: %w", translatePgError(err))
	}

	// One active booking or group leadership per user per event.
	var active int
	err = tx.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM bookings
			 WHERE event_id = $1 AND user_id = $2 AND payment_status <> 'cancelled')
			+
			(SELECT COUNT(*) FROM group_bookings
			 WHERE event_id = $1 AND leader_id = $2 AND payment_status <> 'cancelled')`,
		eventID, userID,
	).Scan(&active)
	if err != nil {
		return fmt.Errorf("check active booking: %w", translatePgError(err))
	}
	if active > 0 {
		return ErrAlreadyBooked
	}

	if maxAttendees != nil && seatsTaken+seats > *maxAttendees {
		return ErrEventFull
	}

	_, err = tx.Exec(ctx,
		`UPDATE events SET seats_taken = seats_taken + $2, updated_at = NOW() WHERE id = $1`,
		eventID, seats,
	)
	if err != nil {
		return fmt.Errorf("reserve seats: %w", translatePgError(err))
	}

	return nil
}

// releaseSeats gives seats back after a cancellation or failed payment.
func releaseSeats(ctx context.Context, tx pgx.Tx, eventID uuid.UUID, seats int) error {
	_, err := tx.Exec(ctx,
		`UPDATE events
		 SET seats_taken = GREATEST(seats_taken - $2, 0), updated_at = NOW()
		 WHERE id = $1`,
		eventID, seats,
	)
	if err != nil {
		return fmt.Errorf("release seats: %w", translatePgError(err))
	}
	return nil
}

func (r *bookingRepository) ReserveAndCreate(ctx context.Context, booking *entity.Booking) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin admission transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = reserveSeats(ctx, tx, booking.EventID, booking.UserID, 1); err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO bookings
			(id, order_id, event_id, user_id, amount, payment_status, payer_phone, ticket_code, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		booking.ID,
		booking.OrderID,
		booking.EventID,
		booking.UserID,
		booking.Amount,
		booking.Status,
		booking.PayerPhone,
		booking.TicketCode,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		err = translatePgError(err)
		if errors.Is(err, ErrAlreadyBooked) || errors.Is(err, ErrConcurrencyConflict) {
			return err
		}
		r.log.Error("Failed to insert booking",
			zap.Error(err),
			zap.String("order_id", booking.OrderID),
			zap.String("event_id", booking.EventID.String()),
		)
		return fmt.Errorf("insert booking %s: %w", booking.OrderID, err)
	}

	if err = tx.Commit(ctx); err != nil {
		err = translatePgError(err)
		return fmt.Errorf("commit admission: %w", err)
	}

	return nil
}

const bookingColumns = `
	id, order_id, event_id, user_id, amount, payment_status, payer_phone,
	ticket_code, created_at, updated_at
`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.OrderID,
		&booking.EventID,
		&booking.UserID,
		&booking.Amount,
		&booking.Status,
		&booking.PayerPhone,
		&booking.TicketCode,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindActiveByEventAndUser(ctx context.Context, eventID, userID uuid.UUID) (*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE event_id = $1 AND user_id = $2 AND payment_status <> 'cancelled'
	`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, eventID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		r.log.Error("Failed to find active booking",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find active booking: %w", err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find bookings by user ID %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

func (r *bookingRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE user_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count bookings by user ID %s: %w", userID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) Complete(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE bookings
		SET payment_status = 'completed', updated_at = NOW()
		WHERE id = $1 AND payment_status = 'pending'
	`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to complete booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return false, fmt.Errorf("complete booking %s: %w", id.String(), translatePgError(err))
	}

	return result.RowsAffected() == 1, nil
}

func (r *bookingRepository) CancelAndRelease(ctx context.Context, id uuid.UUID) (bool, error) {
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
	err = tx.QueryRow(ctx,
		`UPDATE bookings
		 SET payment_status = 'cancelled', updated_at = NOW()
		 WHERE id = $1 AND payment_status = 'pending'
		 RETURNING event_id`,
		id,
	).Scan(&eventID)
	if errors.Is(err, pgx.ErrNoRows) {
		// Already terminal; nothing to release.
		err = nil
		_ = tx.Rollback(ctx)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cancel booking %s: %w", id.String(), translatePgError(err))
	}

	if err = releaseSeats(ctx, tx, eventID, 1); err != nil {
		return false, err
	}

	if err = tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit cancel: %w", translatePgError(err))
	}

	return true, nil
}

func (r *bookingRepository) SetTicketCode(ctx context.Context, id uuid.UUID, code string) (bool, error) {
	query := `
		UPDATE bookings
		SET ticket_code = $2, updated_at = NOW()
		WHERE id = $1 AND ticket_code IS NULL
	`

	result, err := r.db.Exec(ctx, query, id, code)
	if err != nil {
		r.log.Error("Failed to set ticket code",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return false, fmt.Errorf("set ticket code for booking %s: %w", id.String(), translatePgError(err))
	}

	return result.RowsAffected() == 1, nil
}
