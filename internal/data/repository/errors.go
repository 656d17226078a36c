package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors surfaced by the repositories. Services and handlers match
// on these with errors.Is instead of string inspection.
var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEventFull is returned when an admission attempt finds no remaining
	// capacity. Callers should offer the waitlist instead.
	ErrEventFull = errors.New("event is fully booked")

	// ErrAlreadyBooked is returned when the user already holds an active
	// booking or group-booking leadership for the event.
	ErrAlreadyBooked = errors.New("user already has an active booking for this event")

	// ErrAlreadyWaitlisted is returned on a duplicate waitlist join.
	ErrAlreadyWaitlisted = errors.New("user is already on the waitlist for this event")

	// ErrConcurrencyConflict is returned when an atomic reserve or position
	// assignment loses a race. The caller retries the whole attempt once.
	ErrConcurrencyConflict = errors.New("concurrent update conflict")
)

// translatePgError maps low-level postgres failures onto the sentinel
// taxonomy. Unique-violation constraint names come from pkg/database schema.
func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case "40001", "40P01": // serialization failure, deadlock detected
		return ErrConcurrencyConflict
	case "23505": // unique violation
		switch pgErr.ConstraintName {
		case "bookings_one_active_per_user", "group_bookings_one_active_per_leader":
			return ErrAlreadyBooked
		case "waitlist_unique_user":
			return ErrAlreadyWaitlisted
		case "waitlist_unique_position":
			return ErrConcurrencyConflict
		}
	case "23514": // check violation
		if pgErr.ConstraintName == "seats_within_capacity" {
			return ErrEventFull
		}
	}

	return err
}
