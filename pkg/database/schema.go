package database

import (
	"context"
	"fmt"
)

// EnsureSchema creates the tables and constraints the booking core relies on.
// The partial unique indexes enforce the one-active-booking-per-user rule and
// the waitlist invariants at the database level, so a lost race surfaces as a
// constraint violation instead of silently corrupting state.
func EnsureSchema(ctx context.Context, db PgxIface) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			full_name TEXT NOT NULL,
			phone TEXT,
			role TEXT NOT NULL DEFAULT 'customer',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			token UUID NOT NULL UNIQUE,
			expires_at TIMESTAMPTZ NOT NULL,
			revoked_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			id UUID PRIMARY KEY,
			organizer_id UUID NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			start_time TIMESTAMPTZ NOT NULL,
			end_time TIMESTAMPTZ NOT NULL,
			max_attendees INT,
			seats_taken INT NOT NULL DEFAULT 0,
			price NUMERIC(12,2) NOT NULL DEFAULT 0,
			is_free BOOLEAN NOT NULL DEFAULT FALSE,
			early_bird_price NUMERIC(12,2),
			early_bird_deadline TIMESTAMPTZ,
			allow_group_booking BOOLEAN NOT NULL DEFAULT FALSE,
			max_group_size INT NOT NULL DEFAULT 10,
			published BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			CONSTRAINT seats_within_capacity
				CHECK (max_attendees IS NULL OR seats_taken <= max_attendees)
		)`,
		`CREATE TABLE IF NOT EXISTS bookings (
			id UUID PRIMARY KEY,
			order_id TEXT NOT NULL UNIQUE,
			event_id UUID NOT NULL REFERENCES events(id),
			user_id UUID NOT NULL,
			amount NUMERIC(12,2) NOT NULL,
			payment_status TEXT NOT NULL DEFAULT 'pending',
			payer_phone TEXT,
			ticket_code TEXT UNIQUE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS bookings_one_active_per_user
			ON bookings (event_id, user_id)
			WHERE payment_status <> 'cancelled'`,
		`CREATE TABLE IF NOT EXISTS group_bookings (
			id UUID PRIMARY KEY,
			order_id TEXT NOT NULL UNIQUE,
			event_id UUID NOT NULL REFERENCES events(id),
			leader_id UUID NOT NULL,
			group_name TEXT NOT NULL,
			attendee_count INT NOT NULL CHECK (attendee_count >= 2),
			total_amount NUMERIC(12,2) NOT NULL,
			payment_status TEXT NOT NULL DEFAULT 'pending',
			payer_phone TEXT,
			ticket_code TEXT UNIQUE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS group_bookings_one_active_per_leader
			ON group_bookings (event_id, leader_id)
			WHERE payment_status <> 'cancelled'`,
		`CREATE TABLE IF NOT EXISTS event_waitlist (
			id UUID PRIMARY KEY,
			event_id UUID NOT NULL REFERENCES events(id),
			user_id UUID NOT NULL,
			position INT NOT NULL CHECK (position >= 1),
			created_at TIMESTAMPTZ NOT NULL,
			CONSTRAINT waitlist_unique_user UNIQUE (event_id, user_id),
			CONSTRAINT waitlist_unique_position UNIQUE (event_id, position)
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	return nil
}
