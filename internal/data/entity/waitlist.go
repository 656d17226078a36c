package entity

import (
	"github.com/google/uuid"
)

// WaitlistEntry is one user's place in an event's FIFO waitlist. Positions
// start at 1, follow join order and are never renumbered when earlier
// entrants leave.
type WaitlistEntry struct {
	BaseSimple
	EventID  uuid.UUID `db:"event_id"`
	UserID   uuid.UUID `db:"user_id"`
	Position int       `db:"position"`
}
