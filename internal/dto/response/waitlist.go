package response

import (
	"time"

	"event-booking/internal/data/entity"
)

type WaitlistResponse struct {
	EventID  string    `json:"event_id"`
	UserID   string    `json:"user_id"`
	Position int       `json:"position"`
	JoinedAt time.Time `json:"joined_at"`
}

func WaitlistToResponse(entry *entity.WaitlistEntry) WaitlistResponse {
	return WaitlistResponse{
		EventID:  entry.EventID.String(),
		UserID:   entry.UserID.String(),
		Position: entry.Position,
		JoinedAt: entry.CreatedAt,
	}
}
