package usecase

import (
	"context"
	"testing"

	"event-booking/internal/data/repository"
	"event-booking/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEvent_IncludesLiveAvailability(t *testing.T) {
	env := newTestEnv()
	event := seedEvent(env, 2, "0", true)

	_, err := env.service.Booking.CreateBooking(context.Background(), uuid.New().String(), &request.CreateBookingRequest{
		EventID: event.ID.String(),
	})
	require.NoError(t, err)
	_, err = env.service.Waitlist.Join(context.Background(), uuid.New().String(), event.ID.String())
	require.NoError(t, err)

	resp, err := env.service.Event.GetEvent(context.Background(), event.ID.String())

	require.NoError(t, err)
	assert.Equal(t, 1, resp.SeatsTaken)
	assert.False(t, resp.IsFull)
	assert.Equal(t, 1, resp.WaitlistSize)
}

func TestGetEvent_ReportsFullWhenCapacityReached(t *testing.T) {
	env := newTestEnv()
	event := seedEvent(env, 1, "0", true)

	_, err := env.service.Booking.CreateBooking(context.Background(), uuid.New().String(), &request.CreateBookingRequest{
		EventID: event.ID.String(),
	})
	require.NoError(t, err)

	resp, err := env.service.Event.GetEvent(context.Background(), event.ID.String())

	require.NoError(t, err)
	assert.True(t, resp.IsFull)
}

func TestGetEvent_UnpublishedHidden(t *testing.T) {
	env := newTestEnv()
	event := seedEvent(env, 10, "0", true)
	event.Published = false

	_, err := env.service.Event.GetEvent(context.Background(), event.ID.String())

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListEvents_PaginationMeta(t *testing.T) {
	env := newTestEnv()
	for i := 0; i < 3; i++ {
		seedEvent(env, 10, "0", true)
	}

	resp, err := env.service.Event.ListEvents(context.Background(), &request.PaginatedRequest{Page: 1, PerPage: 2})

	require.NoError(t, err)
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, int64(3), resp.Pagination.Total)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
}
