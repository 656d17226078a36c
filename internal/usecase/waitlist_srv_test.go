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

func TestWaitlistJoin_PositionsFollowJoinOrder(t *testing.T) {
	env := newTestEnv()
	event := seedEvent(env, 1, "0", true)

	for expected := 1; expected <= 3; expected++ {
		entry, err := env.service.Waitlist.Join(context.Background(), uuid.New().String(), event.ID.String())
		require.NoError(t, err)
		assert.Equal(t, expected, entry.Position)
	}
}

func TestWaitlistJoin_DuplicateRejected(t *testing.T) {
	env := newTestEnv()
	event := seedEvent(env, 1, "0", true)
	userID := uuid.New().String()

	_, err := env.service.Waitlist.Join(context.Background(), userID, event.ID.String())
	require.NoError(t, err)

	_, err = env.service.Waitlist.Join(context.Background(), userID, event.ID.String())
	assert.ErrorIs(t, err, repository.ErrAlreadyWaitlisted)
}

func TestWaitlistJoin_ActiveBookingHolderRejected(t *testing.T) {
	env := newTestEnv()
	event := seedEvent(env, 100, "0", true)
	userID := uuid.New().String()

	_, err := env.service.Booking.CreateBooking(context.Background(), userID, &request.CreateBookingRequest{
		EventID: event.ID.String(),
	})
	require.NoError(t, err)

	_, err = env.service.Waitlist.Join(context.Background(), userID, event.ID.String())
	assert.ErrorIs(t, err, repository.ErrAlreadyBooked)
}

func TestWaitlistJoin_GroupLeaderRejected(t *testing.T) {
	env := newTestEnv()
	event := seedEvent(env, 100, "0", true)
	userID := uuid.New().String()

	_, err := env.service.Booking.CreateGroupBooking(context.Background(), userID, &request.CreateGroupBookingRequest{
		EventID:       event.ID.String(),
		GroupName:     "Gophers",
		AttendeeCount: 3,
	})
	require.NoError(t, err)

	_, err = env.service.Waitlist.Join(context.Background(), userID, event.ID.String())
	assert.ErrorIs(t, err, repository.ErrAlreadyBooked)
}

func TestWaitlistJoin_UnknownEventNotFound(t *testing.T) {
	env := newTestEnv()

	_, err := env.service.Waitlist.Join(context.Background(), uuid.New().String(), uuid.New().String())

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestWaitlistLeave_RemovesEntryWithoutRenumbering(t *testing.T) {
	env := newTestEnv()
	event := seedEvent(env, 1, "0", true)
	first := uuid.New().String()
	second := uuid.New().String()

	_, err := env.service.Waitlist.Join(context.Background(), first, event.ID.String())
	require.NoError(t, err)
	_, err = env.service.Waitlist.Join(context.Background(), second, event.ID.String())
	require.NoError(t, err)

	require.NoError(t, env.service.Waitlist.Leave(context.Background(), first, event.ID.String()))

	// The second entrant keeps the position assigned at join time.
	entry, err := env.service.Waitlist.PositionOf(context.Background(), second, event.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 2, entry.Position)
}

func TestWaitlistLeave_NotQueuedNotFound(t *testing.T) {
	env := newTestEnv()
	event := seedEvent(env, 1, "0", true)

	err := env.service.Waitlist.Leave(context.Background(), uuid.New().String(), event.ID.String())

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestWaitlistPositionOf_NotQueuedNotFound(t *testing.T) {
	env := newTestEnv()
	event := seedEvent(env, 1, "0", true)

	_, err := env.service.Waitlist.PositionOf(context.Background(), uuid.New().String(), event.ID.String())

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestWaitlistJoin_RetriesAfterPositionConflict(t *testing.T) {
	env := newTestEnv()
	event := seedEvent(env, 1, "0", true)
	env.store.injectJoinErr(repository.ErrConcurrencyConflict)

	entry, err := env.service.Waitlist.Join(context.Background(), uuid.New().String(), event.ID.String())

	require.NoError(t, err)
	assert.Equal(t, 1, entry.Position)
}

func TestWaitlistJoin_PersistentConflictSurfaces(t *testing.T) {
	env := newTestEnv()
	event := seedEvent(env, 1, "0", true)
	env.store.injectJoinErr(repository.ErrConcurrencyConflict, repository.ErrConcurrencyConflict)

	_, err := env.service.Waitlist.Join(context.Background(), uuid.New().String(), event.ID.String())

	assert.ErrorIs(t, err, repository.ErrConcurrencyConflict)
}
