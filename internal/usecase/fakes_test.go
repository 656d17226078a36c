package usecase

import (
	"context"
	"sync"

	"event-booking/internal/data/entity"
	"event-booking/internal/data/repository"
	"event-booking/internal/payment"
	"event-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// fakeStore is an in-memory stand-in for the Postgres repositories. It
// replicates the admission semantics the real transactions enforce: one
// active booking per user per event, capacity checked under the same lock
// that increments the counter.
type fakeStore struct {
	mu            sync.Mutex
	events        map[uuid.UUID]*entity.Event
	bookings      map[uuid.UUID]*entity.Booking
	groupBookings map[uuid.UUID]*entity.GroupBooking
	waitlist      []*entity.WaitlistEntry

	// reserveErrs is consumed one per ReserveAndCreate call before the real
	// logic runs, for injecting conflicts. joinErrs does the same for
	// waitlist joins.
	reserveErrs []error
	joinErrs    []error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events:        make(map[uuid.UUID]*entity.Event),
		bookings:      make(map[uuid.UUID]*entity.Booking),
		groupBookings: make(map[uuid.UUID]*entity.GroupBooking),
	}
}

func (s *fakeStore) addEvent(event *entity.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.ID] = event
}

func (s *fakeStore) injectReserveErr(errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reserveErrs = append(s.reserveErrs, errs...)
}

func (s *fakeStore) injectJoinErr(errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.joinErrs = append(s.joinErrs, errs...)
}

// reserve must be called with s.mu held.
func (s *fakeStore) reserve(eventID, userID uuid.UUID, seats int) error {
	if len(s.reserveErrs) > 0 {
		err := s.reserveErrs[0]
		s.reserveErrs = s.reserveErrs[1:]
		if err != nil {
			return err
		}
	}

	event, ok := s.events[eventID]
	if !ok || !event.Published {
		return repository.ErrNotFound
	}

	for _, b := range s.bookings {
		if b.EventID == eventID && b.UserID == userID && b.Status != entity.PaymentStatusCancelled {
			return repository.ErrAlreadyBooked
		}
	}
	for _, gb := range s.groupBookings {
		if gb.EventID == eventID && gb.LeaderID == userID && gb.Status != entity.PaymentStatusCancelled {
			return repository.ErrAlreadyBooked
		}
	}

	if event.MaxAttendees != nil && event.SeatsTaken+seats > *event.MaxAttendees {
		return repository.ErrEventFull
	}

	event.SeatsTaken += seats
	return nil
}

// release must be called with s.mu held.
func (s *fakeStore) release(eventID uuid.UUID, seats int) {
	if event, ok := s.events[eventID]; ok {
		event.SeatsTaken -= seats
		if event.SeatsTaken < 0 {
			event.SeatsTaken = 0
		}
	}
}

type fakeEventRepo struct{ store *fakeStore }

func (r *fakeEventRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	event, ok := r.store.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *event
	return &copied, nil
}

func (r *fakeEventRepo) ListPublished(ctx context.Context, limit, offset int) ([]*entity.Event, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var events []*entity.Event
	for _, event := range r.store.events {
		if event.Published {
			copied := *event
			events = append(events, &copied)
		}
	}
	if offset >= len(events) {
		return nil, nil
	}
	events = events[offset:]
	if limit < len(events) {
		events = events[:limit]
	}
	return events, nil
}

func (r *fakeEventRepo) CountPublished(ctx context.Context) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var count int64
	for _, event := range r.store.events {
		if event.Published {
			count++
		}
	}
	return count, nil
}

func (r *fakeEventRepo) SeatsTaken(ctx context.Context, id uuid.UUID) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	event, ok := r.store.events[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return event.SeatsTaken, nil
}

type fakeBookingRepo struct{ store *fakeStore }

func (r *fakeBookingRepo) ReserveAndCreate(ctx context.Context, booking *entity.Booking) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.reserve(booking.EventID, booking.UserID, 1); err != nil {
		return err
	}
	copied := *booking
	r.store.bookings[booking.ID] = &copied
	return nil
}

func (r *fakeBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	booking, ok := r.store.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *booking
	return &copied, nil
}

func (r *fakeBookingRepo) FindActiveByEventAndUser(ctx context.Context, eventID, userID uuid.UUID) (*entity.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, b := range r.store.bookings {
		if b.EventID == eventID && b.UserID == userID && b.Status != entity.PaymentStatusCancelled {
			copied := *b
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeBookingRepo) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var bookings []*entity.Booking
	for _, b := range r.store.bookings {
		if b.UserID == userID {
			copied := *b
			bookings = append(bookings, &copied)
		}
	}
	return bookings, nil
}

func (r *fakeBookingRepo) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var count int64
	for _, b := range r.store.bookings {
		if b.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakeBookingRepo) Complete(ctx context.Context, id uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	booking, ok := r.store.bookings[id]
	if !ok || booking.Status != entity.PaymentStatusPending {
		return false, nil
	}
	booking.Status = entity.PaymentStatusCompleted
	return true, nil
}

func (r *fakeBookingRepo) CancelAndRelease(ctx context.Context, id uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	booking, ok := r.store.bookings[id]
	if !ok || booking.Status != entity.PaymentStatusPending {
		return false, nil
	}
	booking.Status = entity.PaymentStatusCancelled
	r.store.release(booking.EventID, 1)
	return true, nil
}

func (r *fakeBookingRepo) SetTicketCode(ctx context.Context, id uuid.UUID, code string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	booking, ok := r.store.bookings[id]
	if !ok || booking.TicketCode != nil {
		return false, nil
	}
	booking.TicketCode = &code
	return true, nil
}

type fakeGroupBookingRepo struct{ store *fakeStore }

func (r *fakeGroupBookingRepo) ReserveAndCreate(ctx context.Context, gb *entity.GroupBooking) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.reserve(gb.EventID, gb.LeaderID, gb.AttendeeCount); err != nil {
		return err
	}
	copied := *gb
	r.store.groupBookings[gb.ID] = &copied
	return nil
}

func (r *fakeGroupBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.GroupBooking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	gb, ok := r.store.groupBookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *gb
	return &copied, nil
}

func (r *fakeGroupBookingRepo) FindActiveByEventAndLeader(ctx context.Context, eventID, leaderID uuid.UUID) (*entity.GroupBooking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, gb := range r.store.groupBookings {
		if gb.EventID == eventID && gb.LeaderID == leaderID && gb.Status != entity.PaymentStatusCancelled {
			copied := *gb
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeGroupBookingRepo) FindByLeaderID(ctx context.Context, leaderID uuid.UUID, limit, offset int) ([]*entity.GroupBooking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var bookings []*entity.GroupBooking
	for _, gb := range r.store.groupBookings {
		if gb.LeaderID == leaderID {
			copied := *gb
			bookings = append(bookings, &copied)
		}
	}
	return bookings, nil
}

func (r *fakeGroupBookingRepo) Complete(ctx context.Context, id uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	gb, ok := r.store.groupBookings[id]
	if !ok || gb.Status != entity.PaymentStatusPending {
		return false, nil
	}
	gb.Status = entity.PaymentStatusCompleted
	return true, nil
}

func (r *fakeGroupBookingRepo) CancelAndRelease(ctx context.Context, id uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	gb, ok := r.store.groupBookings[id]
	if !ok || gb.Status != entity.PaymentStatusPending {
		return false, nil
	}
	gb.Status = entity.PaymentStatusCancelled
	r.store.release(gb.EventID, gb.AttendeeCount)
	return true, nil
}

func (r *fakeGroupBookingRepo) SetTicketCode(ctx context.Context, id uuid.UUID, code string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	gb, ok := r.store.groupBookings[id]
	if !ok || gb.TicketCode != nil {
		return false, nil
	}
	gb.TicketCode = &code
	return true, nil
}

type fakeWaitlistRepo struct{ store *fakeStore }

func (r *fakeWaitlistRepo) Join(ctx context.Context, entry *entity.WaitlistEntry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if len(r.store.joinErrs) > 0 {
		err := r.store.joinErrs[0]
		r.store.joinErrs = r.store.joinErrs[1:]
		if err != nil {
			return err
		}
	}

	if _, ok := r.store.events[entry.EventID]; !ok {
		return repository.ErrNotFound
	}

	maxPosition := 0
	for _, existing := range r.store.waitlist {
		if existing.EventID != entry.EventID {
			continue
		}
		if existing.UserID == entry.UserID {
			return repository.ErrAlreadyWaitlisted
		}
		if existing.Position > maxPosition {
			maxPosition = existing.Position
		}
	}

	entry.Position = maxPosition + 1
	copied := *entry
	r.store.waitlist = append(r.store.waitlist, &copied)
	return nil
}

func (r *fakeWaitlistRepo) Leave(ctx context.Context, eventID, userID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i, entry := range r.store.waitlist {
		if entry.EventID == eventID && entry.UserID == userID {
			r.store.waitlist = append(r.store.waitlist[:i], r.store.waitlist[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeWaitlistRepo) FindByEventAndUser(ctx context.Context, eventID, userID uuid.UUID) (*entity.WaitlistEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, entry := range r.store.waitlist {
		if entry.EventID == eventID && entry.UserID == userID {
			copied := *entry
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeWaitlistRepo) CountByEvent(ctx context.Context, eventID uuid.UUID) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	count := 0
	for _, entry := range r.store.waitlist {
		if entry.EventID == eventID {
			count++
		}
	}
	return count, nil
}

type fakeUserRepo struct{}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return nil, nil
}

type fakeSessionRepo struct{}

func (r *fakeSessionRepo) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	return nil, nil
}

// fakeGateway records initiation requests and replies with a canned result.
type fakeGateway struct {
	mu       sync.Mutex
	requests []payment.InitiateRequest
	err      error
}

func (g *fakeGateway) Initiate(ctx context.Context, req payment.InitiateRequest) (*payment.InitiateResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	if g.err != nil {
		return nil, g.err
	}
	return &payment.InitiateResult{
		Accepted:    true,
		Message:     "Check your phone to complete payment",
		ProviderRef: "ws_CO_test",
	}, nil
}

func (g *fakeGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.requests)
}

// fakeNotifier counts emitted signals.
type fakeNotifier struct {
	mu             sync.Mutex
	countChanges   int
	waitlistEvents int
}

func (n *fakeNotifier) BookingCountChanged(ctx context.Context, eventID uuid.UUID, seatsTaken int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.countChanges++
}

func (n *fakeNotifier) WaitlistChanged(ctx context.Context, eventID uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.waitlistEvents++
}

type testEnv struct {
	store    *fakeStore
	repo     *repository.Repository
	gateway  *fakeGateway
	notifier *fakeNotifier
	service  *Service
}

func newTestEnv() *testEnv {
	store := newFakeStore()
	repo := &repository.Repository{
		User:         &fakeUserRepo{},
		Session:      &fakeSessionRepo{},
		Event:        &fakeEventRepo{store: store},
		Booking:      &fakeBookingRepo{store: store},
		GroupBooking: &fakeGroupBookingRepo{store: store},
		Waitlist:     &fakeWaitlistRepo{store: store},
	}

	gateway := &fakeGateway{}
	notifier := &fakeNotifier{}
	config := &utils.Config{
		Booking: utils.BookingConfig{
			AdmissionRetries:    1,
			DefaultMaxGroupSize: 10,
		},
	}

	return &testEnv{
		store:    store,
		repo:     repo,
		gateway:  gateway,
		notifier: notifier,
		service:  NewService(repo, gateway, notifier, config, zap.NewNop()),
	}
}
