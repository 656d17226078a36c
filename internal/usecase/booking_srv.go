package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"event-booking/internal/data/entity"
	"event-booking/internal/data/repository"
	"event-booking/internal/dto/request"
	"event-booking/internal/dto/response"
	"event-booking/internal/notify"
	"event-booking/internal/payment"
	"event-booking/pkg/monitoring"
	"event-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	CreateBooking(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	CreateGroupBooking(ctx context.Context, userID string, req *request.CreateGroupBookingRequest) (*response.GroupBookingResponse, error)
	GetUserBookings(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.UserBookingsResponse, error)
	CancelBooking(ctx context.Context, userID, bookingID string) error
	GetTicket(ctx context.Context, userID, bookingID string) (*response.TicketResponse, error)

	// HandlePaymentResult consumes the gateway's asynchronous confirmation.
	// It is safe to call any number of times for the same booking.
	HandlePaymentResult(ctx context.Context, req *request.PaymentCallbackRequest) error
}

type bookingService struct {
	repo     *repository.Repository
	capacity CapacityService
	tickets  TicketService
	gateway  payment.Gateway
	notifier notify.Notifier
	config   *utils.Config
	log      *zap.Logger
}

func NewBookingService(
	repo *repository.Repository,
	capacity CapacityService,
	tickets TicketService,
	gateway payment.Gateway,
	notifier notify.Notifier,
	config *utils.Config,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		repo:     repo,
		capacity: capacity,
		tickets:  tickets,
		gateway:  gateway,
		notifier: notifier,
		config:   config,
		log:      log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, userID string, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user ID %s", ErrValidation, userID)
	}

	eventUUID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid event ID %s", ErrValidation, req.EventID)
	}

	event, err := s.repo.Event.FindByID(ctx, eventUUID)
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	if !event.Published {
		return nil, fmt.Errorf("create booking: %w", repository.ErrNotFound)
	}

	if !event.IsFree && req.PhoneNumber == "" {
		return nil, fmt.Errorf("%w: phone number is required for paid events", ErrValidation)
	}

	// Advisory ledger read before the atomic reserve. The reserve transaction
	// re-checks under the event row lock, so this only saves a write attempt.
	hasRoom, err := s.capacity.HasRoom(ctx, eventUUID, 1)
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	if !hasRoom {
		monitoring.BookingAttempts.WithLabelValues("individual", "full").Inc()
		return nil, repository.ErrEventFull
	}

	now := time.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		OrderID: utils.GenerateOrderRef("BOOK"),
		EventID: eventUUID,
		UserID:  userUUID,
		Amount:  Quote(event, 1, now),
		Status:  entity.PaymentStatusPending,
	}
	if req.PhoneNumber != "" {
		booking.PayerPhone = &req.PhoneNumber
	}

	if err := s.admit(ctx, func() error {
		return s.repo.Booking.ReserveAndCreate(ctx, booking)
	}); err != nil {
		outcome := "error"
		switch {
		case errors.Is(err, repository.ErrEventFull):
			outcome = "full"
		case errors.Is(err, repository.ErrAlreadyBooked):
			outcome = "duplicate"
		}
		monitoring.BookingAttempts.WithLabelValues("individual", outcome).Inc()
		return nil, fmt.Errorf("create booking: %w", err)
	}

	monitoring.BookingAttempts.WithLabelValues("individual", "admitted").Inc()
	s.emitCountChanged(ctx, eventUUID)

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("order_id", booking.OrderID),
		zap.String("event_id", req.EventID),
		zap.String("user_id", userID),
		zap.String("amount", booking.Amount.StringFixed(2)),
	)

	resp := response.BookingToResponse(booking)

	if event.IsFree {
		// Free events skip the gateway entirely: pending -> completed in the
		// same request, credential issued synchronously.
		if _, err := s.repo.Booking.Complete(ctx, booking.ID); err != nil {
			return nil, fmt.Errorf("complete free booking: %w", err)
		}
		code, err := s.tickets.Issue(ctx, booking.ID)
		if err != nil {
			return nil, fmt.Errorf("issue free booking ticket: %w", err)
		}
		resp.Status = entity.PaymentStatusCompleted
		resp.TicketCode = &code
		return &resp, nil
	}

	result, err := s.gateway.Initiate(ctx, payment.InitiateRequest{
		BookingID:  booking.ID.String(),
		Amount:     booking.Amount.Round(2),
		PayerPhone: req.PhoneNumber,
		IsGroup:    false,
	})
	if err != nil {
		// The booking stays pending; the holder can retry the payment and the
		// external timeout policy cancels abandoned ones.
		s.log.Error("Payment initiation failed",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return nil, err
	}

	resp.PaymentMessage = result.Message
	return &resp, nil
}

func (s *bookingService) CreateGroupBooking(ctx context.Context, userID string, req *request.CreateGroupBookingRequest) (*response.GroupBookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create group booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user ID %s", ErrValidation, userID)
	}

	eventUUID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid event ID %s", ErrValidation, req.EventID)
	}

	event, err := s.repo.Event.FindByID(ctx, eventUUID)
	if err != nil {
		return nil, fmt.Errorf("create group booking: %w", err)
	}
	if !event.Published {
		return nil, fmt.Errorf("create group booking: %w", repository.ErrNotFound)
	}

	if !event.AllowGroupBooking {
		return nil, fmt.Errorf("%w: event does not allow group bookings", ErrValidation)
	}

	maxGroupSize := event.MaxGroupSize
	if maxGroupSize <= 0 {
		maxGroupSize = s.config.Booking.DefaultMaxGroupSize
	}
	if req.AttendeeCount > maxGroupSize {
		return nil, fmt.Errorf("%w: maximum group size is %d attendees", ErrValidation, maxGroupSize)
	}

	if !event.IsFree && req.PhoneNumber == "" {
		return nil, fmt.Errorf("%w: phone number is required for paid events", ErrValidation)
	}

	hasRoom, err := s.capacity.HasRoom(ctx, eventUUID, req.AttendeeCount)
	if err != nil {
		return nil, fmt.Errorf("create group booking: %w", err)
	}
	if !hasRoom {
		monitoring.BookingAttempts.WithLabelValues("group", "full").Inc()
		return nil, repository.ErrEventFull
	}

	now := time.Now()
	gb := &entity.GroupBooking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		OrderID:       utils.GenerateOrderRef("GRP"),
		EventID:       eventUUID,
		LeaderID:      userUUID,
		GroupName:     req.GroupName,
		AttendeeCount: req.AttendeeCount,
		TotalAmount:   Quote(event, req.AttendeeCount, now),
		Status:        entity.PaymentStatusPending,
	}
	if req.PhoneNumber != "" {
		gb.PayerPhone = &req.PhoneNumber
	}

	if err := s.admit(ctx, func() error {
		return s.repo.GroupBooking.ReserveAndCreate(ctx, gb)
	}); err != nil {
		outcome := "error"
		switch {
		case errors.Is(err, repository.ErrEventFull):
			outcome = "full"
		case errors.Is(err, repository.ErrAlreadyBooked):
			outcome = "duplicate"
		}
		monitoring.BookingAttempts.WithLabelValues("group", outcome).Inc()
		return nil, fmt.Errorf("create group booking: %w", err)
	}

	monitoring.BookingAttempts.WithLabelValues("group", "admitted").Inc()
	s.emitCountChanged(ctx, eventUUID)

	s.log.Info("Group booking created",
		zap.String("group_booking_id", gb.ID.String()),
		zap.String("order_id", gb.OrderID),
		zap.String("event_id", req.EventID),
		zap.String("leader_id", userID),
		zap.Int("attendees", gb.AttendeeCount),
		zap.String("total_amount", gb.TotalAmount.StringFixed(2)),
	)

	resp := response.GroupBookingToResponse(gb)

	if event.IsFree {
		if _, err := s.repo.GroupBooking.Complete(ctx, gb.ID); err != nil {
			return nil, fmt.Errorf("complete free group booking: %w", err)
		}
		code, err := s.tickets.IssueGroup(ctx, gb.ID)
		if err != nil {
			return nil, fmt.Errorf("issue free group booking ticket: %w", err)
		}
		resp.Status = entity.PaymentStatusCompleted
		resp.TicketCode = &code
		return &resp, nil
	}

	result, err := s.gateway.Initiate(ctx, payment.InitiateRequest{
		BookingID:  gb.ID.String(),
		Amount:     gb.TotalAmount.Round(2),
		PayerPhone: req.PhoneNumber,
		IsGroup:    true,
	})
	if err != nil {
		s.log.Error("Group payment initiation failed",
			zap.Error(err),
			zap.String("group_booking_id", gb.ID.String()),
		)
		return nil, err
	}

	resp.PaymentMessage = result.Message
	return &resp, nil
}

// admit runs an atomic reserve, retrying once (configurable) after a lost
// race. Still contended after the retries means the remaining seats went to
// someone else, which the caller reports as the event being full.
func (s *bookingService) admit(ctx context.Context, reserve func() error) error {
	retries := s.config.Booking.AdmissionRetries
	if retries < 0 {
		retries = 0
	}

	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		err = reserve()
		if !errors.Is(err, repository.ErrConcurrencyConflict) {
			return err
		}
		s.log.Warn("Admission conflict, retrying", zap.Int("attempt", attempt+1))
	}

	return repository.ErrEventFull
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.UserBookingsResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user ID %s", ErrValidation, userID)
	}

	limit := req.Limit()
	offset := req.Offset()

	bookings, err := s.repo.Booking.FindByUserID(ctx, userUUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("get user bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByUserID(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("count user bookings: %w", err)
	}

	groupBookings, err := s.repo.GroupBooking.FindByLeaderID(ctx, userUUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("get user group bookings: %w", err)
	}

	bookingResponses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		bookingResponses[i] = response.BookingToResponse(booking)
	}

	groupResponses := make([]response.GroupBookingResponse, len(groupBookings))
	for i, gb := range groupBookings {
		groupResponses[i] = response.GroupBookingToResponse(gb)
	}

	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}

	return &response.UserBookingsResponse{
		Bookings:      bookingResponses,
		GroupBookings: groupResponses,
		Pagination: response.PaginationMeta{
			Total:      total,
			Page:       req.Page,
			PerPage:    limit,
			TotalPages: totalPages,
		},
	}, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, userID, bookingID string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("%w: invalid user ID %s", ErrValidation, userID)
	}

	id, err := uuid.Parse(bookingID)
	if err != nil {
		return fmt.Errorf("%w: invalid booking ID %s", ErrValidation, bookingID)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("cancel booking: %w", err)
	}

	if booking.UserID != userUUID {
		return fmt.Errorf("cancel booking: %w", ErrForbidden)
	}

	if booking.Status.Terminal() {
		return fmt.Errorf("%w: booking is already %s", ErrInvalidState, booking.Status)
	}

	cancelled, err := s.repo.Booking.CancelAndRelease(ctx, id)
	if err != nil {
		return fmt.Errorf("cancel booking %s: %w", bookingID, err)
	}
	if !cancelled {
		return fmt.Errorf("%w: booking is already %s", ErrInvalidState, booking.Status)
	}

	s.emitCountChanged(ctx, booking.EventID)
	s.notifier.WaitlistChanged(ctx, booking.EventID)

	s.log.Info("Booking cancelled",
		zap.String("booking_id", bookingID),
		zap.String("order_id", booking.OrderID),
	)

	return nil
}

func (s *bookingService) GetTicket(ctx context.Context, userID, bookingID string) (*response.TicketResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user ID %s", ErrValidation, userID)
	}

	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid booking ID %s", ErrValidation, bookingID)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}

	if booking.UserID != userUUID {
		return nil, fmt.Errorf("get ticket: %w", ErrForbidden)
	}

	// Issue is idempotent, so this returns the existing credential for
	// completed bookings and rejects pending or cancelled ones.
	code, err := s.tickets.Issue(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}

	qr, err := s.tickets.QRDataURI(code)
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}

	return &response.TicketResponse{
		BookingID:  bookingID,
		TicketCode: code,
		QRCode:     qr,
	}, nil
}

func (s *bookingService) HandlePaymentResult(ctx context.Context, req *request.PaymentCallbackRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(req.BookingID)
	if err != nil {
		return fmt.Errorf("%w: invalid booking ID %s", ErrValidation, req.BookingID)
	}

	if req.IsGroup {
		return s.handleGroupPaymentResult(ctx, id, req)
	}
	return s.handleBookingPaymentResult(ctx, id, req)
}

func (s *bookingService) handleBookingPaymentResult(ctx context.Context, id uuid.UUID, req *request.PaymentCallbackRequest) error {
	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("payment callback: %w", err)
	}

	if req.Success {
		completed, err := s.repo.Booking.Complete(ctx, id)
		if err != nil {
			return fmt.Errorf("payment callback: %w", err)
		}
		if !completed {
			// Duplicate or late confirmation for a terminal booking. A prior
			// confirmation may have completed the booking and then died before
			// issuance, so re-issue here; Issue is idempotent.
			monitoring.PaymentCallbacks.WithLabelValues("duplicate").Inc()
			booking, err = s.repo.Booking.FindByID(ctx, id)
			if err != nil {
				return fmt.Errorf("payment callback: %w", err)
			}
			if booking.Status == entity.PaymentStatusCompleted {
				if _, err := s.tickets.Issue(ctx, id); err != nil {
					return fmt.Errorf("payment callback: %w", err)
				}
			}
			s.log.Info("Confirmation for terminal booking",
				zap.String("booking_id", req.BookingID),
				zap.String("status", string(booking.Status)),
			)
			return nil
		}

		monitoring.PaymentCallbacks.WithLabelValues("success").Inc()
		if _, err := s.tickets.Issue(ctx, id); err != nil {
			return fmt.Errorf("payment callback: %w", err)
		}

		s.log.Info("Booking completed",
			zap.String("booking_id", req.BookingID),
			zap.String("order_id", booking.OrderID),
		)
		return nil
	}

	cancelled, err := s.repo.Booking.CancelAndRelease(ctx, id)
	if err != nil {
		return fmt.Errorf("payment callback: %w", err)
	}
	if !cancelled {
		monitoring.PaymentCallbacks.WithLabelValues("duplicate").Inc()
		return nil
	}

	monitoring.PaymentCallbacks.WithLabelValues("failure").Inc()
	s.emitCountChanged(ctx, booking.EventID)
	s.notifier.WaitlistChanged(ctx, booking.EventID)

	s.log.Info("Booking cancelled after failed payment",
		zap.String("booking_id", req.BookingID),
		zap.String("reason", req.Message),
	)
	return nil
}

func (s *bookingService) handleGroupPaymentResult(ctx context.Context, id uuid.UUID, req *request.PaymentCallbackRequest) error {
	gb, err := s.repo.GroupBooking.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("payment callback: %w", err)
	}

	if req.Success {
		completed, err := s.repo.GroupBooking.Complete(ctx, id)
		if err != nil {
			return fmt.Errorf("payment callback: %w", err)
		}
		if !completed {
			monitoring.PaymentCallbacks.WithLabelValues("duplicate").Inc()
			gb, err = s.repo.GroupBooking.FindByID(ctx, id)
			if err != nil {
				return fmt.Errorf("payment callback: %w", err)
			}
			if gb.Status == entity.PaymentStatusCompleted {
				if _, err := s.tickets.IssueGroup(ctx, id); err != nil {
					return fmt.Errorf("payment callback: %w", err)
				}
			}
			s.log.Info("Confirmation for terminal group booking",
				zap.String("group_booking_id", req.BookingID),
				zap.String("status", string(gb.Status)),
			)
			return nil
		}

		monitoring.PaymentCallbacks.WithLabelValues("success").Inc()
		if _, err := s.tickets.IssueGroup(ctx, id); err != nil {
			return fmt.Errorf("payment callback: %w", err)
		}

		s.log.Info("Group booking completed",
			zap.String("group_booking_id", req.BookingID),
			zap.String("order_id", gb.OrderID),
		)
		return nil
	}

	cancelled, err := s.repo.GroupBooking.CancelAndRelease(ctx, id)
	if err != nil {
		return fmt.Errorf("payment callback: %w", err)
	}
	if !cancelled {
		monitoring.PaymentCallbacks.WithLabelValues("duplicate").Inc()
		return nil
	}

	monitoring.PaymentCallbacks.WithLabelValues("failure").Inc()
	s.emitCountChanged(ctx, gb.EventID)
	s.notifier.WaitlistChanged(ctx, gb.EventID)

	s.log.Info("Group booking cancelled after failed payment",
		zap.String("group_booking_id", req.BookingID),
		zap.String("reason", req.Message),
	)
	return nil
}

// emitCountChanged reads the fresh counter and emits the change signal.
// Best-effort: a failed read only skips the notification.
func (s *bookingService) emitCountChanged(ctx context.Context, eventID uuid.UUID) {
	count, err := s.capacity.CurrentCount(ctx, eventID)
	if err != nil {
		s.log.Warn("Failed to read seat count for notification",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
		)
		return
	}
	s.notifier.BookingCountChanged(ctx, eventID, count)
}
