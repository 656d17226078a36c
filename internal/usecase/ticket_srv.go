package usecase

import (
	"context"
	"encoding/base64"
	"fmt"

	"event-booking/internal/data/entity"
	"event-booking/internal/data/repository"
	"event-booking/pkg/monitoring"
	"event-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

const qrSize = 300 // pixels

// TicketService mints the credential that proves a completed booking.
// Issuance is idempotent: re-invoking for a booking that already holds a
// credential returns the existing one.
type TicketService interface {
	Issue(ctx context.Context, bookingID uuid.UUID) (string, error)
	IssueGroup(ctx context.Context, groupBookingID uuid.UUID) (string, error)
	QRDataURI(code string) (string, error)
}

type ticketService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewTicketService(repo *repository.Repository, log *zap.Logger) TicketService {
	return &ticketService{
		repo: repo,
		log:  log.With(zap.String("service", "ticket")),
	}
}

func (s *ticketService) Issue(ctx context.Context, bookingID uuid.UUID) (string, error) {
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return "", fmt.Errorf("issue ticket: %w", err)
	}

	if booking.Status != entity.PaymentStatusCompleted {
		return "", fmt.Errorf("%w: ticket requires a completed booking, got %s", ErrInvalidState, booking.Status)
	}

	if booking.TicketCode != nil {
		return *booking.TicketCode, nil
	}

	code := utils.GenerateTicketCode(bookingID)
	stored, err := s.repo.Booking.SetTicketCode(ctx, bookingID, code)
	if err != nil {
		return "", fmt.Errorf("issue ticket: %w", err)
	}

	if !stored {
		// Another issuer won the race; return its credential.
		booking, err = s.repo.Booking.FindByID(ctx, bookingID)
		if err != nil {
			return "", fmt.Errorf("issue ticket: %w", err)
		}
		if booking.TicketCode == nil {
			return "", fmt.Errorf("booking %s has no ticket code after concurrent issue", bookingID.String())
		}
		return *booking.TicketCode, nil
	}

	monitoring.TicketsIssued.Inc()
	s.log.Info("Ticket issued",
		zap.String("booking_id", bookingID.String()),
		zap.String("ticket_code", code),
	)

	return code, nil
}

func (s *ticketService) IssueGroup(ctx context.Context, groupBookingID uuid.UUID) (string, error) {
	gb, err := s.repo.GroupBooking.FindByID(ctx, groupBookingID)
	if err != nil {
		return "", fmt.Errorf("issue group ticket: %w", err)
	}

	if gb.Status != entity.PaymentStatusCompleted {
		return "", fmt.Errorf("%w: ticket requires a completed booking, got %s", ErrInvalidState, gb.Status)
	}

	if gb.TicketCode != nil {
		return *gb.TicketCode, nil
	}

	code := utils.GenerateTicketCode(groupBookingID)
	stored, err := s.repo.GroupBooking.SetTicketCode(ctx, groupBookingID, code)
	if err != nil {
		return "", fmt.Errorf("issue group ticket: %w", err)
	}

	if !stored {
		gb, err = s.repo.GroupBooking.FindByID(ctx, groupBookingID)
		if err != nil {
			return "", fmt.Errorf("issue group ticket: %w", err)
		}
		if gb.TicketCode == nil {
			return "", fmt.Errorf("group booking %s has no ticket code after concurrent issue", groupBookingID.String())
		}
		return *gb.TicketCode, nil
	}

	monitoring.TicketsIssued.Inc()
	s.log.Info("Group ticket issued",
		zap.String("group_booking_id", groupBookingID.String()),
		zap.String("ticket_code", code),
	)

	return code, nil
}

// QRDataURI renders the credential as a PNG QR code wrapped in a data URI,
// ready for direct embedding in an <img> tag or an email.
func (s *ticketService) QRDataURI(code string) (string, error) {
	png, err := qrcode.Encode(code, qrcode.Medium, qrSize)
	if err != nil {
		return "", fmt.Errorf("encode ticket QR: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
