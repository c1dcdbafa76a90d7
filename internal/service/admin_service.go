package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/waynex/travels-api/internal/domain"
	"github.com/waynex/travels-api/internal/report"
	"github.com/waynex/travels-api/internal/repo/postgres"
	"github.com/waynex/travels-api/pkg/events"
	"github.com/waynex/travels-api/pkg/logger"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrCannotDeleteAdmin = errors.New("cannot delete admin user")
	ErrInvoiceNotFound   = errors.New("invoice not found")
)

type AdminService interface {
	ListUsers(ctx context.Context, search string, limit, offset int) ([]domain.User, int, error)
	DeleteUser(ctx context.Context, id int64) error
	ToggleAdmin(ctx context.Context, id int64) (*domain.User, error)

	UpdateBookingStatus(ctx context.Context, bookingID int64, status, paymentStatus *string) (*domain.Booking, error)

	ListInvoices(ctx context.Context, status *domain.InvoiceStatus, limit, offset int) ([]domain.Invoice, int, error)
	GetInvoice(ctx context.Context, id int64) (*domain.Invoice, error)
	RecordPayment(ctx context.Context, invoiceID int64, req *domain.RecordPaymentRequest) (*domain.Invoice, error)

	Dashboard(ctx context.Context) (*domain.DashboardStats, error)
	Analytics(ctx context.Context, days int) (*domain.Analytics, error)
	WriteBookingsReport(ctx context.Context, w io.Writer, days int) error
}

type adminService struct {
	userRepo    postgres.UserRepository
	bookingRepo postgres.BookingRepository
	invoiceRepo postgres.InvoiceRepository
	statsRepo   postgres.StatsRepository
	eventBus    events.EventBus
	now         func() time.Time
}

func NewAdminService(
	userRepo postgres.UserRepository,
	bookingRepo postgres.BookingRepository,
	invoiceRepo postgres.InvoiceRepository,
	statsRepo postgres.StatsRepository,
	eventBus events.EventBus,
) AdminService {
	return &adminService{
		userRepo:    userRepo,
		bookingRepo: bookingRepo,
		invoiceRepo: invoiceRepo,
		statsRepo:   statsRepo,
		eventBus:    eventBus,
		now:         time.Now,
	}
}

func (s *adminService) ListUsers(ctx context.Context, search string, limit, offset int) ([]domain.User, int, error) {
	return s.userRepo.List(ctx, search, limit, offset)
}

func (s *adminService) DeleteUser(ctx context.Context, id int64) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.IsAdmin {
		return ErrCannotDeleteAdmin
	}
	return s.userRepo.Delete(ctx, id)
}

func (s *adminService) ToggleAdmin(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.ToggleAdmin(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle admin: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateBookingStatus patches booking status fields. A payment status change
// is mirrored onto the booking's invoice.
func (s *adminService) UpdateBookingStatus(ctx context.Context, bookingID int64, status, paymentStatus *string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	if status != nil {
		parsed, ok := domain.ParseBookingStatus(*status)
		if !ok {
			return nil, domain.Invalid("status", "unknown status")
		}
		booking.Status = parsed
	}
	if paymentStatus != nil {
		parsed, ok := domain.ParsePaymentStatus(*paymentStatus)
		if !ok {
			return nil, domain.Invalid("payment_status", "unknown payment status")
		}
		booking.PaymentStatus = parsed
	}

	updated, err := s.bookingRepo.Update(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	if updated == nil {
		return nil, ErrBookingNotFound
	}

	if paymentStatus != nil {
		invoice, err := s.invoiceRepo.GetByBookingID(ctx, updated.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get invoice: %w", err)
		}
		if invoice != nil {
			if err := s.invoiceRepo.SetStatus(ctx, invoice.ID, domain.InvoiceStatus(updated.PaymentStatus)); err != nil {
				return nil, fmt.Errorf("failed to sync invoice status: %w", err)
			}
		}
	}

	return updated, nil
}

func (s *adminService) ListInvoices(ctx context.Context, status *domain.InvoiceStatus, limit, offset int) ([]domain.Invoice, int, error) {
	return s.invoiceRepo.List(ctx, status, limit, offset)
}

func (s *adminService) GetInvoice(ctx context.Context, id int64) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	if invoice == nil {
		return nil, ErrInvoiceNotFound
	}
	return invoice, nil
}

func (s *adminService) RecordPayment(ctx context.Context, invoiceID int64, req *domain.RecordPaymentRequest) (*domain.Invoice, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.RecordPayment(ctx, invoiceID, req.PaidAmount, req.Notes)
	if err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	if invoice == nil {
		return nil, ErrInvoiceNotFound
	}

	// Keep the booking's payment status aligned with the invoice.
	if booking, err := s.bookingRepo.GetByID(ctx, invoice.BookingID); err == nil && booking != nil {
		booking.PaymentStatus = domain.PaymentStatus(invoice.Status)
		if _, err := s.bookingRepo.Update(ctx, booking); err != nil && !errors.Is(err, pgx.ErrNoRows) {
			logger.WarnContext(ctx, "Failed to sync booking payment status", "error", err, "booking_id", booking.ID)
		}
	}

	if invoice.Status == domain.InvoicePaid {
		if err := s.eventBus.Publish(ctx, events.InvoicePaid, events.InvoicePaidEvent{
			InvoiceID:     invoice.ID,
			InvoiceNumber: invoice.InvoiceNumber,
			BookingID:     invoice.BookingID,
			PaidAmount:    invoice.PaidAmount.StringFixed(2),
			BalanceDue:    invoice.BalanceDue.StringFixed(2),
		}); err != nil {
			logger.WarnContext(ctx, "Failed to publish invoice paid event", "error", err, "invoice_id", invoice.ID)
		}
	}

	return invoice, nil
}

func (s *adminService) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	return s.statsRepo.Dashboard(ctx, s.now())
}

func (s *adminService) Analytics(ctx context.Context, days int) (*domain.Analytics, error) {
	if days <= 0 {
		days = 30
	}
	since := s.now().AddDate(0, 0, -days)
	return s.statsRepo.Analytics(ctx, since)
}

func (s *adminService) WriteBookingsReport(ctx context.Context, w io.Writer, days int) error {
	if days <= 0 {
		days = 30
	}
	since := s.now().AddDate(0, 0, -days)
	bookings, err := s.statsRepo.BookingsSince(ctx, since)
	if err != nil {
		return fmt.Errorf("failed to load bookings: %w", err)
	}
	return report.WriteBookingsCSV(w, bookings)
}
