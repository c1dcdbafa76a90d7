package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/waynex/travels-api/internal/domain"
	"github.com/waynex/travels-api/internal/ident"
	"github.com/waynex/travels-api/internal/mailer"
	"github.com/waynex/travels-api/internal/pricing"
	"github.com/waynex/travels-api/internal/repo/postgres"
	"github.com/waynex/travels-api/pkg/events"
	"github.com/waynex/travels-api/pkg/logger"
)

var ErrBookingNotFound = errors.New("booking not found")

type BookingService interface {
	Create(ctx context.Context, req *domain.CreateBookingRequest) (*domain.Booking, *domain.Invoice, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByRef(ctx context.Context, ref string) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingFilter, limit, offset int) ([]domain.Booking, int, error)
	Update(ctx context.Context, id int64, req *domain.UpdateBookingRequest) (*domain.Booking, error)
	Delete(ctx context.Context, id int64) error
}

type bookingService struct {
	bookingRepo postgres.BookingRepository
	invoiceRepo postgres.InvoiceRepository
	userRepo    postgres.UserRepository
	mailer      mailer.Service
	eventBus    events.EventBus
	now         func() time.Time
}

func NewBookingService(
	bookingRepo postgres.BookingRepository,
	invoiceRepo postgres.InvoiceRepository,
	userRepo postgres.UserRepository,
	mailer mailer.Service,
	eventBus events.EventBus,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		invoiceRepo: invoiceRepo,
		userRepo:    userRepo,
		mailer:      mailer,
		eventBus:    eventBus,
		now:         time.Now,
	}
}

func (s *bookingService) Create(ctx context.Context, req *domain.CreateBookingRequest) (*domain.Booking, *domain.Invoice, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, nil, domain.ErrNotFound
	}

	quote, err := pricing.Compute(pricing.Defaults(
		req.PricePerPerson, req.NumAdults, req.NumChildren, req.DiscountAmount))
	if err != nil {
		return nil, nil, err
	}

	now := s.now()

	ref, err := ident.NewBookingRef(ctx, now, s.bookingRepo.RefExists)
	if err != nil {
		return nil, nil, err
	}
	invoiceNumber, err := ident.NewInvoiceNumber(ctx, now, s.invoiceRepo.NumberExists)
	if err != nil {
		return nil, nil, err
	}

	booking := &domain.Booking{
		BookingRef:      ref,
		UserID:          user.ID,
		UserEmail:       user.Email,
		OrderType:       domain.OrderType(req.OrderType),
		PackageName:     req.PackageName,
		PackageType:     req.PackageType,
		Destination:     req.Destination,
		TravelDate:      req.TravelDate,
		ReturnDate:      req.ReturnDate,
		NumAdults:       req.NumAdults,
		NumChildren:     req.NumChildren,
		PricePerPerson:  req.PricePerPerson,
		TotalAmount:     quote.TotalAmount,
		TaxAmount:       quote.TaxAmount,
		DiscountAmount:  req.DiscountAmount,
		FinalAmount:     quote.FinalAmount,
		Status:          domain.BookingPending,
		PaymentStatus:   domain.PaymentUnpaid,
		SpecialRequests: req.SpecialRequests,
	}

	invoice := &domain.Invoice{
		InvoiceNumber:  invoiceNumber,
		InvoiceDate:    now,
		DueDate:        now.Add(domain.InvoicePaymentTerm),
		Subtotal:       quote.TotalAmount,
		TaxAmount:      quote.TaxAmount,
		DiscountAmount: req.DiscountAmount,
		TotalAmount:    quote.FinalAmount,
		BalanceDue:     quote.FinalAmount,
		Status:         domain.InvoiceUnpaid,
	}

	booking, invoice, err = s.bookingRepo.CreateWithInvoice(ctx, booking, invoice)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create booking: %w", err)
	}

	if err := s.eventBus.Publish(ctx, events.BookingCreated, events.BookingCreatedEvent{
		BookingID:   booking.ID,
		BookingRef:  booking.BookingRef,
		UserID:      booking.UserID,
		UserEmail:   booking.UserEmail,
		OrderType:   string(booking.OrderType),
		PackageName: booking.PackageName,
		FinalAmount: booking.FinalAmount.StringFixed(2),
		TravelDate:  booking.TravelDate,
		CreatedAt:   booking.BookingDate,
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish booking created event", "error", err, "booking_ref", booking.BookingRef)
	}

	if err := s.mailer.SendBookingConfirmation(user.Email, user.FirstName, booking, invoice); err != nil {
		logger.ErrorContext(ctx, "Failed to send booking confirmation", "error", err, "booking_ref", booking.BookingRef)
	}

	return booking, invoice, nil
}

func (s *bookingService) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	return booking, nil
}

func (s *bookingService) GetByRef(ctx context.Context, ref string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByRef(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	return booking, nil
}

func (s *bookingService) List(ctx context.Context, filter domain.BookingFilter, limit, offset int) ([]domain.Booking, int, error) {
	return s.bookingRepo.List(ctx, filter, limit, offset)
}

func (s *bookingService) Update(ctx context.Context, id int64, req *domain.UpdateBookingRequest) (*domain.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	applyBookingPatch(booking, req)

	if req.RepricingNeeded() {
		quote, err := pricing.Compute(pricing.Defaults(
			booking.PricePerPerson, booking.NumAdults, booking.NumChildren, booking.DiscountAmount))
		if err != nil {
			return nil, err
		}
		booking.TotalAmount = quote.TotalAmount
		booking.TaxAmount = quote.TaxAmount
		booking.FinalAmount = quote.FinalAmount
	}

	updated, err := s.bookingRepo.Update(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	if updated == nil {
		return nil, ErrBookingNotFound
	}

	if req.RepricingNeeded() {
		if err := s.rewriteInvoice(ctx, updated); err != nil {
			return nil, err
		}
	}

	subject := events.BookingUpdated
	if req.Status != nil && domain.BookingStatus(*req.Status) == domain.BookingCancelled {
		subject = events.BookingCanceled
	}
	if err := s.eventBus.Publish(ctx, subject, events.BookingCreatedEvent{
		BookingID:   updated.ID,
		BookingRef:  updated.BookingRef,
		UserID:      updated.UserID,
		UserEmail:   updated.UserEmail,
		OrderType:   string(updated.OrderType),
		PackageName: updated.PackageName,
		FinalAmount: updated.FinalAmount.StringFixed(2),
		TravelDate:  updated.TravelDate,
		CreatedAt:   updated.BookingDate,
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish booking updated event", "error", err, "booking_ref", updated.BookingRef)
	}

	return updated, nil
}

// rewriteInvoice syncs the invoice with repriced booking amounts. Payments
// already recorded stay; the balance is what remains of the new total.
func (s *bookingService) rewriteInvoice(ctx context.Context, booking *domain.Booking) error {
	invoice, err := s.invoiceRepo.GetByBookingID(ctx, booking.ID)
	if err != nil {
		return fmt.Errorf("failed to get invoice: %w", err)
	}
	if invoice == nil {
		return nil
	}

	invoice.Subtotal = booking.TotalAmount
	invoice.TaxAmount = booking.TaxAmount
	invoice.DiscountAmount = booking.DiscountAmount
	invoice.TotalAmount = booking.FinalAmount
	invoice.BalanceDue = booking.FinalAmount.Sub(invoice.PaidAmount)
	invoice.Status = domain.StatusForBalance(invoice.PaidAmount, invoice.TotalAmount)

	if _, err := s.invoiceRepo.UpdateAmounts(ctx, invoice); err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}
	return nil
}

func applyBookingPatch(b *domain.Booking, req *domain.UpdateBookingRequest) {
	if req.PackageName != nil {
		b.PackageName = *req.PackageName
	}
	if req.PackageType != nil {
		b.PackageType = *req.PackageType
	}
	if req.Destination != nil {
		b.Destination = *req.Destination
	}
	if req.TravelDate != nil {
		b.TravelDate = *req.TravelDate
	}
	if req.ReturnDate != nil {
		b.ReturnDate = req.ReturnDate
	}
	if req.NumAdults != nil {
		b.NumAdults = *req.NumAdults
	}
	if req.NumChildren != nil {
		b.NumChildren = *req.NumChildren
	}
	if req.PricePerPerson != nil {
		b.PricePerPerson = *req.PricePerPerson
	}
	if req.DiscountAmount != nil {
		b.DiscountAmount = *req.DiscountAmount
	}
	if req.Status != nil {
		b.Status, _ = domain.ParseBookingStatus(*req.Status)
	}
	if req.PaymentStatus != nil {
		b.PaymentStatus, _ = domain.ParsePaymentStatus(*req.PaymentStatus)
	}
	if req.SpecialRequests != nil {
		b.SpecialRequests = *req.SpecialRequests
	}
	if req.Notes != nil {
		b.Notes = *req.Notes
	}
}

func (s *bookingService) Delete(ctx context.Context, id int64) error {
	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrBookingNotFound
		}
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	return nil
}
