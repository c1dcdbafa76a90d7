package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/waynex/travels-api/internal/domain"
	"github.com/waynex/travels-api/pkg/events"
)

type bookingFixture struct {
	svc      *bookingService
	users    *mockUserRepo
	bookings *mockBookingRepo
	invoices *mockInvoiceRepo
	mail     *mockMailer
}

func newBookingFixture() *bookingFixture {
	users := newMockUserRepo()
	bookings := newMockBookingRepo()
	invoices := newMockInvoiceRepo()
	mail := &mockMailer{}
	svc := NewBookingService(bookings, invoices, users, mail, events.NoopEventBus{}).(*bookingService)
	return &bookingFixture{svc: svc, users: users, bookings: bookings, invoices: invoices, mail: mail}
}

func (f *bookingFixture) addUser() *domain.User {
	return f.users.add(&domain.User{
		Email: "jane@example.com", FirstName: "Jane", IsVerified: true,
	})
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCreateBookingComputesTotals(t *testing.T) {
	f := newBookingFixture()
	user := f.addUser()

	booking, invoice, err := f.svc.Create(context.Background(), &domain.CreateBookingRequest{
		UserID:         user.ID,
		PackageName:    "Golden Triangle",
		TravelDate:     time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		NumAdults:      2,
		NumChildren:    1,
		PricePerPerson: dec("1000"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if !booking.TotalAmount.Equal(dec("2700")) {
		t.Errorf("total = %s, want 2700", booking.TotalAmount)
	}
	if !booking.TaxAmount.Equal(dec("486")) {
		t.Errorf("tax = %s, want 486", booking.TaxAmount)
	}
	if !booking.FinalAmount.Equal(dec("3186")) {
		t.Errorf("final = %s, want 3186", booking.FinalAmount)
	}

	refPattern := regexp.MustCompile(`^BK-\d{8}-[A-Z0-9]{4}$`)
	if !refPattern.MatchString(booking.BookingRef) {
		t.Errorf("booking ref %q has unexpected format", booking.BookingRef)
	}
	numPattern := regexp.MustCompile(`^INV-\d{8}-[A-Z0-9]{4}$`)
	if !numPattern.MatchString(invoice.InvoiceNumber) {
		t.Errorf("invoice number %q has unexpected format", invoice.InvoiceNumber)
	}

	if !invoice.TotalAmount.Equal(booking.FinalAmount) {
		t.Errorf("invoice total = %s, want %s", invoice.TotalAmount, booking.FinalAmount)
	}
	if !invoice.BalanceDue.Equal(invoice.TotalAmount) {
		t.Errorf("new invoice balance = %s, want full total", invoice.BalanceDue)
	}
	if got := invoice.DueDate.Sub(invoice.InvoiceDate); got != domain.InvoicePaymentTerm {
		t.Errorf("payment term = %v, want %v", got, domain.InvoicePaymentTerm)
	}

	if f.mail.lastBooking == nil || f.mail.lastTo != user.Email {
		t.Error("expected a booking confirmation email")
	}
}

func TestCreateBookingDiscountTooLarge(t *testing.T) {
	f := newBookingFixture()
	user := f.addUser()

	_, _, err := f.svc.Create(context.Background(), &domain.CreateBookingRequest{
		UserID:         user.ID,
		PackageName:    "Weekend Getaway",
		TravelDate:     time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		NumAdults:      1,
		PricePerPerson: dec("500"),
		DiscountAmount: dec("600"),
	})

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected a validation error, got %v", err)
	}
}

func TestCreateBookingUnknownUser(t *testing.T) {
	f := newBookingFixture()

	_, _, err := f.svc.Create(context.Background(), &domain.CreateBookingRequest{
		UserID:         42,
		PackageName:    "Weekend Getaway",
		TravelDate:     time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		NumAdults:      1,
		PricePerPerson: dec("500"),
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateBookingReprices(t *testing.T) {
	f := newBookingFixture()
	user := f.addUser()

	booking, invoice, err := f.svc.Create(context.Background(), &domain.CreateBookingRequest{
		UserID:         user.ID,
		PackageName:    "Weekend Getaway",
		TravelDate:     time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		NumAdults:      1,
		PricePerPerson: dec("500"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Seed the invoice store and record a partial payment.
	inv := f.invoices.add(invoice)
	if _, err := f.invoices.RecordPayment(context.Background(), inv.ID, dec("100"), ""); err != nil {
		t.Fatalf("record payment: %v", err)
	}

	adults := 2
	updated, err := f.svc.Update(context.Background(), booking.ID, &domain.UpdateBookingRequest{
		NumAdults: &adults,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	// 500 x 2 = 1000; tax 180; final 1180.
	if !updated.FinalAmount.Equal(dec("1180")) {
		t.Errorf("final = %s, want 1180", updated.FinalAmount)
	}

	rewritten, _ := f.invoices.GetByID(context.Background(), inv.ID)
	if !rewritten.TotalAmount.Equal(dec("1180")) {
		t.Errorf("invoice total = %s, want 1180", rewritten.TotalAmount)
	}
	if !rewritten.BalanceDue.Equal(dec("1080")) {
		t.Errorf("invoice balance = %s, want 1080 (payments survive repricing)", rewritten.BalanceDue)
	}
	if rewritten.Status != domain.InvoicePartial {
		t.Errorf("invoice status = %s, want partial", rewritten.Status)
	}
}

func TestUpdateBookingStatusOnly(t *testing.T) {
	f := newBookingFixture()
	user := f.addUser()

	booking, _, err := f.svc.Create(context.Background(), &domain.CreateBookingRequest{
		UserID:         user.ID,
		PackageName:    "Weekend Getaway",
		TravelDate:     time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		NumAdults:      1,
		PricePerPerson: dec("500"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	status := "cancelled"
	updated, err := f.svc.Update(context.Background(), booking.ID, &domain.UpdateBookingRequest{
		Status: &status,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != domain.BookingCancelled {
		t.Errorf("status = %s, want cancelled", updated.Status)
	}
	// Amounts untouched.
	if !updated.FinalAmount.Equal(booking.FinalAmount) {
		t.Errorf("final changed from %s to %s on a status-only update", booking.FinalAmount, updated.FinalAmount)
	}
}

func TestDeleteBookingNotFound(t *testing.T) {
	f := newBookingFixture()
	if err := f.svc.Delete(context.Background(), 99); !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}
