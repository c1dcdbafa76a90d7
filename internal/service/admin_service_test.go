package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/waynex/travels-api/internal/domain"
	"github.com/waynex/travels-api/pkg/events"
)

type adminFixture struct {
	svc      *adminService
	users    *mockUserRepo
	bookings *mockBookingRepo
	invoices *mockInvoiceRepo
}

func newAdminFixture() *adminFixture {
	users := newMockUserRepo()
	bookings := newMockBookingRepo()
	invoices := newMockInvoiceRepo()
	svc := NewAdminService(users, bookings, invoices, nil, events.NoopEventBus{}).(*adminService)
	return &adminFixture{svc: svc, users: users, bookings: bookings, invoices: invoices}
}

func (f *adminFixture) seedBooking(t *testing.T) (*domain.Booking, *domain.Invoice) {
	t.Helper()
	user := f.users.add(&domain.User{Email: "jane@example.com", IsVerified: true})

	booking, invoice, err := f.bookings.CreateWithInvoice(context.Background(),
		&domain.Booking{
			BookingRef:     "BK-20260901-TEST",
			UserID:         user.ID,
			UserEmail:      user.Email,
			OrderType:      domain.OrderTour,
			PackageName:    "Weekend Getaway",
			TravelDate:     time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
			NumAdults:      1,
			PricePerPerson: dec("500"),
			TotalAmount:    dec("500"),
			TaxAmount:      dec("90"),
			FinalAmount:    dec("590"),
			Status:         domain.BookingPending,
			PaymentStatus:  domain.PaymentUnpaid,
		},
		&domain.Invoice{
			InvoiceNumber: "INV-20260901-TEST",
			Subtotal:      dec("500"),
			TaxAmount:     dec("90"),
			TotalAmount:   dec("590"),
			BalanceDue:    dec("590"),
			Status:        domain.InvoiceUnpaid,
		})
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return booking, f.invoices.add(invoice)
}

func TestDeleteUserProtectsAdmins(t *testing.T) {
	f := newAdminFixture()
	admin := f.users.add(&domain.User{Email: "root@example.com", IsAdmin: true})
	member := f.users.add(&domain.User{Email: "jane@example.com"})

	if err := f.svc.DeleteUser(context.Background(), admin.ID); !errors.Is(err, ErrCannotDeleteAdmin) {
		t.Fatalf("expected ErrCannotDeleteAdmin, got %v", err)
	}
	if err := f.svc.DeleteUser(context.Background(), member.ID); err != nil {
		t.Fatalf("delete member: %v", err)
	}
	if err := f.svc.DeleteUser(context.Background(), 99); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestToggleAdmin(t *testing.T) {
	f := newAdminFixture()
	user := f.users.add(&domain.User{Email: "jane@example.com"})

	toggled, err := f.svc.ToggleAdmin(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !toggled.IsAdmin {
		t.Error("expected user to become admin")
	}

	toggled, err = f.svc.ToggleAdmin(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if toggled.IsAdmin {
		t.Error("expected admin status to toggle off")
	}
}

func TestUpdateBookingStatusSyncsInvoice(t *testing.T) {
	f := newAdminFixture()
	booking, invoice := f.seedBooking(t)

	status := "confirmed"
	paymentStatus := "paid"
	updated, err := f.svc.UpdateBookingStatus(context.Background(), booking.ID, &status, &paymentStatus)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}

	if updated.Status != domain.BookingConfirmed {
		t.Errorf("status = %s, want confirmed", updated.Status)
	}
	if updated.PaymentStatus != domain.PaymentPaid {
		t.Errorf("payment status = %s, want paid", updated.PaymentStatus)
	}

	synced, _ := f.invoices.GetByID(context.Background(), invoice.ID)
	if synced.Status != domain.InvoicePaid {
		t.Errorf("invoice status = %s, want paid", synced.Status)
	}
}

func TestUpdateBookingStatusRejectsUnknown(t *testing.T) {
	f := newAdminFixture()
	booking, _ := f.seedBooking(t)

	status := "teleported"
	_, err := f.svc.UpdateBookingStatus(context.Background(), booking.ID, &status, nil)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected a validation error, got %v", err)
	}
}

func TestRecordPayment(t *testing.T) {
	f := newAdminFixture()
	booking, invoice := f.seedBooking(t)

	partial, err := f.svc.RecordPayment(context.Background(), invoice.ID, &domain.RecordPaymentRequest{
		PaidAmount: dec("200"),
	})
	if err != nil {
		t.Fatalf("record partial: %v", err)
	}
	if partial.Status != domain.InvoicePartial {
		t.Errorf("status = %s, want partial", partial.Status)
	}
	if !partial.BalanceDue.Equal(dec("390")) {
		t.Errorf("balance = %s, want 390", partial.BalanceDue)
	}

	paid, err := f.svc.RecordPayment(context.Background(), invoice.ID, &domain.RecordPaymentRequest{
		PaidAmount: dec("590"),
	})
	if err != nil {
		t.Fatalf("record full: %v", err)
	}
	if paid.Status != domain.InvoicePaid {
		t.Errorf("status = %s, want paid", paid.Status)
	}

	synced, _ := f.bookings.GetByID(context.Background(), booking.ID)
	if synced.PaymentStatus != domain.PaymentPaid {
		t.Errorf("booking payment status = %s, want paid", synced.PaymentStatus)
	}
}

type stubStatsRepo struct {
	bookings []domain.Booking
}

func (s *stubStatsRepo) Dashboard(context.Context, time.Time) (*domain.DashboardStats, error) {
	return &domain.DashboardStats{}, nil
}

func (s *stubStatsRepo) Analytics(context.Context, time.Time) (*domain.Analytics, error) {
	return &domain.Analytics{}, nil
}

func (s *stubStatsRepo) BookingsSince(context.Context, time.Time) ([]domain.Booking, error) {
	return s.bookings, nil
}

func TestWriteBookingsReport(t *testing.T) {
	f := newAdminFixture()
	booking, _ := f.seedBooking(t)
	f.svc.statsRepo = &stubStatsRepo{bookings: []domain.Booking{*booking}}

	var buf bytes.Buffer
	if err := f.svc.WriteBookingsReport(context.Background(), &buf, 30); err != nil {
		t.Fatalf("write report: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "BK-20260901-TEST") {
		t.Errorf("report missing booking ref:\n%s", out)
	}
	if !strings.Contains(out, "Booking Ref") {
		t.Errorf("report missing header:\n%s", out)
	}
}
