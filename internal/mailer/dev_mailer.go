package mailer

import (
	"github.com/waynex/travels-api/internal/domain"
	"github.com/waynex/travels-api/pkg/logger"
)

// DevMailer logs emails instead of sending them.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) SendOTPEmail(toEmail, toName, code string) error {
	logger.Info("[DEV MAIL] OTP email",
		"to", toEmail,
		"name", toName,
		"code", code,
	)
	return nil
}

func (d *DevMailer) SendBookingConfirmation(toEmail, toName string, booking *domain.Booking, invoice *domain.Invoice) error {
	logger.Info("[DEV MAIL] Booking confirmation",
		"to", toEmail,
		"name", toName,
		"booking_ref", booking.BookingRef,
		"invoice_number", invoice.InvoiceNumber,
		"total", invoice.TotalAmount.StringFixed(2),
	)
	return nil
}
