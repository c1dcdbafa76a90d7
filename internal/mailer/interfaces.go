package mailer

import "github.com/waynex/travels-api/internal/domain"

type Service interface {
	SendOTPEmail(toEmail, toName, code string) error
	SendBookingConfirmation(toEmail, toName string, booking *domain.Booking, invoice *domain.Invoice) error
}
