package mailer

import (
	"context"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"

	"github.com/waynex/travels-api/internal/domain"
)

type MailerSendClient struct {
	client  *mailersend.Mailersend
	from    mailersend.From
	enabled bool
}

func NewMailerSend(apiKey, fromName, fromEmail string) *MailerSendClient {
	m := &MailerSendClient{
		enabled: apiKey != "" && fromEmail != "",
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
	}

	if m.enabled {
		m.client = mailersend.NewMailersend(apiKey)
	}

	return m
}

func (m *MailerSendClient) SendOTPEmail(toEmail, toName, code string) error {
	if !m.enabled {
		return domain.ErrConfiguration
	}
	return m.sendEmail(toEmail, toName, otpSubject, otpText(code), otpHTML(code))
}

func (m *MailerSendClient) SendBookingConfirmation(toEmail, toName string, booking *domain.Booking, invoice *domain.Invoice) error {
	if !m.enabled {
		return domain.ErrConfiguration
	}
	return m.sendEmail(toEmail, toName, bookingSubject(booking),
		bookingText(toName, booking, invoice), bookingHTML(toName, booking, invoice))
}

func (m *MailerSendClient) sendEmail(toEmail, toName, subject, text, html string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	msg.SetSubject(subject)

	if strings.TrimSpace(text) != "" {
		msg.SetText(text)
	}
	if strings.TrimSpace(html) != "" {
		msg.SetHTML(html)
	}

	_, err := m.client.Email.Send(ctx, msg)
	return err
}
