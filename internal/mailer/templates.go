package mailer

import (
	"fmt"

	"github.com/waynex/travels-api/internal/domain"
)

const otpSubject = "Your Waynex Travels verification code"

func otpHTML(code string) string {
	return fmt.Sprintf(`
<div style="font-family: Arial, Helvetica, sans-serif; background:#f4f6f8; padding:40px 0;">
  <div style="max-width:520px;margin:auto;background:white;border-radius:10px;padding:30px;">
    <h2 style="color:#111;margin-bottom:10px;">Verify your email</h2>
    <p style="color:#444;font-size:15px;">
      Use the verification code below to complete your request on <b>Waynex Travels</b>:
    </p>
    <div style="text-align:center;margin:30px 0;">
      <span style="display:inline-block;font-size:34px;letter-spacing:6px;font-weight:bold;color:#2563eb;background:#eff6ff;padding:16px 28px;border-radius:8px;">%s</span>
    </div>
    <p style="color:#555;font-size:14px;">This code will expire in <b>5 minutes</b>.</p>
    <p style="color:#777;font-size:13px;margin-top:30px;">
      If you didn't request this code, you can safely ignore this email.
    </p>
  </div>
</div>`, code)
}

func otpText(code string) string {
	return fmt.Sprintf("Your Waynex Travels verification code is: %s\n\nThis code expires in 5 minutes. If you didn't request it, ignore this email.", code)
}

func bookingSubject(b *domain.Booking) string {
	return fmt.Sprintf("Booking confirmed: %s (%s)", b.PackageName, b.BookingRef)
}

func bookingHTML(toName string, b *domain.Booking, inv *domain.Invoice) string {
	return fmt.Sprintf(`
<h2>Thank you for booking with Waynex Travels!</h2>
<p>Hi %s,</p>
<p>Your booking <strong>%s</strong> for <strong>%s</strong> is confirmed for %s.</p>
<p>Invoice <strong>%s</strong>: total %s, due by %s.</p>
<p>You can view your booking any time from your Waynex Travels dashboard.</p>`,
		toName, b.BookingRef, b.PackageName, b.TravelDate.Format("02 Jan 2006"),
		inv.InvoiceNumber, inv.TotalAmount.StringFixed(2), inv.DueDate.Format("02 Jan 2006"))
}

func bookingText(toName string, b *domain.Booking, inv *domain.Invoice) string {
	return fmt.Sprintf("Hi %s,\n\nYour booking %s for %s is confirmed for %s.\nInvoice %s: total %s, due by %s.",
		toName, b.BookingRef, b.PackageName, b.TravelDate.Format("02 Jan 2006"),
		inv.InvoiceNumber, inv.TotalAmount.StringFixed(2), inv.DueDate.Format("02 Jan 2006"))
}
