package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceUnpaid    InvoiceStatus = "unpaid"
	InvoicePartial   InvoiceStatus = "partial"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

type Invoice struct {
	ID            int64     `json:"id"`
	InvoiceNumber string    `json:"invoice_number"`
	BookingID     int64     `json:"booking_id"`
	InvoiceDate   time.Time `json:"invoice_date"`
	DueDate       time.Time `json:"due_date"`

	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`

	PaidAmount decimal.Decimal `json:"paid_amount"`
	BalanceDue decimal.Decimal `json:"balance_due"`

	Status InvoiceStatus `json:"status"`
	Notes  string        `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InvoicePaymentTerm is how long a customer has to settle an invoice.
const InvoicePaymentTerm = 7 * 24 * time.Hour

// StatusForBalance derives the invoice status from the amount paid so far.
func StatusForBalance(paid, total decimal.Decimal) InvoiceStatus {
	switch {
	case paid.LessThanOrEqual(decimal.Zero):
		return InvoiceUnpaid
	case paid.GreaterThanOrEqual(total):
		return InvoicePaid
	default:
		return InvoicePartial
	}
}

type RecordPaymentRequest struct {
	PaidAmount decimal.Decimal `json:"paid_amount"`
	Notes      string          `json:"notes,omitempty"`
}

func (r *RecordPaymentRequest) Validate() error {
	if r.PaidAmount.IsNegative() {
		return Invalid("paid_amount", "must not be negative")
	}
	return nil
}
