// Package report renders admin exports.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/waynex/travels-api/internal/domain"
)

var bookingsHeader = []string{
	"Booking Ref", "User Email", "Package Name", "Package Type", "Destination",
	"Travel Date", "Return Date", "Adults", "Children", "Total Amount",
	"Tax", "Discount", "Final Amount", "Status", "Payment Status", "Booking Date",
}

// WriteBookingsCSV streams the bookings report in the column order the
// admin dashboard expects.
func WriteBookingsCSV(w io.Writer, bookings []domain.Booking) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(bookingsHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for i := range bookings {
		b := &bookings[i]

		returnDate := ""
		if b.ReturnDate != nil {
			returnDate = b.ReturnDate.Format("2006-01-02")
		}

		record := []string{
			b.BookingRef,
			b.UserEmail,
			b.PackageName,
			b.PackageType,
			b.Destination,
			b.TravelDate.Format("2006-01-02"),
			returnDate,
			fmt.Sprintf("%d", b.NumAdults),
			fmt.Sprintf("%d", b.NumChildren),
			b.TotalAmount.StringFixed(2),
			b.TaxAmount.StringFixed(2),
			b.DiscountAmount.StringFixed(2),
			b.FinalAmount.StringFixed(2),
			string(b.Status),
			string(b.PaymentStatus),
			b.BookingDate.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Filename returns the attachment name for a bookings export.
func Filename(now time.Time) string {
	return fmt.Sprintf("bookings_report_%s.csv", now.Format("20060102"))
}
