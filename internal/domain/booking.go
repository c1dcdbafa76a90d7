package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(strings.ToLower(s)) {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return BookingStatus(strings.ToLower(s)), true
	default:
		return "", false
	}
}

type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch PaymentStatus(strings.ToLower(s)) {
	case PaymentUnpaid, PaymentPartial, PaymentPaid:
		return PaymentStatus(strings.ToLower(s)), true
	default:
		return "", false
	}
}

type OrderType string

const (
	OrderTour OrderType = "tour"
	OrderVisa OrderType = "visa"
)

type Booking struct {
	ID         int64  `json:"id"`
	BookingRef string `json:"booking_ref"`
	UserID     int64  `json:"user_id"`
	UserEmail  string `json:"user_email"`

	OrderType   OrderType  `json:"order_type"`
	PackageName string     `json:"package_name"`
	PackageType string     `json:"package_type,omitempty"`
	Destination string     `json:"destination,omitempty"`
	TravelDate  time.Time  `json:"travel_date"`
	ReturnDate  *time.Time `json:"return_date,omitempty"`
	NumAdults   int        `json:"num_adults"`
	NumChildren int        `json:"num_children"`

	PricePerPerson decimal.Decimal `json:"price_per_person"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FinalAmount    decimal.Decimal `json:"final_amount"`

	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`

	SpecialRequests string `json:"special_requests,omitempty"`
	Notes           string `json:"notes,omitempty"`

	BookingDate time.Time `json:"booking_date"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateBookingRequest struct {
	UserID          int64           `json:"user_id"`
	OrderType       string          `json:"order_type,omitempty"`
	PackageName     string          `json:"package_name"`
	PackageType     string          `json:"package_type,omitempty"`
	Destination     string          `json:"destination,omitempty"`
	TravelDate      time.Time       `json:"travel_date"`
	ReturnDate      *time.Time      `json:"return_date,omitempty"`
	NumAdults       int             `json:"num_adults"`
	NumChildren     int             `json:"num_children"`
	PricePerPerson  decimal.Decimal `json:"price_per_person"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	SpecialRequests string          `json:"special_requests,omitempty"`
}

func (r *CreateBookingRequest) Normalize() {
	r.PackageName = strings.TrimSpace(r.PackageName)
	r.Destination = strings.TrimSpace(r.Destination)
	if r.OrderType == "" {
		r.OrderType = string(OrderTour)
	}
	r.OrderType = strings.ToLower(strings.TrimSpace(r.OrderType))
}

func (r *CreateBookingRequest) Validate() error {
	var v ValidationError
	if r.UserID <= 0 {
		v.Add("user_id", "is required")
	}
	if r.OrderType != string(OrderTour) && r.OrderType != string(OrderVisa) {
		v.Add("order_type", "must be tour or visa")
	}
	if r.PackageName == "" {
		v.Add("package_name", "is required")
	} else if len(r.PackageName) > 255 {
		v.Add("package_name", "must be at most 255 characters")
	}
	if r.TravelDate.IsZero() {
		v.Add("travel_date", "is required")
	}
	if r.NumAdults < 1 {
		v.Add("num_adults", "must be at least 1")
	}
	if r.NumChildren < 0 {
		v.Add("num_children", "must not be negative")
	}
	if r.PricePerPerson.IsNegative() {
		v.Add("price_per_person", "must not be negative")
	}
	if r.DiscountAmount.IsNegative() {
		v.Add("discount_amount", "must not be negative")
	}
	if v.HasErrors() {
		return &v
	}
	return nil
}

type UpdateBookingRequest struct {
	PackageName     *string          `json:"package_name,omitempty"`
	PackageType     *string          `json:"package_type,omitempty"`
	Destination     *string          `json:"destination,omitempty"`
	TravelDate      *time.Time       `json:"travel_date,omitempty"`
	ReturnDate      *time.Time       `json:"return_date,omitempty"`
	NumAdults       *int             `json:"num_adults,omitempty"`
	NumChildren     *int             `json:"num_children,omitempty"`
	PricePerPerson  *decimal.Decimal `json:"price_per_person,omitempty"`
	DiscountAmount  *decimal.Decimal `json:"discount_amount,omitempty"`
	Status          *string          `json:"status,omitempty"`
	PaymentStatus   *string          `json:"payment_status,omitempty"`
	SpecialRequests *string          `json:"special_requests,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
}

func (r *UpdateBookingRequest) Validate() error {
	var v ValidationError
	if r.NumAdults != nil && *r.NumAdults < 1 {
		v.Add("num_adults", "must be at least 1")
	}
	if r.NumChildren != nil && *r.NumChildren < 0 {
		v.Add("num_children", "must not be negative")
	}
	if r.PricePerPerson != nil && r.PricePerPerson.IsNegative() {
		v.Add("price_per_person", "must not be negative")
	}
	if r.DiscountAmount != nil && r.DiscountAmount.IsNegative() {
		v.Add("discount_amount", "must not be negative")
	}
	if r.Status != nil {
		if _, ok := ParseBookingStatus(*r.Status); !ok {
			v.Add("status", "unknown status")
		}
	}
	if r.PaymentStatus != nil {
		if _, ok := ParsePaymentStatus(*r.PaymentStatus); !ok {
			v.Add("payment_status", "unknown payment status")
		}
	}
	if v.HasErrors() {
		return &v
	}
	return nil
}

// RepricingNeeded reports whether the patch touches any pricing input.
func (r *UpdateBookingRequest) RepricingNeeded() bool {
	return r.PricePerPerson != nil || r.DiscountAmount != nil ||
		r.NumAdults != nil || r.NumChildren != nil
}

// BookingFilter narrows list queries.
type BookingFilter struct {
	UserID        *int64
	Status        *BookingStatus
	PaymentStatus *PaymentStatus
	Search        string
	From          *time.Time
	To            *time.Time
}
