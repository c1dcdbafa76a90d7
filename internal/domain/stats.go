package domain

import "github.com/shopspring/decimal"

type UserStats struct {
	Total        int `json:"total"`
	NewThisMonth int `json:"new_this_month"`
}

type BookingStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	ThisMonth int `json:"this_month"`
}

type RevenueStats struct {
	Total     decimal.Decimal `json:"total"`
	Paid      decimal.Decimal `json:"paid"`
	Pending   decimal.Decimal `json:"pending"`
	ThisMonth decimal.Decimal `json:"this_month"`
}

// DashboardStats is the admin dashboard summary.
type DashboardStats struct {
	Users          UserStats    `json:"users"`
	Bookings       BookingStats `json:"bookings"`
	Revenue        RevenueStats `json:"revenue"`
	RecentBookings []Booking    `json:"recent_bookings"`
}

type DailyBookingPoint struct {
	Date    string          `json:"date"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type PackageBreakdown struct {
	PackageType string          `json:"package_type"`
	Count       int             `json:"count"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// Analytics holds chart data for the admin panel.
type Analytics struct {
	DailyBookings    []DailyBookingPoint `json:"daily_bookings"`
	StatusBreakdown  []StatusCount       `json:"status_breakdown"`
	PackageBreakdown []PackageBreakdown  `json:"package_breakdown"`
}
