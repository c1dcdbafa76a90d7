package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/waynex/travels-api/internal/domain"
)

type StatsRepository interface {
	Dashboard(ctx context.Context, now time.Time) (*domain.DashboardStats, error)
	Analytics(ctx context.Context, since time.Time) (*domain.Analytics, error)
	// BookingsSince returns all bookings created on or after the cutoff,
	// newest first, for report export.
	BookingsSince(ctx context.Context, since time.Time) ([]domain.Booking, error)
}

type statsRepository struct {
	pool *pgxpool.Pool
}

func NewStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &statsRepository{pool: pool}
}

func (r *statsRepository) Dashboard(ctx context.Context, now time.Time) (*domain.DashboardStats, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var stats domain.DashboardStats

	const usersQ = `
		SELECT count(*),
			count(*) FILTER (WHERE created_at >= $1)
		FROM users`
	if err := r.pool.QueryRow(ctx, usersQ, monthStart).Scan(
		&stats.Users.Total, &stats.Users.NewThisMonth,
	); err != nil {
		return nil, err
	}

	const bookingsQ = `
		SELECT count(*),
			count(*) FILTER (WHERE status = 'pending'),
			count(*) FILTER (WHERE status = 'confirmed'),
			count(*) FILTER (WHERE booking_date >= $1),
			COALESCE(sum(final_amount), 0),
			COALESCE(sum(final_amount) FILTER (WHERE booking_date >= $1), 0)
		FROM bookings`
	if err := r.pool.QueryRow(ctx, bookingsQ, monthStart).Scan(
		&stats.Bookings.Total, &stats.Bookings.Pending, &stats.Bookings.Confirmed,
		&stats.Bookings.ThisMonth, &stats.Revenue.Total, &stats.Revenue.ThisMonth,
	); err != nil {
		return nil, err
	}

	const revenueQ = `
		SELECT COALESCE(sum(paid_amount), 0), COALESCE(sum(balance_due), 0)
		FROM invoices`
	if err := r.pool.QueryRow(ctx, revenueQ).Scan(
		&stats.Revenue.Paid, &stats.Revenue.Pending,
	); err != nil {
		return nil, err
	}

	const recentQ = `SELECT ` + bookingCols + ` FROM bookings ORDER BY booking_date DESC LIMIT 5`
	rows, err := r.pool.Query(ctx, recentQ)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		stats.RecentBookings = append(stats.RecentBookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &stats, nil
}

func (r *statsRepository) Analytics(ctx context.Context, since time.Time) (*domain.Analytics, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var a domain.Analytics

	const dailyQ = `
		SELECT to_char(booking_date::date, 'YYYY-MM-DD'), count(*), COALESCE(sum(final_amount), 0)
		FROM bookings
		WHERE booking_date >= $1
		GROUP BY booking_date::date
		ORDER BY booking_date::date`
	rows, err := r.pool.Query(ctx, dailyQ, since)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var p domain.DailyBookingPoint
		if err := rows.Scan(&p.Date, &p.Count, &p.Revenue); err != nil {
			rows.Close()
			return nil, err
		}
		a.DailyBookings = append(a.DailyBookings, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const statusQ = `SELECT status, count(*) FROM bookings GROUP BY status ORDER BY status`
	rows, err = r.pool.Query(ctx, statusQ)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var s domain.StatusCount
		if err := rows.Scan(&s.Status, &s.Count); err != nil {
			rows.Close()
			return nil, err
		}
		a.StatusBreakdown = append(a.StatusBreakdown, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const packageQ = `
		SELECT COALESCE(package_type, ''), count(*), COALESCE(sum(final_amount), 0)
		FROM bookings
		GROUP BY package_type
		ORDER BY package_type`
	rows, err = r.pool.Query(ctx, packageQ)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var p domain.PackageBreakdown
		if err := rows.Scan(&p.PackageType, &p.Count, &p.Revenue); err != nil {
			rows.Close()
			return nil, err
		}
		a.PackageBreakdown = append(a.PackageBreakdown, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if a.DailyBookings == nil {
		a.DailyBookings = []domain.DailyBookingPoint{}
	}
	if a.StatusBreakdown == nil {
		a.StatusBreakdown = []domain.StatusCount{}
	}
	if a.PackageBreakdown == nil {
		a.PackageBreakdown = []domain.PackageBreakdown{}
	}

	return &a, nil
}

func (r *statsRepository) BookingsSince(ctx context.Context, since time.Time) ([]domain.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE booking_date >= $1 ORDER BY booking_date DESC`

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}

	return bookings, rows.Err()
}
