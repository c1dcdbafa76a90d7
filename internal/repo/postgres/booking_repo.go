package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/waynex/travels-api/internal/domain"
)

type BookingRepository interface {
	// CreateWithInvoice persists the booking and its invoice in one
	// transaction so a booking can never exist without an invoice.
	CreateWithInvoice(ctx context.Context, b *domain.Booking, inv *domain.Invoice) (*domain.Booking, *domain.Invoice, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByRef(ctx context.Context, ref string) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingFilter, limit, offset int) ([]domain.Booking, int, error)
	Update(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	Delete(ctx context.Context, id int64) error
	RefExists(ctx context.Context, ref string) (bool, error)
}

type bookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &bookingRepository{pool: pool}
}

const bookingCols = `id, booking_ref, user_id, user_email, order_type, package_name,
	package_type, destination, travel_date, return_date, num_adults, num_children,
	price_per_person, total_amount, tax_amount, discount_amount, final_amount,
	status, payment_status, special_requests, notes, booking_date, updated_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	var packageType, destination, specialRequests, notes *string
	err := row.Scan(
		&b.ID, &b.BookingRef, &b.UserID, &b.UserEmail, &b.OrderType, &b.PackageName,
		&packageType, &destination, &b.TravelDate, &b.ReturnDate, &b.NumAdults, &b.NumChildren,
		&b.PricePerPerson, &b.TotalAmount, &b.TaxAmount, &b.DiscountAmount, &b.FinalAmount,
		&b.Status, &b.PaymentStatus, &specialRequests, &notes, &b.BookingDate, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if packageType != nil {
		b.PackageType = *packageType
	}
	if destination != nil {
		b.Destination = *destination
	}
	if specialRequests != nil {
		b.SpecialRequests = *specialRequests
	}
	if notes != nil {
		b.Notes = *notes
	}
	return &b, nil
}

func (r *bookingRepository) CreateWithInvoice(ctx context.Context, b *domain.Booking, inv *domain.Invoice) (*domain.Booking, *domain.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	const insertBooking = `
		INSERT INTO bookings (booking_ref, user_id, user_email, order_type, package_name,
			package_type, destination, travel_date, return_date, num_adults, num_children,
			price_per_person, total_amount, tax_amount, discount_amount, final_amount,
			status, payment_status, special_requests)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17, $18, NULLIF($19, ''))
		RETURNING ` + bookingCols

	created, err := scanBooking(tx.QueryRow(ctx, insertBooking,
		b.BookingRef, b.UserID, b.UserEmail, b.OrderType, b.PackageName,
		b.PackageType, b.Destination, b.TravelDate, b.ReturnDate, b.NumAdults, b.NumChildren,
		b.PricePerPerson, b.TotalAmount, b.TaxAmount, b.DiscountAmount, b.FinalAmount,
		b.Status, b.PaymentStatus, b.SpecialRequests,
	))
	if err != nil {
		return nil, nil, fmt.Errorf("insert booking: %w", err)
	}

	const insertInvoice = `
		INSERT INTO invoices (invoice_number, booking_id, invoice_date, due_date,
			subtotal, tax_amount, discount_amount, total_amount, paid_amount, balance_due, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + invoiceCols

	createdInv, err := scanInvoice(tx.QueryRow(ctx, insertInvoice,
		inv.InvoiceNumber, created.ID, inv.InvoiceDate, inv.DueDate,
		inv.Subtotal, inv.TaxAmount, inv.DiscountAmount, inv.TotalAmount,
		inv.PaidAmount, inv.BalanceDue, inv.Status,
	))
	if err != nil {
		return nil, nil, fmt.Errorf("insert invoice: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit tx: %w", err)
	}

	return created, createdInv, nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	b, err := scanBooking(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return b, err
}

func (r *bookingRepository) GetByRef(ctx context.Context, ref string) (*domain.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE booking_ref = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	b, err := scanBooking(r.pool.QueryRow(ctx, q, ref))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return b, err
}

const bookingFilterClause = `
	($1::bigint IS NULL OR user_id = $1)
	AND ($2::text IS NULL OR status = $2)
	AND ($3::text IS NULL OR payment_status = $3)
	AND ($4 = '' OR booking_ref ILIKE '%' || $4 || '%'
		OR user_email ILIKE '%' || $4 || '%' OR destination ILIKE '%' || $4 || '%')
	AND ($5::timestamptz IS NULL OR booking_date >= $5)
	AND ($6::timestamptz IS NULL OR booking_date <= $6)`

func (r *bookingRepository) List(ctx context.Context, filter domain.BookingFilter, limit, offset int) ([]domain.Booking, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	args := []interface{}{filter.UserID, filter.Status, filter.PaymentStatus, filter.Search, filter.From, filter.To}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM bookings WHERE `+bookingFilterClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + bookingCols + ` FROM bookings WHERE ` + bookingFilterClause + `
		ORDER BY booking_date DESC
		LIMIT $7 OFFSET $8`

	rows, err := r.pool.Query(ctx, q, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, *b)
	}

	return bookings, total, rows.Err()
}

func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	const q = `
		UPDATE bookings
		SET package_name = $2, package_type = NULLIF($3, ''), destination = NULLIF($4, ''),
			travel_date = $5, return_date = $6, num_adults = $7, num_children = $8,
			price_per_person = $9, total_amount = $10, tax_amount = $11,
			discount_amount = $12, final_amount = $13, status = $14, payment_status = $15,
			special_requests = NULLIF($16, ''), notes = NULLIF($17, ''), updated_at = now()
		WHERE id = $1
		RETURNING ` + bookingCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	updated, err := scanBooking(r.pool.QueryRow(ctx, q,
		b.ID, b.PackageName, b.PackageType, b.Destination,
		b.TravelDate, b.ReturnDate, b.NumAdults, b.NumChildren,
		b.PricePerPerson, b.TotalAmount, b.TaxAmount,
		b.DiscountAmount, b.FinalAmount, b.Status, b.PaymentStatus,
		b.SpecialRequests, b.Notes,
	))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return updated, err
}

func (r *bookingRepository) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM bookings WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *bookingRepository) RefExists(ctx context.Context, ref string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM bookings WHERE booking_ref = $1)`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var exists bool
	err := r.pool.QueryRow(ctx, q, ref).Scan(&exists)
	return exists, err
}
