package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/waynex/travels-api/internal/domain"
)

type InvoiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Invoice, error)
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.Invoice, error)
	List(ctx context.Context, status *domain.InvoiceStatus, limit, offset int) ([]domain.Invoice, int, error)
	// UpdateAmounts rewrites the invoice figures after its booking is repriced.
	UpdateAmounts(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error)
	RecordPayment(ctx context.Context, id int64, paid decimal.Decimal, notes string) (*domain.Invoice, error)
	SetStatus(ctx context.Context, id int64, status domain.InvoiceStatus) error
	NumberExists(ctx context.Context, number string) (bool, error)
}

type invoiceRepository struct {
	pool *pgxpool.Pool
}

func NewInvoiceRepository(pool *pgxpool.Pool) InvoiceRepository {
	return &invoiceRepository{pool: pool}
}

const invoiceCols = `id, invoice_number, booking_id, invoice_date, due_date,
	subtotal, tax_amount, discount_amount, total_amount, paid_amount, balance_due,
	status, notes, created_at, updated_at`

func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var inv domain.Invoice
	var notes *string
	err := row.Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.BookingID, &inv.InvoiceDate, &inv.DueDate,
		&inv.Subtotal, &inv.TaxAmount, &inv.DiscountAmount, &inv.TotalAmount,
		&inv.PaidAmount, &inv.BalanceDue,
		&inv.Status, &notes, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if notes != nil {
		inv.Notes = *notes
	}
	return &inv, nil
}

func (r *invoiceRepository) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	const q = `SELECT ` + invoiceCols + ` FROM invoices WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	inv, err := scanInvoice(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return inv, err
}

func (r *invoiceRepository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Invoice, error) {
	const q = `SELECT ` + invoiceCols + ` FROM invoices WHERE booking_id = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	inv, err := scanInvoice(r.pool.QueryRow(ctx, q, bookingID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return inv, err
}

func (r *invoiceRepository) List(ctx context.Context, status *domain.InvoiceStatus, limit, offset int) ([]domain.Invoice, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM invoices WHERE ($1::text IS NULL OR status = $1)`, status,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	const q = `
		SELECT ` + invoiceCols + `
		FROM invoices
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY invoice_date DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, q, status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var invoices []domain.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		invoices = append(invoices, *inv)
	}

	return invoices, total, rows.Err()
}

func (r *invoiceRepository) UpdateAmounts(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	const q = `
		UPDATE invoices
		SET subtotal = $2, tax_amount = $3, discount_amount = $4, total_amount = $5,
			paid_amount = $6, balance_due = $7, status = $8, updated_at = now()
		WHERE id = $1
		RETURNING ` + invoiceCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	updated, err := scanInvoice(r.pool.QueryRow(ctx, q,
		inv.ID, inv.Subtotal, inv.TaxAmount, inv.DiscountAmount, inv.TotalAmount,
		inv.PaidAmount, inv.BalanceDue, inv.Status,
	))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return updated, err
}

func (r *invoiceRepository) RecordPayment(ctx context.Context, id int64, paid decimal.Decimal, notes string) (*domain.Invoice, error) {
	const q = `
		UPDATE invoices
		SET paid_amount = $2, balance_due = total_amount - $2, status = $3,
			notes = COALESCE(NULLIF($4, ''), notes), updated_at = now()
		WHERE id = $1
		RETURNING ` + invoiceCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, `SELECT total_amount FROM invoices WHERE id = $1`, id).Scan(&total); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	status := domain.StatusForBalance(paid, total)
	updated, err := scanInvoice(r.pool.QueryRow(ctx, q, id, paid, status, notes))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return updated, err
}

func (r *invoiceRepository) SetStatus(ctx context.Context, id int64, status domain.InvoiceStatus) error {
	const q = `UPDATE invoices SET status = $2, updated_at = now() WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id, status)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *invoiceRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM invoices WHERE invoice_number = $1)`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var exists bool
	err := r.pool.QueryRow(ctx, q, number).Scan(&exists)
	return exists, err
}
