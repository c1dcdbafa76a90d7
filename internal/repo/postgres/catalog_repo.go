package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/waynex/travels-api/internal/domain"
)

type CatalogRepository interface {
	ListTours(ctx context.Context, filter domain.TourFilter, limit, offset int) ([]domain.Tour, int, error)
	GetTourByCode(ctx context.Context, code string) (*domain.Tour, error)
	TourCategories(ctx context.Context, tourType domain.TourType) ([]string, error)
	ListVisas(ctx context.Context, filter domain.VisaFilter, limit, offset int) ([]domain.Visa, int, error)
	GetVisaByCountry(ctx context.Context, country string) (*domain.Visa, error)
}

type catalogRepository struct {
	pool *pgxpool.Pool
}

func NewCatalogRepository(pool *pgxpool.Pool) CatalogRepository {
	return &catalogRepository{pool: pool}
}

const tourCols = `id, code, name, tour_type, category, destinations, duration,
	price, is_active, created_at, updated_at`

func scanTour(row pgx.Row) (*domain.Tour, error) {
	var t domain.Tour
	var destinations, duration *string
	err := row.Scan(
		&t.ID, &t.Code, &t.Name, &t.TourType, &t.Category, &destinations, &duration,
		&t.Price, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if destinations != nil {
		t.Destinations = *destinations
	}
	if duration != nil {
		t.Duration = *duration
	}
	return &t, nil
}

func (r *catalogRepository) ListTours(ctx context.Context, filter domain.TourFilter, limit, offset int) ([]domain.Tour, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	const where = `
		is_active
		AND ($1::text IS NULL OR tour_type = $1)
		AND ($2 = '' OR category = $2)
		AND ($3 = '' OR name ILIKE '%' || $3 || '%' OR destinations ILIKE '%' || $3 || '%')`

	args := []interface{}{filter.TourType, filter.Category, filter.Search}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM tours WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + tourCols + ` FROM tours WHERE ` + where + `
		ORDER BY name
		LIMIT $4 OFFSET $5`

	rows, err := r.pool.Query(ctx, q, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var tours []domain.Tour
	for rows.Next() {
		t, err := scanTour(rows)
		if err != nil {
			return nil, 0, err
		}
		tours = append(tours, *t)
	}

	return tours, total, rows.Err()
}

func (r *catalogRepository) GetTourByCode(ctx context.Context, code string) (*domain.Tour, error) {
	const q = `SELECT ` + tourCols + ` FROM tours WHERE code = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	t, err := scanTour(r.pool.QueryRow(ctx, q, code))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return t, err
}

func (r *catalogRepository) TourCategories(ctx context.Context, tourType domain.TourType) ([]string, error) {
	const q = `
		SELECT DISTINCT category
		FROM tours
		WHERE is_active AND tour_type = $1
		ORDER BY category`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, tourType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

const visaCols = `id, country, category, price, processing_time, is_active, created_at, updated_at`

func scanVisa(row pgx.Row) (*domain.Visa, error) {
	var v domain.Visa
	var category, processingTime *string
	err := row.Scan(
		&v.ID, &v.Country, &category, &v.Price, &processingTime,
		&v.IsActive, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if category != nil {
		v.Category = *category
	}
	if processingTime != nil {
		v.ProcessingTime = *processingTime
	}
	return &v, nil
}

func (r *catalogRepository) ListVisas(ctx context.Context, filter domain.VisaFilter, limit, offset int) ([]domain.Visa, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	const where = `
		is_active
		AND ($1 = '' OR category = $1)
		AND ($2 = '' OR country ILIKE '%' || $2 || '%')`

	args := []interface{}{filter.Category, filter.Search}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM visas WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + visaCols + ` FROM visas WHERE ` + where + `
		ORDER BY country
		LIMIT $3 OFFSET $4`

	rows, err := r.pool.Query(ctx, q, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var visas []domain.Visa
	for rows.Next() {
		v, err := scanVisa(rows)
		if err != nil {
			return nil, 0, err
		}
		visas = append(visas, *v)
	}

	return visas, total, rows.Err()
}

func (r *catalogRepository) GetVisaByCountry(ctx context.Context, country string) (*domain.Visa, error) {
	const q = `SELECT ` + visaCols + ` FROM visas WHERE lower(country) = lower($1)`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	v, err := scanVisa(r.pool.QueryRow(ctx, q, country))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return v, err
}
