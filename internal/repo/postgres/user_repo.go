package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/waynex/travels-api/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, req *domain.SignupRequest, passwordHash string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, id int64, req *domain.UpdateUserRequest) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, search string, limit, offset int) ([]domain.User, int, error)
	MarkVerified(ctx context.Context, userID int64) error
	ToggleAdmin(ctx context.Context, userID int64) (*domain.User, error)

	// OTP state
	StoreOTP(ctx context.Context, userID int64, hash string, issuedAt time.Time) error
	ClearOTP(ctx context.Context, userID int64) error

	// Remember-me token state
	StoreRememberToken(ctx context.Context, userID int64, token string, expiry time.Time) error
	ClearRememberToken(ctx context.Context, userID int64) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userCols = `id, email, password_hash, first_name, last_name, phone,
	address_street, address_city, address_state, address_pincode, address_country,
	is_admin, is_verified, otp_hash, otp_created_at,
	remember_token, remember_token_expiry, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var phone, street, city, state, pincode, country *string
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &phone,
		&street, &city, &state, &pincode, &country,
		&u.IsAdmin, &u.IsVerified, &u.OTPHash, &u.OTPCreatedAt,
		&u.RememberToken, &u.RememberTokenExpiry, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if phone != nil {
		u.Phone = *phone
	}
	u.Address = domain.Address{}
	if street != nil {
		u.Address.Street = *street
	}
	if city != nil {
		u.Address.City = *city
	}
	if state != nil {
		u.Address.State = *state
	}
	if pincode != nil {
		u.Address.Pincode = *pincode
	}
	if country != nil {
		u.Address.Country = *country
	}
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, req *domain.SignupRequest, passwordHash string) (*domain.User, error) {
	const q = `
		INSERT INTO users (email, password_hash, first_name, last_name, phone,
			address_street, address_city, address_state, address_pincode, address_country)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''),
			NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''))
		RETURNING ` + userCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanUser(r.pool.QueryRow(ctx, q,
		req.Email, passwordHash, req.FirstName, req.LastName, req.Phone,
		req.AddressStreet, req.AddressCity, req.AddressState, req.AddressPincode, req.AddressCountry,
	))
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE email = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	u, err := scanUser(r.pool.QueryRow(ctx, q, email))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	u, err := scanUser(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func (r *userRepository) Update(ctx context.Context, id int64, req *domain.UpdateUserRequest) (*domain.User, error) {
	const q = `
		UPDATE users
		SET
			first_name = COALESCE($2, first_name),
			last_name = COALESCE($3, last_name),
			phone = COALESCE($4, phone),
			address_street = COALESCE($5, address_street),
			address_city = COALESCE($6, address_city),
			address_state = COALESCE($7, address_state),
			address_pincode = COALESCE($8, address_pincode),
			address_country = COALESCE($9, address_country),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + userCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	u, err := scanUser(r.pool.QueryRow(ctx, q, id,
		req.FirstName, req.LastName, req.Phone,
		req.AddressStreet, req.AddressCity, req.AddressState, req.AddressPincode, req.AddressCountry,
	))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM users WHERE id = $1`

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

func (r *userRepository) List(ctx context.Context, search string, limit, offset int) ([]domain.User, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	const countQ = `
		SELECT count(*) FROM users
		WHERE $1 = '' OR email ILIKE '%' || $1 || '%'
		   OR first_name ILIKE '%' || $1 || '%' OR last_name ILIKE '%' || $1 || '%'`

	var total int
	if err := r.pool.QueryRow(ctx, countQ, search).Scan(&total); err != nil {
		return nil, 0, err
	}

	const q = `
		SELECT ` + userCols + `
		FROM users
		WHERE $1 = '' OR email ILIKE '%' || $1 || '%'
		   OR first_name ILIKE '%' || $1 || '%' OR last_name ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, q, search, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}

	return users, total, rows.Err()
}

func (r *userRepository) MarkVerified(ctx context.Context, userID int64) error {
	const q = `UPDATE users SET is_verified = true, updated_at = now() WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) ToggleAdmin(ctx context.Context, userID int64) (*domain.User, error) {
	const q = `UPDATE users SET is_admin = NOT is_admin, updated_at = now() WHERE id = $1 RETURNING ` + userCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	u, err := scanUser(r.pool.QueryRow(ctx, q, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func (r *userRepository) StoreOTP(ctx context.Context, userID int64, hash string, issuedAt time.Time) error {
	const q = `UPDATE users SET otp_hash = $2, otp_created_at = $3, updated_at = now() WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, userID, hash, issuedAt)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) ClearOTP(ctx context.Context, userID int64) error {
	const q = `UPDATE users SET otp_hash = NULL, otp_created_at = NULL, updated_at = now() WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, userID)
	return err
}

func (r *userRepository) StoreRememberToken(ctx context.Context, userID int64, token string, expiry time.Time) error {
	const q = `UPDATE users SET remember_token = $2, remember_token_expiry = $3, updated_at = now() WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, userID, token, expiry)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) ClearRememberToken(ctx context.Context, userID int64) error {
	const q = `UPDATE users SET remember_token = NULL, remember_token_expiry = NULL, updated_at = now() WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, userID)
	return err
}
