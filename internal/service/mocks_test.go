package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/waynex/travels-api/internal/domain"
)

// ---------- Mocks ----------

type mockUserRepo struct {
	nextID  int64
	users   map[int64]*domain.User
	byEmail map[string]int64

	createErr error
	findErr   error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		nextID:  1,
		users:   make(map[int64]*domain.User),
		byEmail: make(map[string]int64),
	}
}

func (m *mockUserRepo) add(u *domain.User) *domain.User {
	u.ID = m.nextID
	m.nextID++
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	m.users[u.ID] = u
	m.byEmail[u.Email] = u.ID
	return u
}

func (m *mockUserRepo) Create(_ context.Context, req *domain.SignupRequest, passwordHash string) (*domain.User, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.add(&domain.User{
		Email:        req.Email,
		PasswordHash: passwordHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
	}), nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	id, ok := m.byEmail[email]
	if !ok {
		return nil, nil
	}
	return m.users[id], nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (m *mockUserRepo) Update(_ context.Context, id int64, req *domain.UpdateUserRequest) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
	return u, nil
}

func (m *mockUserRepo) Delete(_ context.Context, id int64) error {
	u, ok := m.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	delete(m.byEmail, u.Email)
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) List(_ context.Context, _ string, _, _ int) ([]domain.User, int, error) {
	var out []domain.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (m *mockUserRepo) MarkVerified(_ context.Context, userID int64) error {
	if u, ok := m.users[userID]; ok {
		u.IsVerified = true
	}
	return nil
}

func (m *mockUserRepo) ToggleAdmin(_ context.Context, userID int64) (*domain.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, nil
	}
	u.IsAdmin = !u.IsAdmin
	return u, nil
}

func (m *mockUserRepo) StoreOTP(_ context.Context, userID int64, hash string, issuedAt time.Time) error {
	if u, ok := m.users[userID]; ok {
		u.OTPHash = &hash
		t := issuedAt
		u.OTPCreatedAt = &t
	}
	return nil
}

func (m *mockUserRepo) ClearOTP(_ context.Context, userID int64) error {
	if u, ok := m.users[userID]; ok {
		u.OTPHash = nil
		u.OTPCreatedAt = nil
	}
	return nil
}

func (m *mockUserRepo) StoreRememberToken(_ context.Context, userID int64, token string, expiry time.Time) error {
	if u, ok := m.users[userID]; ok {
		u.RememberToken = &token
		e := expiry
		u.RememberTokenExpiry = &e
	}
	return nil
}

func (m *mockUserRepo) ClearRememberToken(_ context.Context, userID int64) error {
	if u, ok := m.users[userID]; ok {
		u.RememberToken = nil
		u.RememberTokenExpiry = nil
	}
	return nil
}

type mockMailer struct {
	lastTo      string
	lastCode    string
	lastBooking *domain.Booking
	sendOTPErr  error
	sendErr     error
}

func (m *mockMailer) SendOTPEmail(toEmail, toName, code string) error {
	m.lastTo = toEmail
	m.lastCode = code
	return m.sendOTPErr
}

func (m *mockMailer) SendBookingConfirmation(toEmail, _ string, booking *domain.Booking, _ *domain.Invoice) error {
	m.lastTo = toEmail
	m.lastBooking = booking
	return m.sendErr
}

type mockBookingRepo struct {
	nextID   int64
	bookings map[int64]*domain.Booking
	byRef    map[string]int64
}

func newMockBookingRepo() *mockBookingRepo {
	return &mockBookingRepo{
		nextID:   1,
		bookings: make(map[int64]*domain.Booking),
		byRef:    make(map[string]int64),
	}
}

func (m *mockBookingRepo) CreateWithInvoice(_ context.Context, b *domain.Booking, inv *domain.Invoice) (*domain.Booking, *domain.Invoice, error) {
	b.ID = m.nextID
	m.nextID++
	b.BookingDate = time.Now()
	b.UpdatedAt = b.BookingDate
	m.bookings[b.ID] = b
	m.byRef[b.BookingRef] = b.ID
	inv.ID = b.ID
	inv.BookingID = b.ID
	return b, inv, nil
}

func (m *mockBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (m *mockBookingRepo) GetByRef(_ context.Context, ref string) (*domain.Booking, error) {
	id, ok := m.byRef[ref]
	if !ok {
		return nil, nil
	}
	return m.GetByID(context.Background(), id)
}

func (m *mockBookingRepo) List(_ context.Context, filter domain.BookingFilter, _, _ int) ([]domain.Booking, int, error) {
	var out []domain.Booking
	for _, b := range m.bookings {
		if filter.UserID != nil && b.UserID != *filter.UserID {
			continue
		}
		out = append(out, *b)
	}
	return out, len(out), nil
}

func (m *mockBookingRepo) Update(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	if _, ok := m.bookings[b.ID]; !ok {
		return nil, nil
	}
	cp := *b
	cp.UpdatedAt = time.Now()
	m.bookings[b.ID] = &cp
	out := cp
	return &out, nil
}

func (m *mockBookingRepo) Delete(_ context.Context, id int64) error {
	b, ok := m.bookings[id]
	if !ok {
		return pgx.ErrNoRows
	}
	delete(m.byRef, b.BookingRef)
	delete(m.bookings, id)
	return nil
}

func (m *mockBookingRepo) RefExists(_ context.Context, ref string) (bool, error) {
	_, ok := m.byRef[ref]
	return ok, nil
}

type mockInvoiceRepo struct {
	nextID   int64
	invoices map[int64]*domain.Invoice
}

func newMockInvoiceRepo() *mockInvoiceRepo {
	return &mockInvoiceRepo{nextID: 1, invoices: make(map[int64]*domain.Invoice)}
}

func (m *mockInvoiceRepo) add(inv *domain.Invoice) *domain.Invoice {
	inv.ID = m.nextID
	m.nextID++
	m.invoices[inv.ID] = inv
	return inv
}

func (m *mockInvoiceRepo) GetByID(_ context.Context, id int64) (*domain.Invoice, error) {
	inv, ok := m.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (m *mockInvoiceRepo) GetByBookingID(_ context.Context, bookingID int64) (*domain.Invoice, error) {
	for _, inv := range m.invoices {
		if inv.BookingID == bookingID {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockInvoiceRepo) List(_ context.Context, _ *domain.InvoiceStatus, _, _ int) ([]domain.Invoice, int, error) {
	var out []domain.Invoice
	for _, inv := range m.invoices {
		out = append(out, *inv)
	}
	return out, len(out), nil
}

func (m *mockInvoiceRepo) UpdateAmounts(_ context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	if _, ok := m.invoices[inv.ID]; !ok {
		return nil, nil
	}
	cp := *inv
	m.invoices[inv.ID] = &cp
	out := cp
	return &out, nil
}

func (m *mockInvoiceRepo) RecordPayment(_ context.Context, id int64, paid decimal.Decimal, notes string) (*domain.Invoice, error) {
	inv, ok := m.invoices[id]
	if !ok {
		return nil, nil
	}
	inv.PaidAmount = paid
	inv.BalanceDue = inv.TotalAmount.Sub(paid)
	inv.Status = domain.StatusForBalance(paid, inv.TotalAmount)
	if notes != "" {
		inv.Notes = notes
	}
	cp := *inv
	return &cp, nil
}

func (m *mockInvoiceRepo) SetStatus(_ context.Context, id int64, status domain.InvoiceStatus) error {
	inv, ok := m.invoices[id]
	if !ok {
		return pgx.ErrNoRows
	}
	inv.Status = status
	return nil
}

func (m *mockInvoiceRepo) NumberExists(_ context.Context, number string) (bool, error) {
	for _, inv := range m.invoices {
		if inv.InvoiceNumber == number {
			return true, nil
		}
	}
	return false, nil
}
