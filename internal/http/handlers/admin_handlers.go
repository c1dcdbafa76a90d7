package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/waynex/travels-api/internal/domain"
	"github.com/waynex/travels-api/internal/http/response"
	"github.com/waynex/travels-api/internal/report"
	"github.com/waynex/travels-api/internal/service"
	"github.com/waynex/travels-api/pkg/logger"
)

type AdminHandler struct {
	Admin    service.AdminService
	Bookings service.BookingService
}

func NewAdminHandler(admin service.AdminService, bookings service.BookingService) *AdminHandler {
	return &AdminHandler{Admin: admin, Bookings: bookings}
}

func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/users", h.listUsers)
	r.Delete("/users/{id}", h.deleteUser)
	r.Put("/users/{id}/toggle-admin", h.toggleAdmin)

	r.Get("/bookings", h.listBookings)
	r.Put("/bookings/{id}/status", h.updateBookingStatus)

	r.Get("/invoices", h.listInvoices)
	r.Get("/invoices/{id}", h.getInvoice)
	r.Put("/invoices/{id}/payment", h.recordPayment)

	r.Get("/stats/dashboard", h.dashboard)
	r.Get("/stats/analytics", h.analytics)
	r.Get("/reports/bookings/csv", h.bookingsCSV)

	return r
}

func (h *AdminHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	search := r.URL.Query().Get("search")

	users, total, err := h.Admin.ListUsers(r.Context(), search, limit, offset)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	if users == nil {
		users = []domain.User{}
	}

	writeJSON(w, http.StatusOK, listEnvelope{Items: users, Total: total, Limit: limit, Offset: offset})
}

func (h *AdminHandler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "invalid user id")
		return
	}

	if err := h.Admin.DeleteUser(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(w, "user not found")
		case errors.Is(err, service.ErrCannotDeleteAdmin):
			response.Forbidden(w, err.Error())
		default:
			response.DomainError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}

func (h *AdminHandler) toggleAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "invalid user id")
		return
	}

	user, err := h.Admin.ToggleAdmin(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(w, "user not found")
			return
		}
		response.DomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "admin status updated",
		"user":    user,
	})
}

func (h *AdminHandler) listBookings(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	filter := domain.BookingFilter{Search: r.URL.Query().Get("search")}
	if v := r.URL.Query().Get("status"); v != "" {
		status, ok := domain.ParseBookingStatus(v)
		if !ok {
			response.BadRequest(w, "unknown status")
			return
		}
		filter.Status = &status
	}
	if v := r.URL.Query().Get("payment_status"); v != "" {
		status, ok := domain.ParsePaymentStatus(v)
		if !ok {
			response.BadRequest(w, "unknown payment status")
			return
		}
		filter.PaymentStatus = &status
	}

	bookings, total, err := h.Bookings.List(r.Context(), filter, limit, offset)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}

	writeJSON(w, http.StatusOK, listEnvelope{Items: bookings, Total: total, Limit: limit, Offset: offset})
}

func (h *AdminHandler) updateBookingStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "invalid booking id")
		return
	}

	var req struct {
		Status        *string `json:"status"`
		PaymentStatus *string `json:"payment_status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Status == nil && req.PaymentStatus == nil {
		response.BadRequest(w, "status or payment_status is required")
		return
	}

	booking, err := h.Admin.UpdateBookingStatus(r.Context(), id, req.Status, req.PaymentStatus)
	if err != nil {
		if errors.Is(err, service.ErrBookingNotFound) {
			response.NotFound(w, "booking not found")
			return
		}
		response.DomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "booking status updated",
		"booking": booking,
	})
}

func (h *AdminHandler) listInvoices(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	var status *domain.InvoiceStatus
	if v := r.URL.Query().Get("status"); v != "" {
		s := domain.InvoiceStatus(v)
		switch s {
		case domain.InvoiceUnpaid, domain.InvoicePartial, domain.InvoicePaid, domain.InvoiceCancelled:
			status = &s
		default:
			response.BadRequest(w, "unknown invoice status")
			return
		}
	}

	invoices, total, err := h.Admin.ListInvoices(r.Context(), status, limit, offset)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	if invoices == nil {
		invoices = []domain.Invoice{}
	}

	writeJSON(w, http.StatusOK, listEnvelope{Items: invoices, Total: total, Limit: limit, Offset: offset})
}

func (h *AdminHandler) getInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "invalid invoice id")
		return
	}

	invoice, err := h.Admin.GetInvoice(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrInvoiceNotFound) {
			response.NotFound(w, "invoice not found")
			return
		}
		response.DomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, invoice)
}

func (h *AdminHandler) recordPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "invalid invoice id")
		return
	}

	var req domain.RecordPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	invoice, err := h.Admin.RecordPayment(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvoiceNotFound) {
			response.NotFound(w, "invoice not found")
			return
		}
		response.DomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "payment recorded",
		"invoice": invoice,
	})
}

func (h *AdminHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Admin.Dashboard(r.Context())
	if err != nil {
		response.DomainError(w, err)
		return
	}
	if stats.RecentBookings == nil {
		stats.RecentBookings = []domain.Booking{}
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) analytics(w http.ResponseWriter, r *http.Request) {
	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			response.BadRequest(w, "days must be a positive integer")
			return
		}
		days = n
	}

	analytics, err := h.Admin.Analytics(r.Context(), days)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, analytics)
}

func (h *AdminHandler) bookingsCSV(w http.ResponseWriter, r *http.Request) {
	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			response.BadRequest(w, "days must be a positive integer")
			return
		}
		days = n
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.Filename(time.Now())+`"`)

	if err := h.Admin.WriteBookingsReport(r.Context(), w, days); err != nil {
		// The CSV header may already be on the wire; log and cut the stream.
		logger.ErrorContext(r.Context(), "Failed to render bookings report", "error", err)
	}
}
