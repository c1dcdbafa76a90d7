package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/waynex/travels-api/internal/domain"
	authmw "github.com/waynex/travels-api/internal/http/middleware"
	"github.com/waynex/travels-api/internal/http/response"
	"github.com/waynex/travels-api/internal/service"
)

type BookingHandler struct {
	Bookings service.BookingService
}

func NewBookingHandler(bookings service.BookingService) *BookingHandler {
	return &BookingHandler{Bookings: bookings}
}

func (h *BookingHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/by-ref/{ref}", h.getByRef)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	return r
}

func (h *BookingHandler) create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user := authmw.UserFrom(r)
	if req.UserID == 0 {
		req.UserID = user.ID
	}
	if req.UserID != user.ID && !user.IsAdmin {
		response.Forbidden(w, "cannot book on behalf of another user")
		return
	}

	booking, invoice, err := h.Bookings.Create(r.Context(), &req)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"booking": booking,
		"invoice": invoice,
	})
}

func (h *BookingHandler) list(w http.ResponseWriter, r *http.Request) {
	user := authmw.UserFrom(r)
	limit, offset := parsePagination(r)

	filter := domain.BookingFilter{Search: r.URL.Query().Get("search")}
	if !user.IsAdmin {
		filter.UserID = &user.ID
	}
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

// canAccess reports whether the requester owns the booking or is an admin.
func canAccess(r *http.Request, booking *domain.Booking) bool {
	user := authmw.UserFrom(r)
	return user != nil && (user.IsAdmin || booking.UserID == user.ID)
}

func (h *BookingHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "invalid booking id")
		return
	}

	booking, err := h.Bookings.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrBookingNotFound) {
			response.NotFound(w, "booking not found")
			return
		}
		response.DomainError(w, err)
		return
	}
	if !canAccess(r, booking) {
		response.Forbidden(w, "access denied")
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) getByRef(w http.ResponseWriter, r *http.Request) {
	ref := strings.ToUpper(chi.URLParam(r, "ref"))
	if ref == "" {
		response.BadRequest(w, "invalid booking reference")
		return
	}

	booking, err := h.Bookings.GetByRef(r.Context(), ref)
	if err != nil {
		if errors.Is(err, service.ErrBookingNotFound) {
			response.NotFound(w, "booking not found")
			return
		}
		response.DomainError(w, err)
		return
	}
	if !canAccess(r, booking) {
		response.Forbidden(w, "access denied")
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "invalid booking id")
		return
	}

	existing, err := h.Bookings.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrBookingNotFound) {
			response.NotFound(w, "booking not found")
			return
		}
		response.DomainError(w, err)
		return
	}
	if !canAccess(r, existing) {
		response.Forbidden(w, "access denied")
		return
	}

	var req domain.UpdateBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.Bookings.Update(r.Context(), id, &req)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "invalid booking id")
		return
	}

	existing, err := h.Bookings.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrBookingNotFound) {
			response.NotFound(w, "booking not found")
			return
		}
		response.DomainError(w, err)
		return
	}
	if !canAccess(r, existing) {
		response.Forbidden(w, "access denied")
		return
	}

	if err := h.Bookings.Delete(r.Context(), id); err != nil {
		response.DomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "booking deleted"})
}
