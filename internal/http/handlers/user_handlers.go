package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/waynex/travels-api/internal/domain"
	authmw "github.com/waynex/travels-api/internal/http/middleware"
	"github.com/waynex/travels-api/internal/http/response"
	"github.com/waynex/travels-api/internal/service"
)

type UserHandler struct {
	Users service.UserService
}

func NewUserHandler(users service.UserService) *UserHandler {
	return &UserHandler{Users: users}
}

func (h *UserHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Get("/{id}/bookings", h.bookings)
	return r
}

// requireSelf lets a user touch only their own record; admins may touch any.
func requireSelf(w http.ResponseWriter, r *http.Request, id int64) bool {
	user := authmw.UserFrom(r)
	if user == nil || (user.ID != id && !user.IsAdmin) {
		response.Forbidden(w, "access denied")
		return false
	}
	return true
}

func (h *UserHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "invalid user id")
		return
	}
	if !requireSelf(w, r, id) {
		return
	}

	user, err := h.Users.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(w, "user not found")
			return
		}
		response.DomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "invalid user id")
		return
	}
	if !requireSelf(w, r, id) {
		return
	}

	var req domain.UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.Users.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(w, "user not found")
			return
		}
		response.DomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) bookings(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "invalid user id")
		return
	}
	if !requireSelf(w, r, id) {
		return
	}

	limit, offset := parsePagination(r)
	bookings, total, err := h.Users.Bookings(r.Context(), id, limit, offset)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}

	writeJSON(w, http.StatusOK, listEnvelope{Items: bookings, Total: total, Limit: limit, Offset: offset})
}
