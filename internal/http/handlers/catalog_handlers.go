package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/waynex/travels-api/internal/domain"
	"github.com/waynex/travels-api/internal/http/response"
	"github.com/waynex/travels-api/internal/service"
)

type CatalogHandler struct {
	Catalog service.CatalogService
}

func NewCatalogHandler(catalog service.CatalogService) *CatalogHandler {
	return &CatalogHandler{Catalog: catalog}
}

func (h *CatalogHandler) TourRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.listTours)
	r.Get("/categories/{type}", h.tourCategories)
	r.Get("/by-category/{type}/{category}", h.toursByCategory)
	r.Get("/{code}", h.getTour)
	return r
}

func (h *CatalogHandler) VisaRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.listVisas)
	r.Get("/categories", h.visaCategories)
	r.Get("/by-category/{category}", h.visasByCategory)
	r.Get("/{country}", h.getVisa)
	return r
}

func parseTourType(raw string) (domain.TourType, bool) {
	switch domain.TourType(strings.ToLower(raw)) {
	case domain.TourDomestic:
		return domain.TourDomestic, true
	case domain.TourInternational:
		return domain.TourInternational, true
	default:
		return "", false
	}
}

func (h *CatalogHandler) listTours(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	filter := domain.TourFilter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
	}
	if v := r.URL.Query().Get("type"); v != "" {
		tourType, ok := parseTourType(v)
		if !ok {
			response.BadRequest(w, "unknown tour type")
			return
		}
		filter.TourType = &tourType
	}

	h.writeTours(w, r, filter, limit, offset)
}

func (h *CatalogHandler) toursByCategory(w http.ResponseWriter, r *http.Request) {
	tourType, ok := parseTourType(chi.URLParam(r, "type"))
	if !ok {
		response.BadRequest(w, "unknown tour type")
		return
	}

	limit, offset := parsePagination(r)
	filter := domain.TourFilter{
		TourType: &tourType,
		Category: chi.URLParam(r, "category"),
	}

	h.writeTours(w, r, filter, limit, offset)
}

func (h *CatalogHandler) writeTours(w http.ResponseWriter, r *http.Request, filter domain.TourFilter, limit, offset int) {
	tours, total, err := h.Catalog.ListTours(r.Context(), filter, limit, offset)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	if tours == nil {
		tours = []domain.Tour{}
	}
	writeJSON(w, http.StatusOK, listEnvelope{Items: tours, Total: total, Limit: limit, Offset: offset})
}

func (h *CatalogHandler) getTour(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(chi.URLParam(r, "code"))

	tour, err := h.Catalog.GetTour(r.Context(), code)
	if err != nil {
		if errors.Is(err, service.ErrTourNotFound) {
			response.NotFound(w, "tour not found")
			return
		}
		response.DomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tour)
}

func (h *CatalogHandler) tourCategories(w http.ResponseWriter, r *http.Request) {
	tourType, ok := parseTourType(chi.URLParam(r, "type"))
	if !ok {
		response.BadRequest(w, "unknown tour type")
		return
	}

	categories, err := h.Catalog.TourCategories(r.Context(), tourType)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

func (h *CatalogHandler) listVisas(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	filter := domain.VisaFilter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
	}
	h.writeVisas(w, r, filter, limit, offset)
}

func (h *CatalogHandler) visasByCategory(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	filter := domain.VisaFilter{Category: strings.ToLower(chi.URLParam(r, "category"))}
	h.writeVisas(w, r, filter, limit, offset)
}

func (h *CatalogHandler) writeVisas(w http.ResponseWriter, r *http.Request, filter domain.VisaFilter, limit, offset int) {
	visas, total, err := h.Catalog.ListVisas(r.Context(), filter, limit, offset)
	if err != nil {
		response.DomainError(w, err)
		return
	}
	if visas == nil {
		visas = []domain.Visa{}
	}
	writeJSON(w, http.StatusOK, listEnvelope{Items: visas, Total: total, Limit: limit, Offset: offset})
}

func (h *CatalogHandler) getVisa(w http.ResponseWriter, r *http.Request) {
	country := chi.URLParam(r, "country")

	visa, err := h.Catalog.GetVisa(r.Context(), country)
	if err != nil {
		if errors.Is(err, service.ErrVisaNotFound) {
			response.NotFound(w, "visa not found")
			return
		}
		response.DomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, visa)
}

func (h *CatalogHandler) visaCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"categories": service.VisaCategories})
}
