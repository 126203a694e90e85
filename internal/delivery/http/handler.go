package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/azizikri/coupon-catalog/internal/catalog"
	"github.com/azizikri/coupon-catalog/internal/domain"
	"github.com/azizikri/coupon-catalog/internal/usecase"
	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"
)

const LangParam = "lang"

type Handler struct {
	gateway       usecase.CatalogGateway
	defaultLocale language.Tag
}

func NewHandler(gateway usecase.CatalogGateway, defaultLocale language.Tag) *Handler {
	return &Handler{gateway: gateway, defaultLocale: defaultLocale}
}

func (h *Handler) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/coupons", h.ViewCatalog)
		r.Get("/coupons/history", h.ViewHistory)
		r.Get("/coupons/filters", h.FilterOptions)
		r.Get("/coupons/{code}", h.GetCoupon)
	})
}

func (h *Handler) locale(r *http.Request) language.Tag {
	return catalog.ResolveLocale(r.URL.Query().Get(LangParam), r.Header.Get("Accept-Language"), h.defaultLocale)
}

func (h *Handler) ViewCatalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := usecase.ViewQuery{
		Filter: catalog.Filter{
			Status:   catalog.ParseStatusFilter(q.Get("status")),
			Category: catalog.ParseCategoryFilter(q.Get("category")),
		},
		Locale: h.locale(r),
	}

	view, err := h.gateway.ViewCatalog(r.Context(), query)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) ViewHistory(w http.ResponseWriter, r *http.Request) {
	view, err := h.gateway.ViewHistory(r.Context(), h.locale(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) FilterOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.gateway.FilterOptions())
}

func (h *Handler) GetCoupon(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	rec, err := h.gateway.GetCoupon(r.Context(), code, h.locale(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "coupon not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrTimeout):
		http.Error(w, "catalog unavailable", http.StatusServiceUnavailable)
	default:
		log.Printf("Catalog request failed: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
