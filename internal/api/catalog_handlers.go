package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/example/gardenia/internal/apperr"
	"github.com/example/gardenia/internal/domain/catalog"
	"github.com/example/gardenia/internal/domain/review"
)

func (h *Handlers) SearchProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := catalog.SearchParams{
		Query:           q.Get("q"),
		InStockOnly:     q.Get("in_stock") == "true",
		IncludeInactive: q.Get("include_inactive") == "true" && isAdmin(r),
	}

	if raw := q.Get("category"); raw != "" {
		category, err := catalog.ParseCategory(raw)
		if err != nil {
			respondError(w, err)
			return
		}
		params.Category = category
	}
	var err error
	if params.MinPrice, err = parsePrice(q.Get("min_price")); err != nil {
		respondError(w, err)
		return
	}
	if params.MaxPrice, err = parsePrice(q.Get("max_price")); err != nil {
		respondError(w, err)
		return
	}
	params.Limit, _ = strconv.Atoi(q.Get("limit"))
	params.Offset, _ = strconv.Atoi(q.Get("offset"))

	products, err := h.catalog.Search(r.Context(), params)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"products": products})
}

func parsePrice(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Decimal{}, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, apperr.Newf(apperr.Validation, "invalid price %q", raw)
	}
	return v, nil
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/products/")
	p, err := h.catalog.Product(r.Context(), id, isAdmin(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"product": p})
}

// Review handlers. The product ID sits between /products/ and /reviews.

func reviewProductID(path string) string {
	id := extractPathParam(path, "/products/")
	return strings.TrimSuffix(id, "/reviews")
}

func (h *Handlers) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.ListActive(r.Context(), reviewProductID(r.URL.Path))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"reviews": reviews})
}

func (h *Handlers) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	u, err := h.users.Get(r.Context(), getUserID(r))
	if err != nil {
		respondError(w, err)
		return
	}

	rev, err := h.reviews.Create(r.Context(), u.ID, u.Name, reviewProductID(r.URL.Path), review.Input{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"review": rev})
}

func (h *Handlers) UpdateReview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	rev, err := h.reviews.Update(r.Context(), getUserID(r), reviewProductID(r.URL.Path), review.Input{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"review": rev})
}

func (h *Handlers) DeleteOwnReview(w http.ResponseWriter, r *http.Request) {
	if err := h.reviews.SoftDelete(r.Context(), getUserID(r), reviewProductID(r.URL.Path)); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "review deleted")
}
