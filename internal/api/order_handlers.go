package api

import (
	"net/http"
	"strings"
)

func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	// Body is optional; an absent token means no idempotency guarantee.
	var req struct {
		CheckoutToken string `json:"checkout_token"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, err)
			return
		}
	}

	o, err := h.orders.Checkout(r.Context(), getUserID(r), req.CheckoutToken)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"order": o})
}

func (h *Handlers) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListByUser(r.Context(), getUserID(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/orders/")
	o, err := h.orders.Get(r.Context(), id, getUserID(r), isAdmin(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"order": o})
}

func (h *Handlers) MarkOrderDelivered(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/orders/")
	id = strings.TrimSuffix(id, "/delivered")

	o, err := h.orders.MarkDelivered(r.Context(), id, getUserID(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"order": o})
}
