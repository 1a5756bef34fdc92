package api

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/example/gardenia/internal/apperr"
	"github.com/example/gardenia/internal/domain/catalog"
	"github.com/example/gardenia/internal/domain/user"
)

const maxImageUploadBytes = 10 << 20

func wantsHardDelete(r *http.Request) bool {
	return r.URL.Query().Get("hard") == "true"
}

// Admin orders

func (h *Handlers) AdminListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListAll(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (h *Handlers) AdminGetOrder(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/admin/orders/")
	o, err := h.orders.Get(r.Context(), id, getUserID(r), true)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"order": o})
}

func (h *Handlers) AdminUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/admin/orders/")

	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	o, err := h.orders.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"order": o})
}

func (h *Handlers) AdminDeleteOrder(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/admin/orders/")
	if err := h.orders.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "order deleted")
}

// Admin products

type productRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	SupplierID  string          `json:"supplier_id"`
}

func (req productRequest) input() catalog.ProductInput {
	return catalog.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		SupplierID:  req.SupplierID,
	}
}

func (h *Handlers) AdminCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	p, err := h.catalog.CreateProduct(r.Context(), req.input())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"product": p})
}

func (h *Handlers) AdminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/admin/products/")

	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	p, err := h.catalog.UpdateProduct(r.Context(), id, req.input())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"product": p})
}

func (h *Handlers) AdminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/admin/products/")

	if wantsHardDelete(r) {
		if err := h.catalog.HardDeleteProduct(r.Context(), id); err != nil {
			respondError(w, err)
			return
		}
		respondMessage(w, http.StatusOK, "product deleted")
		return
	}

	if err := h.catalog.SoftDeleteProduct(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "product deactivated")
}

func (h *Handlers) AdminRestoreProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/admin/products/")
	id = strings.TrimSuffix(id, "/restore")

	p, err := h.catalog.RestoreProduct(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"product": p})
}

func (h *Handlers) AdminUploadProductImage(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/admin/products/")
	id = strings.TrimSuffix(id, "/images")

	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		respondError(w, apperr.New(apperr.Validation, "invalid multipart form"))
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, apperr.New(apperr.Validation, "image file is required"))
		return
	}
	defer file.Close()

	img, err := h.images.Upload(r.Context(), header.Filename, file)
	if err != nil {
		respondError(w, err)
		return
	}

	p, err := h.catalog.AddImage(r.Context(), id, img)
	if err != nil {
		// Orphaned file cleanup; the upload never became visible.
		_ = h.images.Delete(r.Context(), img.ID)
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"image": img, "product": p})
}

func (h *Handlers) AdminDeleteProductImage(w http.ResponseWriter, r *http.Request) {
	rest := extractPathParam(r.URL.Path, "/admin/products/")
	productID, imageID, ok := strings.Cut(rest, "/images/")
	if !ok || productID == "" || imageID == "" {
		respondError(w, apperr.New(apperr.NotFound, "image not found"))
		return
	}

	img, err := h.catalog.RemoveImage(r.Context(), productID, imageID)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.images.Delete(r.Context(), img.ID); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "image deleted")
}

// Admin reviews

func (h *Handlers) AdminDeleteReview(w http.ResponseWriter, r *http.Request) {
	rest := extractPathParam(r.URL.Path, "/admin/products/")
	productID, userID, ok := strings.Cut(rest, "/reviews/")
	if !ok || productID == "" || userID == "" {
		respondError(w, apperr.New(apperr.NotFound, "review not found"))
		return
	}

	if wantsHardDelete(r) {
		if err := h.reviews.HardDelete(r.Context(), userID, productID); err != nil {
			respondError(w, err)
			return
		}
		respondMessage(w, http.StatusOK, "review deleted")
		return
	}

	if err := h.reviews.SoftDelete(r.Context(), userID, productID); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "review hidden")
}

func (h *Handlers) AdminRestoreReview(w http.ResponseWriter, r *http.Request) {
	rest := extractPathParam(r.URL.Path, "/admin/products/")
	rest = strings.TrimSuffix(rest, "/restore")
	productID, userID, ok := strings.Cut(rest, "/reviews/")
	if !ok || productID == "" || userID == "" {
		respondError(w, apperr.New(apperr.NotFound, "review not found"))
		return
	}

	if err := h.reviews.Restore(r.Context(), userID, productID); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "review restored")
}

// Admin suppliers

type supplierRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (h *Handlers) AdminListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.catalog.ListSuppliers(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"suppliers": suppliers})
}

func (h *Handlers) AdminCreateSupplier(w http.ResponseWriter, r *http.Request) {
	var req supplierRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	sup, err := h.catalog.CreateSupplier(r.Context(), catalog.SupplierInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"supplier": sup})
}

func (h *Handlers) AdminUpdateSupplier(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/admin/suppliers/")

	var req supplierRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	sup, err := h.catalog.UpdateSupplier(r.Context(), id, catalog.SupplierInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"supplier": sup})
}

func (h *Handlers) AdminDeleteSupplier(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/admin/suppliers/")

	if wantsHardDelete(r) {
		if err := h.catalog.HardDeleteSupplier(r.Context(), id); err != nil {
			respondError(w, err)
			return
		}
		respondMessage(w, http.StatusOK, "supplier deleted")
		return
	}

	if err := h.catalog.SoftDeleteSupplier(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "supplier deactivated")
}

// Admin users

func (h *Handlers) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (h *Handlers) AdminGetUser(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/admin/users/")
	u, err := h.users.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user": u})
}

func (h *Handlers) AdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/admin/users/")

	var req struct {
		Role     string `json:"role"`
		IsActive bool   `json:"is_active"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	u, err := h.users.AdminUpdate(r.Context(), id, user.Role(req.Role), req.IsActive)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user": u})
}

func (h *Handlers) AdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/admin/users/")

	if wantsHardDelete(r) {
		if err := h.users.HardDelete(r.Context(), id); err != nil {
			respondError(w, err)
			return
		}
		respondMessage(w, http.StatusOK, "user deleted")
		return
	}

	if err := h.users.SoftDelete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "user deactivated")
}

func (h *Handlers) AdminRestoreUser(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/admin/users/")
	id = strings.TrimSuffix(id, "/restore")

	u, err := h.users.Restore(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user": u})
}
