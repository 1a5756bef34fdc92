// Package api wires the HTTP surface to the domain services.
package api

import (
	"net/http"

	"github.com/example/gardenia/internal/api/middleware"
	"github.com/example/gardenia/internal/auth"
	"github.com/example/gardenia/internal/domain/cart"
	"github.com/example/gardenia/internal/domain/catalog"
	"github.com/example/gardenia/internal/domain/order"
	"github.com/example/gardenia/internal/domain/review"
	"github.com/example/gardenia/internal/domain/user"
	"github.com/example/gardenia/internal/storage"
)

type Handlers struct {
	catalog *catalog.Service
	carts   *cart.Service
	orders  *order.Service
	reviews *review.Service
	users   *user.Service
	tokens  *auth.TokenService
	images  *storage.ImageStore
}

func NewHandlers(
	catalogSvc *catalog.Service,
	cartSvc *cart.Service,
	orderSvc *order.Service,
	reviewSvc *review.Service,
	userSvc *user.Service,
	tokens *auth.TokenService,
	images *storage.ImageStore,
) *Handlers {
	return &Handlers{
		catalog: catalogSvc,
		carts:   cartSvc,
		orders:  orderSvc,
		reviews: reviewSvc,
		users:   userSvc,
		tokens:  tokens,
		images:  images,
	}
}

// getUserID extracts the authenticated user's ID from the JWT context.
func getUserID(r *http.Request) string {
	return middleware.GetUserID(r.Context())
}

// isAdmin checks if the current user has the admin role.
func isAdmin(r *http.Request) bool {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		return false
	}
	return claims.Role == string(user.RoleAdmin)
}
