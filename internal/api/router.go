package api

import (
	"net/http"
	"strings"

	"github.com/example/gardenia/internal/api/middleware"
	"github.com/example/gardenia/internal/auth"
)

// NewRouter builds the full HTTP surface. imageDir, when set, is served
// under /images/ for the product pictures uploaded via the admin API.
func NewRouter(handlers *Handlers, tokens *auth.TokenService, users middleware.UserGetter, imageDir string) http.Handler {
	mux := http.NewServeMux()

	authed := middleware.Auth(tokens, users)
	adminOnly := func(h http.Handler) http.Handler {
		return authed(middleware.RequireRole("admin")(h))
	}
	optional := middleware.OptionalAuth(tokens)

	// Static product images.
	if imageDir != "" {
		mux.Handle("/images/", http.StripPrefix("/images/", http.FileServer(http.Dir(imageDir))))
	}

	// Auth
	mux.HandleFunc("/auth/register", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		handlers.Register(w, r)
	})
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		handlers.Login(w, r)
	})
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		handlers.Logout(w, r)
	})

	// Profile
	mux.Handle("/me", authed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.Me(w, r)
		case http.MethodPut:
			handlers.UpdateMe(w, r)
		default:
			methodNotAllowed(w)
		}
	})))

	// Catalog (public, with optional auth so admins see inactive products)
	mux.Handle("/products", optional(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		handlers.SearchProducts(w, r)
	})))

	getProduct := optional(http.HandlerFunc(handlers.GetProduct))
	listReviews := optional(http.HandlerFunc(handlers.ListReviews))
	createReview := authed(http.HandlerFunc(handlers.CreateReview))
	updateReview := authed(http.HandlerFunc(handlers.UpdateReview))
	deleteReview := authed(http.HandlerFunc(handlers.DeleteOwnReview))

	mux.HandleFunc("/products/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/reviews") {
			switch r.Method {
			case http.MethodGet:
				listReviews.ServeHTTP(w, r)
			case http.MethodPost:
				createReview.ServeHTTP(w, r)
			case http.MethodPut:
				updateReview.ServeHTTP(w, r)
			case http.MethodDelete:
				deleteReview.ServeHTTP(w, r)
			default:
				methodNotAllowed(w)
			}
			return
		}
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		getProduct.ServeHTTP(w, r)
	})

	// Cart
	mux.Handle("/cart", authed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		handlers.GetCart(w, r)
	})))
	mux.Handle("/cart/add", authed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		handlers.AddToCart(w, r)
	})))
	mux.Handle("/cart/update", authed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			methodNotAllowed(w)
			return
		}
		handlers.UpdateCartQuantity(w, r)
	})))
	mux.Handle("/cart/remove/", authed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			methodNotAllowed(w)
			return
		}
		handlers.RemoveFromCart(w, r)
	})))
	clearCart := authed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			methodNotAllowed(w)
			return
		}
		handlers.ClearCart(w, r)
	}))
	mux.Handle("/cart/clear", clearCart)
	mux.Handle("/cart/remove-all", clearCart)

	// Checkout & orders
	mux.Handle("/checkout", authed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		handlers.Checkout(w, r)
	})))
	mux.Handle("/orders/me", authed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		handlers.GetMyOrders(w, r)
	})))
	mux.Handle("/orders/", authed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/delivered") && r.Method == http.MethodPatch:
			handlers.MarkOrderDelivered(w, r)
		case r.Method == http.MethodGet:
			handlers.GetOrder(w, r)
		default:
			methodNotAllowed(w)
		}
	})))

	// Admin: orders
	mux.Handle("/admin/orders", adminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		handlers.AdminListOrders(w, r)
	})))
	mux.Handle("/admin/orders/", adminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.AdminGetOrder(w, r)
		case http.MethodPut:
			handlers.AdminUpdateOrderStatus(w, r)
		case http.MethodDelete:
			handlers.AdminDeleteOrder(w, r)
		default:
			methodNotAllowed(w)
		}
	})))

	// Admin: products, their images and reviews
	mux.Handle("/admin/products", adminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		handlers.AdminCreateProduct(w, r)
	})))
	mux.Handle("/admin/products/", adminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case strings.Contains(path, "/images/") && r.Method == http.MethodDelete:
			handlers.AdminDeleteProductImage(w, r)
		case strings.HasSuffix(path, "/images") && r.Method == http.MethodPost:
			handlers.AdminUploadProductImage(w, r)
		case strings.Contains(path, "/reviews/") && strings.HasSuffix(path, "/restore") && r.Method == http.MethodPatch:
			handlers.AdminRestoreReview(w, r)
		case strings.Contains(path, "/reviews/") && r.Method == http.MethodDelete:
			handlers.AdminDeleteReview(w, r)
		case strings.HasSuffix(path, "/restore") && r.Method == http.MethodPatch:
			handlers.AdminRestoreProduct(w, r)
		case r.Method == http.MethodPut:
			handlers.AdminUpdateProduct(w, r)
		case r.Method == http.MethodDelete:
			handlers.AdminDeleteProduct(w, r)
		default:
			methodNotAllowed(w)
		}
	})))

	// Admin: suppliers
	mux.Handle("/admin/suppliers", adminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.AdminListSuppliers(w, r)
		case http.MethodPost:
			handlers.AdminCreateSupplier(w, r)
		default:
			methodNotAllowed(w)
		}
	})))
	mux.Handle("/admin/suppliers/", adminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			handlers.AdminUpdateSupplier(w, r)
		case http.MethodDelete:
			handlers.AdminDeleteSupplier(w, r)
		default:
			methodNotAllowed(w)
		}
	})))

	// Admin: users
	mux.Handle("/admin/users", adminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		handlers.AdminListUsers(w, r)
	})))
	mux.Handle("/admin/users/", adminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/restore") && r.Method == http.MethodPatch:
			handlers.AdminRestoreUser(w, r)
		case r.Method == http.MethodGet:
			handlers.AdminGetUser(w, r)
		case r.Method == http.MethodPut:
			handlers.AdminUpdateUser(w, r)
		case r.Method == http.MethodDelete:
			handlers.AdminDeleteUser(w, r)
		default:
			methodNotAllowed(w)
		}
	})))

	return middleware.Logging(mux)
}
