package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/gardenia/internal/api"
	"github.com/example/gardenia/internal/auth"
	"github.com/example/gardenia/internal/domain/cart"
	"github.com/example/gardenia/internal/domain/catalog"
	"github.com/example/gardenia/internal/domain/order"
	"github.com/example/gardenia/internal/domain/review"
	"github.com/example/gardenia/internal/domain/user"
	"github.com/example/gardenia/internal/infrastructure/store/mocks"
)

type testServer struct {
	router    http.Handler
	tokens    *auth.TokenService
	catalog   *mocks.CatalogStore
	carts     *mocks.CartStore
	orders    *mocks.OrderStore
	users     *mocks.UserStore
	publisher *mocks.Publisher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	catalogStore := mocks.NewCatalogStore()
	cartStore := mocks.NewCartStore()
	orderStore := mocks.NewOrderStore(catalogStore, cartStore)
	userStore := mocks.NewUserStore()
	publisher := mocks.NewPublisher()

	catalogSvc := catalog.NewService(catalogStore)
	cartSvc := cart.NewService(cartStore, catalogStore)
	orderSvc := order.NewService(orderStore, cartSvc, userStore, publisher)
	reviewSvc := review.NewService(catalogStore, orderStore)
	userSvc := user.NewService(userStore)
	tokens := auth.NewTokenService("test-secret-key-that-is-long-enough", time.Hour)

	handlers := api.NewHandlers(catalogSvc, cartSvc, orderSvc, reviewSvc, userSvc, tokens, nil)
	router := api.NewRouter(handlers, tokens, userStore, "")

	return &testServer{
		router:    router,
		tokens:    tokens,
		catalog:   catalogStore,
		carts:     cartStore,
		orders:    orderStore,
		users:     userStore,
		publisher: publisher,
	}
}

func (s *testServer) seedUser(t *testing.T, id string, role user.Role) string {
	t.Helper()
	require.NoError(t, s.users.SaveUser(context.Background(), &user.User{
		ID:       id,
		Email:    id + "@example.com",
		Name:     "Rosa",
		Role:     role,
		IsActive: true,
		Address: user.Address{
			Line:       "12 Greenhouse Lane",
			City:       "Springfield",
			PostalCode: "12345",
			Country:    "US",
			Phone:      "555-0101",
		},
	}))
	token, _, err := s.tokens.Generate(id, id+"@example.com", string(role))
	require.NoError(t, err)
	return token
}

func (s *testServer) seedProduct(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, s.catalog.SaveProduct(context.Background(), &catalog.Product{
		ID:       id,
		Name:     "Monstera Deliciosa",
		Price:    decimal.RequireFromString("25.00"),
		Stock:    10,
		Category: catalog.CategoryPlants,
		Active:   true,
	}))
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var envelope map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	}
	return rec, envelope
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	rec, body := s.do(t, http.MethodPost, "/auth/register", "", map[string]any{
		"email":    "rosa@example.com",
		"password": "hunter2hunter2",
		"name":     "Rosa",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, body["success"])

	rec, body = s.do(t, http.MethodPost, "/auth/login", "", map[string]any{
		"email":    "rosa@example.com",
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, body["token"])

	rec, body = s.do(t, http.MethodPost, "/auth/login", "", map[string]any{
		"email":    "rosa@example.com",
		"password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "invalid email or password", body["message"])
}

func TestCartRequiresAuth(t *testing.T) {
	s := newTestServer(t)

	rec, body := s.do(t, http.MethodGet, "/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, false, body["success"])
}

func TestCartAndCheckoutFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.seedUser(t, "user-1", user.RoleUser)
	s.seedProduct(t, "prod-1")

	rec, _ := s.do(t, http.MethodPost, "/cart/add", token, map[string]any{"product_id": "prod-1"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := s.do(t, http.MethodPost, "/checkout", token, map[string]any{"checkout_token": "tok-1"})
	require.Equal(t, http.StatusCreated, rec.Code)
	orderBody, ok := body["order"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Processing", orderBody["status"])
	// 25.00 + 2.50 tax + 50 shipping
	assert.Equal(t, "77.5", orderBody["total_price"])

	// Retry with the same checkout token returns the same order.
	rec, body = s.do(t, http.MethodPost, "/checkout", token, map[string]any{"checkout_token": "tok-1"})
	require.Equal(t, http.StatusCreated, rec.Code)
	retryBody, ok := body["order"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, orderBody["id"], retryBody["id"])

	// Checkout again with an empty cart fails.
	rec, body = s.do(t, http.MethodPost, "/checkout", token, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "cart is empty", body["message"])
}

func TestOrderOwnership(t *testing.T) {
	s := newTestServer(t)
	owner := s.seedUser(t, "user-1", user.RoleUser)
	other := s.seedUser(t, "user-2", user.RoleUser)
	s.orders.Seed(&order.Order{ID: "order-1", UserID: "user-1", Status: order.StatusProcessing})

	rec, _ := s.do(t, http.MethodGet, "/orders/order-1", owner, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/orders/order-1", other, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	s := newTestServer(t)
	userToken := s.seedUser(t, "user-1", user.RoleUser)
	adminToken := s.seedUser(t, "admin-1", user.RoleAdmin)

	rec, _ := s.do(t, http.MethodGet, "/admin/orders", userToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/admin/orders", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminUpdateOrderStatus(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.seedUser(t, "admin-1", user.RoleAdmin)
	s.seedUser(t, "user-1", user.RoleUser)
	s.orders.Seed(&order.Order{ID: "order-1", UserID: "user-1", Status: order.StatusProcessing})

	rec, body := s.do(t, http.MethodPut, "/admin/orders/order-1", adminToken, map[string]any{"status": "Accepted"})
	require.Equal(t, http.StatusOK, rec.Code)
	orderBody := body["order"].(map[string]any)
	assert.Equal(t, "Accepted", orderBody["status"])

	rec, body = s.do(t, http.MethodPut, "/admin/orders/order-1", adminToken, map[string]any{"status": "Shipped"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["message"], "invalid order status")
}

func TestPublicProductRoutes(t *testing.T) {
	s := newTestServer(t)
	s.seedProduct(t, "prod-1")

	rec, body := s.do(t, http.MethodGet, "/products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	products := body["products"].([]any)
	assert.Len(t, products, 1)

	rec, _ = s.do(t, http.MethodGet, "/products/prod-1", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/products/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(t, http.MethodDelete, "/products/prod-1", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestReviewRoutes(t *testing.T) {
	s := newTestServer(t)
	token := s.seedUser(t, "user-1", user.RoleUser)
	s.seedProduct(t, "prod-1")
	s.orders.Seed(&order.Order{
		ID:     "order-1",
		UserID: "user-1",
		Status: order.StatusDelivered,
		Items:  []order.Item{{ProductID: "prod-1", Quantity: 1}},
	})

	rec, body := s.do(t, http.MethodPost, "/products/prod-1/reviews", token, map[string]any{
		"rating":  5,
		"comment": "Thriving on my windowsill.",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	reviewBody := body["review"].(map[string]any)
	assert.Equal(t, "Rosa", reviewBody["user_name"])

	rec, body = s.do(t, http.MethodGet, "/products/prod-1/reviews", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["reviews"].([]any), 1)

	// Anonymous users cannot post reviews.
	rec, _ = s.do(t, http.MethodPost, "/products/prod-1/reviews", "", map[string]any{
		"rating":  5,
		"comment": "x",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
