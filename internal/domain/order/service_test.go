package order_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/gardenia/internal/apperr"
	"github.com/example/gardenia/internal/domain/cart"
	"github.com/example/gardenia/internal/domain/catalog"
	"github.com/example/gardenia/internal/domain/order"
	"github.com/example/gardenia/internal/domain/user"
	"github.com/example/gardenia/internal/infrastructure/store/mocks"
)

type fixture struct {
	svc       *order.Service
	catalog   *mocks.CatalogStore
	carts     *mocks.CartStore
	orders    *mocks.OrderStore
	users     *mocks.UserStore
	publisher *mocks.Publisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	catalogStore := mocks.NewCatalogStore()
	cartStore := mocks.NewCartStore()
	orderStore := mocks.NewOrderStore(catalogStore, cartStore)
	userStore := mocks.NewUserStore()
	publisher := mocks.NewPublisher()

	cartSvc := cart.NewService(cartStore, catalogStore)
	svc := order.NewService(orderStore, cartSvc, userStore, publisher)
	return &fixture{
		svc:       svc,
		catalog:   catalogStore,
		carts:     cartStore,
		orders:    orderStore,
		users:     userStore,
		publisher: publisher,
	}
}

func (f *fixture) seedUser(t *testing.T, id string, complete bool) {
	t.Helper()
	u := &user.User{
		ID:       id,
		Email:    id + "@example.com",
		Name:     "Rosa Gardener",
		Role:     user.RoleUser,
		IsActive: true,
	}
	if complete {
		u.Address = user.Address{
			Line:       "12 Greenhouse Lane",
			City:       "Springfield",
			PostalCode: "12345",
			Country:    "US",
			Phone:      "555-0101",
		}
	}
	require.NoError(t, f.users.SaveUser(context.Background(), u))
}

func (f *fixture) seedProduct(t *testing.T, id, price string, stock int) {
	t.Helper()
	require.NoError(t, f.catalog.SaveProduct(context.Background(), &catalog.Product{
		ID:       id,
		Name:     "Ceramic Pot",
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		Category: catalog.CategoryPots,
		Active:   true,
	}))
}

func (f *fixture) fillCart(t *testing.T, userID, productID string, qty int) {
	t.Helper()
	require.NoError(t, f.carts.SaveCart(context.Background(), &cart.Cart{
		UserID:    userID,
		Items:     []cart.Item{{ProductID: productID, Quantity: qty}},
		UpdatedAt: time.Now(),
	}))
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedUser(t, "user-1", true)
	f.seedProduct(t, "prod-1", "12.50", 5)
	f.fillCart(t, "user-1", "prod-1", 2)

	o, err := f.svc.Checkout(ctx, "user-1", "")
	require.NoError(t, err)

	assert.Equal(t, order.StatusProcessing, o.Status)
	require.Len(t, o.Items, 1)
	assert.Equal(t, 2, o.Items[0].Quantity)
	assert.Equal(t, "Ceramic Pot", o.Items[0].Name)
	assert.Equal(t, "12 Greenhouse Lane", o.Shipping.Address)

	// items 25.00, tax 2.50 (10%), shipping flat 50, total 77.50
	assert.True(t, o.ItemsPrice.Equal(decimal.RequireFromString("25.00")))
	assert.True(t, o.TaxPrice.Equal(decimal.RequireFromString("2.50")))
	assert.True(t, o.ShippingPrice.Equal(decimal.RequireFromString("50")))
	assert.True(t, o.TotalPrice.Equal(decimal.RequireFromString("77.50")))

	// Stock decremented and cart cleared inside the unit of work.
	p, err := f.catalog.Product(ctx, "prod-1")
	require.NoError(t, err)
	assert.Equal(t, 3, p.Stock)

	c, err := f.carts.Cart(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, c.Items)

	created := f.publisher.ByType(order.EventOrderCreated)
	require.Len(t, created, 1)
	var payload order.OrderCreated
	require.NoError(t, json.Unmarshal(created[0].Data, &payload))
	assert.Equal(t, "user-1@example.com", payload.UserEmail)
	assert.Equal(t, o.ID, payload.Order.ID)
}

func TestCheckoutStockClampsAtZero(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedUser(t, "user-1", true)
	f.seedProduct(t, "prod-1", "5.00", 1)
	f.fillCart(t, "user-1", "prod-1", 3)

	_, err := f.svc.Checkout(ctx, "user-1", "")
	require.NoError(t, err)

	p, err := f.catalog.Product(ctx, "prod-1")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock, "oversold stock clamps at zero instead of going negative")
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "user-1", true)

	_, err := f.svc.Checkout(context.Background(), "user-1", "")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Validation))
	assert.Contains(t, err.Error(), "cart is empty")
}

func TestCheckoutIncompleteShipping(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "user-1", false)
	f.seedProduct(t, "prod-1", "5.00", 5)
	f.fillCart(t, "user-1", "prod-1", 1)

	_, err := f.svc.Checkout(context.Background(), "user-1", "")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Validation))
	assert.Contains(t, err.Error(), "shipping address incomplete")
}

func TestCheckoutUnknownUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Checkout(context.Background(), "ghost", "")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestCheckoutTokenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedUser(t, "user-1", true)
	f.seedProduct(t, "prod-1", "10.00", 10)
	f.fillCart(t, "user-1", "prod-1", 1)

	first, err := f.svc.Checkout(ctx, "user-1", "token-abc")
	require.NoError(t, err)

	// Retrying with the same token returns the same order and runs no
	// side effects a second time.
	f.fillCart(t, "user-1", "prod-1", 1)
	second, err := f.svc.Checkout(ctx, "user-1", "token-abc")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	p, err := f.catalog.Product(ctx, "prod-1")
	require.NoError(t, err)
	assert.Equal(t, 9, p.Stock)

	assert.Len(t, f.publisher.ByType(order.EventOrderCreated), 1)
}

func TestCheckoutTokenIsScopedToItsOwner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedUser(t, "user-1", true)
	f.seedUser(t, "user-2", true)
	f.seedProduct(t, "prod-1", "10.00", 10)
	f.fillCart(t, "user-1", "prod-1", 1)

	_, err := f.svc.Checkout(ctx, "user-1", "token-abc")
	require.NoError(t, err)

	// Another user replaying the token must not receive the order.
	f.fillCart(t, "user-2", "prod-1", 1)
	_, err = f.svc.Checkout(ctx, "user-2", "token-abc")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Forbidden))
}

func TestCheckoutPublishFailureDoesNotFailCheckout(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "user-1", true)
	f.seedProduct(t, "prod-1", "10.00", 10)
	f.fillCart(t, "user-1", "prod-1", 1)
	f.publisher.PublishErr = assert.AnError

	o, err := f.svc.Checkout(context.Background(), "user-1", "")
	require.NoError(t, err)
	assert.NotEmpty(t, o.ID)
}

func TestGetEnforcesOwnership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.orders.Seed(&order.Order{ID: "order-1", UserID: "user-1", Status: order.StatusProcessing})

	_, err := f.svc.Get(ctx, "order-1", "user-2", false)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Forbidden))

	o, err := f.svc.Get(ctx, "order-1", "user-2", true)
	require.NoError(t, err)
	assert.Equal(t, "order-1", o.ID)

	o, err = f.svc.Get(ctx, "order-1", "user-1", false)
	require.NoError(t, err)
	assert.Equal(t, "order-1", o.ID)
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedUser(t, "user-1", true)
	f.orders.Seed(&order.Order{ID: "order-1", UserID: "user-1", Status: order.StatusProcessing})

	o, err := f.svc.UpdateStatus(ctx, "order-1", "Accepted")
	require.NoError(t, err)
	assert.Equal(t, order.StatusAccepted, o.Status)
	assert.Nil(t, o.DeliveredAt)

	events := f.publisher.ByType(order.EventOrderStatusChanged)
	require.Len(t, events, 1)
	var payload order.OrderStatusChanged
	require.NoError(t, json.Unmarshal(events[0].Data, &payload))
	assert.Equal(t, order.StatusProcessing, payload.OldStatus)
	assert.Equal(t, order.StatusAccepted, payload.NewStatus)
}

func TestUpdateStatusRejectsUnknownLiteral(t *testing.T) {
	f := newFixture(t)

	// The literal check runs before the order is even loaded.
	_, err := f.svc.UpdateStatus(context.Background(), "no-such-order", "Shipped")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Validation))
}

func TestUpdateStatusStampsDeliveredAt(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "user-1", true)
	f.orders.Seed(&order.Order{ID: "order-1", UserID: "user-1", Status: order.StatusOutForDelivery})

	o, err := f.svc.UpdateStatus(context.Background(), "order-1", "Delivered")
	require.NoError(t, err)
	require.NotNil(t, o.DeliveredAt)
	assert.WithinDuration(t, time.Now(), *o.DeliveredAt, time.Minute)
}

func TestUpdateStatusNoChangeNoEvent(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "user-1", true)
	f.orders.Seed(&order.Order{ID: "order-1", UserID: "user-1", Status: order.StatusAccepted})

	_, err := f.svc.UpdateStatus(context.Background(), "order-1", "Accepted")
	require.NoError(t, err)
	assert.Empty(t, f.publisher.Events)
}

func TestCancelDoesNotRestock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedUser(t, "user-1", true)
	f.seedProduct(t, "prod-1", "10.00", 5)
	f.fillCart(t, "user-1", "prod-1", 2)

	o, err := f.svc.Checkout(ctx, "user-1", "")
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, o.ID, "Cancelled")
	require.NoError(t, err)

	p, err := f.catalog.Product(ctx, "prod-1")
	require.NoError(t, err)
	assert.Equal(t, 3, p.Stock, "cancelling an order leaves stock untouched")
}

func TestMarkDelivered(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedUser(t, "user-1", true)
	f.orders.Seed(&order.Order{ID: "order-1", UserID: "user-1", Status: order.StatusOutForDelivery})

	o, err := f.svc.MarkDelivered(ctx, "order-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, order.StatusDelivered, o.Status)
	require.NotNil(t, o.DeliveredAt)
	assert.Len(t, f.publisher.ByType(order.EventOrderStatusChanged), 1)
}

func TestMarkDeliveredNotOwner(t *testing.T) {
	f := newFixture(t)
	f.orders.Seed(&order.Order{ID: "order-1", UserID: "user-1", Status: order.StatusProcessing})

	_, err := f.svc.MarkDelivered(context.Background(), "order-1", "user-2")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Forbidden))
}

func TestMarkDeliveredTerminalStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status order.Status
	}{
		{"already delivered", order.StatusDelivered},
		{"cancelled", order.StatusCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.orders.Seed(&order.Order{ID: "order-1", UserID: "user-1", Status: tt.status})

			_, err := f.svc.MarkDelivered(context.Background(), "order-1", "user-1")
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.Validation))
		})
	}
}

func TestStatusChangeWithoutEmailSkipsEvent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.users.SaveUser(ctx, &user.User{ID: "user-1", IsActive: true}))
	f.orders.Seed(&order.Order{ID: "order-1", UserID: "user-1", Status: order.StatusProcessing})

	_, err := f.svc.UpdateStatus(ctx, "order-1", "Accepted")
	require.NoError(t, err)
	assert.Empty(t, f.publisher.Events)
}

func TestParseStatus(t *testing.T) {
	for _, literal := range []string{"Processing", "Accepted", "Cancelled", "Out for Delivery", "Delivered"} {
		status, err := order.ParseStatus(literal)
		require.NoError(t, err)
		assert.Equal(t, order.Status(literal), status)
	}

	for _, literal := range []string{"", "processing", "Shipped", "DELIVERED"} {
		_, err := order.ParseStatus(literal)
		assert.True(t, apperr.Is(err, apperr.Validation), "literal %q", literal)
	}
}

func TestDeleteOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.orders.Seed(&order.Order{ID: "order-1", UserID: "user-1", Status: order.StatusProcessing})

	require.NoError(t, f.svc.Delete(ctx, "order-1"))

	_, err := f.svc.Get(ctx, "order-1", "user-1", true)
	assert.True(t, apperr.Is(err, apperr.NotFound))

	err = f.svc.Delete(ctx, "order-1")
	assert.True(t, apperr.Is(err, apperr.NotFound))
}
