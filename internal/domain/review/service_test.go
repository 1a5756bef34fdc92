package review_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/gardenia/internal/apperr"
	"github.com/example/gardenia/internal/domain/catalog"
	"github.com/example/gardenia/internal/domain/order"
	"github.com/example/gardenia/internal/domain/review"
	"github.com/example/gardenia/internal/infrastructure/store/mocks"
)

func setup(t *testing.T) (*review.Service, *mocks.CatalogStore, *mocks.OrderStore) {
	t.Helper()
	catalogStore := mocks.NewCatalogStore()
	orderStore := mocks.NewOrderStore(nil, nil)
	svc := review.NewService(catalogStore, orderStore)

	require.NoError(t, catalogStore.SaveProduct(context.Background(), &catalog.Product{
		ID:       "prod-1",
		Name:     "Tomato Seeds",
		Price:    decimal.RequireFromString("3.50"),
		Category: catalog.CategorySeeds,
		Active:   true,
	}))
	return svc, catalogStore, orderStore
}

func deliverProductTo(orderStore *mocks.OrderStore, userID, productID string) {
	orderStore.Seed(&order.Order{
		ID:     "order-" + userID,
		UserID: userID,
		Status: order.StatusDelivered,
		Items:  []order.Item{{ProductID: productID, Quantity: 1}},
	})
}

func TestCreateReview(t *testing.T) {
	ctx := context.Background()
	svc, catalogStore, orderStore := setup(t)
	deliverProductTo(orderStore, "user-1", "prod-1")

	r, err := svc.Create(ctx, "user-1", "Rosa", "prod-1", review.Input{Rating: 4, Comment: "Sprouted within a week."})
	require.NoError(t, err)
	assert.Equal(t, catalog.ReviewActive, r.Status)
	assert.Equal(t, "Rosa", r.UserName)

	p, err := catalogStore.Product(ctx, "prod-1")
	require.NoError(t, err)
	assert.Equal(t, 4.0, p.Rating)
	assert.Equal(t, 1, p.NumReviews)
}

func TestCreateReviewValidation(t *testing.T) {
	svc, _, orderStore := setup(t)
	deliverProductTo(orderStore, "user-1", "prod-1")

	tests := []struct {
		name  string
		input review.Input
	}{
		{"rating too low", review.Input{Rating: 0, Comment: "ok"}},
		{"rating too high", review.Input{Rating: 6, Comment: "ok"}},
		{"empty comment", review.Input{Rating: 3, Comment: "   "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "user-1", "Rosa", "prod-1", tt.input)
			assert.True(t, apperr.Is(err, apperr.Validation))
		})
	}
}

func TestCreateReviewRequiresDeliveredOrder(t *testing.T) {
	ctx := context.Background()
	svc, _, orderStore := setup(t)

	// No orders at all.
	_, err := svc.Create(ctx, "user-1", "Rosa", "prod-1", review.Input{Rating: 5, Comment: "Great"})
	assert.True(t, apperr.Is(err, apperr.Forbidden))

	// An order that is not delivered yet does not qualify.
	orderStore.Seed(&order.Order{
		ID:     "order-1",
		UserID: "user-1",
		Status: order.StatusOutForDelivery,
		Items:  []order.Item{{ProductID: "prod-1", Quantity: 1}},
	})
	_, err = svc.Create(ctx, "user-1", "Rosa", "prod-1", review.Input{Rating: 5, Comment: "Great"})
	assert.True(t, apperr.Is(err, apperr.Forbidden))
}

func TestCreateReviewOncePerProduct(t *testing.T) {
	ctx := context.Background()
	svc, _, orderStore := setup(t)
	deliverProductTo(orderStore, "user-1", "prod-1")

	_, err := svc.Create(ctx, "user-1", "Rosa", "prod-1", review.Input{Rating: 4, Comment: "Good"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, "user-1", "Rosa", "prod-1", review.Input{Rating: 5, Comment: "Even better"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Validation))
	assert.Contains(t, err.Error(), "update your review instead")
}

func TestCreateReviewCensorsProfanity(t *testing.T) {
	ctx := context.Background()
	svc, _, orderStore := setup(t)
	deliverProductTo(orderStore, "user-1", "prod-1")

	r, err := svc.Create(ctx, "user-1", "Rosa", "prod-1", review.Input{Rating: 1, Comment: "this shit never sprouted"})
	require.NoError(t, err)
	assert.NotContains(t, r.Comment, "shit")
	assert.Contains(t, r.Comment, "never sprouted")
}

func TestUpdateReview(t *testing.T) {
	ctx := context.Background()
	svc, catalogStore, orderStore := setup(t)
	deliverProductTo(orderStore, "user-1", "prod-1")

	_, err := svc.Create(ctx, "user-1", "Rosa", "prod-1", review.Input{Rating: 2, Comment: "Slow start"})
	require.NoError(t, err)

	r, err := svc.Update(ctx, "user-1", "prod-1", review.Input{Rating: 5, Comment: "They all came up"})
	require.NoError(t, err)
	assert.Equal(t, 5, r.Rating)

	p, err := catalogStore.Product(ctx, "prod-1")
	require.NoError(t, err)
	assert.Equal(t, 5.0, p.Rating)
	assert.Equal(t, 1, p.NumReviews)
}

func TestUpdateReviewNotFound(t *testing.T) {
	svc, _, _ := setup(t)

	_, err := svc.Update(context.Background(), "user-1", "prod-1", review.Input{Rating: 5, Comment: "x"})
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestSoftDeleteAndRestore(t *testing.T) {
	ctx := context.Background()
	svc, catalogStore, orderStore := setup(t)
	deliverProductTo(orderStore, "user-1", "prod-1")
	deliverProductTo(orderStore, "user-2", "prod-1")

	_, err := svc.Create(ctx, "user-1", "Rosa", "prod-1", review.Input{Rating: 2, Comment: "Meh"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "user-2", "Ivy", "prod-1", review.Input{Rating: 4, Comment: "Nice"})
	require.NoError(t, err)

	require.NoError(t, svc.SoftDelete(ctx, "user-1", "prod-1"))

	active, err := svc.ListActive(ctx, "prod-1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "user-2", active[0].UserID)

	// The stored average still covers all reviews, hidden ones included.
	p, err := catalogStore.Product(ctx, "prod-1")
	require.NoError(t, err)
	assert.Equal(t, 3.0, p.Rating)
	assert.Equal(t, 2, p.NumReviews)

	require.NoError(t, svc.Restore(ctx, "user-1", "prod-1"))
	active, err = svc.ListActive(ctx, "prod-1")
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestHardDelete(t *testing.T) {
	ctx := context.Background()
	svc, catalogStore, orderStore := setup(t)
	deliverProductTo(orderStore, "user-1", "prod-1")

	_, err := svc.Create(ctx, "user-1", "Rosa", "prod-1", review.Input{Rating: 3, Comment: "Fine"})
	require.NoError(t, err)

	require.NoError(t, svc.HardDelete(ctx, "user-1", "prod-1"))

	p, err := catalogStore.Product(ctx, "prod-1")
	require.NoError(t, err)
	assert.Empty(t, p.Reviews)
	assert.Equal(t, 0.0, p.Rating)
	assert.Equal(t, 0, p.NumReviews)

	err = svc.HardDelete(ctx, "user-1", "prod-1")
	assert.True(t, apperr.Is(err, apperr.NotFound))
}
