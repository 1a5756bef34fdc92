package mocks

import (
	"context"
	"slices"
	"sync"

	"github.com/example/gardenia/internal/apperr"
	"github.com/example/gardenia/internal/domain/order"
)

// OrderStore is an in-memory order.Store. When wired with a CatalogStore
// and CartStore it reproduces the checkout unit of work: order insert,
// clamped stock decrement, cart clear.
type OrderStore struct {
	mu     sync.RWMutex
	orders map[string]*order.Order

	Catalog *CatalogStore
	Carts   *CartStore

	CheckoutErr error
	SaveErr     error
}

func NewOrderStore(catalog *CatalogStore, carts *CartStore) *OrderStore {
	return &OrderStore{
		orders:  make(map[string]*order.Order),
		Catalog: catalog,
		Carts:   carts,
	}
}

func copyOrder(o *order.Order) *order.Order {
	cp := *o
	cp.Items = slices.Clone(o.Items)
	if o.DeliveredAt != nil {
		t := *o.DeliveredAt
		cp.DeliveredAt = &t
	}
	return &cp
}

func (s *OrderStore) Checkout(ctx context.Context, o *order.Order) error {
	if s.CheckoutErr != nil {
		return s.CheckoutErr
	}
	s.mu.Lock()
	if o.CheckoutToken != "" {
		for _, existing := range s.orders {
			if existing.CheckoutToken == o.CheckoutToken {
				s.mu.Unlock()
				return order.ErrDuplicateCheckout
			}
		}
	}
	s.orders[o.ID] = copyOrder(o)
	s.mu.Unlock()

	if s.Catalog != nil {
		for _, item := range o.Items {
			s.Catalog.DecrementStock(item.ProductID, item.Quantity)
		}
	}
	if s.Carts != nil {
		s.Carts.Clear(o.UserID)
	}
	return nil
}

func (s *OrderStore) Order(ctx context.Context, id string) (*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "order not found")
	}
	return copyOrder(o), nil
}

func (s *OrderStore) OrderByToken(ctx context.Context, token string) (*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.CheckoutToken == token {
			return copyOrder(o), nil
		}
	}
	return nil, apperr.New(apperr.NotFound, "order not found")
}

func (s *OrderStore) ListByUser(ctx context.Context, userID string) ([]*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*order.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, copyOrder(o))
		}
	}
	return out, nil
}

func (s *OrderStore) ListAll(ctx context.Context) ([]*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*order.Order
	for _, o := range s.orders {
		out = append(out, copyOrder(o))
	}
	return out, nil
}

func (s *OrderStore) SaveOrder(ctx context.Context, o *order.Order) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[o.ID]; !ok {
		return apperr.New(apperr.NotFound, "order not found")
	}
	s.orders[o.ID] = copyOrder(o)
	return nil
}

func (s *OrderStore) DeleteOrder(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.orders, id)
	return nil
}

// Seed inserts an order directly for test setup.
func (s *OrderStore) Seed(o *order.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = copyOrder(o)
}
