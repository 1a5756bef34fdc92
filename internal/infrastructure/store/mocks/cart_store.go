package mocks

import (
	"context"
	"slices"
	"sync"

	"github.com/example/gardenia/internal/apperr"
	"github.com/example/gardenia/internal/domain/cart"
)

// CartStore is an in-memory cart.Store.
type CartStore struct {
	mu    sync.RWMutex
	carts map[string]*cart.Cart

	SaveErr error
}

func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[string]*cart.Cart)}
}

func copyCart(c *cart.Cart) *cart.Cart {
	cp := *c
	cp.Items = slices.Clone(c.Items)
	return &cp
}

func (s *CartStore) Cart(ctx context.Context, userID string) (*cart.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.carts[userID]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "cart not found")
	}
	return copyCart(c), nil
}

func (s *CartStore) SaveCart(ctx context.Context, c *cart.Cart) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[c.UserID] = copyCart(c)
	return nil
}

// Clear empties a user's cart in place, mirroring the transactional
// checkout.
func (s *CartStore) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.carts[userID]; ok {
		c.Items = []cart.Item{}
	}
}
