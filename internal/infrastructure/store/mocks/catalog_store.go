// Package mocks provides in-memory store implementations for tests.
package mocks

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/example/gardenia/internal/apperr"
	"github.com/example/gardenia/internal/domain/catalog"
)

// CatalogStore is an in-memory catalog.Store. It also satisfies the
// product lookup interfaces of the cart and review services.
type CatalogStore struct {
	mu        sync.RWMutex
	products  map[string]*catalog.Product
	suppliers map[string]*catalog.Supplier

	SaveProductErr error
}

func NewCatalogStore() *CatalogStore {
	return &CatalogStore{
		products:  make(map[string]*catalog.Product),
		suppliers: make(map[string]*catalog.Supplier),
	}
}

func copyProduct(p *catalog.Product) *catalog.Product {
	cp := *p
	cp.Images = slices.Clone(p.Images)
	cp.Reviews = slices.Clone(p.Reviews)
	return &cp
}

func (s *CatalogStore) Product(ctx context.Context, id string) (*catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "product not found")
	}
	return copyProduct(p), nil
}

func (s *CatalogStore) SaveProduct(ctx context.Context, p *catalog.Product) error {
	if s.SaveProductErr != nil {
		return s.SaveProductErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = copyProduct(p)
	return nil
}

func (s *CatalogStore) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.products, id)
	return nil
}

func (s *CatalogStore) DetachSupplier(ctx context.Context, supplierID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.SupplierID == supplierID {
			p.SupplierID = ""
		}
	}
	return nil
}

func (s *CatalogStore) SearchProducts(ctx context.Context, params catalog.SearchParams) ([]*catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*catalog.Product
	for _, p := range s.products {
		if !params.IncludeInactive && !p.Active {
			continue
		}
		if params.InStockOnly && p.Stock <= 0 {
			continue
		}
		if params.Category != "" && p.Category != params.Category {
			continue
		}
		if params.Query != "" &&
			!strings.Contains(strings.ToLower(p.Name+" "+p.Description), strings.ToLower(params.Query)) {
			continue
		}
		if params.MinPrice.IsPositive() && p.Price.LessThan(params.MinPrice) {
			continue
		}
		if params.MaxPrice.IsPositive() && p.Price.GreaterThan(params.MaxPrice) {
			continue
		}
		out = append(out, copyProduct(p))
	}
	slices.SortFunc(out, func(a, b *catalog.Product) int {
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

// SetStock adjusts stock directly, bypassing the service layer.
func (s *CatalogStore) SetStock(id string, stock int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[id]; ok {
		p.Stock = stock
	}
}

// DecrementStock clamps at zero, mirroring the transactional checkout.
func (s *CatalogStore) DecrementStock(id string, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[id]; ok {
		p.Stock -= qty
		if p.Stock < 0 {
			p.Stock = 0
		}
	}
}

func (s *CatalogStore) Supplier(ctx context.Context, id string) (*catalog.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sup, ok := s.suppliers[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "supplier not found")
	}
	cp := *sup
	return &cp, nil
}

func (s *CatalogStore) ListSuppliers(ctx context.Context) ([]*catalog.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*catalog.Supplier
	for _, sup := range s.suppliers {
		cp := *sup
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *catalog.Supplier) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}

func (s *CatalogStore) SaveSupplier(ctx context.Context, sup *catalog.Supplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sup
	s.suppliers[sup.ID] = &cp
	return nil
}

func (s *CatalogStore) DeleteSupplier(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.suppliers, id)
	return nil
}
