package cart

import (
	"context"
	"time"

	"github.com/example/gardenia/internal/apperr"
	"github.com/example/gardenia/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// QuantityAction is the direction of a quantity change.
type QuantityAction string

const (
	ActionIncrease QuantityAction = "increase"
	ActionDecrease QuantityAction = "decrease"
)

type Store interface {
	Cart(ctx context.Context, userID string) (*Cart, error)
	SaveCart(ctx context.Context, c *Cart) error
}

// ProductGetter resolves product details for cart population.
type ProductGetter interface {
	Product(ctx context.Context, id string) (*catalog.Product, error)
}

type Service struct {
	store    Store
	products ProductGetter
}

func NewService(store Store, products ProductGetter) *Service {
	return &Service{store: store, products: products}
}

// Get returns the populated cart. A user without a cart gets an empty one.
func (s *Service) Get(ctx context.Context, userID string) (*View, error) {
	c, err := s.store.Cart(ctx, userID)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			return s.populate(ctx, &Cart{UserID: userID, Items: []Item{}})
		}
		return nil, err
	}
	return s.populate(ctx, c)
}

// AddItem puts one unit of the product in the cart, creating the cart on
// first use and incrementing the line if it already exists.
func (s *Service) AddItem(ctx context.Context, userID, productID string) (*View, error) {
	p, err := s.products.Product(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, apperr.New(apperr.Validation, "product is not available")
	}

	c, err := s.loadOrNew(ctx, userID)
	if err != nil {
		return nil, err
	}
	if i := c.itemIndex(productID); i >= 0 {
		c.Items[i].Quantity++
	} else {
		c.Items = append(c.Items, Item{ProductID: productID, Quantity: 1})
	}
	return s.save(ctx, c)
}

// ChangeQuantity increases or decreases a line by one. Increase is not
// capped by stock here; the storefront UI enforces the ceiling. A decrease
// below one removes the line.
func (s *Service) ChangeQuantity(ctx context.Context, userID, productID string, action QuantityAction) (*View, error) {
	if action != ActionIncrease && action != ActionDecrease {
		return nil, apperr.Newf(apperr.Validation, "invalid action %q", action)
	}

	c, err := s.store.Cart(ctx, userID)
	if err != nil {
		return nil, err
	}
	i := c.itemIndex(productID)
	if i < 0 {
		return nil, apperr.New(apperr.NotFound, "item not in cart")
	}

	switch action {
	case ActionIncrease:
		c.Items[i].Quantity++
	case ActionDecrease:
		if c.Items[i].Quantity <= 1 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
		} else {
			c.Items[i].Quantity--
		}
	}
	return s.save(ctx, c)
}

// RemoveItem filters the line out. Removing a product that is not in the
// cart succeeds silently; only a missing cart is an error.
func (s *Service) RemoveItem(ctx context.Context, userID, productID string) (*View, error) {
	c, err := s.store.Cart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if i := c.itemIndex(productID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
	return s.save(ctx, c)
}

// Clear empties the cart, upserting it so the row exists afterwards.
func (s *Service) Clear(ctx context.Context, userID string) (*View, error) {
	c, err := s.loadOrNew(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.Items = []Item{}
	return s.save(ctx, c)
}

func (s *Service) loadOrNew(ctx context.Context, userID string) (*Cart, error) {
	c, err := s.store.Cart(ctx, userID)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			return &Cart{UserID: userID, Items: []Item{}}, nil
		}
		return nil, err
	}
	return c, nil
}

func (s *Service) save(ctx context.Context, c *Cart) (*View, error) {
	c.UpdatedAt = time.Now()
	if err := s.store.SaveCart(ctx, c); err != nil {
		return nil, err
	}
	return s.populate(ctx, c)
}

// populate joins cart lines with current product name, price and first
// image. Lines whose product no longer exists are dropped from the view.
func (s *Service) populate(ctx context.Context, c *Cart) (*View, error) {
	v := &View{
		UserID:     c.UserID,
		Items:      make([]ViewItem, 0, len(c.Items)),
		ItemsPrice: decimal.Zero,
	}
	for _, it := range c.Items {
		p, err := s.products.Product(ctx, it.ProductID)
		if err != nil {
			if apperr.Is(err, apperr.NotFound) {
				continue
			}
			return nil, err
		}
		subtotal := p.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		v.Items = append(v.Items, ViewItem{
			ProductID: it.ProductID,
			Name:      p.Name,
			Price:     p.Price,
			Image:     p.FirstImageURL(),
			Quantity:  it.Quantity,
			Subtotal:  subtotal,
		})
		v.ItemsPrice = v.ItemsPrice.Add(subtotal)
	}
	return v, nil
}
