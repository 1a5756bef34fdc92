package order

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/example/gardenia/internal/apperr"
	"github.com/example/gardenia/internal/domain/cart"
	"github.com/example/gardenia/internal/domain/user"
	"github.com/google/uuid"
)

// ErrDuplicateCheckout is returned by the store when an order with the
// same checkout token already exists.
var ErrDuplicateCheckout = errors.New("duplicate checkout token")

// Store is the order persistence surface. Checkout is a single unit of
// work: it inserts the order, decrements each ordered product's stock
// clamped at zero, and clears the owner's cart, committing or rolling
// back together.
type Store interface {
	Checkout(ctx context.Context, o *Order) error
	Order(ctx context.Context, id string) (*Order, error)
	OrderByToken(ctx context.Context, token string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]*Order, error)
	ListAll(ctx context.Context) ([]*Order, error)
	SaveOrder(ctx context.Context, o *Order) error
	DeleteOrder(ctx context.Context, id string) error
}

// UserGetter resolves the account owning an order.
type UserGetter interface {
	User(ctx context.Context, id string) (*user.User, error)
}

// Publisher pushes order events onto the notification topic. Delivery is
// at-least-once via the notifier worker; publish failures never fail the
// primary operation.
type Publisher interface {
	Publish(ctx context.Context, key string, event Event) error
}

type Service struct {
	store     Store
	carts     *cart.Service
	users     UserGetter
	publisher Publisher
}

func NewService(store Store, carts *cart.Service, users UserGetter, publisher Publisher) *Service {
	return &Service{store: store, carts: carts, users: users, publisher: publisher}
}

// Checkout converts the user's cart into an immutable order. The checkout
// token, when supplied by the client, makes retries idempotent: a token
// that already produced an order returns that order unchanged.
func (s *Service) Checkout(ctx context.Context, userID, checkoutToken string) (*Order, error) {
	u, err := s.users.User(ctx, userID)
	if err != nil {
		return nil, err
	}

	if checkoutToken != "" {
		if existing, err := s.store.OrderByToken(ctx, checkoutToken); err == nil {
			// A token only replays for the user who created the order.
			if existing.UserID != userID {
				return nil, apperr.New(apperr.Forbidden, "not your order")
			}
			return existing, nil
		}
	}

	view, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(view.Items) == 0 {
		return nil, apperr.New(apperr.Validation, "cart is empty")
	}

	shipping := ShippingInfo{
		Address:    u.Address.Line,
		City:       u.Address.City,
		PostalCode: u.Address.PostalCode,
		Country:    u.Address.Country,
		Phone:      u.Address.Phone,
	}
	if !shipping.Complete() {
		return nil, apperr.New(apperr.Validation, "shipping address incomplete")
	}

	items := make([]Item, len(view.Items))
	for i, it := range view.Items {
		items[i] = Item{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Image:     it.Image,
		}
	}

	itemsPrice := view.ItemsPrice
	taxPrice := itemsPrice.Mul(TaxRate)
	totalPrice := itemsPrice.Add(taxPrice).Add(ShippingFlat)

	now := time.Now()
	o := &Order{
		ID:            uuid.New().String(),
		UserID:        userID,
		Items:         items,
		Shipping:      shipping,
		ItemsPrice:    itemsPrice,
		TaxPrice:      taxPrice,
		ShippingPrice: ShippingFlat,
		TotalPrice:    totalPrice,
		Status:        StatusProcessing,
		CheckoutToken: checkoutToken,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.store.Checkout(ctx, o); err != nil {
		if errors.Is(err, ErrDuplicateCheckout) {
			existing, err := s.store.OrderByToken(ctx, checkoutToken)
			if err != nil {
				return nil, err
			}
			if existing.UserID != userID {
				return nil, apperr.New(apperr.Forbidden, "not your order")
			}
			return existing, nil
		}
		return nil, err
	}

	s.publishCreated(ctx, o, u)
	return o, nil
}

// Get returns an order, enforcing ownership unless the caller is an admin.
func (s *Service) Get(ctx context.Context, orderID, callerID string, isAdmin bool) (*Order, error) {
	o, err := s.store.Order(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && o.UserID != callerID {
		return nil, apperr.New(apperr.Forbidden, "not your order")
	}
	return o, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]*Order, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *Service) ListAll(ctx context.Context) ([]*Order, error) {
	return s.store.ListAll(ctx)
}

// UpdateStatus sets a new status from the back office. The literal is
// validated against the whitelist before the order is loaded. A
// notification fires only when the status actually changed and the owner
// has an email address.
func (s *Service) UpdateStatus(ctx context.Context, orderID, statusLiteral string) (*Order, error) {
	status, err := ParseStatus(statusLiteral)
	if err != nil {
		return nil, err
	}

	o, err := s.store.Order(ctx, orderID)
	if err != nil {
		return nil, err
	}

	old := o.Status
	o.Status = status
	if status == StatusDelivered && o.DeliveredAt == nil {
		now := time.Now()
		o.DeliveredAt = &now
	}
	o.UpdatedAt = time.Now()
	if err := s.store.SaveOrder(ctx, o); err != nil {
		return nil, err
	}

	if old != status {
		s.publishStatusChanged(ctx, o, old, status)
	}
	return o, nil
}

// MarkDelivered lets the order's owner confirm receipt. Terminal orders
// (already Delivered, or Cancelled) are rejected.
func (s *Service) MarkDelivered(ctx context.Context, orderID, userID string) (*Order, error) {
	o, err := s.store.Order(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, apperr.New(apperr.Forbidden, "not your order")
	}
	if o.Status.Terminal() {
		return nil, apperr.Newf(apperr.Validation, "order is already %s", o.Status)
	}

	old := o.Status
	now := time.Now()
	o.Status = StatusDelivered
	o.DeliveredAt = &now
	o.UpdatedAt = now
	if err := s.store.SaveOrder(ctx, o); err != nil {
		return nil, err
	}

	s.publishStatusChanged(ctx, o, old, StatusDelivered)
	return o, nil
}

// Delete removes an order permanently. Admin only; users never delete
// orders.
func (s *Service) Delete(ctx context.Context, orderID string) error {
	if _, err := s.store.Order(ctx, orderID); err != nil {
		return err
	}
	return s.store.DeleteOrder(ctx, orderID)
}

func (s *Service) publishCreated(ctx context.Context, o *Order, u *user.User) {
	if s.publisher == nil {
		return
	}
	event, err := NewEvent(EventOrderCreated, o.ID, OrderCreated{
		Order:     *o,
		UserEmail: u.Email,
		UserName:  u.Name,
	})
	if err != nil {
		log.Printf("[Order] Failed to build created event for order %s: %v", o.ID, err)
		return
	}
	if err := s.publisher.Publish(ctx, o.ID, event); err != nil {
		log.Printf("[Order] Failed to publish created event for order %s: %v", o.ID, err)
	}
}

func (s *Service) publishStatusChanged(ctx context.Context, o *Order, old, next Status) {
	if s.publisher == nil {
		return
	}
	u, err := s.users.User(ctx, o.UserID)
	if err != nil || u.Email == "" {
		return
	}
	event, err := NewEvent(EventOrderStatusChanged, o.ID, OrderStatusChanged{
		Order:     *o,
		UserEmail: u.Email,
		UserName:  u.Name,
		OldStatus: old,
		NewStatus: next,
	})
	if err != nil {
		log.Printf("[Order] Failed to build status event for order %s: %v", o.ID, err)
		return
	}
	if err := s.publisher.Publish(ctx, o.ID, event); err != nil {
		log.Printf("[Order] Failed to publish status event for order %s: %v", o.ID, err)
	}
}
