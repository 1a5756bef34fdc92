// Package review manages product reviews: the delivered-order
// eligibility gate, profanity filtering, soft delete, and the product
// rating invariant.
package review

import (
	"context"
	"strings"
	"time"

	goaway "github.com/TwiN/go-away"
	"github.com/example/gardenia/internal/apperr"
	"github.com/example/gardenia/internal/domain/catalog"
	"github.com/example/gardenia/internal/domain/order"
)

type ProductStore interface {
	Product(ctx context.Context, id string) (*catalog.Product, error)
	SaveProduct(ctx context.Context, p *catalog.Product) error
}

// OrderLister exposes the order history used by the eligibility gate.
type OrderLister interface {
	ListByUser(ctx context.Context, userID string) ([]*order.Order, error)
}

type Service struct {
	products ProductStore
	orders   OrderLister
	filter   *goaway.ProfanityDetector
}

func NewService(products ProductStore, orders OrderLister) *Service {
	return &Service{
		products: products,
		orders:   orders,
		filter:   goaway.NewProfanityDetector(),
	}
}

// Input carries the writable review fields.
type Input struct {
	Rating  int
	Comment string
}

func (in *Input) validate() error {
	if in.Rating < 1 || in.Rating > 5 {
		return apperr.New(apperr.Validation, "rating must be between 1 and 5")
	}
	if strings.TrimSpace(in.Comment) == "" {
		return apperr.New(apperr.Validation, "comment is required")
	}
	return nil
}

// Create adds a review, gated on the user having received the product in
// a delivered order. One review per (user, product); a second attempt is
// rejected and directed to update instead.
func (s *Service) Create(ctx context.Context, userID, userName, productID string, in Input) (*catalog.Review, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	p, err := s.products.Product(ctx, productID)
	if err != nil {
		return nil, err
	}

	eligible, err := s.hasDeliveredOrder(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, apperr.New(apperr.Forbidden, "you can only review products you have received")
	}

	if p.ReviewBy(userID) >= 0 {
		return nil, apperr.New(apperr.Validation, "you have already reviewed this product, update your review instead")
	}

	now := time.Now()
	r := catalog.Review{
		UserID:    userID,
		UserName:  userName,
		Rating:    in.Rating,
		Comment:   s.filter.Censor(in.Comment),
		Status:    catalog.ReviewActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	p.Reviews = append(p.Reviews, r)
	p.RefreshRating()
	if err := s.products.SaveProduct(ctx, p); err != nil {
		return nil, err
	}
	return &r, nil
}

// Update edits the caller's own review.
func (s *Service) Update(ctx context.Context, userID, productID string, in Input) (*catalog.Review, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p, err := s.products.Product(ctx, productID)
	if err != nil {
		return nil, err
	}
	i := p.ReviewBy(userID)
	if i < 0 {
		return nil, apperr.New(apperr.NotFound, "review not found")
	}

	p.Reviews[i].Rating = in.Rating
	p.Reviews[i].Comment = s.filter.Censor(in.Comment)
	p.Reviews[i].UpdatedAt = time.Now()
	p.RefreshRating()
	if err := s.products.SaveProduct(ctx, p); err != nil {
		return nil, err
	}
	return &p.Reviews[i], nil
}

// SoftDelete hides the caller's review from read APIs while keeping it in
// the product record.
func (s *Service) SoftDelete(ctx context.Context, userID, productID string) error {
	return s.setStatus(ctx, userID, productID, catalog.ReviewDeleted)
}

// Restore reactivates a soft-deleted review (back office).
func (s *Service) Restore(ctx context.Context, userID, productID string) error {
	return s.setStatus(ctx, userID, productID, catalog.ReviewActive)
}

func (s *Service) setStatus(ctx context.Context, userID, productID string, status catalog.ReviewStatus) error {
	p, err := s.products.Product(ctx, productID)
	if err != nil {
		return err
	}
	i := p.ReviewBy(userID)
	if i < 0 {
		return apperr.New(apperr.NotFound, "review not found")
	}
	p.Reviews[i].Status = status
	p.Reviews[i].UpdatedAt = time.Now()
	p.RefreshRating()
	return s.products.SaveProduct(ctx, p)
}

// HardDelete removes a review permanently (back office).
func (s *Service) HardDelete(ctx context.Context, userID, productID string) error {
	p, err := s.products.Product(ctx, productID)
	if err != nil {
		return err
	}
	i := p.ReviewBy(userID)
	if i < 0 {
		return apperr.New(apperr.NotFound, "review not found")
	}
	p.Reviews = append(p.Reviews[:i], p.Reviews[i+1:]...)
	p.RefreshRating()
	return s.products.SaveProduct(ctx, p)
}

// ListActive returns the reviews surfaced to the storefront.
func (s *Service) ListActive(ctx context.Context, productID string) ([]catalog.Review, error) {
	p, err := s.products.Product(ctx, productID)
	if err != nil {
		return nil, err
	}
	return p.ActiveReviews(), nil
}

func (s *Service) hasDeliveredOrder(ctx context.Context, userID, productID string) (bool, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, o := range orders {
		if o.Status != order.StatusDelivered {
			continue
		}
		for _, it := range o.Items {
			if it.ProductID == productID {
				return true, nil
			}
		}
	}
	return false, nil
}
