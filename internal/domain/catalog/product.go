package catalog

import (
	"time"

	"github.com/example/gardenia/internal/apperr"
	"github.com/shopspring/decimal"
)

// Category is the fixed set of storefront departments.
type Category string

const (
	CategoryPlants      Category = "plants"
	CategorySeeds       Category = "seeds"
	CategoryTools       Category = "tools"
	CategoryPots        Category = "pots"
	CategoryFertilizers Category = "fertilizers"
	CategoryDecor       Category = "decor"
)

var categories = map[Category]bool{
	CategoryPlants:      true,
	CategorySeeds:       true,
	CategoryTools:       true,
	CategoryPots:        true,
	CategoryFertilizers: true,
	CategoryDecor:       true,
}

// ParseCategory validates a category literal.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !categories[c] {
		return "", apperr.Newf(apperr.Validation, "invalid category %q", s)
	}
	return c, nil
}

// Image is a stored product image addressed by its public id.
type Image struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    Category        `json:"category"`
	SupplierID  string          `json:"supplier_id,omitempty"`
	Active      bool            `json:"active"`
	Images      []Image         `json:"images"`
	Reviews     []Review        `json:"reviews"`
	Rating      float64         `json:"rating"`
	NumReviews  int             `json:"num_reviews"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// FirstImageURL returns the URL of the first image, or empty when the
// product has none. Order item snapshots use this.
func (p *Product) FirstImageURL() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}

// RefreshRating restores the rating invariant after any review mutation:
// rating is the arithmetic mean over the full review slice and num_reviews
// its length. Soft-deleted reviews are included on purpose so that hiding
// a review does not reshuffle historical rankings.
func (p *Product) RefreshRating() {
	p.NumReviews = len(p.Reviews)
	if p.NumReviews == 0 {
		p.Rating = 0
		return
	}
	var sum int
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	p.Rating = float64(sum) / float64(p.NumReviews)
}

// ActiveReviews returns the reviews surfaced to read APIs.
func (p *Product) ActiveReviews() []Review {
	out := make([]Review, 0, len(p.Reviews))
	for _, r := range p.Reviews {
		if r.Status != ReviewDeleted {
			out = append(out, r)
		}
	}
	return out
}

// ReviewBy returns the index of the user's review, or -1.
func (p *Product) ReviewBy(userID string) int {
	for i, r := range p.Reviews {
		if r.UserID == userID {
			return i
		}
	}
	return -1
}
