package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is a stored cart line. Quantity is always >= 1: a line dropping to
// zero is removed, never kept.
type Item struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Cart is owned 1:1 by a user. It is created lazily on the first add and
// emptied, not deleted, on checkout.
type Cart struct {
	UserID    string    `json:"user_id"`
	Items     []Item    `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Cart) itemIndex(productID string) int {
	for i, it := range c.Items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

// ViewItem is a cart line joined with live product details.
type ViewItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// View is the populated cart returned by every cart operation.
type View struct {
	UserID     string          `json:"user_id"`
	Items      []ViewItem      `json:"items"`
	ItemsPrice decimal.Decimal `json:"items_price"`
}
