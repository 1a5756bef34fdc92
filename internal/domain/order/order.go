package order

import (
	"time"

	"github.com/example/gardenia/internal/apperr"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusProcessing     Status = "Processing"
	StatusAccepted       Status = "Accepted"
	StatusCancelled      Status = "Cancelled"
	StatusOutForDelivery Status = "Out for Delivery"
	StatusDelivered      Status = "Delivered"
)

var statuses = map[Status]bool{
	StatusProcessing:     true,
	StatusAccepted:       true,
	StatusCancelled:      true,
	StatusOutForDelivery: true,
	StatusDelivered:      true,
}

// ParseStatus validates a status literal against the whitelist. It runs
// before any order is loaded so an illegal literal never touches state.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !statuses[st] {
		return "", apperr.Newf(apperr.Validation, "invalid order status %q", s)
	}
	return st, nil
}

// Terminal reports whether no further status change is allowed.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Pricing constants for checkout.
var (
	TaxRate      = decimal.NewFromFloat(0.10)
	ShippingFlat = decimal.NewFromInt(50)
)

// Item is an immutable snapshot of a cart line taken at checkout. It is
// decoupled from the live product so later edits never alter history.
type Item struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
}

// ShippingInfo is snapshotted from the user's profile address.
type ShippingInfo struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

// Complete reports whether the fields required for dispatch are present.
func (s ShippingInfo) Complete() bool {
	return s.Address != "" && s.City != "" && s.PostalCode != "" && s.Phone != ""
}

type Order struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Items         []Item          `json:"items"`
	Shipping      ShippingInfo    `json:"shipping"`
	ItemsPrice    decimal.Decimal `json:"items_price"`
	TaxPrice      decimal.Decimal `json:"tax_price"`
	ShippingPrice decimal.Decimal `json:"shipping_price"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	Status        Status          `json:"status"`
	DeliveredAt   *time.Time      `json:"delivered_at,omitempty"`
	CheckoutToken string          `json:"-"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
