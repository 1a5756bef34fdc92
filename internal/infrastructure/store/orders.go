package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"

	"github.com/example/gardenia/internal/apperr"
	"github.com/example/gardenia/internal/domain/order"
	"github.com/lib/pq"
)

const orderColumns = `id, user_id, items, shipping, items_price, tax_price,
	shipping_price, total_price, status, delivered_at, checkout_token, created_at, updated_at`

// Checkout runs the order unit of work in one transaction: insert the
// order, decrement each ordered product's stock clamped at zero, and
// clear the owner's cart. A reused checkout token aborts with
// order.ErrDuplicateCheckout before any stock is touched.
func (p *Postgres) Checkout(ctx context.Context, o *order.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}
	shippingJSON, err := json.Marshal(o.Shipping)
	if err != nil {
		return err
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, o.ID, o.UserID, itemsJSON, shippingJSON, o.ItemsPrice, o.TaxPrice,
		o.ShippingPrice, o.TotalPrice, string(o.Status), o.DeliveredAt,
		nullString(o.CheckoutToken), o.CreatedAt, o.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return order.ErrDuplicateCheckout
		}
		return err
	}

	for _, item := range o.Items {
		_, err := tx.ExecContext(ctx, `
			UPDATE products SET stock = GREATEST(stock - $1, 0), updated_at = $2
			WHERE id = $3
		`, item.Quantity, o.CreatedAt, item.ProductID)
		if err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE carts SET items = '[]', updated_at = $1 WHERE user_id = $2
	`, o.CreatedAt, o.UserID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (p *Postgres) Order(ctx context.Context, id string) (*order.Order, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.NotFound, "order not found")
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (p *Postgres) OrderByToken(ctx context.Context, token string) (*order.Order, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE checkout_token = $1`, token)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.NotFound, "order not found")
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (p *Postgres) ListByUser(ctx context.Context, userID string) ([]*order.Order, error) {
	return p.listOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (p *Postgres) ListAll(ctx context.Context) ([]*order.Order, error) {
	return p.listOrders(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

func (p *Postgres) listOrders(ctx context.Context, query string, args ...any) ([]*order.Order, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			log.Printf("[Store] Error scanning order: %v", err)
			continue
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// SaveOrder persists the mutable order fields (status, delivered_at).
func (p *Postgres) SaveOrder(ctx context.Context, o *order.Order) error {
	_, err := p.db.ExecContext(ctx, `
		UPDATE orders SET status = $1, delivered_at = $2, updated_at = $3
		WHERE id = $4
	`, string(o.Status), o.DeliveredAt, o.UpdatedAt, o.ID)
	return err
}

func (p *Postgres) DeleteOrder(ctx context.Context, id string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	return err
}

func scanOrder(row rowScanner) (*order.Order, error) {
	var o order.Order
	var status string
	var itemsJSON, shippingJSON []byte
	var deliveredAt sql.NullTime
	var token sql.NullString
	err := row.Scan(&o.ID, &o.UserID, &itemsJSON, &shippingJSON, &o.ItemsPrice,
		&o.TaxPrice, &o.ShippingPrice, &o.TotalPrice, &status, &deliveredAt,
		&token, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Status = order.Status(status)
	o.CheckoutToken = token.String
	if deliveredAt.Valid {
		o.DeliveredAt = &deliveredAt.Time
	}
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(shippingJSON, &o.Shipping); err != nil {
		return nil, err
	}
	return &o, nil
}
