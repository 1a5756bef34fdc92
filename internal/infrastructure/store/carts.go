package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/example/gardenia/internal/apperr"
	"github.com/example/gardenia/internal/domain/cart"
)

func (p *Postgres) Cart(ctx context.Context, userID string) (*cart.Cart, error) {
	var c cart.Cart
	var itemsJSON []byte
	err := p.db.QueryRowContext(ctx, `
		SELECT user_id, items, updated_at FROM carts WHERE user_id = $1
	`, userID).Scan(&c.UserID, &itemsJSON, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.NotFound, "cart not found")
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(itemsJSON, &c.Items); err != nil {
		return nil, err
	}
	return &c, nil
}

func (p *Postgres) SaveCart(ctx context.Context, c *cart.Cart) error {
	itemsJSON, err := json.Marshal(c.Items)
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO carts (user_id, items, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			items = EXCLUDED.items,
			updated_at = EXCLUDED.updated_at
	`, c.UserID, itemsJSON, c.UpdatedAt)
	return err
}
