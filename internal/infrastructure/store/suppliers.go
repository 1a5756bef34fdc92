package store

import (
	"context"
	"database/sql"
	"log"

	"github.com/example/gardenia/internal/apperr"
	"github.com/example/gardenia/internal/domain/catalog"
)

func (p *Postgres) Supplier(ctx context.Context, id string) (*catalog.Supplier, error) {
	var s catalog.Supplier
	err := p.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, active, created_at, updated_at
		FROM suppliers WHERE id = $1
	`, id).Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.NotFound, "supplier not found")
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (p *Postgres) ListSuppliers(ctx context.Context) ([]*catalog.Supplier, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, name, email, phone, active, created_at, updated_at
		FROM suppliers ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var suppliers []*catalog.Supplier
	for rows.Next() {
		var s catalog.Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
			log.Printf("[Store] Error scanning supplier: %v", err)
			continue
		}
		suppliers = append(suppliers, &s)
	}
	return suppliers, rows.Err()
}

func (p *Postgres) SaveSupplier(ctx context.Context, s *catalog.Supplier) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO suppliers (id, name, email, phone, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			active = EXCLUDED.active,
			updated_at = EXCLUDED.updated_at
	`, s.ID, s.Name, s.Email, s.Phone, s.Active, s.CreatedAt, s.UpdatedAt)
	return err
}

func (p *Postgres) DeleteSupplier(ctx context.Context, id string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	return err
}
