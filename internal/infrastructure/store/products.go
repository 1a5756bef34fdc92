package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"github.com/example/gardenia/internal/apperr"
	"github.com/example/gardenia/internal/domain/catalog"
)

const productColumns = `id, name, description, price, stock, category, supplier_id, active,
	images, reviews, rating, num_reviews, created_at, updated_at`

func (p *Postgres) Product(ctx context.Context, id string) (*catalog.Product, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	prod, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.NotFound, "product not found")
	}
	if err != nil {
		return nil, err
	}
	return prod, nil
}

func (p *Postgres) SaveProduct(ctx context.Context, prod *catalog.Product) error {
	imagesJSON, err := json.Marshal(prod.Images)
	if err != nil {
		return err
	}
	reviewsJSON, err := json.Marshal(prod.Reviews)
	if err != nil {
		return err
	}

	_, err = p.db.ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			stock = EXCLUDED.stock,
			category = EXCLUDED.category,
			supplier_id = EXCLUDED.supplier_id,
			active = EXCLUDED.active,
			images = EXCLUDED.images,
			reviews = EXCLUDED.reviews,
			rating = EXCLUDED.rating,
			num_reviews = EXCLUDED.num_reviews,
			updated_at = EXCLUDED.updated_at
	`, prod.ID, prod.Name, prod.Description, prod.Price, prod.Stock, string(prod.Category),
		nullString(prod.SupplierID), prod.Active, imagesJSON, reviewsJSON,
		prod.Rating, prod.NumReviews, prod.CreatedAt, prod.UpdatedAt)
	return err
}

func (p *Postgres) DeleteProduct(ctx context.Context, id string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	return err
}

// DetachSupplier clears the supplier reference from every product.
func (p *Postgres) DetachSupplier(ctx context.Context, supplierID string) error {
	_, err := p.db.ExecContext(ctx,
		`UPDATE products SET supplier_id = NULL WHERE supplier_id = $1`, supplierID)
	return err
}

// SearchProducts filters the catalog with full-text search, category,
// price range and stock filters, ordered by relevance when searching.
func (p *Postgres) SearchProducts(ctx context.Context, params catalog.SearchParams) ([]*catalog.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	var conditions []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	searchArg := ""
	if params.Query != "" {
		searchArg = arg(params.Query)
		conditions = append(conditions,
			"to_tsvector('english', name || ' ' || description) @@ plainto_tsquery('english', "+searchArg+")")
	}
	if params.Category != "" {
		conditions = append(conditions, "category = "+arg(string(params.Category)))
	}
	if params.MinPrice.IsPositive() {
		conditions = append(conditions, "price >= "+arg(params.MinPrice))
	}
	if params.MaxPrice.IsPositive() {
		conditions = append(conditions, "price <= "+arg(params.MaxPrice))
	}
	if params.InStockOnly {
		conditions = append(conditions, "stock > 0")
	}
	if !params.IncludeInactive {
		conditions = append(conditions, "active = TRUE")
	}

	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}

	if searchArg != "" {
		query += " ORDER BY ts_rank(to_tsvector('english', name || ' ' || description), plainto_tsquery('english', " + searchArg + ")) DESC"
	} else {
		query += " ORDER BY created_at DESC"
	}
	if params.Limit > 0 {
		query += " LIMIT " + arg(params.Limit)
	}
	if params.Offset > 0 {
		query += " OFFSET " + arg(params.Offset)
	}

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*catalog.Product
	for rows.Next() {
		prod, err := scanProduct(rows)
		if err != nil {
			log.Printf("[Store] Error scanning product: %v", err)
			continue
		}
		products = append(products, prod)
	}
	return products, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*catalog.Product, error) {
	var prod catalog.Product
	var category string
	var supplierID sql.NullString
	var imagesJSON, reviewsJSON []byte
	err := row.Scan(&prod.ID, &prod.Name, &prod.Description, &prod.Price, &prod.Stock,
		&category, &supplierID, &prod.Active, &imagesJSON, &reviewsJSON,
		&prod.Rating, &prod.NumReviews, &prod.CreatedAt, &prod.UpdatedAt)
	if err != nil {
		return nil, err
	}
	prod.Category = catalog.Category(category)
	prod.SupplierID = supplierID.String
	if err := json.Unmarshal(imagesJSON, &prod.Images); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(reviewsJSON, &prod.Reviews); err != nil {
		return nil, err
	}
	return &prod, nil
}
