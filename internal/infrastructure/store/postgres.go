// Package store provides the PostgreSQL persistence layer behind the
// domain services' store interfaces.
package store

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

// Postgres implements the catalog, cart, order and user store interfaces
// over a single database handle.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Connect establishes a pooled connection to PostgreSQL.
func Connect(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

// EnsureSchema creates the tables if they do not exist yet.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id           TEXT PRIMARY KEY,
			name         TEXT NOT NULL,
			description  TEXT NOT NULL DEFAULT '',
			price        NUMERIC(12,2) NOT NULL,
			stock        INTEGER NOT NULL DEFAULT 0,
			category     TEXT NOT NULL,
			supplier_id  TEXT,
			active       BOOLEAN NOT NULL DEFAULT TRUE,
			images       JSONB NOT NULL DEFAULT '[]',
			reviews      JSONB NOT NULL DEFAULT '[]',
			rating       DOUBLE PRECISION NOT NULL DEFAULT 0,
			num_reviews  INTEGER NOT NULL DEFAULT 0,
			created_at   TIMESTAMPTZ NOT NULL,
			updated_at   TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS suppliers (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			email      TEXT NOT NULL DEFAULT '',
			phone      TEXT NOT NULL DEFAULT '',
			active     BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS carts (
			user_id    TEXT PRIMARY KEY,
			items      JSONB NOT NULL DEFAULT '[]',
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id             TEXT PRIMARY KEY,
			user_id        TEXT NOT NULL,
			items          JSONB NOT NULL,
			shipping       JSONB NOT NULL,
			items_price    NUMERIC(12,2) NOT NULL,
			tax_price      NUMERIC(12,2) NOT NULL,
			shipping_price NUMERIC(12,2) NOT NULL,
			total_price    NUMERIC(12,2) NOT NULL,
			status         TEXT NOT NULL,
			delivered_at   TIMESTAMPTZ,
			checkout_token TEXT UNIQUE,
			created_at     TIMESTAMPTZ NOT NULL,
			updated_at     TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			name          TEXT NOT NULL,
			role          TEXT NOT NULL DEFAULT 'user',
			address       JSONB NOT NULL DEFAULT '{}',
			is_active     BOOLEAN NOT NULL DEFAULT TRUE,
			is_deleted    BOOLEAN NOT NULL DEFAULT FALSE,
			created_at    TIMESTAMPTZ NOT NULL,
			updated_at    TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders (user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_products_category ON products (category)`,
	}
	for _, stmt := range stmts {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
