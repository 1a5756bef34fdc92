package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"

	"github.com/example/gardenia/internal/apperr"
	"github.com/example/gardenia/internal/domain/user"
)

const userColumns = `id, email, password_hash, name, role, address, is_active, is_deleted, created_at, updated_at`

func (p *Postgres) User(ctx context.Context, id string) (*user.User, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.NotFound, "user not found")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (p *Postgres) UserByEmail(ctx context.Context, email string) (*user.User, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.NotFound, "user not found")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (p *Postgres) ListUsers(ctx context.Context) ([]*user.User, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			log.Printf("[Store] Error scanning user: %v", err)
			continue
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (p *Postgres) SaveUser(ctx context.Context, u *user.User) error {
	addressJSON, err := json.Marshal(u.Address)
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			password_hash = EXCLUDED.password_hash,
			name = EXCLUDED.name,
			role = EXCLUDED.role,
			address = EXCLUDED.address,
			is_active = EXCLUDED.is_active,
			is_deleted = EXCLUDED.is_deleted,
			updated_at = EXCLUDED.updated_at
	`, u.ID, u.Email, u.PasswordHash, u.Name, string(u.Role), addressJSON,
		u.IsActive, u.IsDeleted, u.CreatedAt, u.UpdatedAt)
	return err
}

func (p *Postgres) DeleteUser(ctx context.Context, id string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

func scanUser(row rowScanner) (*user.User, error) {
	var u user.User
	var role string
	var addressJSON []byte
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &role, &addressJSON,
		&u.IsActive, &u.IsDeleted, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.Role = user.Role(role)
	if err := json.Unmarshal(addressJSON, &u.Address); err != nil {
		return nil, err
	}
	return &u, nil
}
