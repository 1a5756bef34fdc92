package user

import (
	"context"
	"strings"
	"time"

	"github.com/example/gardenia/internal/apperr"
	"github.com/example/gardenia/internal/auth"
	"github.com/google/uuid"
)

type Store interface {
	User(ctx context.Context, id string) (*User, error)
	UserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	SaveUser(ctx context.Context, u *User) error
	DeleteUser(ctx context.Context, id string) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Register creates a new customer account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, email, password, name string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperr.New(apperr.Validation, "a valid email is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperr.New(apperr.Validation, "name is required")
	}
	if _, err := s.store.UserByEmail(ctx, email); err == nil {
		return nil, apperr.New(apperr.Validation, "email already registered")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperr.Wrap(apperr.Validation, err, "invalid password")
	}

	now := time.Now()
	u := &User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.SaveUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate checks credentials and account state for login.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.store.UserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, apperr.New(apperr.Unauthenticated, "invalid email or password")
	}
	if !auth.CheckPassword(password, u.PasswordHash) {
		return nil, apperr.New(apperr.Unauthenticated, "invalid email or password")
	}
	if !u.CanAuthenticate() {
		return nil, apperr.New(apperr.Forbidden, "account is disabled")
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.store.User(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*User, error) {
	return s.store.ListUsers(ctx)
}

// ProfileInput updates the user's own editable fields.
type ProfileInput struct {
	Name    string
	Address Address
}

func (s *Service) UpdateProfile(ctx context.Context, id string, in ProfileInput) (*User, error) {
	u, err := s.store.User(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) != "" {
		u.Name = in.Name
	}
	u.Address = in.Address
	u.UpdatedAt = time.Now()
	if err := s.store.SaveUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// AdminUpdate changes role and activation from the back office.
func (s *Service) AdminUpdate(ctx context.Context, id string, role Role, active bool) (*User, error) {
	if role != RoleUser && role != RoleAdmin {
		return nil, apperr.Newf(apperr.Validation, "invalid role %q", role)
	}
	u, err := s.store.User(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Role = role
	u.IsActive = active
	u.UpdatedAt = time.Now()
	if err := s.store.SaveUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// SoftDelete marks the account deleted; the row stays for order history.
func (s *Service) SoftDelete(ctx context.Context, id string) error {
	u, err := s.store.User(ctx, id)
	if err != nil {
		return err
	}
	u.IsDeleted = true
	u.UpdatedAt = time.Now()
	return s.store.SaveUser(ctx, u)
}

func (s *Service) Restore(ctx context.Context, id string) (*User, error) {
	u, err := s.store.User(ctx, id)
	if err != nil {
		return nil, err
	}
	u.IsDeleted = false
	u.UpdatedAt = time.Now()
	if err := s.store.SaveUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) HardDelete(ctx context.Context, id string) error {
	if _, err := s.store.User(ctx, id); err != nil {
		return err
	}
	return s.store.DeleteUser(ctx, id)
}
