package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/gardenia/internal/apperr"
	"github.com/example/gardenia/internal/domain/user"
	"github.com/example/gardenia/internal/infrastructure/store/mocks"
)

func newService(t *testing.T) *user.Service {
	t.Helper()
	return user.NewService(mocks.NewUserStore())
}

func TestRegister(t *testing.T) {
	svc := newService(t)

	u, err := svc.Register(context.Background(), "  Rosa@Example.COM ", "hunter2hunter2", "Rosa")
	require.NoError(t, err)
	assert.Equal(t, "rosa@example.com", u.Email)
	assert.Equal(t, user.RoleUser, u.Role)
	assert.True(t, u.IsActive)
	assert.False(t, u.IsDeleted)
	assert.NotEmpty(t, u.PasswordHash)
	assert.NotEqual(t, "hunter2hunter2", u.PasswordHash)
}

func TestRegisterValidation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	tests := []struct {
		name                 string
		email, password, who string
	}{
		{"missing email", "", "hunter2hunter2", "Rosa"},
		{"malformed email", "not-an-email", "hunter2hunter2", "Rosa"},
		{"missing name", "rosa@example.com", "hunter2hunter2", " "},
		{"short password", "rosa@example.com", "short", "Rosa"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.email, tt.password, tt.who)
			assert.True(t, apperr.Is(err, apperr.Validation))
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "rosa@example.com", "hunter2hunter2", "Rosa")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "ROSA@example.com", "hunter2hunter2", "Other Rosa")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Validation))
	assert.Contains(t, err.Error(), "already registered")
}

func TestAuthenticate(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "rosa@example.com", "hunter2hunter2", "Rosa")
	require.NoError(t, err)

	u, err := svc.Authenticate(ctx, "rosa@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)

	_, err = svc.Authenticate(ctx, "rosa@example.com", "wrong-password")
	assert.True(t, apperr.Is(err, apperr.Unauthenticated))

	_, err = svc.Authenticate(ctx, "nobody@example.com", "hunter2hunter2")
	assert.True(t, apperr.Is(err, apperr.Unauthenticated))
}

func TestAuthenticateDisabledAccount(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "rosa@example.com", "hunter2hunter2", "Rosa")
	require.NoError(t, err)

	_, err = svc.AdminUpdate(ctx, u.ID, user.RoleUser, false)
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "rosa@example.com", "hunter2hunter2")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Forbidden))
}

func TestAuthenticateSoftDeletedAccount(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "rosa@example.com", "hunter2hunter2", "Rosa")
	require.NoError(t, err)
	require.NoError(t, svc.SoftDelete(ctx, u.ID))

	_, err = svc.Authenticate(ctx, "rosa@example.com", "hunter2hunter2")
	assert.True(t, apperr.Is(err, apperr.Forbidden))

	// Restoring brings the login back.
	_, err = svc.Restore(ctx, u.ID)
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, "rosa@example.com", "hunter2hunter2")
	assert.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "rosa@example.com", "hunter2hunter2", "Rosa")
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, u.ID, user.ProfileInput{
		Name: "Rosa G.",
		Address: user.Address{
			Line:       "12 Greenhouse Lane",
			City:       "Springfield",
			PostalCode: "12345",
			Country:    "US",
			Phone:      "555-0101",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Rosa G.", updated.Name)
	assert.Equal(t, "Springfield", updated.Address.City)

	// A blank name keeps the old one.
	updated, err = svc.UpdateProfile(ctx, u.ID, user.ProfileInput{Address: updated.Address})
	require.NoError(t, err)
	assert.Equal(t, "Rosa G.", updated.Name)
}

func TestAdminUpdate(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "rosa@example.com", "hunter2hunter2", "Rosa")
	require.NoError(t, err)

	promoted, err := svc.AdminUpdate(ctx, u.ID, user.RoleAdmin, true)
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, promoted.Role)

	_, err = svc.AdminUpdate(ctx, u.ID, "superuser", true)
	assert.True(t, apperr.Is(err, apperr.Validation))
}

func TestHardDelete(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "rosa@example.com", "hunter2hunter2", "Rosa")
	require.NoError(t, err)

	require.NoError(t, svc.HardDelete(ctx, u.ID))
	_, err = svc.Get(ctx, u.ID)
	assert.True(t, apperr.Is(err, apperr.NotFound))

	err = svc.HardDelete(ctx, u.ID)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}
