package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samtech/internal/domain"
	"samtech/internal/services"
)

func registration() services.Registration {
	return services.Registration{
		Username: "ann", Email: "Ann@Example.com", DateOfBirth: "1990-01-01", Gender: "female",
		PhoneNumber: "+254700000000", Password: "hunter22!", PasswordRepeat: "hunter22!",
	}
}

func TestRegisterLoginAuthenticate(t *testing.T) {
	st := newStores(t)
	auth := services.NewAuthService(st.Customers, services.NewTokens("test-secret"))
	ctx := context.Background()

	c, tok, err := auth.Register(ctx, registration())
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	assert.NotEqual(t, "hunter22!", c.Hash)

	sub, err := auth.Authenticate(tok)
	require.NoError(t, err)
	assert.Equal(t, c.ID, sub)

	_, _, err = auth.Register(ctx, registration())
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, _, err = auth.Login(ctx, "ann@example.com", "wrong-pass")
	assert.ErrorIs(t, err, services.ErrBadCreds)
	_, _, err = auth.Login(ctx, "ghost@example.com", "hunter22!")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, tok, err = auth.Login(ctx, "ann@example.com", "hunter22!")
	require.NoError(t, err)
	assert.NotEmpty(t, tok)
}

func TestRegisterRejectsMismatchedPasswords(t *testing.T) {
	st := newStores(t)
	auth := services.NewAuthService(st.Customers, services.NewTokens("test-secret"))
	r := registration()
	r.PasswordRepeat = "different1!"

	_, _, err := auth.Register(context.Background(), r)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCustomerChangePassword(t *testing.T) {
	st := newStores(t)
	auth := services.NewAuthService(st.Customers, services.NewTokens("test-secret"))
	ctx := context.Background()
	c, _, err := auth.Register(ctx, registration())
	require.NoError(t, err)

	assert.ErrorIs(t, auth.ChangePassword(ctx, c.ID, "nope", "newpass123", "newpass123"), domain.ErrUnauthorized)
	assert.ErrorIs(t, auth.ChangePassword(ctx, c.ID, "hunter22!", "newpass123", "other"), domain.ErrValidation)
	require.NoError(t, auth.ChangePassword(ctx, c.ID, "hunter22!", "newpass123", "newpass123"))

	_, _, err = auth.Login(ctx, "ann@example.com", "newpass123")
	assert.NoError(t, err)
}

func TestTokensExpire(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tokens := services.NewTokens("test-secret")
	tokens.Now = func() time.Time { return now }

	tok, err := tokens.Issue("u1", false, time.Hour)
	require.NoError(t, err)
	claims, err := tokens.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.False(t, claims.IsAdmin)

	now = now.Add(2 * time.Hour)
	_, err = tokens.Parse(tok)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = services.NewTokens("other-secret").Parse(tok)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = tokens.Parse("")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAdminAuthRequiresAdminClaim(t *testing.T) {
	st := newStores(t)
	tokens := services.NewTokens("test-secret")
	admins := services.NewAdminService(st.Admins, tokens)
	ctx := context.Background()

	require.NoError(t, admins.EnsureSeed(ctx, "root", "Sup3r$ecret"))
	require.NoError(t, admins.EnsureSeed(ctx, "root", "Sup3r$ecret"), "seeding twice is a no-op")

	_, _, err := admins.Login(ctx, "root", "wrong")
	assert.ErrorIs(t, err, services.ErrBadAdminCreds)

	a, tok, err := admins.Login(ctx, "root", "Sup3r$ecret")
	require.NoError(t, err)
	sub, err := admins.Authenticate(tok)
	require.NoError(t, err)
	assert.Equal(t, a.ID, sub)

	customerTok, err := tokens.Issue("cust-1", false, time.Hour)
	require.NoError(t, err)
	_, err = admins.Authenticate(customerTok)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = admins.Signup(ctx, "second", "weakpass")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = admins.Signup(ctx, "root", "An0ther$ecret")
	assert.ErrorIs(t, err, domain.ErrConflict)

	require.NoError(t, admins.ChangePassword(ctx, a.ID, "Sup3r$ecret", "N3w$ecretPw"))
	_, _, err = admins.Login(ctx, "root", "N3w$ecretPw")
	assert.NoError(t, err)
}
