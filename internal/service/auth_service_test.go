package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tastebook/api/internal/repository"
	"tastebook/api/internal/security"
)

const testPepper = "test-pepper"

func newAuthService(users UserStore) *AuthService {
	codec := security.NewTokenCodec("acc-secret", "ref-secret", 10*time.Minute, time.Hour)
	return NewAuthService(users, codec, testPepper, zerolog.Nop())
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(newFakeUserStore())
	ctx := context.Background()

	user, pair, err := svc.Register(ctx, RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "  Ada@Example.COM ",
		Password:  "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.True(t, user.IsActive)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	loggedIn, _, err := svc.Login(ctx, "ada@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	_, _, err = svc.Login(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService(newFakeUserStore())
	ctx := context.Background()

	_, _, err := svc.Register(ctx, RegisterInput{Email: "a@b.c", Password: "pw1"})
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, RegisterInput{Email: "A@B.C", Password: "pw2"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterConcurrentDuplicate(t *testing.T) {
	// the email pre-check sees nothing, but the insert loses the race
	// and hits the unique index
	users := newFakeUserStore()
	users.createErr = repository.ErrDuplicateEmail
	svc := newAuthService(users)

	_, _, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.c", Password: "pw"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginDeactivatedUser(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthService(users)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, RegisterInput{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)

	user.IsActive = false
	require.NoError(t, users.Update(ctx, user))

	_, _, err = svc.Login(ctx, "a@b.c", "pw")
	assert.ErrorIs(t, err, ErrUserDeactivated)
}

func TestRenew(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthService(users)
	ctx := context.Background()

	user, pair, err := svc.Register(ctx, RegisterInput{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)

	renewed, fresh, err := svc.Renew(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, renewed.ID)
	assert.NotEmpty(t, fresh.AccessToken)
	assert.NotEmpty(t, fresh.RefreshToken)
}

func TestRenewRejectsAccessToken(t *testing.T) {
	svc := newAuthService(newFakeUserStore())
	ctx := context.Background()

	_, pair, err := svc.Register(ctx, RegisterInput{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)

	_, _, err = svc.Renew(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRenewDeactivatedUser(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthService(users)
	ctx := context.Background()

	user, pair, err := svc.Register(ctx, RegisterInput{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)

	user.IsActive = false
	require.NoError(t, users.Update(ctx, user))

	_, _, err = svc.Renew(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrUserDeactivated)
}

func TestRenewDeletedUser(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthService(users)
	ctx := context.Background()

	user, pair, err := svc.Register(ctx, RegisterInput{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	require.NoError(t, users.Delete(ctx, user.ID))

	_, _, err = svc.Renew(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRenewGarbageToken(t *testing.T) {
	svc := newAuthService(newFakeUserStore())

	_, _, err := svc.Renew(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
