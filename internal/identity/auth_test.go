package identity_test

import (
	"context"
	"testing"

	"doctortravel/internal/identity"
	"doctortravel/internal/identity/identitytest"
	"doctortravel/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth_NotifiesListeners(t *testing.T) {
	provider := identitytest.NewFakeProvider()
	provider.AddUser(identity.User{ID: "u1", Email: "a@example.com", EmailVerified: true}, "secret")
	auth := identity.NewAuth(provider, logger.Discard())

	var seen []string
	unsubscribe := auth.OnAuthStateChanged(func(u *identity.User) {
		if u == nil {
			seen = append(seen, "nil")
			return
		}
		seen = append(seen, u.ID)
	})

	_, err := auth.SignInWithPassword(context.Background(), "a@example.com", "secret")
	require.NoError(t, err)
	require.NoError(t, auth.SignOut(context.Background()))

	unsubscribe()
	_, err = auth.SignInWithPassword(context.Background(), "a@example.com", "secret")
	require.NoError(t, err)

	assert.Equal(t, []string{"nil", "u1", "nil"}, seen, "initial call, sign-in, sign-out; nothing after unsubscribe")
	assert.Equal(t, 1, provider.SignOutCount())
}

func TestAuth_FailedSignInKeepsState(t *testing.T) {
	provider := identitytest.NewFakeProvider()
	auth := identity.NewAuth(provider, logger.Discard())

	_, err := auth.SignInWithPassword(context.Background(), "nobody@example.com", "x")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
	assert.Nil(t, auth.CurrentUser())
}

func TestAuth_ListenerMaySignOut(t *testing.T) {
	provider := identitytest.NewFakeProvider()
	provider.AddUser(identity.User{ID: "u2", Email: "b@example.com", EmailVerified: false}, "pw")
	auth := identity.NewAuth(provider, logger.Discard())

	auth.OnAuthStateChanged(func(u *identity.User) {
		if u != nil && !u.EmailVerified {
			_ = auth.SignOut(context.Background())
		}
	})

	var later []*identity.User
	auth.OnAuthStateChanged(func(u *identity.User) {
		later = append(later, u)
	})

	_, err := auth.SignInWithPassword(context.Background(), "b@example.com", "pw")
	require.NoError(t, err)
	assert.Nil(t, auth.CurrentUser())

	for _, u := range later {
		assert.Nil(t, u, "listeners after the guard never see the signed-out user")
	}
	assert.Len(t, later, 2)
}

func TestAuth_SignOutWithoutUserIsNoop(t *testing.T) {
	provider := identitytest.NewFakeProvider()
	auth := identity.NewAuth(provider, logger.Discard())

	require.NoError(t, auth.SignOut(context.Background()))
	assert.Zero(t, provider.SignOutCount())
}
