package identity

import (
	"context"
	"sync"

	"doctortravel/pkg/logger"
)

type Listener func(user *User)

// Auth is the per-session view of the identity provider: it holds the
// signed-in user and notifies listeners on every sign-in and sign-out.
type Auth struct {
	provider Provider
	log      *logger.Logger

	mu        sync.RWMutex
	current   *User
	listeners []subscription
	nextID    int
}

type subscription struct {
	id int
	fn Listener
}

func NewAuth(provider Provider, log *logger.Logger) *Auth {
	return &Auth{
		provider: provider,
		log:      log,
	}
}

func (a *Auth) CurrentUser() *User {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current
}

// OnAuthStateChanged registers fn and calls it once with the current user.
// The returned func unsubscribes.
func (a *Auth) OnAuthStateChanged(fn Listener) func() {
	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.listeners = append(a.listeners, subscription{id: id, fn: fn})
	current := a.current
	a.mu.Unlock()

	fn(current)

	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		for i, sub := range a.listeners {
			if sub.id == id {
				a.listeners = append(a.listeners[:i], a.listeners[i+1:]...)
				return
			}
		}
	}
}

func (a *Auth) SignInWithPassword(ctx context.Context, email, password string) (*User, error) {
	user, err := a.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}
	a.setUser(user)
	return user, nil
}

func (a *Auth) SignInWithCredential(ctx context.Context, idToken string) (*User, error) {
	user, err := a.provider.SignInWithCredential(ctx, idToken)
	if err != nil {
		return nil, err
	}
	a.setUser(user)
	return user, nil
}

// SignOut clears the session user even when the provider call fails; the
// local session is what gates access.
func (a *Auth) SignOut(ctx context.Context) error {
	user := a.CurrentUser()
	if user == nil {
		return nil
	}

	err := a.provider.SignOut(ctx, user)
	if err != nil {
		a.log.Warn("Identity provider sign-out failed", "user_id", user.ID, "error", err)
	}
	a.setUser(nil)
	return err
}

func (a *Auth) setUser(user *User) {
	a.mu.Lock()
	a.current = user
	listeners := append([]subscription(nil), a.listeners...)
	a.mu.Unlock()

	// Listeners run in subscription order. A listener may change the user
	// again (the unverified guard signs out); the rest then only see the
	// newer state.
	for _, sub := range listeners {
		if a.CurrentUser() != user {
			return
		}
		sub.fn(user)
	}
}
