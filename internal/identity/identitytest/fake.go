// Package identitytest provides an in-memory identity provider for tests.
package identitytest

import (
	"context"
	"sync"

	"doctortravel/internal/identity"
)

type account struct {
	user     identity.User
	password string
}

type FakeProvider struct {
	mu          sync.Mutex
	accounts    map[string]account
	credentials map[string]identity.User
	Err         error
	SignOuts    int
}

func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		accounts:    make(map[string]account),
		credentials: make(map[string]identity.User),
	}
}

func (f *FakeProvider) AddUser(user identity.User, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[user.Email] = account{user: user, password: password}
}

func (f *FakeProvider) AddCredential(idToken string, user identity.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.credentials[idToken] = user
}

func (f *FakeProvider) SignInWithPassword(_ context.Context, email, password string) (*identity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	acc, ok := f.accounts[email]
	if !ok || acc.password != password {
		return nil, identity.ErrInvalidCredentials
	}
	user := acc.user
	return &user, nil
}

func (f *FakeProvider) SignInWithCredential(_ context.Context, idToken string) (*identity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	user, ok := f.credentials[idToken]
	if !ok {
		return nil, identity.ErrInvalidCredential
	}
	return &user, nil
}

func (f *FakeProvider) SignOut(context.Context, *identity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SignOuts++
	return nil
}

func (f *FakeProvider) SignOutCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.SignOuts
}
