// Package sessiontest wires sessions to in-memory repositories for tests.
package sessiontest

import (
	"context"
	"strconv"
	"sync"
	"time"

	"doctortravel/internal/identity"
	loginerrors "doctortravel/internal/login/errors"
	"doctortravel/internal/session"
	"doctortravel/pkg/model"
)

type Codes struct {
	mu    sync.Mutex
	codes map[string]model.TwoFactorCode
}

func NewCodes() *Codes {
	return &Codes{codes: make(map[string]model.TwoFactorCode)}
}

func (c *Codes) Save(_ context.Context, code *model.TwoFactorCode) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.codes[code.UserID] = *code
	return nil
}

func (c *Codes) Find(_ context.Context, userID string) (*model.TwoFactorCode, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	code, ok := c.codes[userID]
	if !ok {
		return nil, loginerrors.ErrCodeNotFound
	}
	return &code, nil
}

type Profiles struct {
	mu       sync.Mutex
	profiles map[string]model.UserProfile
}

func NewProfiles() *Profiles {
	return &Profiles{profiles: make(map[string]model.UserProfile)}
}

func (p *Profiles) Merge(_ context.Context, profile *model.UserProfile) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.profiles[profile.UserID] = *profile
	return nil
}

func (p *Profiles) Get(userID string) (model.UserProfile, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	profile, ok := p.profiles[userID]
	return profile, ok
}

// Favorites stores favorite keys per user and joins them with a fixed
// package catalog on read.
type Favorites struct {
	mu      sync.Mutex
	rows    map[string][]model.PackageKey
	Catalog map[model.PackageKey]string
}

func NewFavorites() *Favorites {
	return &Favorites{
		rows:    make(map[string][]model.PackageKey),
		Catalog: make(map[model.PackageKey]string),
	}
}

func (f *Favorites) FindByUser(_ context.Context, userID string) ([]model.Favorite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []model.Favorite
	for _, key := range f.rows[userID] {
		id, _ := strconv.ParseInt(key.ID, 10, 64)
		name := f.Catalog[key]
		record := model.PackageRecord{ID: id, Name: &name}
		row := model.Favorite{UserID: userID}
		if key.IsLocal {
			row.LocalPackageInfo = &model.LocalPackageInfo{PackageRecord: record}
		} else {
			row.PackageInfo = &model.PackageInfo{PackageRecord: record}
		}
		out = append(out, row)
	}
	return out, nil
}

func (f *Favorites) Insert(_ context.Context, userID string, key model.PackageKey) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[userID] = append(f.rows[userID], key)
	return nil
}

func (f *Favorites) Delete(_ context.Context, userID string, key model.PackageKey) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := f.rows[userID][:0]
	for _, k := range f.rows[userID] {
		if k != key {
			keys = append(keys, k)
		}
	}
	f.rows[userID] = keys
	return nil
}

func (f *Favorites) Stored(userID string) []model.PackageKey {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.PackageKey(nil), f.rows[userID]...)
}

// Dependencies returns in-memory dependencies around provider. Codes are
// always "123456".
func Dependencies(provider identity.Provider) (session.Dependencies, *Codes, *Profiles, *Favorites) {
	codes, profiles, favorites := NewCodes(), NewProfiles(), NewFavorites()
	return session.Dependencies{
		Provider:     provider,
		Codes:        codes,
		Profiles:     profiles,
		Favorites:    favorites,
		CodeTTL:      5 * time.Minute,
		WriteTimeout: time.Second,
		IdleTimeout:  time.Hour,
		Generate:     func() (string, error) { return "123456", nil },
	}, codes, profiles, favorites
}
