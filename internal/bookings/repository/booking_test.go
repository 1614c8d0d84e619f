package repository

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	bookingserrors "doctortravel/internal/bookings/errors"
	"doctortravel/pkg/config"
	"doctortravel/pkg/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteBookingRepository_Submit(t *testing.T) {
	var gotAuth, gotContentType string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	repo := NewRemoteBookingRepository(server.URL, "anon-key", &config.Config{RemoteCallTimeout: time.Second})
	result, err := repo.Submit(context.Background(), &model.BookingPayload{
		FirstName:    "Maria",
		LastName:     "Santos",
		Adults:       2,
		DocumentType: model.DocumentVisa,
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"ok": true}, result)
	assert.Equal(t, "Bearer anon-key", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, map[string]any{
		"firstName":    "Maria",
		"middleName":   nil,
		"lastName":     "Santos",
		"email":        "",
		"phone":        "",
		"adults":       float64(2),
		"children":     float64(0),
		"documentType": "Visa",
		"passport":     nil,
		"nationality":  "",
		"address":      nil,
	}, gotBody)
}

func TestRemoteBookingRepository_NonSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("missing email"))
	}))
	defer server.Close()

	repo := NewRemoteBookingRepository(server.URL, "k", &config.Config{RemoteCallTimeout: time.Second})
	_, err := repo.Submit(context.Background(), &model.BookingPayload{})

	var remoteErr *bookingserrors.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "Email Error 400: missing email", err.Error())
}

func TestMemoryBookingLockRepository(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := NewMemoryBookingLockRepository().(*memoryBookingLockRepository)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	ok, err := repo.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = repo.Acquire(ctx, "k", time.Minute)
	assert.False(t, ok, "held")

	now = now.Add(2 * time.Minute)
	ok, _ = repo.Acquire(ctx, "k", time.Minute)
	assert.True(t, ok, "expired locks can be taken")

	require.NoError(t, repo.Release(ctx, "k"))
	ok, _ = repo.Acquire(ctx, "k", time.Minute)
	assert.True(t, ok)
}

func TestRedisBookingLockRepository(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	locks := NewRedisBookingLockRepository(rdb)
	ctx := context.Background()

	ok, err := locks.Acquire(ctx, "u1:12:local", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists("booking_lock:u1:12:local"))
	assert.Equal(t, 30*time.Second, mr.TTL("booking_lock:u1:12:local"))

	ok, err = locks.Acquire(ctx, "u1:12:local", 30*time.Second)
	require.NoError(t, err)
	assert.False(t, ok, "held")

	ok, err = locks.Acquire(ctx, "u1:12:international", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok, "keys are independent")

	require.NoError(t, locks.Release(ctx, "u1:12:local"))
	ok, err = locks.Acquire(ctx, "u1:12:local", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok, "released")

	mr.FastForward(31 * time.Second)
	ok, err = locks.Acquire(ctx, "u1:12:international", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok, "expired")
}
