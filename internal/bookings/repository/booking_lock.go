package repository

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const lockPrefix = "booking_lock:"

// BookingLockRepository guards against the same traveller submitting the same
// package twice while the first submission is still in flight.
type BookingLockRepository interface {
	// Acquire returns false when the lock is already held.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

type redisBookingLockRepository struct {
	rdb *redis.Client
}

func NewRedisBookingLockRepository(rdb *redis.Client) BookingLockRepository {
	return &redisBookingLockRepository{rdb: rdb}
}

func (r *redisBookingLockRepository) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return r.rdb.SetNX(ctx, lockPrefix+key, time.Now().Unix(), ttl).Result()
}

func (r *redisBookingLockRepository) Release(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, lockPrefix+key).Err()
}

type memoryBookingLockRepository struct {
	mu    sync.Mutex
	locks map[string]time.Time
	now   func() time.Time
}

func NewMemoryBookingLockRepository() BookingLockRepository {
	return &memoryBookingLockRepository{
		locks: make(map[string]time.Time),
		now:   time.Now,
	}
}

func (r *memoryBookingLockRepository) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if expires, ok := r.locks[key]; ok && now.Before(expires) {
		return false, nil
	}
	r.locks[key] = now.Add(ttl)
	return true, nil
}

func (r *memoryBookingLockRepository) Release(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.locks, key)
	return nil
}
