package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// CodeThrottle limits how often a user can have a new 2FA code issued.
// Allow records the issue when it returns true.
type CodeThrottle interface {
	Allow(ctx context.Context, userID string) (bool, error)
}

type redisCodeThrottle struct {
	rdb         *redis.Client
	cooldown    time.Duration
	hourlyLimit int
}

func NewRedisCodeThrottle(rdb *redis.Client, cooldown time.Duration, hourlyLimit int) CodeThrottle {
	return &redisCodeThrottle{rdb: rdb, cooldown: cooldown, hourlyLimit: hourlyLimit}
}

func (t *redisCodeThrottle) Allow(ctx context.Context, userID string) (bool, error) {
	cooldownKey := fmt.Sprintf("2fa_cooldown_%s", userID)
	hourKey := fmt.Sprintf("2fa_hour_%s", userID)

	if t.cooldown > 0 {
		set, err := t.rdb.SetNX(ctx, cooldownKey, 1, t.cooldown).Result()
		if err != nil {
			return false, err
		}
		if !set {
			return false, nil
		}
	}

	count, err := t.rdb.Incr(ctx, hourKey).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := t.rdb.Expire(ctx, hourKey, time.Hour).Err(); err != nil {
			return false, err
		}
		return count <= int64(t.hourlyLimit), nil
	}

	if count > int64(t.hourlyLimit) {
		// A counter left without a TTL would block the user for good.
		if err := t.ensureExpiry(ctx, hourKey); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

func (t *redisCodeThrottle) ensureExpiry(ctx context.Context, key string) error {
	ttl, err := t.rdb.TTL(ctx, key).Result()
	if err != nil {
		return err
	}
	if ttl >= 0 {
		return nil
	}
	return t.rdb.Expire(ctx, key, time.Hour).Err()
}

type memoryCodeThrottle struct {
	mu          sync.Mutex
	issued      map[string][]time.Time
	cooldown    time.Duration
	hourlyLimit int
	now         func() time.Time
}

func NewMemoryCodeThrottle(cooldown time.Duration, hourlyLimit int) CodeThrottle {
	return &memoryCodeThrottle{
		issued:      make(map[string][]time.Time),
		cooldown:    cooldown,
		hourlyLimit: hourlyLimit,
		now:         time.Now,
	}
}

func (t *memoryCodeThrottle) Allow(_ context.Context, userID string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	recent := t.issued[userID][:0]
	for _, ts := range t.issued[userID] {
		if now.Sub(ts) < time.Hour {
			recent = append(recent, ts)
		}
	}
	t.issued[userID] = recent

	if n := len(recent); n > 0 && now.Sub(recent[n-1]) < t.cooldown {
		return false, nil
	}
	if len(recent) >= t.hourlyLimit {
		return false, nil
	}

	t.issued[userID] = append(recent, now)
	return true, nil
}
