package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	syncLockKey = "lock:score_sync"
	syncLockTTL = 10 * time.Minute
)

// SyncLock is the single-writer advisory lock for the score synchronizer,
// backed by SET NX with a TTL. The TTL bounds how long a crashed run can
// block the next one.
type SyncLock struct {
	client *redis.Client
}

// NewSyncLock creates a SyncLock wrapping the given Redis client.
func NewSyncLock(client *redis.Client) *SyncLock {
	return &SyncLock{client: client}
}

// Acquire attempts to take the lock, reporting whether it was obtained.
func (l *SyncLock) Acquire(ctx context.Context) (bool, error) {
	ok, err := l.client.SetNX(ctx, syncLockKey, "1", syncLockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("acquire sync lock: %w", err)
	}
	return ok, nil
}

// Release frees the lock so the next sync pass can run.
func (l *SyncLock) Release(ctx context.Context) error {
	if err := l.client.Del(ctx, syncLockKey).Err(); err != nil {
		return fmt.Errorf("release sync lock: %w", err)
	}
	return nil
}
