// Package redis holds the distributed lock that keeps periodic sweeps to one replica per tick.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	rd "github.com/redis/go-redis/v9"
)

// releaseIfOwner deletes the lock only while it still carries the caller's token, so a holder
// whose TTL ran out cannot free a lock that another replica took over.
const releaseIfOwner = `
if redis.call('GET', KEYS[1]) == ARGV[1] then
  return redis.call('DEL', KEYS[1])
end
return 0
`

var ErrLockNotHeld = errors.New("sweep lock is not held by this token")

// SweepLock is a SET NX PX lock on a single key.
type SweepLock struct {
	rdb *rd.Client
	key string
	ttl time.Duration
}

// NewSweepLock creates a lock on key. ttl bounds how long a crashed holder blocks the others
// and should exceed the longest expected sweep.
func NewSweepLock(rdb *rd.Client, key string, ttl time.Duration) *SweepLock {
	return &SweepLock{rdb: rdb, key: key, ttl: ttl}
}

func (l *SweepLock) Acquire(ctx context.Context) (string, bool, error) {
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release returns ErrLockNotHeld when the lock expired or belongs to another token.
func (l *SweepLock) Release(ctx context.Context, token string) error {
	deleted, err := l.rdb.Eval(ctx, releaseIfOwner, []string{l.key}, token).Int()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrLockNotHeld
	}
	return nil
}
