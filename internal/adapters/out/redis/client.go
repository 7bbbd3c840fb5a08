package redis

import (
	"context"
	"fmt"

	rd "github.com/redis/go-redis/v9"
)

// NewClient connects and pings, so a wrong address fails at startup instead of at the first sweep.
func NewClient(ctx context.Context, addr string, db int) (*rd.Client, error) {
	client := rd.NewClient(&rd.Options{Addr: addr, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return client, nil
}
