package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects the optional route cache. Callers treat a nil client as
// "no cache"; the redirect path never depends on Redis being reachable.
func InitRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	rdb := redis.NewClient(opts)

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	return rdb, nil
}
