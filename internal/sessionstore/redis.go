package sessionstore

import (
	"context"
	"fmt"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/redis/go-redis/v9"

	"github.com/mrlokans/llm-aggregator/internal/config"
)

// redisKeyPrefix namespaces session keys in a shared redis.
const redisKeyPrefix = "llm-aggregator:session:"

func openRedis(ctx context.Context, url string) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Store{
		Sessions: goredisstore.NewWithPrefix(client, redisKeyPrefix),
		backend:  config.SessionStoreRedis,
		close:    client.Close,
	}, nil
}
