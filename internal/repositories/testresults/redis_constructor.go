package testresults

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedis creates a Redis-backed result repository keeping results for ttl
func NewRedis(client redis.UniversalClient, ttl time.Duration) Repository {
	repo, err := NewRedisRepository(&RedisConfig{
		Client:       client,
		TimeProvider: &RealTimeProvider{},
		TTL:          ttl,
	})
	if err != nil {
		// This should never happen with valid configuration
		panic(err)
	}
	return repo
}
