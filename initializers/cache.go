package initializers

import (
	"context"

	"github.com/Kariqs/satshop-api/cache"
	"github.com/Kariqs/satshop-api/logger"
)

// Redis is nil when caching is disabled or the server is unreachable.
var Redis *cache.RedisCache

func ConnectToRedis() {
	rc := Config.Redis
	if !rc.Enabled {
		logger.Info(context.Background(), "redis disabled, category cache and rate limiting are off")
		return
	}

	client, err := cache.New(cache.Config{
		Addr:     rc.Addr,
		Password: rc.Password,
		DB:       rc.DB,
		PoolSize: rc.PoolSize,
	})
	if err != nil {
		logger.Warn(context.Background(), "redis unavailable, continuing without cache", "error", err)
		return
	}
	Redis = client
}
