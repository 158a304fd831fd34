package redis

import (
	"github.com/redis/go-redis/v9"

	"github.com/shopfront/commerce-api/pkg/global"
)

func NewClient(cfg global.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		Protocol: 2,
	})
}
