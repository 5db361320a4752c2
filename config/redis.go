package config

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// ConnectRedis returns nil without error when REDIS_ADDR is not set; callers run uncached.
func ConnectRedis(s Settings) (*redis.Client, error) {
	if s.RedisAddr == "" {
		log.Println("REDIS_ADDR vacío, la caché está desactivada")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     s.RedisAddr,
		Username: s.RedisUser,
		Password: s.RedisPassword,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := rdb.Ping(ctx).Result()
	if err != nil {
		return nil, err
	}

	log.Println("Conexión a Redis exitosa:", res)
	return rdb, nil
}
