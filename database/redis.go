package database

import (
	"context"
	"log"

	"eventmate-backend/config"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis returns a client, or nil when Redis is unreachable.
// Callers treat a nil client as "no cache".
func ConnectRedis() *redis.Client {
	opts, err := redis.ParseURL(config.AppConfig.RedisURL)
	if err != nil {
		log.Println("⚠️  Invalid REDIS_URL, running without cache:", err)
		return nil
	}

	client := redis.NewClient(opts)
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		log.Println("⚠️  Redis not available, running without cache:", err)
		return nil
	}

	log.Println("✅ Redis connected successfully")
	return client
}
