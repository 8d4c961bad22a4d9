package rdx

import (
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"voyara/globals"
)

// Conn is the shared Redis client. Callers treat Redis as best-effort:
// a miss or an error falls through to Mongo.
var Conn *redis.Client

func init() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	Conn = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	if err := Conn.Ping(globals.Ctx).Err(); err != nil {
		log.Printf("[Redis] ping failed (continuing): %v", err)
	}
}

func RdxGet(key string) (string, error) {
	return Conn.Get(globals.Ctx, key).Result()
}

func RdxSet(key, value string) error {
	return Conn.Set(globals.Ctx, key, value, 0).Err()
}

func RdxSetWithTTL(key, value string, ttl time.Duration) error {
	return Conn.Set(globals.Ctx, key, value, ttl).Err()
}

func RdxDel(keys ...string) error {
	return Conn.Del(globals.Ctx, keys...).Err()
}

func RdxHset(hash, field, value string) error {
	return Conn.HSet(globals.Ctx, hash, field, value).Err()
}

func RdxHget(hash, field string) (string, error) {
	return Conn.HGet(globals.Ctx, hash, field).Result()
}

func RdxHdel(hash, field string) error {
	return Conn.HDel(globals.Ctx, hash, field).Err()
}

func RdxPush(list, value string) error {
	return Conn.RPush(globals.Ctx, list, value).Err()
}

func RdxSAdd(set string, members ...any) error {
	return Conn.SAdd(globals.Ctx, set, members...).Err()
}

func RdxSMembers(set string) ([]string, error) {
	return Conn.SMembers(globals.Ctx, set).Result()
}
