package utils

import (
	"rotational-map/internal/logger"

	"github.com/redis/go-redis/v9"
)

// OpenRedisFromEnv：REDIS_ENABLED=true 时按 REDIS_HOST/REDIS_PORT/REDIS_PASS/REDIS_DB 打开客户端
// 约束：未开启时返回 nil，调用方据此跳过二级缓存；REDIS_DB 解析失败回退 0
func OpenRedisFromEnv() *redis.Client {
	if !GetenvBool("REDIS_ENABLED", false) {
		return nil
	}
	addr := Getenv("REDIS_HOST", "127.0.0.1") + ":" + Getenv("REDIS_PORT", "6379")
	db := GetenvInt("REDIS_DB", 0)
	logger.L().Debug("redis_env", "addr", addr, "db", db)
	return redis.NewClient(&redis.Options{Addr: addr, Password: Getenv("REDIS_PASS", ""), DB: db})
}
