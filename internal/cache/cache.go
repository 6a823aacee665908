package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"rotational-map/internal/analytics"
	"rotational-map/internal/logger"
	"rotational-map/internal/metrics"

	"github.com/redis/go-redis/v9"
)

// Store：摘要缓存读写接口（会话侧依赖）
type Store interface {
	Get(ctx context.Context, key string) (analytics.Summary, bool)
	Set(ctx context.Context, key string, s analytics.Summary)
}

const redisPrefix = "summary:"

// 文档注释：两级摘要缓存
// 背景：一级为进程内 LRU，二级为可选 Redis（多实例共享）；Redis 命中回填一级。
// 约束：仅作加速，任何 Redis 错误按未命中处理并记录 debug 日志
type Summaries struct {
	lru *LRU
	rc  *redis.Client
	ttl time.Duration
}

// New：rc 为 nil 时只使用进程内缓存
func New(capacity int, ttl time.Duration, rc *redis.Client) *Summaries {
	return &Summaries{lru: NewLRU(capacity, ttl), rc: rc, ttl: ttl}
}

func (c *Summaries) Get(ctx context.Context, key string) (analytics.Summary, bool) {
	if s, ok := c.lru.Get(key); ok {
		metrics.SummaryCacheHitsTotal.WithLabelValues("memory").Inc()
		return s, true
	}
	if c.rc != nil {
		b, err := c.rc.Get(ctx, redisPrefix+key).Bytes()
		switch {
		case err == nil:
			var s analytics.Summary
			if e := json.Unmarshal(b, &s); e != nil {
				logger.L().Debug("summary_cache_decode_error", "key", key, "err", e)
				break
			}
			if s.CropDistribution == nil {
				s.CropDistribution = []analytics.CropCount{}
			}
			c.lru.Set(key, s)
			metrics.SummaryCacheHitsTotal.WithLabelValues("redis").Inc()
			return s, true
		case errors.Is(err, redis.Nil):
		default:
			logger.L().Debug("summary_cache_redis_error", "key", key, "err", err)
		}
	}
	metrics.SummaryCacheMissesTotal.Inc()
	return analytics.Summary{}, false
}

func (c *Summaries) Set(ctx context.Context, key string, s analytics.Summary) {
	c.lru.Set(key, s)
	if c.rc == nil {
		return
	}
	b, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := c.rc.Set(ctx, redisPrefix+key, b, c.ttl).Err(); err != nil {
		logger.L().Debug("summary_cache_redis_error", "key", key, "err", err)
	}
}
