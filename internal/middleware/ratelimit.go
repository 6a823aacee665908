package middleware

import (
	"net/http"
	"sync"
	"time"

	"rotational-map/internal/logger"
	"rotational-map/internal/utils"
)

// 文档注释：令牌桶限流（每秒）
// 约束：不排队，超限直接返回 429
type TokenBucket struct {
	capacity int
	tokens   int
	lastSec  int64
	now      func() time.Time
	mu       sync.Mutex
}

func NewTokenBucket(qps int) *TokenBucket {
	tb := &TokenBucket{capacity: qps, tokens: qps, now: time.Now}
	tb.lastSec = tb.now().Unix()
	return tb
}

func (tb *TokenBucket) allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	nowSec := tb.now().Unix()
	if tb.lastSec != nowSec {
		tb.lastSec = nowSec
		tb.tokens = tb.capacity
	}
	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

// Limit：包装处理器，超限请求返回 429
func (tb *TokenBucket) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !tb.allow() {
			logger.L().Debug("rate_limited", "path", r.URL.Path)
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Wrap：RATE_LIMIT_ENABLED=true 时按 RATE_LIMIT_QPS（默认 200）限流，否则原样返回
func Wrap(next http.Handler) http.Handler {
	if !utils.GetenvBool("RATE_LIMIT_ENABLED", false) {
		return next
	}
	qps := utils.GetenvInt("RATE_LIMIT_QPS", 200)
	logger.L().Info("rate_limit_on", "qps", qps)
	return NewTokenBucket(qps).Limit(next)
}
