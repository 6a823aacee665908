package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"rotational-map/internal/logger"
	"rotational-map/internal/metrics"

	"github.com/google/uuid"
)

// ErrNotFound：会话不存在或已被回收
var ErrNotFound = errors.New("session not found")

// 文档注释：会话注册表
// 背景：每个浏览者一个会话；长时间无事件的会话由后台循环回收并停止其导览。
// 约束：Template 为新会话的公共依赖，各会话之间不共享可变状态
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	template Config
	idleTTL  time.Duration
	now      func() time.Time
}

// NewRegistry：idleTTL <= 0 时不回收
func NewRegistry(template Config, idleTTL time.Duration) *Registry {
	now := template.Now
	if now == nil {
		now = time.Now
	}
	return &Registry{sessions: make(map[string]*Session), template: template, idleTTL: idleTTL, now: now}
}

// Create：以随机 UUID 创建会话
func (r *Registry) Create() *Session {
	s := New(uuid.NewString(), r.template)
	r.mu.Lock()
	r.sessions[s.ID()] = s
	n := len(r.sessions)
	r.mu.Unlock()
	metrics.SessionsActive.Set(float64(n))
	logger.L().Debug("session_create", "id", s.ID(), "active", n)
	return s
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Remove：删除并关闭会话
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	n := len(r.sessions)
	r.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	s.Close()
	metrics.SessionsActive.Set(float64(n))
	logger.L().Debug("session_remove", "id", id, "active", n)
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep：回收空闲超过 idleTTL 的会话，返回回收数量
func (r *Registry) Sweep() int {
	if r.idleTTL <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idleTTL)
	var idle []*Session
	r.mu.Lock()
	for id, s := range r.sessions {
		if s.IdleSince().Before(cutoff) {
			idle = append(idle, s)
			delete(r.sessions, id)
		}
	}
	n := len(r.sessions)
	r.mu.Unlock()
	for _, s := range idle {
		s.Close()
	}
	if len(idle) > 0 {
		metrics.SessionsActive.Set(float64(n))
		logger.L().Info("session_sweep", "evicted", len(idle), "active", n)
	}
	return len(idle)
}

// Start：后台按 idleTTL/2 周期回收，直到 ctx 结束
func (r *Registry) Start(ctx context.Context) {
	if r.idleTTL <= 0 {
		return
	}
	interval := r.idleTTL / 2
	if interval < time.Second {
		interval = time.Second
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				r.Sweep()
			}
		}
	}()
}

// CloseAll：停止全部会话（进程退出时调用）
func (r *Registry) CloseAll() {
	r.mu.Lock()
	all := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()
	for _, s := range all {
		s.Close()
	}
	metrics.SessionsActive.Set(0)
}
