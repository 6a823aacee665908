// 包 cache：视口摘要缓存；进程内 LRU + 可选 Redis 二级缓存
package cache

import (
	"container/list"
	"sync"
	"time"

	"rotational-map/internal/analytics"
)

// 文档注释：进程内 LRU（带 TTL）
// 背景：视口在相邻几次停止之间常回到同一区域，同一键的摘要可直接复用。
// 约束：容量 <= 0 视为 1；过期条目在读取时淘汰
type LRU struct {
	mu   sync.Mutex
	cap  int
	ttl  time.Duration
	now  func() time.Time
	lst  *list.List
	dict map[string]*list.Element
}

type entry struct {
	k   string
	v   analytics.Summary
	exp time.Time
}

func NewLRU(capacity int, ttl time.Duration) *LRU {
	if capacity <= 0 {
		capacity = 1
	}
	return &LRU{cap: capacity, ttl: ttl, now: time.Now, lst: list.New(), dict: make(map[string]*list.Element)}
}

func (c *LRU) Get(k string) (analytics.Summary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.dict[k]
	if !ok {
		return analytics.Summary{}, false
	}
	it := e.Value.(entry)
	if !c.now().Before(it.exp) {
		c.lst.Remove(e)
		delete(c.dict, k)
		return analytics.Summary{}, false
	}
	c.lst.MoveToFront(e)
	return it.v, true
}

func (c *LRU) Set(k string, v analytics.Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	it := entry{k: k, v: v, exp: c.now().Add(c.ttl)}
	if e, ok := c.dict[k]; ok {
		e.Value = it
		c.lst.MoveToFront(e)
		return
	}
	c.dict[k] = c.lst.PushFront(it)
	for c.lst.Len() > c.cap {
		back := c.lst.Back()
		delete(c.dict, back.Value.(entry).k)
		c.lst.Remove(back)
	}
}

func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lst.Len()
}
