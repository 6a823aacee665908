// 包 tour：导览序列器；按固定顺序循环定位各村，每站停留固定时长
package tour

import (
	"sync"
	"time"

	"rotational-map/internal/logger"
	"rotational-map/internal/metrics"

	"github.com/paulmach/orb"
)

// DefaultDwell：每站停留时长
const DefaultDwell = 8 * time.Second

// DefaultStops：默认导览站点（村名）
var DefaultStops = []string{
	"บ้านแม่ทะลบ",
	"บ้านห้วยต้นตอง",
	"บ้านป่าแดง",
	"บ้านดง",
	"บ้านห้วยน้ำริน",
}

// Focus：一次“定位到区域”意图
type Focus struct {
	Index  int       `json:"index"`
	Region string    `json:"region"`
	Center orb.Point `json:"center"`
}

// Status：导览状态快照
type Status struct {
	Active bool `json:"active"`
	Index  int  `json:"index"`
}

// Transition：序列器状态迁移种类
type Transition int

const (
	Started Transition = iota
	Advanced
	Stopped
)

func (t Transition) String() string {
	switch t {
	case Started:
		return "started"
	case Advanced:
		return "advanced"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// Config：序列器参数
// 约束：Resolve 返回 false 时跳过本站定位；OnFocus/OnChange 在持有 locker 时被调用，回调内不得再次加锁
type Config struct {
	Stops     []string
	Dwell     time.Duration
	Scheduler Scheduler
	Resolve   func(name string) (orb.Point, bool)
	OnFocus   func(Focus)
	OnChange  func(Transition)
}

// 文档注释：导览序列器
// 背景：与所属会话共用同一把锁，所有状态迁移（启动、停止、定时推进）串行执行。
// 约束：任意时刻最多一个待触发定时器；启动与停止均先取消旧定时器；代际计数保证 Stop 返回后不会再发出定位意图。
type Sequencer struct {
	mu     sync.Locker
	cfg    Config
	active bool
	index  int
	gen    uint64
	timer  Timer
}

// New：创建序列器；mu 为所属会话的锁，nil 时使用独立互斥锁
func New(cfg Config, mu sync.Locker) *Sequencer {
	if cfg.Dwell <= 0 {
		cfg.Dwell = DefaultDwell
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = RealScheduler{}
	}
	if mu == nil {
		mu = &sync.Mutex{}
	}
	cfg.Stops = append([]string(nil), cfg.Stops...)
	return &Sequencer{mu: mu, cfg: cfg}
}

// Start：从第 0 站重新开始，立即定位并安排下一次推进
// 约束：无站点时保持未激活
func (q *Sequencer) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.cancel()
	if len(q.cfg.Stops) == 0 {
		logger.L().Debug("tour_start_skip", "reason", "no_stops")
		return
	}
	q.active = true
	q.index = 0
	q.changed(Started)
	q.focusCurrent()
	q.schedule()
}

// Stop：取消待触发定时器并停用；已发出的定位意图不回滚
func (q *Sequencer) Stop() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.cancel()
	if !q.active {
		return
	}
	q.active = false
	q.changed(Stopped)
}

// Status：读取当前状态（会加锁，不可在回调内调用）
func (q *Sequencer) Status() Status {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Status{Active: q.active, Index: q.index}
}

func (q *Sequencer) cancel() {
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
	q.gen++
}

func (q *Sequencer) schedule() {
	q.gen++
	gen := q.gen
	q.timer = q.cfg.Scheduler.AfterFunc(q.cfg.Dwell, func() { q.fire(gen) })
}

// fire：定时推进；过期代际直接丢弃
func (q *Sequencer) fire(gen uint64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.active || gen != q.gen {
		return
	}
	q.timer = nil
	q.index = (q.index + 1) % len(q.cfg.Stops)
	q.changed(Advanced)
	q.focusCurrent()
	q.schedule()
}

func (q *Sequencer) focusCurrent() {
	name := q.cfg.Stops[q.index]
	var center orb.Point
	ok := false
	if q.cfg.Resolve != nil {
		center, ok = q.cfg.Resolve(name)
	}
	if !ok {
		logger.L().Debug("tour_focus_skip", "index", q.index, "region", name)
		metrics.TourFocusTotal.WithLabelValues("skipped").Inc()
		return
	}
	metrics.TourFocusTotal.WithLabelValues("issued").Inc()
	if q.cfg.OnFocus != nil {
		q.cfg.OnFocus(Focus{Index: q.index, Region: name, Center: center})
	}
}

func (q *Sequencer) changed(tr Transition) {
	if q.cfg.OnChange != nil {
		q.cfg.OnChange(tr)
	}
}
