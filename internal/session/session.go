// 包 session：单个浏览会话；串行处理交互事件，维护交互状态、视口摘要、导览与定位意图
package session

import (
	"context"
	"sync"
	"time"

	"rotational-map/internal/analytics"
	"rotational-map/internal/cache"
	"rotational-map/internal/interaction"
	"rotational-map/internal/logger"
	"rotational-map/internal/metrics"
	"rotational-map/internal/parcel"
	"rotational-map/internal/region"
	"rotational-map/internal/search"
	"rotational-map/internal/tour"

	"github.com/paulmach/orb"
)

const (
	// 定位意图的镜头参数
	FocusZoom       = 13
	FocusPitch      = 60
	FocusDurationMs = 3000
	// OutboxSize：未取走的定位意图上限，超出丢弃最旧
	OutboxSize = 64

	SourceTour   = "tour"
	SourceSearch = "search"
)

// FocusIntent：通知显示层将镜头飞向某个区域
type FocusIntent struct {
	Region     string    `json:"region"`
	Center     orb.Point `json:"center"`
	Zoom       float64   `json:"zoom"`
	Pitch      float64   `json:"pitch"`
	DurationMs int       `json:"duration_ms"`
	Source     string    `json:"source"`
}

// PlotDetail：地块属性（宿主回调与弹窗内容）
type PlotDetail struct {
	ID        string        `json:"id"`
	Status    parcel.Status `json:"status"`
	CropType  string        `json:"crop_type"`
	AreaUnits float64       `json:"rai"`
	Carbon    float64       `json:"carbon"`
	Lng       float64       `json:"lng"`
	Lat       float64       `json:"lat"`
}

func detailOf(p parcel.Parcel) PlotDetail {
	return PlotDetail{
		ID:        p.ID,
		Status:    p.Status,
		CropType:  p.Crop(),
		AreaUnits: p.AreaUnits,
		Carbon:    analytics.ParcelCarbon(p),
		Lng:       p.Anchor[0],
		Lat:       p.Anchor[1],
	}
}

// Snapshot：会话对外可见的全部状态
type Snapshot struct {
	ID            string            `json:"id"`
	State         interaction.State `json:"state"`
	Summary       analytics.Summary `json:"summary"`
	SearchResults []string          `json:"search_results"`
	Hovered       *PlotDetail       `json:"hovered,omitempty"`
	Selected      *PlotDetail       `json:"selected,omitempty"`
	PendingFocus  int               `json:"pending_focus"`
}

// Config：会话依赖
// 约束：Parcels/Regions 为只读共享；OnPlotSelected 在会话锁外调用
type Config struct {
	Parcels        *parcel.Store
	Regions        *region.Store
	Stops          []string
	Dwell          time.Duration
	Scheduler      tour.Scheduler
	Cache          cache.Store
	OnPlotSelected func(PlotDetail)
	Now            func() time.Time
}

// 文档注释：浏览会话
// 背景：每个浏览者独立持有交互状态与视口摘要；所有事件在同一把锁下运行至完成。
// 约束：导览序列器共用本锁，其回调已在锁内执行；缓存读写与宿主回调均在锁外进行。
type Session struct {
	id         string
	mu         sync.Mutex
	cfg        Config
	state      interaction.State
	summary    analytics.Summary
	tour       *tour.Sequencer
	outbox     []FocusIntent
	lastActive time.Time
	settleSeq  uint64
	closed     bool
}

// New：创建会话；未配置站点时使用默认导览站点
func New(id string, cfg Config) *Session {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Stops == nil {
		cfg.Stops = tour.DefaultStops
	}
	s := &Session{
		id:         id,
		cfg:        cfg,
		state:      interaction.Initial(),
		summary:    analytics.EmptySummary(),
		lastActive: cfg.Now(),
	}
	s.tour = tour.New(tour.Config{
		Stops:     cfg.Stops,
		Dwell:     cfg.Dwell,
		Scheduler: cfg.Scheduler,
		Resolve:   s.resolveRegion,
		OnFocus: func(f tour.Focus) {
			s.pushFocus(f.Region, f.Center, SourceTour)
		},
		OnChange: func(tr tour.Transition) {
			switch tr {
			case tour.Started:
				s.state = s.state.StartTour()
			case tour.Advanced:
				s.state = s.state.AdvanceTour(len(cfg.Stops))
			case tour.Stopped:
				s.state = s.state.StopTour()
			}
		},
	}, &s.mu)
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) resolveRegion(name string) (orb.Point, bool) {
	if s.cfg.Regions == nil {
		return orb.Point{}, false
	}
	return s.cfg.Regions.Center(name)
}

// pushFocus：需持有锁
func (s *Session) pushFocus(name string, center orb.Point, source string) {
	if len(s.outbox) >= OutboxSize {
		s.outbox = s.outbox[1:]
	}
	s.outbox = append(s.outbox, FocusIntent{
		Region:     name,
		Center:     center,
		Zoom:       FocusZoom,
		Pitch:      FocusPitch,
		DurationMs: FocusDurationMs,
		Source:     source,
	})
}

func (s *Session) touch() { s.lastActive = s.cfg.Now() }

func (s *Session) lookupParcel(id string) (parcel.Parcel, bool) {
	if s.cfg.Parcels == nil {
		return parcel.Parcel{}, false
	}
	return s.cfg.Parcels.Get(id)
}

// resolveHit：命中要素在存储中不存在时按未命中处理
func (s *Session) resolveHit(hit *interaction.Hit) *interaction.Hit {
	if hit == nil {
		return nil
	}
	switch hit.Layer {
	case interaction.LayerParcels:
		if _, ok := s.lookupParcel(hit.FeatureID); !ok {
			logger.L().Debug("hit_unresolved", "layer", hit.Layer, "id", hit.FeatureID)
			return nil
		}
	case interaction.LayerRegions:
		if s.cfg.Regions == nil {
			return nil
		}
		if _, ok := s.cfg.Regions.Get(hit.FeatureID); !ok {
			logger.L().Debug("hit_unresolved", "layer", hit.Layer, "id", hit.FeatureID)
			return nil
		}
	}
	return hit
}

// PointerMove：悬停事件
func (s *Session) PointerMove(hit *interaction.Hit, x, y float64) Snapshot {
	metrics.EventsTotal.WithLabelValues("pointer_move").Inc()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.state = s.state.PointerMove(s.resolveHit(hit), x, y)
	return s.snapshotLocked()
}

// Click：点击事件；地块命中时在锁外调用一次宿主回调
func (s *Session) Click(hit *interaction.Hit, lng, lat float64) Snapshot {
	metrics.EventsTotal.WithLabelValues("click").Inc()
	s.mu.Lock()
	s.touch()
	next, plotSelected := s.state.Click(s.resolveHit(hit), lng, lat)
	s.state = next
	var detail PlotDetail
	if plotSelected {
		p, _ := s.lookupParcel(next.SelectedParcel)
		detail = detailOf(p)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if plotSelected {
		metrics.PlotSelectionsTotal.Inc()
		logger.L().Debug("plot_selected", "session", s.id, "parcel", detail.ID)
		if s.cfg.OnPlotSelected != nil {
			s.cfg.OnPlotSelected(detail)
		}
	}
	return snap
}

// CloseRegionPopup：关闭区域弹窗
func (s *Session) CloseRegionPopup() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.state = s.state.ClearRegion()
	return s.snapshotLocked()
}

// SetFilter：只更新筛选；摘要在下一次视口停止时按新筛选重算
func (s *Session) SetFilter(f analytics.Filter) Snapshot {
	metrics.EventsTotal.WithLabelValues("filter").Inc()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.state = s.state.SetFilter(f)
	return s.snapshotLocked()
}

// SetSearchText：更新搜索文本；结果随快照返回
func (s *Session) SetSearchText(text string) Snapshot {
	metrics.EventsTotal.WithLabelValues("search").Inc()
	metrics.SearchRequestsTotal.Inc()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.state = s.state.SetSearchText(text)
	return s.snapshotLocked()
}

// SelectSearchResult：定位到选中结果并清空搜索文本
// 约束：名称无法解析为中心点时不发出定位意图，搜索文本仍被清空
func (s *Session) SelectSearchResult(name string) Snapshot {
	metrics.EventsTotal.WithLabelValues("search_select").Inc()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if center, ok := s.resolveRegion(name); ok {
		s.pushFocus(name, center, SourceSearch)
	} else {
		logger.L().Debug("search_select_unresolved", "session", s.id, "region", name)
	}
	s.state = s.state.SetSearchText("")
	return s.snapshotLocked()
}

// ViewportSettled：按渲染方上报的可见地块 ID 与当前筛选整体重算摘要
func (s *Session) ViewportSettled(ctx context.Context, ids []string) Snapshot {
	metrics.EventsTotal.WithLabelValues("viewport").Inc()
	filter, seq := s.beginSettle()
	sum := s.summarize(ctx, filter, ids, func() []parcel.Parcel {
		if s.cfg.Parcels == nil {
			return nil
		}
		return s.cfg.Parcels.Lookup(ids)
	})
	return s.endSettle(filter, seq, sum)
}

// ViewportBounds：按视口边界范围查询后重算摘要；缓存键取查询结果的 ID 序列
func (s *Session) ViewportBounds(ctx context.Context, b orb.Bound) Snapshot {
	metrics.EventsTotal.WithLabelValues("viewport").Inc()
	filter, seq := s.beginSettle()
	var visible []parcel.Parcel
	if s.cfg.Parcels != nil {
		visible = s.cfg.Parcels.InBounds(b)
	}
	ids := make([]string, len(visible))
	for i, p := range visible {
		ids[i] = p.ID
	}
	sum := s.summarize(ctx, filter, ids, func() []parcel.Parcel { return visible })
	return s.endSettle(filter, seq, sum)
}

// beginSettle：登记一次视口停止，返回当时的筛选与序号
func (s *Session) beginSettle() (analytics.Filter, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.settleSeq++
	return s.state.Filter, s.settleSeq
}

func (s *Session) summarize(ctx context.Context, filter analytics.Filter, ids []string, visible func() []parcel.Parcel) analytics.Summary {
	var key string
	if s.cfg.Cache != nil {
		key = cache.IDsKey(filter, ids)
		if sum, ok := s.cfg.Cache.Get(ctx, key); ok {
			return sum
		}
	}
	start := time.Now()
	sum := analytics.Summarize(analytics.ApplyFilter(visible(), filter))
	metrics.SummarizeDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000)
	if key != "" {
		s.cfg.Cache.Set(ctx, key, sum)
	}
	return sum
}

// endSettle：仅最近一次视口停止的结果生效；筛选在计算期间被修改时同样丢弃，等待下一次视口停止
func (s *Session) endSettle(filter analytics.Filter, seq uint64, sum analytics.Summary) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case seq != s.settleSeq:
		logger.L().Debug("summary_discard_superseded", "session", s.id, "seq", seq, "latest", s.settleSeq)
	case s.state.Filter != filter:
		logger.L().Debug("summary_discard_stale", "session", s.id, "filter", filter)
	default:
		s.summary = sum
	}
	return s.snapshotLocked()
}

// StartTour：从第 0 站开始导览；会话关闭后不再启动
func (s *Session) StartTour() Snapshot {
	metrics.EventsTotal.WithLabelValues("tour_start").Inc()
	s.mu.Lock()
	s.touch()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		logger.L().Debug("tour_start_skip", "session", s.id, "reason", "closed")
		return s.Snapshot()
	}
	s.tour.Start()
	if s.isClosed() {
		s.tour.Stop()
	}
	return s.Snapshot()
}

// StopTour：停止导览；已发出的定位意图保留
func (s *Session) StopTour() Snapshot {
	metrics.EventsTotal.WithLabelValues("tour_stop").Inc()
	s.mu.Lock()
	s.touch()
	s.mu.Unlock()
	s.tour.Stop()
	return s.Snapshot()
}

// DrainIntents：取走全部待处理定位意图
func (s *Session) DrainIntents() []FocusIntent {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	out := s.outbox
	s.outbox = nil
	if out == nil {
		out = []FocusIntent{}
	}
	return out
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:            s.id,
		State:         s.state,
		Summary:       s.summary,
		SearchResults: []string{},
		PendingFocus:  len(s.outbox),
	}
	if s.cfg.Regions != nil {
		snap.SearchResults = search.Names(search.Search(s.state.SearchText, s.cfg.Regions.All()))
	}
	if h := s.state.Hover; h != nil {
		if p, ok := s.lookupParcel(h.ParcelID); ok {
			d := detailOf(p)
			snap.Hovered = &d
		}
	}
	if id := s.state.SelectedParcel; id != "" {
		if p, ok := s.lookupParcel(id); ok {
			d := detailOf(p)
			snap.Selected = &d
		}
	}
	return snap
}

// IdleSince：最近一次事件时间
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Close：标记关闭，停止导览并释放定时器
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.tour.Stop()
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
