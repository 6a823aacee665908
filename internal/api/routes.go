// 包 api：HTTP 路由；全局统计、区域查询与会话事件
package api

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"rotational-map/internal/analytics"
	"rotational-map/internal/dataset"
	"rotational-map/internal/logger"
	"rotational-map/internal/metrics"
	"rotational-map/internal/search"
	"rotational-map/internal/session"

	"github.com/paulmach/orb"
)

// maxEventBytes：单个事件请求体上限（viewport 事件携带可见 ID 列表）
const maxEventBytes = 4 << 20

type handlers struct {
	data     *dataset.Dataset
	sessions *session.Registry
}

// 文档注释：构建路由
// 背景：调用方以 StripPrefix(API_BASE) 挂载；路径参数使用 ServeMux 模式匹配。
func BuildRoutes(d *dataset.Dataset, reg *session.Registry) *http.ServeMux {
	h := &handlers{data: d, sessions: reg}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /stats/global", h.globalStats)
	mux.HandleFunc("GET /view/initial", h.initialView)
	mux.HandleFunc("GET /regions/search", h.searchRegions)
	mux.HandleFunc("GET /regions/at", h.regionAt)
	mux.HandleFunc("POST /sessions", h.createSession)
	mux.HandleFunc("GET /sessions/{id}", h.getSession)
	mux.HandleFunc("DELETE /sessions/{id}", h.deleteSession)
	mux.HandleFunc("POST /sessions/{id}/events", h.postEvent)
	mux.HandleFunc("GET /sessions/{id}/intents", h.drainIntents)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResult{Error: msg})
}

func (h *handlers) globalStats(w http.ResponseWriter, r *http.Request) {
	metrics.RequestsTotal.WithLabelValues("stats_global").Inc()
	writeJSON(w, http.StatusOK, h.data.Global)
}

func (h *handlers) initialView(w http.ResponseWriter, r *http.Request) {
	metrics.RequestsTotal.WithLabelValues("view_initial").Inc()
	writeJSON(w, http.StatusOK, h.data.View)
}

func (h *handlers) searchRegions(w http.ResponseWriter, r *http.Request) {
	metrics.RequestsTotal.WithLabelValues("regions_search").Inc()
	metrics.SearchRequestsTotal.Inc()
	hits := search.Search(r.URL.Query().Get("q"), h.data.Regions.All())
	out := make([]regionResult, 0, len(hits))
	for _, rg := range hits {
		out = append(out, toRegionResult(rg))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) regionAt(w http.ResponseWriter, r *http.Request) {
	metrics.RequestsTotal.WithLabelValues("regions_at").Inc()
	q := r.URL.Query()
	lng, err1 := strconv.ParseFloat(q.Get("lng"), 64)
	lat, err2 := strconv.ParseFloat(q.Get("lat"), 64)
	if err1 != nil || err2 != nil || math.IsNaN(lng) || math.IsNaN(lat) {
		writeError(w, http.StatusBadRequest, "lng and lat must be numbers")
		return
	}
	rg, ok := h.data.Regions.At(orb.Point{lng, lat})
	if !ok {
		writeError(w, http.StatusNotFound, "no region at point")
		return
	}
	writeJSON(w, http.StatusOK, toRegionResult(rg))
}

func (h *handlers) createSession(w http.ResponseWriter, r *http.Request) {
	metrics.RequestsTotal.WithLabelValues("session_create").Inc()
	s := h.sessions.Create()
	writeJSON(w, http.StatusCreated, s.Snapshot())
}

// lookup：会话不存在时写 404 并返回 nil
func (h *handlers) lookup(w http.ResponseWriter, r *http.Request) *session.Session {
	s, err := h.sessions.Get(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return nil
	}
	return s
}

func (h *handlers) getSession(w http.ResponseWriter, r *http.Request) {
	metrics.RequestsTotal.WithLabelValues("session_get").Inc()
	if s := h.lookup(w, r); s != nil {
		writeJSON(w, http.StatusOK, s.Snapshot())
	}
}

func (h *handlers) deleteSession(w http.ResponseWriter, r *http.Request) {
	metrics.RequestsTotal.WithLabelValues("session_delete").Inc()
	if err := h.sessions.Remove(r.PathValue("id")); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) drainIntents(w http.ResponseWriter, r *http.Request) {
	metrics.RequestsTotal.WithLabelValues("session_intents").Inc()
	if s := h.lookup(w, r); s != nil {
		writeJSON(w, http.StatusOK, s.DrainIntents())
	}
}

func (h *handlers) postEvent(w http.ResponseWriter, r *http.Request) {
	metrics.RequestsTotal.WithLabelValues("session_event").Inc()
	s := h.lookup(w, r)
	if s == nil {
		return
	}
	var ev eventRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBytes)).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, "invalid event body")
		return
	}
	var snap session.Snapshot
	switch ev.Type {
	case "pointer_move":
		snap = s.PointerMove(ev.hit(), ev.X, ev.Y)
	case "click":
		snap = s.Click(ev.hit(), ev.Lng, ev.Lat)
	case "close_popup":
		snap = s.CloseRegionPopup()
	case "filter":
		f, ok := analytics.ParseFilter(ev.Filter)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown filter")
			return
		}
		snap = s.SetFilter(f)
	case "search":
		snap = s.SetSearchText(ev.Query)
	case "search_select":
		snap = s.SelectSearchResult(ev.Region)
	case "viewport":
		if ev.Bounds != nil {
			snap = s.ViewportBounds(r.Context(), ev.bound())
		} else {
			snap = s.ViewportSettled(r.Context(), ev.IDs)
		}
	case "tour_start":
		snap = s.StartTour()
	case "tour_stop":
		snap = s.StopTour()
	default:
		logger.L().Debug("event_unknown", "session", s.ID(), "type", ev.Type)
		writeError(w, http.StatusBadRequest, "unknown event type")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
