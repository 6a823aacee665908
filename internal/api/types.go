package api

import (
	"rotational-map/internal/interaction"
	"rotational-map/internal/region"

	"github.com/paulmach/orb"
)

// 文档注释：会话事件请求体
// 背景：一个端点承载全部交互事件，按 type 分派；未用到的字段忽略。
// 约束：layer 为空表示未命中任何要素；viewport 事件优先使用 bounds，缺省时使用 ids
type eventRequest struct {
	Type      string      `json:"type"`
	Layer     string      `json:"layer"`
	FeatureID string      `json:"feature_id"`
	X         float64     `json:"x"`
	Y         float64     `json:"y"`
	Lng       float64     `json:"lng"`
	Lat       float64     `json:"lat"`
	Filter    string      `json:"filter"`
	Query     string      `json:"query"`
	Region    string      `json:"region"`
	IDs       []string    `json:"ids"`
	Bounds    *[4]float64 `json:"bounds"`
}

func (e eventRequest) hit() *interaction.Hit {
	if e.Layer == "" {
		return nil
	}
	return &interaction.Hit{Layer: interaction.Layer(e.Layer), FeatureID: e.FeatureID}
}

func (e eventRequest) bound() orb.Bound {
	b := *e.Bounds
	return orb.Bound{
		Min: orb.Point{min(b[0], b[2]), min(b[1], b[3])},
		Max: orb.Point{max(b[0], b[2]), max(b[1], b[3])},
	}
}

// regionResult：区域对外结构（不含边界）
type regionResult struct {
	Name           string     `json:"name"`
	TotalAreaUnits float64    `json:"total_rai"`
	Center         *orb.Point `json:"center"`
}

func toRegionResult(r region.Region) regionResult {
	out := regionResult{Name: r.Name, TotalAreaUnits: r.TotalAreaUnits}
	if c, ok := r.Centroid(); ok {
		out.Center = &c
	}
	return out
}

type errorResult struct {
	Error string `json:"error"`
}
