// 包 interaction：交互状态机；消费指针/点击/筛选/搜索事件并产出下一个状态
package interaction

import (
	"rotational-map/internal/analytics"
	"rotational-map/internal/tour"
)

// Layer：命中要素所属图层
type Layer string

const (
	LayerParcels Layer = "rotational-fills"
	LayerRegions Layer = "village-fills"
)

// Hit：渲染方命中测试返回的最上层要素
// 约束：重叠要素由渲染方决定胜者，状态机不做二次裁决；FeatureID 对地块为地块 ID，对区域为村名
type Hit struct {
	Layer     Layer  `json:"layer"`
	FeatureID string `json:"feature_id"`
}

// Hover：悬停目标与最近一次指针屏幕坐标
type Hover struct {
	ParcelID string  `json:"parcel_id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// RegionSelection：选中区域与点击处经纬度（弹窗锚点）
type RegionSelection struct {
	Name string  `json:"name"`
	Lng  float64 `json:"lng"`
	Lat  float64 `json:"lat"`
}

// State：单个会话的交互状态
// 约束：SelectedParcel 与 SelectedRegion 互斥；SelectedParcel 为空串表示未选中
type State struct {
	Hover          *Hover           `json:"hover"`
	SelectedParcel string           `json:"selected_parcel,omitempty"`
	SelectedRegion *RegionSelection `json:"selected_region"`
	Filter         analytics.Filter `json:"filter"`
	SearchText     string           `json:"search_text"`
	Tour           tour.Status      `json:"tour"`
}

// Initial：无悬停、无选中、筛选为 all、空搜索、导览未激活
func Initial() State {
	return State{Filter: analytics.FilterAll}
}
