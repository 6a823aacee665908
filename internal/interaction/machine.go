package interaction

import (
	"rotational-map/internal/analytics"
	"rotational-map/internal/tour"
)

// PointerMove：仅当命中地块图层时设置悬停，否则立即清除（不保留）
func (s State) PointerMove(hit *Hit, x, y float64) State {
	if hit != nil && hit.Layer == LayerParcels {
		s.Hover = &Hover{ParcelID: hit.FeatureID, X: x, Y: y}
		return s
	}
	s.Hover = nil
	return s
}

// 文档注释：点击迁移
// 约束：地块 → 选中地块并清除区域，第二个返回值为 true（需通知宿主回调）；
// 区域 → 选中区域并记录点击经纬度，清除地块；未命中 → 清除两者；其他图层 → 状态不变。
func (s State) Click(hit *Hit, lng, lat float64) (State, bool) {
	if hit == nil {
		s.SelectedParcel = ""
		s.SelectedRegion = nil
		return s, false
	}
	switch hit.Layer {
	case LayerParcels:
		s.SelectedParcel = hit.FeatureID
		s.SelectedRegion = nil
		return s, true
	case LayerRegions:
		s.SelectedRegion = &RegionSelection{Name: hit.FeatureID, Lng: lng, Lat: lat}
		s.SelectedParcel = ""
		return s, false
	}
	return s, false
}

// SetFilter：更新筛选；重新聚合由下一次视口停止事件完成
func (s State) SetFilter(f analytics.Filter) State {
	s.Filter = f
	return s
}

// SetSearchText：更新搜索文本，不影响选中状态
func (s State) SetSearchText(text string) State {
	s.SearchText = text
	return s
}

// ClearRegion：关闭区域弹窗
func (s State) ClearRegion() State {
	s.SelectedRegion = nil
	return s
}

// StartTour：导览激活并回到第 0 站；由导览序列器的迁移驱动
func (s State) StartTour() State {
	s.Tour = tour.Status{Active: true}
	return s
}

// StopTour：停用导览，保留当前下标
func (s State) StopTour() State {
	s.Tour.Active = false
	return s
}

// AdvanceTour：激活时前进一站（循环）；未激活或无站点时不变
func (s State) AdvanceTour(stopCount int) State {
	if !s.Tour.Active || stopCount <= 0 {
		return s
	}
	s.Tour.Index = (s.Tour.Index + 1) % stopCount
	return s
}
