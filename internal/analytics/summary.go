// 包 analytics：视口统计与全局统计的纯函数聚合引擎
package analytics

import (
	"sort"

	"rotational-map/internal/parcel"
)

const (
	// CarbonPerRai：每莱碳汇面积的估算碳量（吨）
	CarbonPerRai = 1.2
	// TopCrops：作物分布保留的条目数
	TopCrops = 5
)

// CropCount：作物分布条目（图表数据）
type CropCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Summary：当前可见地块集合的统计摘要
// 约束：每次视口或筛选变化整体重算，不做增量修补
type Summary struct {
	CarbonSinkCount  int         `json:"carbon_sink_count"`
	ActiveFarmCount  int         `json:"active_farm_count"`
	OtherCount       int         `json:"other_count"`
	CarbonSinkArea   float64     `json:"carbon_sink_area"`
	CarbonEstimate   float64     `json:"carbon_estimate"`
	CropDistribution []CropCount `json:"crop_distribution"`
}

// EmptySummary：零值摘要，作物分布为空切片（序列化为 []）
func EmptySummary() Summary {
	return Summary{CropDistribution: []CropCount{}}
}

// 文档注释：视口统计
// 背景：输入为渲染方上报的可见地块，规模受屏幕要素数量限制，每次 O(n) 全量扫描。
// 约束：不修改输入；未知状态只计入 OtherCount；作物分布统计全部可见地块，按数量降序取前 5，
// 数量相同按首次出现顺序（稳定排序）。
func Summarize(visible []parcel.Parcel) Summary {
	out := EmptySummary()
	counts := make(map[string]int)
	var order []CropCount
	for _, p := range visible {
		switch p.Status {
		case parcel.StatusCarbonSink:
			out.CarbonSinkCount++
			out.CarbonSinkArea += p.AreaUnits
		case parcel.StatusActiveFarm:
			out.ActiveFarmCount++
		default:
			out.OtherCount++
		}
		crop := p.Crop()
		if _, seen := counts[crop]; !seen {
			counts[crop] = len(order)
			order = append(order, CropCount{Name: crop})
		}
		order[counts[crop]].Count++
	}
	out.CarbonEstimate = out.CarbonSinkArea * CarbonPerRai
	sort.SliceStable(order, func(i, j int) bool { return order[i].Count > order[j].Count })
	if len(order) > TopCrops {
		order = order[:TopCrops]
	}
	out.CropDistribution = append(out.CropDistribution, order...)
	return out
}

// ParcelCarbon：单个地块的估算碳量；仅碳汇地块非零
func ParcelCarbon(p parcel.Parcel) float64 {
	if p.Status != parcel.StatusCarbonSink {
		return 0
	}
	return p.AreaUnits * CarbonPerRai
}
