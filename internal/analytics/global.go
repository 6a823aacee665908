package analytics

import (
	"strconv"

	"rotational-map/internal/parcel"
)

// Global：全量数据集统计，与视口无关
type Global struct {
	TotalArea        float64 `json:"total_area"`
	CarbonSinkArea   float64 `json:"carbon_sink_area"`
	ActiveFarmArea   float64 `json:"active_farm_area"`
	RestorationRatio float64 `json:"restoration_ratio"`
	RatioText        string  `json:"ratio_text"`
}

// 文档注释：全局统计
// 约束：总面积包含未知状态地块；总面积为 0 时恢复比例为 0；
// 比值文本在 ActiveFarm 为 0 时：CarbonSink>0 显示 "∞"，否则 "0"。
func GlobalStats(all []parcel.Parcel) Global {
	var g Global
	for _, p := range all {
		g.TotalArea += p.AreaUnits
		switch p.Status {
		case parcel.StatusCarbonSink:
			g.CarbonSinkArea += p.AreaUnits
		case parcel.StatusActiveFarm:
			g.ActiveFarmArea += p.AreaUnits
		}
	}
	if g.TotalArea > 0 {
		g.RestorationRatio = g.CarbonSinkArea / g.TotalArea * 100
	}
	g.RatioText = RatioText(g.CarbonSinkArea, g.ActiveFarmArea)
	return g
}

// RatioText：碳汇与耕作面积之比，保留一位小数
func RatioText(carbonSink, activeFarm float64) string {
	switch {
	case activeFarm > 0:
		return strconv.FormatFloat(carbonSink/activeFarm, 'f', 1, 64)
	case carbonSink > 0:
		return "∞"
	}
	return "0"
}
