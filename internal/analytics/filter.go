package analytics

import (
	"strings"

	"rotational-map/internal/parcel"
)

// Filter：地图筛选状态
type Filter string

const (
	FilterAll        Filter = "all"
	FilterCarbonSink Filter = parcel.LabelCarbonSink
	FilterActiveFarm Filter = parcel.LabelActiveFarm
)

// ParseFilter：解析外部输入的筛选值；空串视为 all
func ParseFilter(s string) (Filter, bool) {
	switch strings.TrimSpace(s) {
	case "", "all", "All":
		return FilterAll, true
	case parcel.LabelCarbonSink, "CarbonSink", "carbon_sink":
		return FilterCarbonSink, true
	case parcel.LabelActiveFarm, "ActiveFarm", "active_farm":
		return FilterActiveFarm, true
	}
	return FilterAll, false
}

// Match：地块是否通过筛选
func (f Filter) Match(p parcel.Parcel) bool {
	switch f {
	case FilterCarbonSink:
		return p.Status == parcel.StatusCarbonSink
	case FilterActiveFarm:
		return p.Status == parcel.StatusActiveFarm
	}
	return true
}

// ApplyFilter：返回通过筛选的地块（新切片，保持顺序）
func ApplyFilter(ps []parcel.Parcel, f Filter) []parcel.Parcel {
	if f == FilterAll || f == "" {
		return ps
	}
	out := make([]parcel.Parcel, 0, len(ps))
	for _, p := range ps {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}
