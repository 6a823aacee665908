// 包 region：村界（行政边界）模型与只读区域库，用于搜索与飞行定位
package region

import (
	"math"

	"github.com/paulmach/orb"
)

// Region：命名边界
// 约束：Name 唯一，是搜索与查找的唯一键；Ring 为单个闭合环（lng, lat）
type Region struct {
	Name           string   `json:"name"`
	Ring           orb.Ring `json:"-"`
	TotalAreaUnits float64  `json:"total_area_units"`
}

// 文档注释：环顶点算术平均中心
// 背景：区域只作为飞行定位目标，沿用顶点均值（非面积加权）；闭合环的首尾重复点同样参与平均。
// 约束：零个顶点或结果为 NaN 时返回 false，调用方跳过定位。
func (r Region) Centroid() (orb.Point, bool) {
	if len(r.Ring) == 0 {
		return orb.Point{}, false
	}
	var lngSum, latSum float64
	for _, p := range r.Ring {
		lngSum += p[0]
		latSum += p[1]
	}
	n := float64(len(r.Ring))
	c := orb.Point{lngSum / n, latSum / n}
	if math.IsNaN(c[0]) || math.IsNaN(c[1]) {
		return orb.Point{}, false
	}
	return c, true
}

// Contains：射线法判定点是否在环内（Even-Odd）
// 约束：少于 3 个顶点视为不包含；边界上的点结果不稳定
func (r Region) Contains(pt orb.Point) bool {
	ring := r.Ring
	n := len(ring)
	if n < 3 {
		return false
	}
	inside := false
	x, y := pt[0], pt[1]
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i][0], ring[i][1]
		xj, yj := ring[j][0], ring[j][1]
		intersect := ((yi > y) != (yj > y)) && (x < (xj-xi)*(y-yi)/(yj-yi+1e-12)+xi)
		if intersect {
			inside = !inside
		}
	}
	return inside
}
