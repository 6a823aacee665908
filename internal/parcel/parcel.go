// 包 parcel：地块记录模型与只读地块库；启动时一次性加载，运行期间不可变
package parcel

import (
	"math"
	"strings"

	"github.com/paulmach/orb"
)

// Status：地块土地利用状态，二选一；未知取值归入 Other
type Status int

const (
	StatusOther Status = iota
	StatusCarbonSink
	StatusActiveFarm
)

const (
	LabelCarbonSink = "Carbon Sink"
	LabelActiveFarm = "Active Farm"
	LabelOther      = "Other"

	// UnknownCrop：缺失作物类型时的占位标签
	UnknownCrop = "Unknown"
)

// ParseStatus：解析数据集中的状态字符串
// 约束：仅识别 "Carbon Sink"/"Active Farm"（兼容无空格写法）；其他任意值返回 StatusOther，不报错
func ParseStatus(s string) Status {
	switch strings.TrimSpace(s) {
	case LabelCarbonSink, "CarbonSink":
		return StatusCarbonSink
	case LabelActiveFarm, "ActiveFarm":
		return StatusActiveFarm
	}
	return StatusOther
}

func (s Status) String() string {
	switch s {
	case StatusCarbonSink:
		return LabelCarbonSink
	case StatusActiveFarm:
		return LabelActiveFarm
	}
	return LabelOther
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(b []byte) error {
	*s = ParseStatus(string(b))
	return nil
}

// Parcel：单个地块
// 约束：Geometry 由渲染方持有，核心逻辑只使用 Anchor（代表点，lng/lat）；AreaUnits 单位为莱（rai），非负
type Parcel struct {
	ID        string       `json:"id"`
	Geometry  orb.Geometry `json:"-"`
	Anchor    orb.Point    `json:"anchor"`
	AreaUnits float64      `json:"area_units"`
	Status    Status       `json:"status"`
	CropType  string       `json:"crop_type"`
}

// Crop：返回作物标签，缺失时为 Unknown
func (p Parcel) Crop() string {
	if strings.TrimSpace(p.CropType) == "" {
		return UnknownCrop
	}
	return p.CropType
}

// normalize：缺失或非法面积归零
func normalize(p Parcel) Parcel {
	if math.IsNaN(p.AreaUnits) || math.IsInf(p.AreaUnits, 0) || p.AreaUnits < 0 {
		p.AreaUnits = 0
	}
	return p
}
