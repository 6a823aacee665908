package prep

import (
	"fmt"
	"os"
	"strings"

	"rotational-map/internal/logger"
	"rotational-map/internal/parcel"

	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/project"
)

// LandUseKey：原始数据中的土地利用描述字段
const LandUseKey = "LU_DES_TH"

// 土地利用描述中表示撂荒/灌丛的关键词
var sinkMarkers = []string{"ร้าง", "Bush"}

// Classify：撂荒或灌丛地块为碳汇，其余为在耕
func Classify(landUse string) parcel.Status {
	for _, m := range sinkMarkers {
		if strings.Contains(landUse, m) {
			return parcel.StatusCarbonSink
		}
	}
	return parcel.StatusActiveFarm
}

// Stats：一次预处理的计数
type Stats struct {
	Processed int
	Skipped   int
	Sink      int
}

// 文档注释：预处理要素集合
// 背景：原始数据为 UTM 平面坐标，前端与加载器需要经纬度；属性精简为加载器使用的字段。
// 约束：无几何的要素跳过；代表点为投影后几何的面积质心
func Process(fc *geojson.FeatureCollection, z Zone) (*geojson.FeatureCollection, Stats) {
	out := geojson.NewFeatureCollection()
	var st Stats
	for _, f := range fc.Features {
		if f.Geometry == nil {
			st.Skipped++
			continue
		}
		g := project.Geometry(f.Geometry, z.ToWGS84)
		lu, _ := f.Properties[LandUseKey].(string)
		status := Classify(lu)
		id := f.Properties["id"]
		if id == nil {
			id = f.ID
		}
		c, _ := planar.CentroidArea(g)

		nf := geojson.NewFeature(g)
		nf.ID = f.ID
		nf.Properties = geojson.Properties{
			"id":        id,
			"status":    status.String(),
			"crop_type": lu,
			"RAI":       f.Properties["RAI"],
			"lat":       c[1],
			"lng":       c[0],
		}
		out.Append(nf)
		st.Processed++
		if status == parcel.StatusCarbonSink {
			st.Sink++
		}
	}
	return out, st
}

// ProcessFile：读取原始文件并写出预处理结果
func ProcessFile(in, out string, z Zone) (Stats, error) {
	b, err := os.ReadFile(in)
	if err != nil {
		return Stats{}, fmt.Errorf("read %s: %w", in, err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(b)
	if err != nil {
		return Stats{}, fmt.Errorf("decode %s: %w", in, err)
	}
	res, st := Process(fc, z)
	data, err := res.MarshalJSON()
	if err != nil {
		return Stats{}, fmt.Errorf("encode: %w", err)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return Stats{}, fmt.Errorf("write %s: %w", out, err)
	}
	logger.L().Info("prep_done", "in", in, "out", out, "processed", st.Processed, "skipped", st.Skipped, "carbon_sink", st.Sink)
	return st, nil
}
