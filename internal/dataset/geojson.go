package dataset

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"rotational-map/internal/logger"
	"rotational-map/internal/parcel"
	"rotational-map/internal/region"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// ParcelKeys：地块要素属性名
type ParcelKeys struct {
	ID     string
	Status string
	Crop   string
	Area   string
	Lat    string
	Lng    string
}

// RegionKeys：村界要素属性名
type RegionKeys struct {
	Name string
	Area string
}

var (
	DefaultParcelKeys = ParcelKeys{ID: "id", Status: "status", Crop: "crop_type", Area: "RAI", Lat: "lat", Lng: "lng"}
	DefaultRegionKeys = RegionKeys{Name: "Vill_Th", Area: "A_Rai"}
)

func readCollection(path string) (*geojson.FeatureCollection, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(b)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return fc, nil
}

// 文档注释：解析地块要素集合
// 背景：ID 缺失时依次回退到要素 id 与序号；代表点优先取 lat/lng 属性，否则取几何面积质心。
// 约束：既无几何也无坐标属性的要素跳过；面积非数值按 0 处理
func ParseParcels(fc *geojson.FeatureCollection, keys ParcelKeys) []parcel.Parcel {
	out := make([]parcel.Parcel, 0, len(fc.Features))
	skipped := 0
	for i, f := range fc.Features {
		props := f.Properties
		id := toString(props[keys.ID])
		if id == "" {
			id = toString(f.ID)
		}
		if id == "" {
			id = "parcel-" + strconv.Itoa(i)
		}
		anchor, ok := anchorOf(f, keys)
		if !ok {
			skipped++
			continue
		}
		out = append(out, parcel.Parcel{
			ID:        id,
			Geometry:  f.Geometry,
			Anchor:    anchor,
			AreaUnits: toFloat(props[keys.Area]),
			Status:    parcel.ParseStatus(toString(props[keys.Status])),
			CropType:  toString(props[keys.Crop]),
		})
	}
	if skipped > 0 {
		logger.L().Warn("parcel_parse_skip", "count", skipped, "reason", "no_anchor")
	}
	return out
}

func anchorOf(f *geojson.Feature, keys ParcelKeys) (orb.Point, bool) {
	lat, latOK := f.Properties[keys.Lat]
	lng, lngOK := f.Properties[keys.Lng]
	if latOK && lngOK {
		p := orb.Point{toFloat(lng), toFloat(lat)}
		if finite(p) && (p[0] != 0 || p[1] != 0) {
			return p, true
		}
	}
	if f.Geometry == nil {
		return orb.Point{}, false
	}
	c, _ := planar.CentroidArea(f.Geometry)
	if !finite(c) {
		return orb.Point{}, false
	}
	return c, true
}

// 文档注释：解析村界要素集合
// 约束：Polygon 取外环，MultiPolygon 取第一个多边形的外环；无名称的要素跳过
func ParseRegions(fc *geojson.FeatureCollection, keys RegionKeys) []region.Region {
	out := make([]region.Region, 0, len(fc.Features))
	for _, f := range fc.Features {
		name := strings.TrimSpace(toString(f.Properties[keys.Name]))
		if name == "" {
			continue
		}
		out = append(out, region.Region{
			Name:           name,
			Ring:           outerRing(f.Geometry),
			TotalAreaUnits: toFloat(f.Properties[keys.Area]),
		})
	}
	return out
}

func outerRing(g orb.Geometry) orb.Ring {
	switch v := g.(type) {
	case orb.Polygon:
		if len(v) > 0 {
			return v[0]
		}
	case orb.MultiPolygon:
		if len(v) > 0 && len(v[0]) > 0 {
			return v[0][0]
		}
	case orb.Ring:
		return v
	}
	return nil
}

// LoadGeoJSON：读取地块与村界文件
func LoadGeoJSON(parcelsPath, regionsPath string, pk ParcelKeys, rk RegionKeys) ([]parcel.Parcel, []region.Region, error) {
	pfc, err := readCollection(parcelsPath)
	if err != nil {
		return nil, nil, err
	}
	rfc, err := readCollection(regionsPath)
	if err != nil {
		return nil, nil, err
	}
	return ParseParcels(pfc, pk), ParseRegions(rfc, rk), nil
}

func toFloat(v any) float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		f = n
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}

func finite(p orb.Point) bool {
	return !math.IsNaN(p[0]) && !math.IsNaN(p[1]) && !math.IsInf(p[0], 0) && !math.IsInf(p[1], 0)
}
