// 包 dataset：加载地块与村界数据集（GeoJSON 文件或 Postgres），构建只读存储与全局统计
package dataset

import (
	"context"
	"database/sql"
	"fmt"

	"rotational-map/internal/analytics"
	"rotational-map/internal/logger"
	"rotational-map/internal/parcel"
	"rotational-map/internal/region"
)

const (
	SourceGeoJSON  = "geojson"
	SourcePostgres = "postgres"
)

// Dataset：进程生命周期内只读
type Dataset struct {
	Parcels *parcel.Store
	Regions *region.Store
	Global  analytics.Global
	View    analytics.ViewState
}

// Config：数据源配置；Source 为 postgres 时需提供 DB
type Config struct {
	Source      string
	ParcelsPath string
	RegionsPath string
	ParcelKeys  ParcelKeys
	RegionKeys  RegionKeys
	DB          *sql.DB
}

// Build：构建存储并计算全局统计与初始视图
func Build(ps []parcel.Parcel, rs []region.Region) *Dataset {
	pstore := parcel.NewStore(ps)
	return &Dataset{
		Parcels: pstore,
		Regions: region.NewStore(rs),
		Global:  analytics.GlobalStats(pstore.All()),
		View:    analytics.InitialView(pstore.All()),
	}
}

// Load：按配置读取数据源
func Load(ctx context.Context, cfg Config) (*Dataset, error) {
	var (
		ps  []parcel.Parcel
		rs  []region.Region
		err error
	)
	switch cfg.Source {
	case "", SourceGeoJSON:
		pk, rk := cfg.ParcelKeys, cfg.RegionKeys
		if pk == (ParcelKeys{}) {
			pk = DefaultParcelKeys
		}
		if rk == (RegionKeys{}) {
			rk = DefaultRegionKeys
		}
		ps, rs, err = LoadGeoJSON(cfg.ParcelsPath, cfg.RegionsPath, pk, rk)
	case SourcePostgres:
		if cfg.DB == nil {
			return nil, fmt.Errorf("dataset source %q requires a database", cfg.Source)
		}
		ps, rs, err = LoadPostgres(ctx, cfg.DB)
	default:
		return nil, fmt.Errorf("unknown dataset source %q", cfg.Source)
	}
	if err != nil {
		return nil, err
	}
	d := Build(ps, rs)
	logger.L().Info("dataset_load_ok",
		"source", cfg.Source,
		"parcels", d.Parcels.Len(),
		"regions", d.Regions.Len(),
		"total_rai", d.Global.TotalArea,
	)
	return d, nil
}
