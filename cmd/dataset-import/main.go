package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"rotational-map/internal/dataset"
	"rotational-map/internal/logger"
	"rotational-map/internal/migrate"
	"rotational-map/internal/utils"

	"github.com/joho/godotenv"
)

// 文档注释：将 GeoJSON 数据集导入 Postgres
// 背景：服务以 DATASET_SOURCE=postgres 启动时从库中加载；本工具负责建表与整表同步。
// 约束：以文件为准，库中多余的地块与村界会被删除
func main() {
	_ = godotenv.Load(".env")
	l := logger.Setup()
	parcelsPath := utils.Getenv("PARCELS_PATH", filepath.Join("data", "minified_farms.json"))
	regionsPath := utils.Getenv("REGIONS_PATH", filepath.Join("data", "villages.geojson"))

	ps, rs, err := dataset.LoadGeoJSON(parcelsPath, regionsPath, dataset.DefaultParcelKeys, dataset.DefaultRegionKeys)
	if err != nil {
		l.Error("dataset_read_error", "err", err)
		os.Exit(1)
	}
	l.Info("dataset_read_ok", "parcels", len(ps), "regions", len(rs))

	db, err := utils.OpenPostgresFromEnv()
	if err != nil {
		l.Error("db_open_error", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := migrate.EnsureSchema(db); err != nil {
		l.Error("schema_error", "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), utils.GetenvDuration("IMPORT_TIMEOUT_S", 10*time.Minute, time.Second))
	defer cancel()
	start := time.Now()
	if err := dataset.Save(ctx, db, ps, rs); err != nil {
		l.Error("dataset_import_error", "err", err)
		os.Exit(1)
	}
	l.Info("dataset_import_ok", "duration_ms", time.Since(start).Milliseconds())
}
