package migrate

import (
	"database/sql"
	"fmt"

	"rotational-map/internal/logger"
)

// 背景：首次运行自动创建地块与村界表
// 约束：IF NOT EXISTS，不改动既有结构；几何以 GeoJSON 文本存储
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS parcels (
            id TEXT PRIMARY KEY,
            status TEXT NOT NULL DEFAULT '',
            crop_type TEXT NOT NULL DEFAULT '',
            area_rai DOUBLE PRECISION NOT NULL DEFAULT 0,
            anchor_lng DOUBLE PRECISION NOT NULL,
            anchor_lat DOUBLE PRECISION NOT NULL,
            geometry TEXT NOT NULL,
            seq SERIAL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_parcels_anchor ON parcels(anchor_lng, anchor_lat)`,
		`CREATE TABLE IF NOT EXISTS regions (
            name TEXT PRIMARY KEY,
            total_area_rai DOUBLE PRECISION NOT NULL DEFAULT 0,
            ring TEXT NOT NULL,
            seq SERIAL
        )`,
	}
	for i, s := range stmts {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("schema stmt %d: %w", i, err)
		}
	}
	logger.L().Debug("schema_done")
	return nil
}
