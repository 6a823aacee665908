package dataset

import (
	"context"
	"database/sql"
	"fmt"

	"rotational-map/internal/logger"
	"rotational-map/internal/parcel"
	"rotational-map/internal/region"

	"github.com/lib/pq"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// SaveBatch：导入时每个事务写入的行数
const SaveBatch = 500

// LoadPostgres：按导入顺序读取地块与村界
func LoadPostgres(ctx context.Context, db *sql.DB) ([]parcel.Parcel, []region.Region, error) {
	ps, err := loadParcels(ctx, db)
	if err != nil {
		return nil, nil, err
	}
	rs, err := loadRegions(ctx, db)
	if err != nil {
		return nil, nil, err
	}
	return ps, rs, nil
}

func loadParcels(ctx context.Context, db *sql.DB) ([]parcel.Parcel, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, status, crop_type, area_rai, anchor_lng, anchor_lat, geometry FROM parcels ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query parcels: %w", err)
	}
	defer rows.Close()
	var out []parcel.Parcel
	for rows.Next() {
		var (
			p        parcel.Parcel
			status   string
			lng, lat float64
			geom     string
		)
		if err := rows.Scan(&p.ID, &status, &p.CropType, &p.AreaUnits, &lng, &lat, &geom); err != nil {
			return nil, fmt.Errorf("scan parcel: %w", err)
		}
		p.Status = parcel.ParseStatus(status)
		p.Anchor = orb.Point{lng, lat}
		if g, err := geojson.UnmarshalGeometry([]byte(geom)); err == nil {
			p.Geometry = g.Geometry()
		} else {
			logger.L().Debug("parcel_geometry_decode_error", "id", p.ID, "err", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate parcels: %w", err)
	}
	return out, nil
}

func loadRegions(ctx context.Context, db *sql.DB) ([]region.Region, error) {
	rows, err := db.QueryContext(ctx, `SELECT name, total_area_rai, ring FROM regions ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query regions: %w", err)
	}
	defer rows.Close()
	var out []region.Region
	for rows.Next() {
		var (
			r    region.Region
			ring string
		)
		if err := rows.Scan(&r.Name, &r.TotalAreaUnits, &ring); err != nil {
			return nil, fmt.Errorf("scan region: %w", err)
		}
		if g, err := geojson.UnmarshalGeometry([]byte(ring)); err == nil {
			r.Ring = outerRing(g.Geometry())
		} else {
			logger.L().Debug("region_ring_decode_error", "name", r.Name, "err", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate regions: %w", err)
	}
	return out, nil
}

// 文档注释：将数据集写入 Postgres
// 背景：分批事务 upsert，最后删除本次导入中不存在的行，使表与源文件一致。
// 约束：写入顺序即后续加载顺序（seq 仅在首次插入时分配）
func Save(ctx context.Context, db *sql.DB, ps []parcel.Parcel, rs []region.Region) error {
	ids := make([]string, 0, len(ps))
	for start := 0; start < len(ps); start += SaveBatch {
		end := min(start+SaveBatch, len(ps))
		if err := saveParcels(ctx, db, ps[start:end]); err != nil {
			return err
		}
		for _, p := range ps[start:end] {
			ids = append(ids, p.ID)
		}
		logger.L().Debug("parcel_save_batch", "from", start, "to", end)
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM parcels WHERE NOT (id = ANY($1))`, pq.Array(ids)); err != nil {
		return fmt.Errorf("prune parcels: %w", err)
	}

	names := make([]string, 0, len(rs))
	for _, r := range rs {
		names = append(names, r.Name)
	}
	if err := saveRegions(ctx, db, rs); err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM regions WHERE NOT (name = ANY($1))`, pq.Array(names)); err != nil {
		return fmt.Errorf("prune regions: %w", err)
	}
	logger.L().Info("dataset_save_ok", "parcels", len(ps), "regions", len(rs))
	return nil
}

func saveParcels(ctx context.Context, db *sql.DB, ps []parcel.Parcel) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin parcels: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO parcels (id, status, crop_type, area_rai, anchor_lng, anchor_lat, geometry)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, crop_type = EXCLUDED.crop_type,
            area_rai = EXCLUDED.area_rai, anchor_lng = EXCLUDED.anchor_lng, anchor_lat = EXCLUDED.anchor_lat,
            geometry = EXCLUDED.geometry`)
	if err != nil {
		return fmt.Errorf("prepare parcels: %w", err)
	}
	defer stmt.Close()
	for _, p := range ps {
		geom, err := encodeGeometry(p.Geometry)
		if err != nil {
			return fmt.Errorf("encode parcel %s: %w", p.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, p.ID, p.Status.String(), p.CropType, p.AreaUnits, p.Anchor[0], p.Anchor[1], geom); err != nil {
			return fmt.Errorf("upsert parcel %s: %w", p.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit parcels: %w", err)
	}
	return nil
}

func saveRegions(ctx context.Context, db *sql.DB, rs []region.Region) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin regions: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO regions (name, total_area_rai, ring) VALUES ($1, $2, $3)
        ON CONFLICT (name) DO UPDATE SET total_area_rai = EXCLUDED.total_area_rai, ring = EXCLUDED.ring`)
	if err != nil {
		return fmt.Errorf("prepare regions: %w", err)
	}
	defer stmt.Close()
	for _, r := range rs {
		ring, err := encodeGeometry(orb.Polygon{r.Ring})
		if err != nil {
			return fmt.Errorf("encode region %s: %w", r.Name, err)
		}
		if _, err := stmt.ExecContext(ctx, r.Name, r.TotalAreaUnits, ring); err != nil {
			return fmt.Errorf("upsert region %s: %w", r.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit regions: %w", err)
	}
	return nil
}

// encodeGeometry：nil 几何写为 JSON null
func encodeGeometry(g orb.Geometry) (string, error) {
	if g == nil {
		return "null", nil
	}
	b, err := geojson.NewGeometry(g).MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(b), nil
}
