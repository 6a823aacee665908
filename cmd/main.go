// 程序入口：读取配置、加载数据集、初始化缓存与会话注册表并启动 HTTP 服务
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"rotational-map/internal/api"
	"rotational-map/internal/cache"
	"rotational-map/internal/dataset"
	"rotational-map/internal/logger"
	"rotational-map/internal/metrics"
	"rotational-map/internal/middleware"
	"rotational-map/internal/migrate"
	"rotational-map/internal/notify"
	"rotational-map/internal/session"
	"rotational-map/internal/tour"
	"rotational-map/internal/utils"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	l := logger.Setup()
	l.Debug("log_init_ok")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	apiBase := utils.Getenv("API_BASE", "/api")
	l.Debug("config_api_base", "base", apiBase)

	cfg := dataset.Config{
		Source:      utils.Getenv("DATASET_SOURCE", dataset.SourceGeoJSON),
		ParcelsPath: utils.Getenv("PARCELS_PATH", filepath.Join("data", "minified_farms.json")),
		RegionsPath: utils.Getenv("REGIONS_PATH", filepath.Join("data", "villages.geojson")),
	}
	if cfg.Source == dataset.SourcePostgres {
		db, err := utils.OpenPostgresFromEnv()
		if err != nil {
			l.Error("db_open_error", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			l.Error("db_ping_error", "err", err)
			os.Exit(1)
		}
		l.Info("db_ping_ok")
		if err := migrate.EnsureSchema(db); err != nil {
			l.Error("schema_error", "err", err)
			os.Exit(1)
		}
		cfg.DB = db
	}
	data, err := dataset.Load(ctx, cfg)
	if err != nil {
		l.Error("dataset_load_error", "err", err)
		os.Exit(1)
	}

	rc := utils.OpenRedisFromEnv()
	if rc == nil {
		l.Info("redis_disabled")
	} else {
		if err := rc.Ping(ctx).Err(); err != nil {
			l.Error("redis_ping_error", "err", err)
		} else {
			l.Info("redis_ping_ok")
		}
		defer rc.Close()
	}
	summaries := cache.New(
		utils.GetenvInt("SUMMARY_CACHE_SIZE", 1024),
		utils.GetenvDuration("SUMMARY_CACHE_TTL_S", 5*time.Minute, time.Second),
		rc,
	)

	tmpl := session.Config{
		Parcels: data.Parcels,
		Regions: data.Regions,
		Stops:   utils.GetenvList("TOUR_STOPS", tour.DefaultStops),
		Dwell:   utils.GetenvDuration("TOUR_DWELL_MS", tour.DefaultDwell, time.Millisecond),
		Cache:   summaries,
	}
	if ep := utils.Getenv("PLOT_WEBHOOK_URL", ""); ep != "" {
		wh := notify.NewWebhook(ep)
		wh.Start(ctx)
		tmpl.OnPlotSelected = wh.Callback()
		l.Info("plot_webhook_on", "endpoint", ep)
	}
	reg := session.NewRegistry(tmpl, utils.GetenvDuration("SESSION_IDLE_TTL_S", 30*time.Minute, time.Second))
	reg.Start(ctx)
	defer reg.CloseAll()

	mux := http.NewServeMux()
	mux.Handle(apiBase+"/", http.StripPrefix(apiBase, api.BuildRoutes(data, reg)))
	mux.Handle("/metrics", metrics.Handler())

	handler := logger.AccessMiddleware(l)(mux)
	handler = middleware.Wrap(handler)
	addr := utils.Getenv("ADDR", ":8080")
	s := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(shutdownCtx)
	}()
	l.Info("listening", "addr", addr, "parcels", data.Parcels.Len(), "regions", data.Regions.Len())
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Error("listen_error", "err", err)
		os.Exit(1)
	}
	l.Info("shutdown_ok")
}
