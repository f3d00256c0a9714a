package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	"adaptive-assessment-service/internal/app"
	"adaptive-assessment-service/internal/config"
	"adaptive-assessment-service/internal/infra/file"
	"adaptive-assessment-service/internal/infra/memory"
	"adaptive-assessment-service/internal/infra/postgres"
	redisstore "adaptive-assessment-service/internal/infra/redis"
	"adaptive-assessment-service/internal/infra/sqlite"
	"github.com/charmbracelet/log"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"gopkg.in/natefinch/lumberjack.v2"
)

// deps holds the wired stores; close releases every opened connection.
type deps struct {
	schedules app.ScheduleRepository
	progress  app.ProgressStore
	closers   []func() error
}

func (d *deps) close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		_ = d.closers[i]()
	}
}

func newLogger(cfg config.Config) *log.Logger {
	var writer io.Writer = os.Stderr
	if cfg.Log.File != "" {
		writer = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		})
	}
	logger := log.NewWithOptions(writer, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "assessment",
	})
	lvl, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", cfg.Log.Level)
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

func openBun(url string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(url)))
	return bun.NewDB(sqldb, pgdialect.New())
}

func buildDeps(ctx context.Context, cfg config.Config) (*deps, error) {
	d := &deps{}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		d.closers = append(d.closers, redisClient.Close)
	}

	var loader memory.ScheduleLoader = file.NewScheduleLoader(cfg.Data.SchedulePath, cfg.Data.QuestionsPath)
	if cfg.Schedule.Source == "postgres" {
		if cfg.Postgres.URL == "" {
			d.close()
			return nil, fmt.Errorf("schedule source postgres requires postgres url")
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			d.close()
			return nil, err
		}
		d.closers = append(d.closers, func() error { pool.Close(); return nil })
		loader = postgres.NewScheduleLoader(pool)
	}

	scheduleTTL := config.TTLDuration(cfg.Schedule.TTL, 10*time.Minute)
	if redisClient != nil {
		d.schedules = redisstore.NewScheduleRepository(redisClient, loader, cfg.Schedule.CacheKey, scheduleTTL)
	} else {
		d.schedules = memory.NewScheduleRepository(loader, scheduleTTL)
	}

	switch cfg.Progress.Backend {
	case "memory":
		d.progress = memory.NewProgressStore()
	case "redis":
		if redisClient == nil {
			d.close()
			return nil, fmt.Errorf("progress backend redis requires redis addr")
		}
		d.progress = redisstore.NewProgressStore(redisClient, cfg.Progress.Key, config.TTLDuration(cfg.Redis.TTL, 0))
	case "postgres":
		if cfg.Postgres.URL == "" {
			d.close()
			return nil, fmt.Errorf("progress backend postgres requires postgres url")
		}
		db := openBun(cfg.Postgres.URL)
		d.closers = append(d.closers, db.Close)
		d.progress = postgres.NewProgressStore(db, cfg.Progress.Key)
	case "sqlite":
		store, err := sqlite.Open(ctx, cfg.Progress.SQLitePath, cfg.Progress.Key)
		if err != nil {
			d.close()
			return nil, err
		}
		d.closers = append(d.closers, store.Close)
		d.progress = store
	default:
		d.close()
		return nil, fmt.Errorf("unknown progress backend %q", cfg.Progress.Backend)
	}
	return d, nil
}
