package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	maxOpenConns       = 20
	connMaxIdleTime    = 5 * time.Minute
	slowQueryThreshold = 200 * time.Millisecond
)

// Postgres wraps the gorm handle used by the offer repository.
type Postgres struct {
	DB *gorm.DB
}

func Connect(ctx context.Context, dsn string, logger *slog.Logger) (*Postgres, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	handle, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: newGormLogger(logger, gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open gorm postgres: %w", err)
	}

	sqlDB, err := handle.DB()
	if err != nil {
		return nil, fmt.Errorf("resolve postgres sql db handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	logger.Info("postgres connected",
		"event", "db_postgres_connected",
		"module", "internal/platform/db",
		"layer", "platform",
		"max_open_conns", maxOpenConns,
	)
	return &Postgres{DB: handle}, nil
}

func (p *Postgres) Close() error {
	if p == nil || p.DB == nil {
		return nil
	}
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// gormLogger sends gorm output to slog. Record-not-found is expected on
// lookups and is not reported.
type gormLogger struct {
	logger *slog.Logger
	level  gormlogger.LogLevel
}

func newGormLogger(logger *slog.Logger, level gormlogger.LogLevel) gormlogger.Interface {
	return &gormLogger{logger: logger, level: level}
}

func (g *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	return &gormLogger{logger: g.logger, level: level}
}

func (g *gormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Info {
		g.logger.InfoContext(ctx, fmt.Sprintf(msg, args...), "event", "db_gorm_info", "module", "internal/platform/db", "layer", "platform")
	}
}

func (g *gormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Warn {
		g.logger.WarnContext(ctx, fmt.Sprintf(msg, args...), "event", "db_gorm_warn", "module", "internal/platform/db", "layer", "platform")
	}
}

func (g *gormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Error {
		g.logger.ErrorContext(ctx, fmt.Sprintf(msg, args...), "event", "db_gorm_error", "module", "internal/platform/db", "layer", "platform")
	}
}

func (g *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && g.level >= gormlogger.Error:
		sql, rows := fc()
		g.logger.ErrorContext(ctx, "query failed",
			"event", "db_query_failed",
			"module", "internal/platform/db",
			"layer", "platform",
			"sql", sql,
			"rows", rows,
			"elapsed_ms", elapsed.Milliseconds(),
			"error", err.Error(),
		)
	case elapsed > slowQueryThreshold && g.level >= gormlogger.Warn:
		sql, rows := fc()
		g.logger.WarnContext(ctx, "slow query",
			"event", "db_query_slow",
			"module", "internal/platform/db",
			"layer", "platform",
			"sql", sql,
			"rows", rows,
			"elapsed_ms", elapsed.Milliseconds(),
		)
	case g.level >= gormlogger.Info:
		sql, rows := fc()
		g.logger.DebugContext(ctx, "query",
			"event", "db_query",
			"module", "internal/platform/db",
			"layer", "platform",
			"sql", sql,
			"rows", rows,
			"elapsed_ms", elapsed.Milliseconds(),
		)
	}
}
