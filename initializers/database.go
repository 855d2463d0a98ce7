package initializers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Kariqs/satshop-api/config"
	"github.com/Kariqs/satshop-api/logger"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

func ConnectToDB() {
	db, err := OpenDatabase(Config.Database)
	if err != nil {
		logger.Fatal(context.Background(), "failed to connect to database", "error", err)
	}
	DB = db
}

// OpenDatabase opens a pooled gorm connection for the configured driver.
func OpenDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "sqlite":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "satshop.db"
		}
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(cfg.LogEnabled, time.Duration(cfg.SlowQueryThreshold)*time.Millisecond),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	if cfg.Driver == "sqlite" {
		// sqlite serializes writers
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}

	if err := sqlDB.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info(context.Background(), "database connected", "driver", cfg.Driver)
	return db, nil
}

// gormLogger routes gorm's output through the application logger.
type gormLogger struct {
	enabled       bool
	slowThreshold time.Duration
}

func newGormLogger(enabled bool, slowThreshold time.Duration) *gormLogger {
	return &gormLogger{enabled: enabled, slowThreshold: slowThreshold}
}

func (l *gormLogger) LogMode(gormlogger.LogLevel) gormlogger.Interface {
	return l
}

func (l *gormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.enabled {
		logger.Info(ctx, msg, "data", data)
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, data ...any) {
	logger.Warn(ctx, msg, "data", data)
}

func (l *gormLogger) Error(ctx context.Context, msg string, data ...any) {
	logger.Error(ctx, msg, "data", data)
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	slow := l.slowThreshold > 0 && elapsed > l.slowThreshold
	failed := err != nil && !errors.Is(err, gormlogger.ErrRecordNotFound)
	if !l.enabled && !slow && !failed {
		return
	}

	sql, rows := fc()
	args := []any{"duration", elapsed, "rows", rows, "sql", sql}

	switch {
	case failed:
		logger.Error(ctx, "sql execution failed", append(args, "error", err)...)
	case slow:
		logger.Warn(ctx, "slow query detected", args...)
	default:
		logger.Debug(ctx, "sql executed", args...)
	}
}
