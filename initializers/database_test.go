package initializers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/Kariqs/satshop-api/config"
	"github.com/Kariqs/satshop-api/logger"
	"github.com/Kariqs/satshop-api/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestOpenDatabaseTranslatesDuplicateKey(t *testing.T) {
	db, err := OpenDatabase(config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.Promotion{}, &models.User{}))

	promo := func() *models.Promotion {
		return &models.Promotion{Code: "DUP", DiscountType: models.DiscountFixed, DiscountValue: decimal.NewFromInt(5), Active: true}
	}
	require.NoError(t, db.Create(promo()).Error)
	assert.ErrorIs(t, db.Create(promo()).Error, gorm.ErrDuplicatedKey)

	require.NoError(t, db.Create(&models.User{Email: "a@example.com", Password: "x", Role: models.RoleCustomer}).Error)
	err = db.Create(&models.User{Email: "a@example.com", Password: "y", Role: models.RoleCustomer}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func captureDefaultLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(logger.New(&buf, "debug", "json", false))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestGormLoggerReportsFailedQueriesWhenDisabled(t *testing.T) {
	buf := captureDefaultLog(t)
	l := newGormLogger(false, time.Second)
	query := func() (string, int64) { return "INSERT INTO promotions ...", 0 }

	l.Trace(context.Background(), time.Now(), query, nil)
	l.Trace(context.Background(), time.Now(), query, gormlogger.ErrRecordNotFound)
	assert.Zero(t, buf.Len())

	l.Trace(context.Background(), time.Now(), query, errors.New("UNIQUE constraint failed: promotions.code"))
	assert.Contains(t, buf.String(), "sql execution failed")
	assert.Contains(t, buf.String(), "UNIQUE constraint failed")
}

func TestGormLoggerReportsSlowQueries(t *testing.T) {
	buf := captureDefaultLog(t)
	l := newGormLogger(false, time.Millisecond)

	l.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) { return "SELECT 1", 1 }, nil)
	assert.Contains(t, buf.String(), "slow query detected")
}
