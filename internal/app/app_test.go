package app

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shinyyama/cafe-menu/internal/config"
	"github.com/shinyyama/cafe-menu/internal/logger"
	"github.com/shinyyama/cafe-menu/internal/repository"
	"github.com/shinyyama/cafe-menu/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestOpenInMemory(t *testing.T) {
	cfg := &config.Config{
		StoreDriver:    config.StoreMemory,
		AuthDisabled:   true,
		StorageURLMode: storage.URLModeACL,
		UploadMaxBytes: 1,
	}
	res, err := Open(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer res.Close()

	assert.IsType(t, &repository.MemoryMenuItemRepository{}, res.Items)
	assert.IsType(t, &storage.MemoryImageStore{}, res.Images)
	assert.Nil(t, res.Verifier)
}

func TestOpenClosesDatabaseWhenMigrateFails(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	// no query is expected, so the first migration statement fails
	mock.ExpectClose()

	orig := connectDB
	t.Cleanup(func() { connectDB = orig })
	connectDB = func(*config.Config) (*gorm.DB, error) {
		return gorm.Open(mysql.New(mysql.Config{
			Conn:                      sqlDB,
			SkipInitializeWithVersion: true,
		}), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	}

	cfg := &config.Config{
		StoreDriver:    config.StoreMySQL,
		AuthDisabled:   true,
		StorageURLMode: storage.URLModeACL,
		UploadMaxBytes: 1,
	}
	res, err := Open(context.Background(), cfg, logger.Nop())
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), "migrate")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCloseRunsInReverseAndKeepsFirstError(t *testing.T) {
	var order []int
	r := &Resources{closers: []func() error{
		func() error { order = append(order, 1); return nil },
		func() error { order = append(order, 2); return errors.New("first opened") },
		func() error { order = append(order, 3); return errors.New("last opened") },
	}}
	err := r.Close()
	assert.Equal(t, []int{3, 2, 1}, order)
	assert.EqualError(t, err, "last opened")
}
