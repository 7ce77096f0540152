// Package app builds the long-lived adapters a binary needs from Config.
package app

import (
	"context"
	"fmt"

	"github.com/shinyyama/cafe-menu/internal/config"
	"github.com/shinyyama/cafe-menu/internal/db"
	appmw "github.com/shinyyama/cafe-menu/internal/middleware"
	"github.com/shinyyama/cafe-menu/internal/repository"
	"github.com/shinyyama/cafe-menu/internal/storage"
	"go.uber.org/zap"
)

type Resources struct {
	Items    repository.MenuItemRepository
	Images   storage.ImageStore
	Verifier appmw.TokenVerifier

	closers []func() error
}

// Open selects the menu store by STORE_DRIVER, the image store by
// FIREBASE_STORAGE_BUCKET, and the token verifier by AUTH_DISABLED.
func Open(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (*Resources, error) {
	res := &Resources{}
	if err := res.open(ctx, cfg, log); err != nil {
		if cerr := res.Close(); cerr != nil {
			log.Warnw("close after failed open", "error", cerr)
		}
		return nil, err
	}
	return res, nil
}

// connectDB is replaced in tests.
var connectDB = db.Connect

func (r *Resources) open(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) error {
	var fb *db.Firebase
	if cfg.UsesFirebase() {
		var err error
		fb, err = db.NewFirebase(ctx, cfg)
		if err != nil {
			return err
		}
		r.closers = append(r.closers, fb.Close)
	}

	switch cfg.StoreDriver {
	case config.StoreFirestore:
		client, err := fb.Firestore(ctx)
		if err != nil {
			return err
		}
		r.Items = repository.NewFirestoreMenuItemRepository(client, cfg.MenuCollection)
	case config.StoreMySQL:
		gdb, err := connectDB(cfg)
		if err != nil {
			return fmt.Errorf("connect db: %w", err)
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return fmt.Errorf("sql db: %w", err)
		}
		r.closers = append(r.closers, sqlDB.Close)
		if err := repository.Migrate(gdb); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		r.Items = repository.NewGormMenuItemRepository(gdb)
	default:
		log.Warn("using in-memory menu store; data is lost on restart")
		r.Items = repository.NewMemoryMenuItemRepository()
	}
	log.Infow("menu store ready", "driver", cfg.StoreDriver)

	if cfg.StorageBucket != "" {
		bucket, name, err := fb.Bucket(ctx)
		if err != nil {
			return err
		}
		r.Images = storage.NewGCSImageStore(bucket, name, cfg.StorageURLMode)
		log.Infow("image store ready", "bucket", name, "url_mode", cfg.StorageURLMode)
	} else {
		log.Warn("FIREBASE_STORAGE_BUCKET not set; images are kept in memory")
		r.Images = storage.NewMemoryImageStore("local")
	}

	// Left as a nil interface when disabled; a typed nil would enable auth.
	if !cfg.AuthDisabled {
		client, err := fb.Auth(ctx)
		if err != nil {
			return err
		}
		r.Verifier = client
	}

	return nil
}

func (r *Resources) Close() error {
	var first error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}
