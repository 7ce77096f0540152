package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shinyyama/cafe-menu/internal/model"
	"gorm.io/gorm"
)

// columns maps persisted field names to menu_items columns.
var columns = map[string]string{
	"name":        "name",
	"description": "description",
	"price":       "price",
	"category":    "category",
	"imageUrl":    "image_url",
	"isAvailable": "is_available",
	"updatedAt":   "updated_at",
}

type gormMenuItemRepository struct {
	db *gorm.DB
}

func NewGormMenuItemRepository(db *gorm.DB) MenuItemRepository {
	return &gormMenuItemRepository{db: db}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.MenuItem{})
}

func (r *gormMenuItemRepository) Create(ctx context.Context, item *model.MenuItem) (string, error) {
	item.ID = uuid.NewString()
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return "", err
	}
	return item.ID, nil
}

func (r *gormMenuItemRepository) FindByID(ctx context.Context, id string) (*model.MenuItem, error) {
	var item model.MenuItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *gormMenuItemRepository) Update(ctx context.Context, id string, patch model.MenuItemPatch) error {
	updates := toColumns(patch.Fields())
	if len(updates) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).
		Model(&model.MenuItem{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	// MySQL reports 0 affected rows when the values did not change.
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.MenuItem{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormMenuItemRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.MenuItem{}).Error
}

func (r *gormMenuItemRepository) List(ctx context.Context) ([]model.MenuItem, error) {
	items := make([]model.MenuItem, 0)
	if err := r.db.WithContext(ctx).
		Order("category asc").
		Order("name asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	sortMenuItems(items)
	return items, nil
}

func toColumns(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if col, ok := columns[k]; ok {
			out[col] = v
		}
	}
	return out
}
