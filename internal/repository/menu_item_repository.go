package repository

import (
	"context"
	"errors"
	"sort"

	"github.com/shinyyama/cafe-menu/internal/model"
)

var ErrNotFound = errors.New("menu item not found")

// MenuItemRepository is the document store adapter for the menu collection.
// List returns every item ordered by category, then name, both ascending
// and compared byte-wise.
type MenuItemRepository interface {
	Create(ctx context.Context, item *model.MenuItem) (string, error)
	FindByID(ctx context.Context, id string) (*model.MenuItem, error)
	Update(ctx context.Context, id string, patch model.MenuItemPatch) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]model.MenuItem, error)
}

// sortMenuItems orders by category, name, then id, the way Firestore orders
// strings. SQL collations are case-insensitive, so SQL results are re-sorted.
func sortMenuItems(items []model.MenuItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})
}
