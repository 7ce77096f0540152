package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shinyyama/cafe-menu/internal/model"
)

// MemoryMenuItemRepository keeps the menu in process memory. It backs
// STORE_DRIVER=memory and the tests of the packages above this one.
type MemoryMenuItemRepository struct {
	mu    sync.Mutex
	items map[string]model.MenuItem
	// Err, when set, is returned by every operation.
	Err   error
}

func NewMemoryMenuItemRepository() *MemoryMenuItemRepository {
	return &MemoryMenuItemRepository{items: map[string]model.MenuItem{}}
}

func (r *MemoryMenuItemRepository) Create(ctx context.Context, item *model.MenuItem) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return "", r.Err
	}
	item.ID = uuid.NewString()
	r.items[item.ID] = *item
	return item.ID, nil
}

func (r *MemoryMenuItemRepository) FindByID(ctx context.Context, id string) (*model.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	item, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &item, nil
}

func (r *MemoryMenuItemRepository) Update(ctx context.Context, id string, patch model.MenuItemPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	item, ok := r.items[id]
	if !ok {
		return ErrNotFound
	}
	patch.Apply(&item)
	r.items[id] = item
	return nil
}

func (r *MemoryMenuItemRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	delete(r.items, id)
	return nil
}

func (r *MemoryMenuItemRepository) List(ctx context.Context) ([]model.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	items := make([]model.MenuItem, 0, len(r.items))
	for _, it := range r.items {
		items = append(items, it)
	}
	sortMenuItems(items)
	return items, nil
}

// Len reports how many items are stored.
func (r *MemoryMenuItemRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
