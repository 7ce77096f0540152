package service

import (
	"context"
	"errors"
	"strings"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/shinyyama/cafe-menu/internal/model"
	"github.com/shinyyama/cafe-menu/internal/repository"
	"github.com/shinyyama/cafe-menu/internal/validation"
)

// CreateMenuItemInput is the proto-item accepted on creation. Optional
// fields default to description "", isAvailable true, imageUrl "".
type CreateMenuItemInput struct {
	Name        *string  `json:"name" validate:"required,notblank,max=120"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"required,gt=0"`
	Category    *string  `json:"category" validate:"required,notblank,category"`
	IsAvailable *bool    `json:"isAvailable"`
	ImageURL    *string  `json:"imageUrl" validate:"omitempty,max=2048"`
}

// UpdateMenuItemInput is a partial update. Absent (or null) fields are left
// untouched; present ones are re-validated like on creation.
type UpdateMenuItemInput struct {
	ID          string   `json:"id"`
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	IsAvailable *bool    `json:"isAvailable"`
	ImageURL    *string  `json:"imageUrl"`
}

// ItemFilter narrows the admin item list. Empty fields match everything.
type ItemFilter struct {
	Query    string
	Category string
}

type MenuItemService interface {
	Create(ctx context.Context, in CreateMenuItemInput) (string, error)
	Get(ctx context.Context, id string) (*model.MenuItem, error)
	Update(ctx context.Context, in UpdateMenuItemInput) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]model.MenuItem, error)
	Find(ctx context.Context, f ItemFilter) ([]model.MenuItem, error)
}

type menuItemService struct {
	repo     repository.MenuItemRepository
	validate *validatorv10.Validate
	now      func() time.Time
}

func NewMenuItemService(repo repository.MenuItemRepository) MenuItemService {
	return &menuItemService{
		repo:     repo,
		validate: validation.New(),
		now:      time.Now,
	}
}

func (s *menuItemService) Create(ctx context.Context, in CreateMenuItemInput) (string, error) {
	if err := s.validate.Struct(in); err != nil {
		return "", invalid("%s", validation.Message(err))
	}
	if in.ImageURL != nil && isDataURI(*in.ImageURL) {
		return "", invalid("imageUrl must be a URL, not data URI")
	}

	now := s.now().UTC()
	item := &model.MenuItem{
		Name:        *in.Name,
		Description: deref(in.Description, ""),
		Price:       *in.Price,
		Category:    model.Category(*in.Category),
		ImageURL:    deref(in.ImageURL, ""),
		IsAvailable: deref(in.IsAvailable, true),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	id, err := s.repo.Create(ctx, item)
	if err != nil {
		return "", backend("create menu item", err)
	}
	return id, nil
}

func (s *menuItemService) Get(ctx context.Context, id string) (*model.MenuItem, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, invalid("id is required")
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, backend("get menu item", err)
	}
	return item, nil
}

// Update applies the present fields verbatim and stamps updatedAt. There is
// no version check: concurrent updates are last-writer-wins.
func (s *menuItemService) Update(ctx context.Context, in UpdateMenuItemInput) error {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return invalid("id is required")
	}
	patch, err := s.buildPatch(in)
	if err != nil {
		return err
	}
	if err := s.repo.Update(ctx, id, patch); err != nil {
		return backend("update menu item", err)
	}
	return nil
}

func (s *menuItemService) buildPatch(in UpdateMenuItemInput) (model.MenuItemPatch, error) {
	patch := model.MenuItemPatch{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		IsAvailable: in.IsAvailable,
		UpdatedAt:   s.now().UTC(),
	}
	if in.Name != nil {
		if err := s.validate.Var(*in.Name, "notblank,max=120"); err != nil {
			return patch, invalid("%s", validation.FieldMessage("name", err))
		}
	}
	if in.Price != nil {
		if err := s.validate.Var(*in.Price, "gt=0"); err != nil {
			return patch, invalid("%s", validation.FieldMessage("price", err))
		}
	}
	if in.Category != nil {
		if err := s.validate.Var(*in.Category, "notblank,category"); err != nil {
			return patch, invalid("%s", validation.FieldMessage("category", err))
		}
		cat := model.Category(*in.Category)
		patch.Category = &cat
	}
	if in.ImageURL != nil && isDataURI(*in.ImageURL) {
		return patch, invalid("imageUrl must be a URL, not data URI")
	}
	return patch, nil
}

// Delete does not check that the item exists; deleting a missing id
// succeeds.
func (s *menuItemService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return invalid("id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return backend("delete menu item", err)
	}
	return nil
}

func (s *menuItemService) List(ctx context.Context) ([]model.MenuItem, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, backend("list menu items", err)
	}
	return items, nil
}

// Find is List narrowed by f. Unavailable items are kept.
func (s *menuItemService) Find(ctx context.Context, f ItemFilter) ([]model.MenuItem, error) {
	f.Category = strings.TrimSpace(f.Category)
	if f.Category != "" {
		if err := s.validate.Var(f.Category, "category"); err != nil {
			return nil, invalid("%s", validation.FieldMessage("category", err))
		}
	}
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterItems(items, f.Query, model.Category(f.Category)), nil
}

func isDataURI(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "data:")
}

func deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
