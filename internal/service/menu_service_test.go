package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shinyyama/cafe-menu/internal/model"
	"github.com/shinyyama/cafe-menu/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMenu(t *testing.T, repo repository.MenuItemRepository) {
	t.Helper()
	for _, it := range []model.MenuItem{
		{Name: "Tostada", Description: "Pan con tomate", Price: 3, Category: model.CategoryBreakfast, IsAvailable: true},
		{Name: "Avena", Description: "Con frutos rojos", Price: 3.5, Category: model.CategoryBreakfast, IsAvailable: true},
		{Name: "Café", Description: "Espresso doble", Price: 2, Category: model.CategoryHotDrinks, IsAvailable: true},
		{Name: "Limonada", Description: "Natural", Price: 2.5, Category: model.CategoryColdDrinks, IsAvailable: false},
	} {
		it := it
		_, err := repo.Create(context.Background(), &it)
		require.NoError(t, err)
	}
}

func TestPublicMenuGroupsAvailableItems(t *testing.T) {
	repo := repository.NewMemoryMenuItemRepository()
	seedMenu(t, repo)
	svc := NewMenuService(repo)

	menu, err := svc.PublicMenu(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, menu.Results)
	require.Len(t, menu.Sections, 2)
	assert.Equal(t, model.CategoryBreakfast, menu.Sections[0].Category)
	assert.Equal(t, "Avena", menu.Sections[0].Items[0].Name)
	assert.Equal(t, "Tostada", menu.Sections[0].Items[1].Name)
	assert.Equal(t, model.CategoryHotDrinks, menu.Sections[1].Category)
}

func TestPublicMenuSearch(t *testing.T) {
	repo := repository.NewMemoryMenuItemRepository()
	seedMenu(t, repo)
	svc := NewMenuService(repo)

	tests := []struct {
		query string
		want  []string
	}{
		{"TOMATE", []string{"Tostada"}},
		{"desayunos", []string{"Avena", "Tostada"}},
		{"bebidas", []string{"Café"}},
		{"limonada", []string{}},
		{"pizza", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			menu, err := svc.PublicMenu(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Empty(t, menu.Sections)
			names := make([]string, 0)
			for _, it := range menu.Results {
				names = append(names, it.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestStats(t *testing.T) {
	repo := repository.NewMemoryMenuItemRepository()
	seedMenu(t, repo)
	svc := NewMenuService(repo)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalProducts)
	assert.Equal(t, 3, stats.ActiveProducts)
	assert.Equal(t, 3, stats.CategoriesWithProducts)
	assert.Equal(t, map[string]int{
		"Desayunos":         2,
		"Bebidas Calientes": 1,
		"Bebidas Frías":     1,
		"Postres":           0,
	}, stats.ProductsByCategory)
}

func TestMenuServiceBackendError(t *testing.T) {
	repo := repository.NewMemoryMenuItemRepository()
	repo.Err = errors.New("boom")
	svc := NewMenuService(repo)

	_, err := svc.PublicMenu(context.Background(), "")
	assert.ErrorIs(t, err, ErrBackend)
	_, err = svc.Stats(context.Background())
	assert.ErrorIs(t, err, ErrBackend)
}

func TestFindFiltersAdminList(t *testing.T) {
	repo := repository.NewMemoryMenuItemRepository()
	seedMenu(t, repo)
	svc := NewMenuItemService(repo)

	tests := []struct {
		name   string
		filter ItemFilter
		want   []string
	}{
		{"no filter", ItemFilter{}, []string{"Café", "Limonada", "Avena", "Tostada"}},
		{"description ignores case", ItemFilter{Query: "TOMATE"}, []string{"Tostada"}},
		{"unavailable items kept", ItemFilter{Query: "natural"}, []string{"Limonada"}},
		{"category text is not searched", ItemFilter{Query: "desayunos"}, []string{}},
		{"category only", ItemFilter{Category: "Desayunos"}, []string{"Avena", "Tostada"}},
		{"query and category", ItemFilter{Query: "con", Category: "Desayunos"}, []string{"Avena", "Tostada"}},
		{"query outside category", ItemFilter{Query: "espresso", Category: "Desayunos"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := svc.Find(context.Background(), tt.filter)
			require.NoError(t, err)
			names := make([]string, 0, len(items))
			for _, it := range items {
				names = append(names, it.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestFindRejectsUnknownCategory(t *testing.T) {
	svc := NewMenuItemService(repository.NewMemoryMenuItemRepository())
	_, err := svc.Find(context.Background(), ItemFilter{Category: "Cenas"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "category must be one of: Desayunos, Bebidas Calientes, Bebidas Frías, Postres", ve.Message)
}
