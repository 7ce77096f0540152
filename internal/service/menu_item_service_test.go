package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shinyyama/cafe-menu/internal/model"
	"github.com/shinyyama/cafe-menu/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool        { return &b }

func newTestItemService(repo repository.MenuItemRepository, now time.Time) *menuItemService {
	svc := NewMenuItemService(repo).(*menuItemService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestCreateRejectsMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name string
		in   CreateMenuItemInput
	}{
		{"missing name", CreateMenuItemInput{Price: floatPtr(2), Category: strPtr("Postres")}},
		{"blank name", CreateMenuItemInput{Name: strPtr("   "), Price: floatPtr(2), Category: strPtr("Postres")}},
		{"missing price", CreateMenuItemInput{Name: strPtr("Flan"), Category: strPtr("Postres")}},
		{"zero price", CreateMenuItemInput{Name: strPtr("Flan"), Price: floatPtr(0), Category: strPtr("Postres")}},
		{"missing category", CreateMenuItemInput{Name: strPtr("Flan"), Price: floatPtr(2)}},
		{"blank category", CreateMenuItemInput{Name: strPtr("Flan"), Price: floatPtr(2), Category: strPtr(" ")}},
		{"unknown category", CreateMenuItemInput{Name: strPtr("Flan"), Price: floatPtr(2), Category: strPtr("Sopas")}},
		{"data uri image", CreateMenuItemInput{Name: strPtr("Flan"), Price: floatPtr(2), Category: strPtr("Postres"), ImageURL: strPtr("data:image/png;base64,AAAA")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := repository.NewMemoryMenuItemRepository()
			svc := NewMenuItemService(repo)
			_, err := svc.Create(context.Background(), tt.in)
			require.Error(t, err)
			assert.True(t, IsValidation(err), "want validation error, got %v", err)
			assert.Equal(t, 0, repo.Len())
		})
	}
}

func TestCreateAppliesDefaultsAndTimestamps(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
	repo := repository.NewMemoryMenuItemRepository()
	svc := newTestItemService(repo, now)

	id, err := svc.Create(ctx, CreateMenuItemInput{
		Name:     strPtr("Café americano"),
		Price:    floatPtr(2.5),
		Category: strPtr("Bebidas Calientes"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	got := items[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Café americano", got.Name)
	assert.Equal(t, "", got.Description)
	assert.Equal(t, 2.5, got.Price)
	assert.Equal(t, model.CategoryHotDrinks, got.Category)
	assert.Equal(t, "", got.ImageURL)
	assert.True(t, got.IsAvailable)
	assert.Equal(t, now, got.CreatedAt)
	assert.Equal(t, now, got.UpdatedAt)
}

func TestCreateKeepsExplicitOptionalFields(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryMenuItemRepository()
	svc := NewMenuItemService(repo)

	id, err := svc.Create(ctx, CreateMenuItemInput{
		Name:        strPtr("Tarta de queso"),
		Description: strPtr("Porción"),
		Price:       floatPtr(4),
		Category:    strPtr("Postres"),
		IsAvailable: boolPtr(false),
		ImageURL:    strPtr("https://storage.googleapis.com/b/items/1-tarta.png"),
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Porción", got.Description)
	assert.False(t, got.IsAvailable)
	assert.Equal(t, "https://storage.googleapis.com/b/items/1-tarta.png", got.ImageURL)
}

func TestUpdateChangesOnlySubmittedFields(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	repo := repository.NewMemoryMenuItemRepository()
	svc := newTestItemService(repo, created)
	id, err := svc.Create(ctx, CreateMenuItemInput{
		Name:        strPtr("Tostada"),
		Description: strPtr("Pan con tomate"),
		Price:       floatPtr(3),
		Category:    strPtr("Desayunos"),
	})
	require.NoError(t, err)

	updated := created.Add(time.Hour)
	svc.now = func() time.Time { return updated }
	err = svc.Update(ctx, UpdateMenuItemInput{ID: id, Price: floatPtr(3.2), IsAvailable: boolPtr(false)})
	require.NoError(t, err)

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3.2, got.Price)
	assert.False(t, got.IsAvailable)
	assert.Equal(t, "Tostada", got.Name)
	assert.Equal(t, "Pan con tomate", got.Description)
	assert.Equal(t, model.CategoryBreakfast, got.Category)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, updated, got.UpdatedAt)
}

func TestUpdateValidation(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryMenuItemRepository()
	svc := NewMenuItemService(repo)
	id, err := svc.Create(ctx, CreateMenuItemInput{Name: strPtr("Avena"), Price: floatPtr(3), Category: strPtr("Desayunos")})
	require.NoError(t, err)

	tests := []struct {
		name string
		in   UpdateMenuItemInput
		want string
	}{
		{"missing id", UpdateMenuItemInput{Name: strPtr("x")}, "id is required"},
		{"blank id", UpdateMenuItemInput{ID: "  ", Name: strPtr("x")}, "id is required"},
		{"blank name", UpdateMenuItemInput{ID: id, Name: strPtr("")}, "name is required"},
		{"negative price", UpdateMenuItemInput{ID: id, Price: floatPtr(-1)}, "price must be greater than 0"},
		{"unknown category", UpdateMenuItemInput{ID: id, Category: strPtr("Sopas")},
			"category must be one of: Desayunos, Bebidas Calientes, Bebidas Frías, Postres"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Update(ctx, tt.in)
			require.Error(t, err)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.want, ve.Message)
		})
	}

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Avena", got.Name)
	assert.Equal(t, 3.0, got.Price)
}

func TestUpdateMissingItemIsBackendError(t *testing.T) {
	svc := NewMenuItemService(repository.NewMemoryMenuItemRepository())
	err := svc.Update(context.Background(), UpdateMenuItemInput{ID: "missing", Name: strPtr("x")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBackend)
	assert.False(t, IsValidation(err))
}

func TestDeleteTwiceSucceeds(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryMenuItemRepository()
	svc := NewMenuItemService(repo)
	id, err := svc.Create(ctx, CreateMenuItemInput{Name: strPtr("Flan"), Price: floatPtr(2), Category: strPtr("Postres")})
	require.NoError(t, err)

	assert.NoError(t, svc.Delete(ctx, id))
	assert.NoError(t, svc.Delete(ctx, id))
	assert.Equal(t, 0, repo.Len())

	assert.True(t, IsValidation(svc.Delete(ctx, "")))
}

func TestGet(t *testing.T) {
	svc := NewMenuItemService(repository.NewMemoryMenuItemRepository())
	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreFailuresAreBackendErrors(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryMenuItemRepository()
	repo.Err = errors.New("firestore unavailable")
	svc := NewMenuItemService(repo)

	_, err := svc.Create(ctx, CreateMenuItemInput{Name: strPtr("Flan"), Price: floatPtr(2), Category: strPtr("Postres")})
	assert.ErrorIs(t, err, ErrBackend)
	_, err = svc.List(ctx)
	assert.ErrorIs(t, err, ErrBackend)
	err = svc.Update(ctx, UpdateMenuItemInput{ID: "a", Price: floatPtr(1)})
	assert.ErrorIs(t, err, ErrBackend)
	err = svc.Delete(ctx, "a")
	assert.ErrorIs(t, err, ErrBackend)
	_, err = svc.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrBackend)
}

func TestListOrdering(t *testing.T) {
	ctx := context.Background()
	svc := NewMenuItemService(repository.NewMemoryMenuItemRepository())
	for _, in := range []CreateMenuItemInput{
		{Name: strPtr("Café"), Price: floatPtr(2), Category: strPtr("Bebidas Calientes")},
		{Name: strPtr("Tostada"), Price: floatPtr(3), Category: strPtr("Desayunos")},
		{Name: strPtr("Avena"), Price: floatPtr(3), Category: strPtr("Desayunos")},
	} {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	items, err := svc.List(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	assert.Equal(t, []string{"Café", "Avena", "Tostada"}, names)
}
