package main

import (
	"context"
	"testing"

	"github.com/shinyyama/cafe-menu/internal/logger"
	"github.com/shinyyama/cafe-menu/internal/model"
	"github.com/shinyyama/cafe-menu/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSeedItemsAreValid(t *testing.T) {
	items := buildSeedItems()
	require.NotEmpty(t, items)
	for _, it := range items {
		assert.True(t, it.Category.Valid(), it.Name)
		assert.Greater(t, it.Price, 0.0, it.Name)
	}
}

func TestShouldSeed(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryMenuItemRepository()

	ok, err := shouldSeed(ctx, repo, logger.Nop())
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = repo.Create(ctx, &model.MenuItem{Name: "Flan", Price: 3, Category: model.CategoryDesserts})
	require.NoError(t, err)

	t.Setenv("FORCE_SEED", "")
	ok, err = shouldSeed(ctx, repo, logger.Nop())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, repo.Len())

	t.Setenv("FORCE_SEED", "true")
	ok, err = shouldSeed(ctx, repo, logger.Nop())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, repo.Len())
}
