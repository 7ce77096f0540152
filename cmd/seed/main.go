package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shinyyama/cafe-menu/internal/app"
	"github.com/shinyyama/cafe-menu/internal/config"
	"github.com/shinyyama/cafe-menu/internal/logger"
	"github.com/shinyyama/cafe-menu/internal/model"
	"github.com/shinyyama/cafe-menu/internal/repository"
	"github.com/shinyyama/cafe-menu/internal/service"
	"go.uber.org/zap"
)

type seedItem struct {
	Name        string
	Description string
	Price       float64
	Category    model.Category
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() error {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer zl.Sync()

	// seeding never needs token verification
	cfg.AuthDisabled = true
	res, err := app.Open(ctx, cfg, zl)
	if err != nil {
		return err
	}
	defer res.Close()

	canSeed, err := shouldSeed(ctx, res.Items, zl)
	if err != nil {
		return err
	}
	if !canSeed {
		zl.Info("menu items already exist; skipping seed (set FORCE_SEED=true to override)")
		return nil
	}

	svc := service.NewMenuItemService(res.Items)
	items := buildSeedItems()
	for _, it := range items {
		name, desc, price, cat := it.Name, it.Description, it.Price, it.Category.String()
		id, err := svc.Create(ctx, service.CreateMenuItemInput{
			Name:        &name,
			Description: &desc,
			Price:       &price,
			Category:    &cat,
		})
		if err != nil {
			return fmt.Errorf("create %q: %w", it.Name, err)
		}
		zl.Debugw("seeded item", "id", id, "name", it.Name)
	}

	zl.Infow("seed completed", "items", len(items))
	return nil
}

func buildSeedItems() []seedItem {
	type cat struct {
		Category model.Category
		Price    float64
		Names    []string
	}
	categories := []cat{
		{Category: model.CategoryBreakfast, Price: 3.5, Names: []string{"Tostada con tomate", "Avena con frutos rojos", "Croissant a la plancha", "Huevos revueltos"}},
		{Category: model.CategoryHotDrinks, Price: 1.4, Names: []string{"Café solo", "Café con leche", "Capuchino", "Té verde", "Chocolate caliente"}},
		{Category: model.CategoryColdDrinks, Price: 2.2, Names: []string{"Zumo de naranja", "Café con hielo", "Limonada casera", "Batido de fresa"}},
		{Category: model.CategoryDesserts, Price: 3.2, Names: []string{"Tarta de queso", "Flan casero", "Brownie", "Crema catalana"}},
	}

	var items []seedItem
	for _, c := range categories {
		for i, n := range c.Names {
			items = append(items, seedItem{
				Name:        n,
				Description: fmt.Sprintf("%s de la casa, preparado al momento.", n),
				Price:       c.Price + float64(i)*0.5,
				Category:    c.Category,
			})
		}
	}
	return items
}

// shouldSeed reports whether the store is empty. With FORCE_SEED=true the
// existing items are deleted first.
func shouldSeed(ctx context.Context, repo repository.MenuItemRepository, zl *zap.SugaredLogger) (bool, error) {
	existing, err := repo.List(ctx)
	if err != nil {
		return false, fmt.Errorf("list items: %w", err)
	}
	if len(existing) == 0 {
		return true, nil
	}
	if !strings.EqualFold(os.Getenv("FORCE_SEED"), "true") {
		return false, nil
	}
	for _, it := range existing {
		if err := repo.Delete(ctx, it.ID); err != nil {
			return false, fmt.Errorf("delete %s: %w", it.ID, err)
		}
	}
	zl.Infow("removed existing items", "count", len(existing))
	return true, nil
}
