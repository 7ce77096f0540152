package service

import (
	"context"
	"strings"

	"github.com/shinyyama/cafe-menu/internal/model"
	"github.com/shinyyama/cafe-menu/internal/repository"
)

type MenuSection struct {
	Category model.Category   `json:"category"`
	Items    []model.MenuItem `json:"items"`
}

// PublicMenu is what customers see. Without a query the available items are
// grouped into Sections in category display order; with a query Results
// holds the flat list of matches.
type PublicMenu struct {
	Query    string           `json:"query,omitempty"`
	Sections []MenuSection    `json:"sections,omitempty"`
	Results  []model.MenuItem `json:"results,omitempty"`
}

type DashboardStats struct {
	TotalProducts          int            `json:"totalProducts"`
	ActiveProducts         int            `json:"activeProducts"`
	CategoriesWithProducts int            `json:"categoriesWithProducts"`
	ProductsByCategory     map[string]int `json:"productsByCategory"`
}

type MenuService interface {
	PublicMenu(ctx context.Context, query string) (*PublicMenu, error)
	Stats(ctx context.Context) (*DashboardStats, error)
}

type menuService struct {
	repo repository.MenuItemRepository
}

func NewMenuService(repo repository.MenuItemRepository) MenuService {
	return &menuService{repo: repo}
}

func (s *menuService) PublicMenu(ctx context.Context, query string) (*PublicMenu, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, backend("list menu items", err)
	}
	available := make([]model.MenuItem, 0, len(items))
	for _, it := range items {
		if it.IsAvailable {
			available = append(available, it)
		}
	}

	query = strings.TrimSpace(query)
	if query != "" {
		return &PublicMenu{Query: query, Results: Search(available, query)}, nil
	}
	return &PublicMenu{Sections: GroupByCategory(available)}, nil
}

func (s *menuService) Stats(ctx context.Context) (*DashboardStats, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, backend("list menu items", err)
	}
	stats := &DashboardStats{
		TotalProducts:      len(items),
		ProductsByCategory: make(map[string]int, len(model.Categories)),
	}
	for _, c := range model.Categories {
		stats.ProductsByCategory[string(c)] = 0
	}
	for _, it := range items {
		if it.IsAvailable {
			stats.ActiveProducts++
		}
		if _, ok := stats.ProductsByCategory[string(it.Category)]; ok {
			stats.ProductsByCategory[string(it.Category)]++
		}
	}
	for _, n := range stats.ProductsByCategory {
		if n > 0 {
			stats.CategoriesWithProducts++
		}
	}
	return stats, nil
}

// Search keeps the items whose name, description or category contains query,
// ignoring case. Order is preserved.
func Search(items []model.MenuItem, query string) []model.MenuItem {
	q := strings.ToLower(query)
	out := make([]model.MenuItem, 0)
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Name), q) ||
			strings.Contains(strings.ToLower(it.Description), q) ||
			strings.Contains(strings.ToLower(string(it.Category)), q) {
			out = append(out, it)
		}
	}
	return out
}

// FilterItems keeps the items whose name or description contains query,
// ignoring case, and whose category is category when one is given. Order
// is preserved.
func FilterItems(items []model.MenuItem, query string, category model.Category) []model.MenuItem {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]model.MenuItem, 0, len(items))
	for _, it := range items {
		if category != "" && it.Category != category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(it.Name), q) &&
			!strings.Contains(strings.ToLower(it.Description), q) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// GroupByCategory buckets items into model.Categories order. Empty
// categories and items with an unknown category are dropped.
func GroupByCategory(items []model.MenuItem) []MenuSection {
	byCat := make(map[model.Category][]model.MenuItem, len(model.Categories))
	for _, it := range items {
		byCat[it.Category] = append(byCat[it.Category], it)
	}
	sections := make([]MenuSection, 0, len(model.Categories))
	for _, c := range model.Categories {
		if len(byCat[c]) == 0 {
			continue
		}
		sections = append(sections, MenuSection{Category: c, Items: byCat[c]})
	}
	return sections
}
