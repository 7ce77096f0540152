package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"github.com/shinyyama/cafe-menu/internal/app"
	"github.com/shinyyama/cafe-menu/internal/config"
	"github.com/shinyyama/cafe-menu/internal/logger"
	"github.com/shinyyama/cafe-menu/internal/model"
	"github.com/shinyyama/cafe-menu/internal/service"
	"go.uber.org/zap"
)

// Options only used by this command.
type Options struct {
	TimeoutSeconds int    `env:"TIMEOUT_SECONDS" envDefault:"300"`
	ForceImages    bool   `env:"FORCE_IMAGES" envDefault:"false"`
	Width          int    `env:"IMAGE_WIDTH" envDefault:"800"`
	Height         int    `env:"IMAGE_HEIGHT" envDefault:"600"`
	PlaceholderURL string `env:"PLACEHOLDER_URL" envDefault:"https://picsum.photos"`
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed-images failed: %v", err)
	}
}

func run() error {
	_ = godotenv.Load()

	var opts Options
	if err := env.Parse(&opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer zl.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(opts.TimeoutSeconds)*time.Second)
	defer cancel()

	cfg.AuthDisabled = true
	res, err := app.Open(ctx, cfg, zl)
	if err != nil {
		return fmt.Errorf("open stores: %w", err)
	}
	defer res.Close()

	if err := updateItems(ctx, opts, res, cfg.UploadMaxBytes, zl); err != nil {
		return fmt.Errorf("update items: %w", err)
	}
	zl.Info("seed-images completed successfully")
	return nil
}

// updateItems gives every item without an image (every item with
// FORCE_IMAGES) a placeholder photo stored under items/.
func updateItems(ctx context.Context, opts Options, res *app.Resources, maxBytes int64, zl *zap.SugaredLogger) error {
	items, err := res.Items.List(ctx)
	if err != nil {
		return err
	}
	images := service.NewImageService(res.Images, maxBytes)
	menu := service.NewMenuItemService(res.Items)

	var done int
	for _, it := range items {
		if it.ImageURL != "" && !opts.ForceImages {
			continue
		}
		ilog := zl.With("id", it.ID, "name", it.Name)

		data, contentType, err := fetchPlaceholder(ctx, opts.PlaceholderURL, placeholderSeed(it), opts.Width, opts.Height)
		if err != nil {
			ilog.Warnw("placeholder fetch failed", "error", err)
			continue
		}
		imageURL, err := images.Upload(ctx, service.UploadImageInput{
			Path:        "items",
			Filename:    it.Name + ".jpg",
			ContentType: contentType,
			Size:        int64(len(data)),
			Body:        bytes.NewReader(data),
		})
		if err != nil {
			ilog.Warnw("upload failed", "error", err)
			continue
		}
		if err := menu.Update(ctx, service.UpdateMenuItemInput{ID: it.ID, ImageURL: &imageURL}); err != nil {
			ilog.Warnw("item update failed", "error", err)
			continue
		}
		ilog.Infow("image set", "url", imageURL)
		done++
	}
	zl.Infow("items updated", "updated", done, "total", len(items))
	return nil
}

func placeholderSeed(it model.MenuItem) string {
	return strings.ToLower(strings.ReplaceAll(it.Category.String()+"-"+it.Name, " ", "-"))
}

func fetchPlaceholder(ctx context.Context, baseURL, seed string, w, h int) ([]byte, string, error) {
	u := fmt.Sprintf("%s/seed/%s/%d/%d", strings.TrimRight(baseURL, "/"), url.PathEscape(seed), w, h)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("placeholder status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	ct := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "image/") {
		ct = http.DetectContentType(data)
	}
	return data, ct, nil
}
