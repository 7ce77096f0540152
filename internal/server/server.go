package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/shinyyama/cafe-menu/internal/handler"
	appmw "github.com/shinyyama/cafe-menu/internal/middleware"
	"github.com/shinyyama/cafe-menu/internal/repository"
	"github.com/shinyyama/cafe-menu/internal/service"
	"github.com/shinyyama/cafe-menu/internal/storage"
	"go.uber.org/zap"
)

// Deps are the long-lived collaborators built in main. A nil Verifier turns
// admin authentication off.
type Deps struct {
	Items             repository.MenuItemRepository
	Images            storage.ImageStore
	Verifier          appmw.TokenVerifier
	Log               *zap.SugaredLogger
	UploadMaxBytes    int64
	CORSAllowedSuffix string
	GitSHA            string
	BuildTime         string
}

type Server struct {
	e   *echo.Echo
	log *zap.SugaredLogger
}

func New(d Deps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(appmw.RequestLogger(d.Log))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc:  allowOrigin(d.CORSAllowedSuffix),
	}))

	maxUpload := d.UploadMaxBytes
	if maxUpload <= 0 {
		maxUpload = service.DefaultMaxImageBytes
	}

	itemSvc := service.NewMenuItemService(d.Items)
	itemHandler := handler.NewMenuItemHandler(itemSvc, d.Log)

	menuSvc := service.NewMenuService(d.Items)
	menuHandler := handler.NewMenuHandler(menuSvc, d.Log)

	imageSvc := service.NewImageService(d.Images, maxUpload)
	uploadHandler := handler.NewUploadHandler(imageSvc, d.Log)

	requireAdmin := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	if d.Verifier != nil {
		requireAdmin = appmw.NewAuthMiddleware(d.Verifier, d.Log).RequireAuth
	} else {
		d.Log.Warn("admin authentication disabled")
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"ok":         "true",
			"git_sha":    d.GitSHA,
			"build_time": d.BuildTime,
		})
	})

	api := e.Group("/api")
	api.GET("/menu-items", itemHandler.List)
	api.GET("/menu-items/:id", itemHandler.Get)
	api.POST("/menu-items", itemHandler.Create, requireAdmin)
	api.PUT("/menu-items", itemHandler.Update, requireAdmin)
	api.DELETE("/menu-items", itemHandler.Delete, requireAdmin)
	// multipart framing on top of the file itself
	bodyLimit := middleware.BodyLimit(fmt.Sprintf("%dK", maxUpload/1024+1024))
	api.POST("/upload-image", uploadHandler.Upload, bodyLimit, requireAdmin)

	api.GET("/menu", menuHandler.Public)
	api.GET("/categories", menuHandler.Categories)
	api.GET("/admin/stats", menuHandler.Stats, requireAdmin)

	return &Server{e: e, log: d.Log}
}

// allowOrigin admits local development origins and hosts that are the
// suffix domain itself or one of its subdomains.
func allowOrigin(suffix string) func(origin string) (bool, error) {
	suffix = strings.ToLower(strings.TrimPrefix(suffix, "."))
	return func(origin string) (bool, error) {
		low := strings.ToLower(origin)
		if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
			strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
			return true, nil
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false, nil
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return false, nil
		}
		host := strings.ToLower(u.Hostname())
		if suffix != "" && (host == suffix || strings.HasSuffix(host, "."+suffix)) {
			return true, nil
		}
		return false, nil
	}
}

func (s *Server) Handler() http.Handler {
	return s.e
}

func (s *Server) Start(addr string) error {
	s.log.Infow("starting server", "addr", addr)
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
