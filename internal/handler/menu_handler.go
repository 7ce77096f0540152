package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/cafe-menu/internal/model"
	"github.com/shinyyama/cafe-menu/internal/service"
	"go.uber.org/zap"
)

// MenuHandler serves the read models: the public menu, the category list and
// the admin dashboard numbers.
type MenuHandler struct {
	svc service.MenuService
	log *zap.SugaredLogger
}

func NewMenuHandler(svc service.MenuService, log *zap.SugaredLogger) *MenuHandler {
	return &MenuHandler{svc: svc, log: log}
}

func (h *MenuHandler) Public(c echo.Context) error {
	menu, err := h.svc.PublicMenu(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return writeError(c, h.log, err, "failed to fetch menu")
	}
	return c.JSON(http.StatusOK, menu)
}

func (h *MenuHandler) Categories(c echo.Context) error {
	return c.JSON(http.StatusOK, model.Categories)
}

func (h *MenuHandler) Stats(c echo.Context) error {
	stats, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return writeError(c, h.log, err, "failed to fetch stats")
	}
	return c.JSON(http.StatusOK, stats)
}
