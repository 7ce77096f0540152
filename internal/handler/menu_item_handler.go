package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/cafe-menu/internal/service"
	"go.uber.org/zap"
)

type MenuItemHandler struct {
	svc service.MenuItemService
	log *zap.SugaredLogger
}

func NewMenuItemHandler(svc service.MenuItemService, log *zap.SugaredLogger) *MenuItemHandler {
	return &MenuItemHandler{svc: svc, log: log}
}

type CreateMenuItemResponse struct {
	ID string `json:"id"`
}

type UpdateMenuItemResponse struct {
	Success bool `json:"success"`
}

type DeleteMenuItemRequest struct {
	ID string `json:"id"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func (h *MenuItemHandler) List(c echo.Context) error {
	items, err := h.svc.Find(c.Request().Context(), service.ItemFilter{
		Query:    c.QueryParam("q"),
		Category: c.QueryParam("category"),
	})
	if err != nil {
		return writeError(c, h.log, err, "failed to fetch menu items")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *MenuItemHandler) Get(c echo.Context) error {
	item, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, h.log, err, "failed to fetch menu item")
	}
	return c.JSON(http.StatusOK, item)
}

func (h *MenuItemHandler) Create(c echo.Context) error {
	var req service.CreateMenuItemInput
	if err := decodeJSON(c, &req, false); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	id, err := h.svc.Create(c.Request().Context(), req)
	if err != nil {
		return writeError(c, h.log, err, "failed to save menu item")
	}
	h.log.Infow("menu item created", "id", id, "uid", c.Get("uid"))
	return c.JSON(http.StatusCreated, CreateMenuItemResponse{ID: id})
}

func (h *MenuItemHandler) Update(c echo.Context) error {
	var req service.UpdateMenuItemInput
	if err := decodeJSON(c, &req, true); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	if err := h.svc.Update(c.Request().Context(), req); err != nil {
		return writeError(c, h.log, err, "failed to update menu item")
	}
	h.log.Infow("menu item updated", "id", req.ID, "uid", c.Get("uid"))
	return c.JSON(http.StatusOK, UpdateMenuItemResponse{Success: true})
}

func (h *MenuItemHandler) Delete(c echo.Context) error {
	var req DeleteMenuItemRequest
	if err := decodeJSON(c, &req, false); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	if err := h.svc.Delete(c.Request().Context(), req.ID); err != nil {
		return writeError(c, h.log, err, "failed to delete menu item")
	}
	h.log.Infow("menu item deleted", "id", req.ID, "uid", c.Get("uid"))
	return c.JSON(http.StatusOK, MessageResponse{Message: "Item deleted successfully"})
}
