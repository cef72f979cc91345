package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"skim/backend/internal/model"
	"skim/backend/internal/service"
)

type ItemHandler struct {
	items service.ItemService
}

type updateItemStatusRequest struct {
	Status string `json:"status"`
}

type itemResponse struct {
	ID          int64   `json:"id"`
	FeedID      int64   `json:"feedId"`
	Title       string  `json:"title"`
	Link        string  `json:"link"`
	Description *string `json:"description,omitempty"`
	Author      *string `json:"author,omitempty"`
	PublishedAt *string `json:"publishedAt,omitempty"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"createdAt"`
}

type itemPageResponse struct {
	Items      []itemResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	TotalPages int            `json:"totalPages"`
}

func NewItemHandler(items service.ItemService) *ItemHandler {
	return &ItemHandler{items: items}
}

func (h *ItemHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/items", h.List)
	g.GET("/items/:id", h.Get)
	g.PATCH("/items/:id/status", h.UpdateStatus)
	g.GET("/items/:id/next", h.Next)
}

func (h *ItemHandler) List(c echo.Context) error {
	auth, ok := authFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	}

	page := 1
	if raw := c.QueryParam("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
		}
		page = parsed
	}

	result, err := h.items.List(c.Request().Context(), auth.UserID, statusParam(c), page)
	if err != nil {
		return writeServiceError(c, err)
	}

	items := make([]itemResponse, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, toItemResponse(item))
	}
	return c.JSON(http.StatusOK, itemPageResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		TotalPages: result.TotalPages,
	})
}

func (h *ItemHandler) Get(c echo.Context) error {
	auth, ok := authFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	item, err := h.items.Get(c.Request().Context(), id, auth.UserID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toItemResponse(item))
}

func (h *ItemHandler) UpdateStatus(c echo.Context) error {
	auth, ok := authFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	var req updateItemStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	item, err := h.items.UpdateStatus(c.Request().Context(), id, auth.UserID, model.ItemStatus(req.Status))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toItemResponse(item))
}

// Next returns the item that follows :id in display order, or 204 when the
// current item is the last one.
func (h *ItemHandler) Next(c echo.Context) error {
	auth, ok := authFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	next, err := h.items.Next(c.Request().Context(), id, auth.UserID, statusParam(c))
	if err != nil {
		return writeServiceError(c, err)
	}
	if next == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, toItemResponse(*next))
}

func toItemResponse(item model.Item) itemResponse {
	response := itemResponse{
		ID:          item.ID,
		FeedID:      item.FeedID,
		Title:       item.Title,
		Link:        item.Link,
		Description: item.Description,
		Author:      item.Author,
		Status:      string(item.Status),
		CreatedAt:   item.CreatedAt.UTC().Format(time.RFC3339),
	}
	if item.PublishedAt != nil {
		published := item.PublishedAt.UTC().Format(time.RFC3339)
		response.PublishedAt = &published
	}
	return response
}
