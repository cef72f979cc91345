package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"skim/backend/internal/model"
	"skim/backend/internal/service"
)

type FeedHandler struct {
	feeds   service.FeedService
	refresh service.RefreshService
}

type createFeedRequest struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

type feedResponse struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	SiteURL       *string `json:"siteUrl,omitempty"`
	Description   *string `json:"description,omitempty"`
	LastFetchedAt *string `json:"lastFetchedAt,omitempty"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

func NewFeedHandler(feeds service.FeedService, refresh service.RefreshService) *FeedHandler {
	return &FeedHandler{feeds: feeds, refresh: refresh}
}

func (h *FeedHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/feeds", h.Create)
	g.GET("/feeds", h.List)
	g.GET("/feeds/preview", h.Preview)
	g.POST("/feeds/refresh", h.RefreshAll)
	g.GET("/feeds/:id", h.Get)
	g.DELETE("/feeds/:id", h.Delete)
	g.POST("/feeds/:id/refresh", h.Refresh)
}

func (h *FeedHandler) Create(c echo.Context) error {
	auth, ok := authFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	}
	var req createFeedRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	feed, err := h.feeds.Add(c.Request().Context(), auth.UserID, req.URL, req.Title)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, toFeedResponse(feed))
}

func (h *FeedHandler) List(c echo.Context) error {
	auth, ok := authFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	}
	feeds, err := h.feeds.List(c.Request().Context(), auth.UserID)
	if err != nil {
		return writeServiceError(c, err)
	}
	response := make([]feedResponse, 0, len(feeds))
	for _, feed := range feeds {
		response = append(response, toFeedResponse(feed))
	}
	return c.JSON(http.StatusOK, response)
}

func (h *FeedHandler) Get(c echo.Context) error {
	auth, ok := authFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	feed, err := h.feeds.Get(c.Request().Context(), id, auth.UserID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toFeedResponse(feed))
}

func (h *FeedHandler) Preview(c echo.Context) error {
	rawURL := strings.TrimSpace(c.QueryParam("url"))
	if rawURL == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	preview, err := h.feeds.Preview(c.Request().Context(), rawURL)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, preview)
}

func (h *FeedHandler) Delete(c echo.Context) error {
	auth, ok := authFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	if err := h.feeds.Delete(c.Request().Context(), id, auth.UserID); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *FeedHandler) Refresh(c echo.Context) error {
	auth, ok := authFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	result, err := h.refresh.RefreshFeed(c.Request().Context(), id, auth.UserID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *FeedHandler) RefreshAll(c echo.Context) error {
	auth, ok := authFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	}
	results, err := h.refresh.RefreshAll(c.Request().Context(), auth.UserID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, results)
}

func toFeedResponse(feed model.Feed) feedResponse {
	response := feedResponse{
		ID:          feed.ID,
		Title:       feed.Title,
		URL:         feed.URL,
		SiteURL:     feed.SiteURL,
		Description: feed.Description,
		CreatedAt:   feed.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   feed.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if feed.LastFetchedAt != nil {
		fetched := feed.LastFetchedAt.UTC().Format(time.RFC3339)
		response.LastFetchedAt = &fetched
	}
	return response
}
