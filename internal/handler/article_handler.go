package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"skim/backend/internal/extract"
	"skim/backend/internal/service"
)

type ArticleHandler struct {
	articles service.ArticleService
}

type extractRequest struct {
	URL string `json:"url"`
}

type articleResponse struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	TextContent string `json:"textContent"`
	Excerpt     string `json:"excerpt"`
	Byline      string `json:"byline"`
	Length      int    `json:"length"`
}

func NewArticleHandler(articles service.ArticleService) *ArticleHandler {
	return &ArticleHandler{articles: articles}
}

func (h *ArticleHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/extract", h.Extract)
}

// Extract fetches the page at the given URL and returns its readable form.
func (h *ArticleHandler) Extract(c echo.Context) error {
	var req extractRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	article, err := h.articles.Extract(c.Request().Context(), req.URL)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toArticleResponse(article))
}

func toArticleResponse(article *extract.Article) articleResponse {
	return articleResponse{
		Title:       article.Title,
		Content:     article.Content,
		TextContent: article.TextContent,
		Excerpt:     article.Excerpt,
		Byline:      article.Byline,
		Length:      article.Length,
	}
}
