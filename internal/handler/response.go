package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"skim/backend/internal/service"
	"skim/backend/pkg/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeServiceError maps service sentinels onto HTTP statuses. A remote feed
// being down (502) and a remote feed serving garbage (422) are deliberately
// different failures.
func writeServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	case errors.Is(err, service.ErrInvalid):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	case errors.Is(err, service.ErrConflict):
		return c.JSON(http.StatusConflict, errorResponse{Error: "already exists"})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, service.ErrEmptyFeed):
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: "feed has no entries"})
	case errors.Is(err, service.ErrFeedParse):
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: "feed could not be parsed"})
	case errors.Is(err, service.ErrNotExtractable):
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: "page has no extractable article"})
	case errors.Is(err, service.ErrFeedFetch):
		return c.JSON(http.StatusBadGateway, errorResponse{Error: "upstream fetch failed"})
	default:
		logger.Error("request failed",
			"module", "handler",
			"action", "respond",
			"resource", c.Path(),
			"result", "internal_error",
			"error", err,
		)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
