package http

import (
	nethttp "net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"skim/backend/internal/handler"
	"skim/backend/internal/service"
)

// JWTAuthMiddleware rejects requests without a valid bearer token and stores
// the caller identity on the context for handlers to read.
func JWTAuthMiddleware(auth service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(nethttp.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			}

			token := strings.TrimPrefix(header, "Bearer ")
			identity, err := auth.ValidateToken(token)
			if err != nil {
				return c.JSON(nethttp.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			}

			c.Set(handler.AuthContextKey, identity)
			return next(c)
		}
	}
}
