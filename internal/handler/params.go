package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"skim/backend/internal/model"
)

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// authFrom returns the identity the auth middleware stored on the context.
func authFrom(c echo.Context) (model.AuthContext, bool) {
	auth, ok := c.Get(AuthContextKey).(model.AuthContext)
	return auth, ok
}

// AuthContextKey is where the auth middleware stores the caller identity.
const AuthContextKey = "auth"

// statusParam reads the ?status= query, defaulting to unread.
func statusParam(c echo.Context) model.ItemStatus {
	raw := c.QueryParam("status")
	if raw == "" {
		return model.StatusUnread
	}
	return model.ItemStatus(raw)
}
