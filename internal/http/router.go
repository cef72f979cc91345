package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"skim/backend/internal/handler"
	"skim/backend/internal/service"
)

// NewRouter wires every handler into an Echo instance. Auth endpoints are
// public; everything else under /api requires a valid bearer token.
func NewRouter(
	authHandler *handler.AuthHandler,
	feedHandler *handler.FeedHandler,
	itemHandler *handler.ItemHandler,
	noteHandler *handler.NoteHandler,
	articleHandler *handler.ArticleHandler,
	authService service.AuthService,
	staticDir string,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	api := e.Group("/api")
	authHandler.RegisterRoutes(api)

	protected := api.Group("", JWTAuthMiddleware(authService))
	feedHandler.RegisterRoutes(protected)
	itemHandler.RegisterRoutes(protected)
	noteHandler.RegisterRoutes(protected)
	articleHandler.RegisterRoutes(protected)

	registerStatic(e, staticDir)

	return e
}
