package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/qrave1/MemStudy/internal/application/config"
	"github.com/qrave1/MemStudy/internal/infra/adapters/memory"
	"github.com/qrave1/MemStudy/internal/infra/ports/http/handlers"
	"github.com/qrave1/MemStudy/internal/infra/ports/http/middleware"
)

func New(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	folderHandler *handlers.FolderHandler,
	flashcardHandler *handlers.FlashcardHandler,
	wsHandler *handlers.WebSocketHandler,
	roomRegistry memory.RoomRegistry,
	wsConnRepo memory.WebsocketConnectionRepository,
) *echo.Echo {
	e := echo.New()

	e.HideBanner = true

	startedAt := time.Now()

	e.Use(echomw.Recover())
	e.Use(middleware.SlogLogger())
	e.Use(middleware.PrometheusMiddleware())
	e.Use(echomw.CORSWithConfig(corsConfig(cfg)))

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "API OK")
	})

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"ok":          true,
			"uptime":      time.Since(startedAt).Seconds(),
			"rooms":       roomRegistry.Count(),
			"connections": wsConnRepo.Connected(),
		})
	})

	api := e.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/logout", authHandler.Logout)
		}

		v1 := api.Group("/v1")
		v1.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
		{
			v1.GET("/me", authHandler.GetMe)

			v1.GET("/ws", wsHandler.Handle)

			v1.GET("/folders", folderHandler.ListFolders)
			v1.POST("/folders", folderHandler.CreateFolder)
			v1.PATCH("/folders/:id", folderHandler.RenameFolder)
			v1.DELETE("/folders/:id", folderHandler.DeleteFolder)

			v1.GET("/flashcards", flashcardHandler.ListFlashcards)
			v1.POST("/flashcards", flashcardHandler.CreateFlashcard)
			v1.PATCH("/flashcards/:id", flashcardHandler.UpdateFlashcard)
			v1.DELETE("/flashcards/:id", flashcardHandler.DeleteFlashcard)
		}
	}

	return e
}

func corsConfig(cfg *config.Config) echomw.CORSConfig {
	corsCfg := echomw.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}

	switch {
	case cfg.Debug:
		// в debug отражаем любой Origin, "*" с credentials браузер не примет
		corsCfg.AllowOriginFunc = func(string) (bool, error) { return true, nil }
	case len(cfg.CORSOrigins) > 0:
		corsCfg.AllowOrigins = cfg.CORSOrigins
	default:
		corsCfg.AllowOrigins = []string{cfg.Domain}
	}

	return corsCfg
}
