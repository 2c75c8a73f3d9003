package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	api_middleware "github.com/thesrcielos/PokeMemory/api/middleware"
	"github.com/thesrcielos/PokeMemory/web"
)

type Handlers struct {
	Auth        *AuthHandler
	Game        *GameHandler
	Leaderboard *LeaderboardHandler
	Feed        echo.HandlerFunc
}

func RegisterRoutes(e *echo.Echo, h Handlers, secret []byte) {
	e.StaticFS("/static", web.Static())
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	e.GET("/", h.Auth.LoginPage)
	e.GET("/login", h.Auth.LoginPage)
	e.POST("/login", h.Auth.Login)
	e.GET("/register", h.Auth.RegisterPage)
	e.POST("/register", h.Auth.Register)
	e.GET("/logout", h.Auth.Logout)
	e.POST("/logout", h.Auth.Logout)

	pageAuth := api_middleware.SetupPageJWTMiddleware(secret)
	e.GET("/difficulty", h.Game.DifficultyPage, pageAuth)
	e.GET("/game", h.Game.GamePage, pageAuth)
	e.GET("/profile", h.Game.ProfilePage, pageAuth)

	jsonAuth := api_middleware.SetupJWTMiddleware(secret)
	e.POST("/save_game_result", h.Game.SaveGameResult, jsonAuth)
	e.GET("/get_leaderboard", h.Leaderboard.GetLeaderboard, jsonAuth)

	api := e.Group("/api/v1", jsonAuth)
	api.GET("/users/stats", h.Game.UserStats)
	api.GET("/leaderboard/snapshots/latest", h.Leaderboard.LatestSnapshot)

	if h.Feed != nil {
		e.GET("/ws/leaderboard", h.Feed)
	}
}
