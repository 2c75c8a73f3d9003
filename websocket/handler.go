package websocket

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/thesrcielos/PokeMemory/internal/user"
	"github.com/thesrcielos/PokeMemory/websocket/router"
	"github.com/thesrcielos/PokeMemory/websocket/state"
)

var (
	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
)

type Handler struct {
	tokens   *user.TokenIssuer
	registry *state.Registry
	router   *router.Router
}

func NewHandler(tokens *user.TokenIssuer, registry *state.Registry, board router.Board) *Handler {
	return &Handler{
		tokens:   tokens,
		registry: registry,
		router:   router.NewRouter(board),
	}
}

// LeaderboardFeed upgrades an authenticated request to a live leaderboard feed.
// The token is read from the session cookie or the token query parameter.
func (h *Handler) LeaderboardFeed(c echo.Context) error {
	claims, err := h.tokens.ParseJWT(tokenFrom(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Println("WebSocket upgrade failed:", err)
		return err
	}

	sub := h.registry.Register(claims.Id, ws)
	log.Printf("Leaderboard subscriber connected: %s (user %d)", sub.ID, claims.Id)

	h.router.SendBoard(c.Request().Context(), sub)
	go h.listenSubscriberMessages(sub)

	return nil
}

func tokenFrom(c echo.Context) string {
	if cookie, err := c.Cookie("token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return c.QueryParam("token")
}
