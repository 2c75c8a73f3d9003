package v1

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	api_middleware "github.com/thesrcielos/PokeMemory/api/middleware"
	"github.com/thesrcielos/PokeMemory/internal/apperrors"
	"github.com/thesrcielos/PokeMemory/internal/game"
	"github.com/thesrcielos/PokeMemory/internal/leaderboard"
	"github.com/thesrcielos/PokeMemory/internal/stats"
	"github.com/thesrcielos/PokeMemory/internal/trophy"
	"github.com/thesrcielos/PokeMemory/internal/user"
	"github.com/thesrcielos/PokeMemory/web"
)

const FeedEndpoint = "/ws/leaderboard"

type GameHandler struct {
	games *game.GameService
	users *user.UserService
	board *leaderboard.LeaderboardService
}

func NewGameHandler(games *game.GameService, users *user.UserService, board *leaderboard.LeaderboardService) *GameHandler {
	return &GameHandler{games: games, users: users, board: board}
}

// pageUser loads the signed in account. A token for a deleted account
// sends the visitor back through logout.
func (h *GameHandler) pageUser(c echo.Context) (*user.User, error) {
	u, err := h.users.GetUser(c.Request().Context(), api_middleware.UserID(c))
	if err != nil {
		if apperrors.Status(err) == http.StatusNotFound {
			return nil, c.Redirect(http.StatusSeeOther, "/logout")
		}
		return nil, err
	}
	return u, nil
}

func (h *GameHandler) DifficultyPage(c echo.Context) error {
	u, err := h.pageUser(c)
	if u == nil {
		return err
	}

	board, err := h.board.Top(c.Request().Context(), u.ID)
	if err != nil {
		log.Println("Error loading leaderboard:", err)
		board = []stats.Position{}
	}

	return c.Render(http.StatusOK, web.DifficultyPage, web.DifficultyData{
		User:         u,
		Options:      web.DifficultyOptions(),
		Leaderboard:  board,
		FeedEndpoint: FeedEndpoint,
	})
}

// GamePage falls back to basic for a missing or unknown difficulty.
func (h *GameHandler) GamePage(c echo.Context) error {
	u, err := h.pageUser(c)
	if u == nil {
		return err
	}

	d, err := trophy.ParseDifficulty(c.QueryParam("difficulty"))
	if err != nil {
		d = trophy.Basic
	}
	rules, err := trophy.RulesFor(d)
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, web.GamePage, web.GameData{User: u, Difficulty: d, Rules: rules})
}

func (h *GameHandler) SaveGameResult(c echo.Context) error {
	var req game.ResultRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.NewAppError(http.StatusBadRequest, INVALID_REQUEST, err)
	}

	resp, err := h.games.SubmitResult(c.Request().Context(), api_middleware.UserID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *GameHandler) ProfilePage(c echo.Context) error {
	view, err := h.games.Profile(c.Request().Context(), api_middleware.UserID(c))
	if err != nil {
		if apperrors.Status(err) == http.StatusNotFound {
			return c.Redirect(http.StatusSeeOther, "/logout")
		}
		return err
	}
	return c.Render(http.StatusOK, web.ProfilePage, web.ProfileData{ProfileView: view})
}

func (h *GameHandler) UserStats(c echo.Context) error {
	view, err := h.games.Profile(c.Request().Context(), api_middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}
