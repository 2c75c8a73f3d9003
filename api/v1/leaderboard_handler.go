package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	api_middleware "github.com/thesrcielos/PokeMemory/api/middleware"
	"github.com/thesrcielos/PokeMemory/internal/apperrors"
	"github.com/thesrcielos/PokeMemory/internal/leaderboard"
)

type LeaderboardHandler struct {
	board *leaderboard.LeaderboardService
}

func NewLeaderboardHandler(board *leaderboard.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{board: board}
}

func (h *LeaderboardHandler) GetLeaderboard(c echo.Context) error {
	board, err := h.board.Top(c.Request().Context(), api_middleware.UserID(c))
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "error loading leaderboard", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"leaderboard": board,
	})
}

func (h *LeaderboardHandler) LatestSnapshot(c echo.Context) error {
	rows, err := h.board.LatestSnapshot(c.Request().Context())
	if err != nil {
		return err
	}

	resp := echo.Map{"leaderboard": rows}
	if len(rows) > 0 {
		resp["snapshot_time"] = rows[0].SnapshotTime
	}
	return c.JSON(http.StatusOK, resp)
}
