package v1

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	api_middleware "github.com/thesrcielos/PokeMemory/api/middleware"
	"github.com/thesrcielos/PokeMemory/internal/apperrors"
	"github.com/thesrcielos/PokeMemory/internal/game"
	"github.com/thesrcielos/PokeMemory/internal/leaderboard"
	"github.com/thesrcielos/PokeMemory/internal/trophy"
	"github.com/thesrcielos/PokeMemory/internal/user"
	"github.com/thesrcielos/PokeMemory/web"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	e         *echo.Echo
	tokens    *user.TokenIssuer
	users     *user.MockUserRepository
	games     *game.GameRepositoryMock
	snapshots *leaderboard.SnapshotRepositoryMock
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	tokens := user.NewTokenIssuer("test-secret", time.Hour)
	users := &user.MockUserRepository{}
	games := &game.GameRepositoryMock{}
	snapshots := &leaderboard.SnapshotRepositoryMock{}

	board := leaderboard.NewLeaderboardService(users, snapshots, 10)
	userService := user.NewUserService(users, tokens, bcrypt.MinCost, board)
	gameService := game.NewGameService(games, users, 7, board)

	renderer, err := web.NewRenderer()
	require.NoError(t, err)

	e := echo.New()
	e.Renderer = renderer
	e.HTTPErrorHandler = HTTPErrorHandler
	RegisterRoutes(e, Handlers{
		Auth:        NewAuthHandler(userService, tokens, false),
		Game:        NewGameHandler(gameService, userService, board),
		Leaderboard: NewLeaderboardHandler(board),
	}, tokens.Secret())

	return &testServer{e: e, tokens: tokens, users: users, games: games, snapshots: snapshots}
}

func (s *testServer) do(t *testing.T, req *http.Request, u *user.User) *httptest.ResponseRecorder {
	t.Helper()
	if u != nil {
		token, err := s.tokens.GenerateJWT(u)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: api_middleware.TokenCookie, Value: token})
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func formRequest(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

var ash = &user.User{ID: 2, Username: "ash", Email: "ash@pallet.town", Trophies: 100, TotalGames: 4, TotalWins: 2, TotalLosses: 2, TotalTimePlayed: 240}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/health", nil), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestLoginPage_RedirectsWhenAuthenticated(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/login", nil), ash)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/difficulty", rec.Header().Get(echo.HeaderLocation))
}

func TestLoginPage_Renders(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/login"`)
}

func TestLogin_Success(t *testing.T) {
	s := newTestServer(t)
	hashed, err := bcrypt.GenerateFromPassword([]byte("pikachu"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := *ash
	stored.Password = string(hashed)
	s.users.On("GetUserByEmail", mock.Anything, "ash@pallet.town").Return(&stored, nil).Once()

	rec := s.do(t, formRequest("/login", url.Values{"email": {"ash@pallet.town"}, "password": {"pikachu"}}), nil)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/difficulty", rec.Header().Get(echo.HeaderLocation))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, api_middleware.TokenCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	claims, err := s.tokens.ParseJWT(cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, uint(2), claims.Id)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	s := newTestServer(t)
	s.users.On("GetUserByEmail", mock.Anything, "nobody@pallet.town").
		Return(nil, apperrors.NewAppError(http.StatusNotFound, "user not found", nil)).Once()

	rec := s.do(t, formRequest("/login", url.Values{"email": {"nobody@pallet.town"}, "password": {"secret1"}}), nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid email or password")
	assert.Empty(t, rec.Result().Cookies())
}

func TestRegister_Success(t *testing.T) {
	s := newTestServer(t)
	s.users.On("EmailExists", mock.Anything, "misty@cerulean.city").Return(false, nil).Once()
	s.users.On("UsernameExists", mock.Anything, "misty").Return(false, nil).Once()
	s.users.On("CreateUser", mock.Anything, mock.AnythingOfType("*user.User")).
		Run(func(args mock.Arguments) { args.Get(1).(*user.User).ID = 9 }).
		Return(nil).Once()

	rec := s.do(t, formRequest("/register", url.Values{
		"username": {"misty"},
		"email":    {"misty@cerulean.city"},
		"password": {"starmie"},
	}), nil)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/difficulty", rec.Header().Get(echo.HeaderLocation))
	require.Len(t, rec.Result().Cookies(), 1)
	s.users.AssertExpectations(t)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	s := newTestServer(t)
	s.users.On("EmailExists", mock.Anything, "misty@cerulean.city").Return(false, nil).Once()
	s.users.On("UsernameExists", mock.Anything, "misty").Return(true, nil).Once()

	rec := s.do(t, formRequest("/register", url.Values{
		"username": {"misty"},
		"email":    {"misty@cerulean.city"},
		"password": {"starmie"},
	}), nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "username already exists")
	s.users.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestLogout_ClearsCookie(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/logout", nil), ash)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestDifficultyPage_RequiresLogin(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/difficulty", nil), nil)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
}

func TestDifficultyPage_Renders(t *testing.T) {
	s := newTestServer(t)
	misty := user.User{ID: 1, Username: "misty", Trophies: 300}
	s.users.On("GetUser", mock.Anything, uint(2)).Return(ash, nil).Once()
	s.users.On("TopByTrophies", mock.Anything, 10).Return([]user.User{misty, *ash}, nil).Once()

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/difficulty", nil), ash)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "misty")
	assert.Contains(t, body, `class="current"`)
	assert.Contains(t, body, "/game?difficulty=advanced")
}

func TestDifficultyPage_DeletedAccount(t *testing.T) {
	s := newTestServer(t)
	s.users.On("GetUser", mock.Anything, uint(2)).
		Return(nil, apperrors.NewAppError(http.StatusNotFound, "user not found", nil)).Once()

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/difficulty", nil), ash)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/logout", rec.Header().Get(echo.HeaderLocation))
}

func TestGamePage_UnknownDifficultyFallsBackToBasic(t *testing.T) {
	s := newTestServer(t)
	s.users.On("GetUser", mock.Anything, uint(2)).Return(ash, nil).Once()

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/game?difficulty=nightmare", nil), ash)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-difficulty="basic"`)
	assert.Contains(t, rec.Body.String(), `data-max-attempts="6"`)
}

func TestGamePage_Medium(t *testing.T) {
	s := newTestServer(t)
	s.users.On("GetUser", mock.Anything, uint(2)).Return(ash, nil).Once()

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/game?difficulty=Medium", nil), ash)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-difficulty="medium"`)
}

func TestSaveGameResult_Win(t *testing.T) {
	s := newTestServer(t)
	result := trophy.GameResult{Difficulty: trophy.Medium, Won: true, AttemptsUsed: 1, TimeTaken: 60}
	s.games.On("RecordResult", mock.Anything, uint(2), result, mock.Anything).
		Return(func(ctx context.Context, userID uint, r trophy.GameResult, score game.ScoreFunc) (*game.Outcome, error) {
			award, err := score(r, 100)
			if err != nil {
				return nil, err
			}
			return &game.Outcome{User: user.User{ID: userID, Trophies: award.Total}, Award: award}, nil
		}, nil).Once()

	rec := s.do(t, jsonRequest(http.MethodPost, "/save_game_result",
		`{"difficulty":"medium","won":true,"attempts_used":1,"time_taken":60}`), ash)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"trophies_earned":22,"total_trophies":122,"won":true,"previous_trophies":100}`, rec.Body.String())
	s.games.AssertExpectations(t)
}

func TestSaveGameResult_UnknownDifficulty(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, jsonRequest(http.MethodPost, "/save_game_result",
		`{"difficulty":"nightmare","won":true,"attempts_used":1,"time_taken":60}`), ash)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
	s.games.AssertNotCalled(t, "RecordResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveGameResult_RejectsOversizedTime(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, jsonRequest(http.MethodPost, "/save_game_result",
		`{"difficulty":"basic","won":true,"attempts_used":0,"time_taken":1e308}`), ash)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
	s.games.AssertNotCalled(t, "RecordResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveGameResult_MalformedBody(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, jsonRequest(http.MethodPost, "/save_game_result", `{"won":`), ash)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"invalid request"}`, rec.Body.String())
}

func TestSaveGameResult_PersistenceFailure(t *testing.T) {
	s := newTestServer(t)
	s.games.On("RecordResult", mock.Anything, uint(2), mock.Anything, mock.Anything).
		Return(nil, apperrors.NewAppError(http.StatusInternalServerError, "error saving game result", errors.New("disk full"))).Once()

	rec := s.do(t, jsonRequest(http.MethodPost, "/save_game_result",
		`{"difficulty":"basic","won":false,"attempts_used":6,"time_taken":30}`), ash)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"error saving game result"}`, rec.Body.String())
}

func TestSaveGameResult_Unauthenticated(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, jsonRequest(http.MethodPost, "/save_game_result", `{}`), nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetLeaderboard(t *testing.T) {
	s := newTestServer(t)
	misty := user.User{ID: 1, Username: "misty", Trophies: 300, TotalWins: 10, TotalGames: 12}
	s.users.On("TopByTrophies", mock.Anything, 10).Return([]user.User{misty, *ash}, nil).Once()

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/get_leaderboard", nil), ash)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"leaderboard":[
		{"position":1,"username":"misty","trophies":300,"total_wins":10,"total_games":12,"is_current_user":false},
		{"position":2,"username":"ash","trophies":100,"total_wins":2,"total_games":4,"is_current_user":true}
	]}`, rec.Body.String())
}

func TestGetLeaderboard_Error(t *testing.T) {
	s := newTestServer(t)
	s.users.On("TopByTrophies", mock.Anything, 10).Return(nil, errors.New("db down")).Once()

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/get_leaderboard", nil), ash)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"error loading leaderboard"}`, rec.Body.String())
}

func TestUserStats(t *testing.T) {
	s := newTestServer(t)
	s.users.On("GetUser", mock.Anything, uint(2)).Return(ash, nil).Once()
	s.games.On("PlayedDifficulties", mock.Anything, uint(2)).
		Return([]trophy.Difficulty{trophy.Basic, trophy.Medium, trophy.Medium, trophy.Advanced}, nil).Once()
	s.games.On("RecentHistory", mock.Anything, uint(2), 7).Return([]game.GameHistory{}, nil).Once()

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/users/stats", nil), ash)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"most_common_difficulty":"medium"`)
	assert.Contains(t, body, `"average_wins":50`)
	assert.Contains(t, body, `"average_time":60`)
	assert.Contains(t, body, `"level":2`)
}

func TestProfilePage(t *testing.T) {
	s := newTestServer(t)
	s.users.On("GetUser", mock.Anything, uint(2)).Return(ash, nil).Once()
	s.games.On("PlayedDifficulties", mock.Anything, uint(2)).Return([]trophy.Difficulty{trophy.Advanced}, nil).Once()
	s.games.On("RecentHistory", mock.Anything, uint(2), 7).Return([]game.GameHistory{
		{Difficulty: trophy.Advanced, TrophiesEarned: -15, TimeTaken: 60, CreatedAt: time.Now()},
	}, nil).Once()

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/profile", nil), ash)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Level 2")
	assert.Contains(t, rec.Body.String(), "-15")
}

func TestLatestSnapshot(t *testing.T) {
	s := newTestServer(t)
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.snapshots.On("LatestSnapshot", mock.Anything).Return([]leaderboard.LeaderboardSnapshot{
		{SnapshotTime: at, UserID: 1, Username: "misty", Trophies: 300, Rank: 1},
	}, nil).Once()

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard/snapshots/latest", nil), ash)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"snapshot_time":"2025-03-01T12:00:00Z",
		"leaderboard":[{"snapshot_time":"2025-03-01T12:00:00Z","username":"misty","trophies":300,"position":1}]
	}`, rec.Body.String())
}

func TestLatestSnapshot_Empty(t *testing.T) {
	s := newTestServer(t)
	s.snapshots.On("LatestSnapshot", mock.Anything).Return([]leaderboard.LeaderboardSnapshot{}, nil).Once()

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard/snapshots/latest", nil), ash)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"leaderboard":[]}`, rec.Body.String())
}

func TestHTTPErrorHandler_EchoError(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	HTTPErrorHandler(echo.NewHTTPError(http.StatusNotFound, "Not Found"), c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Not Found"}`, rec.Body.String())
}
