package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	api_middleware "github.com/thesrcielos/PokeMemory/api/middleware"
	"github.com/thesrcielos/PokeMemory/internal/apperrors"
	"github.com/thesrcielos/PokeMemory/internal/user"
	"github.com/thesrcielos/PokeMemory/web"
)

type AuthHandler struct {
	users        *user.UserService
	tokens       *user.TokenIssuer
	cookieSecure bool
}

func NewAuthHandler(users *user.UserService, tokens *user.TokenIssuer, cookieSecure bool) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, cookieSecure: cookieSecure}
}

func (h *AuthHandler) authenticated(c echo.Context) bool {
	cookie, err := c.Cookie(api_middleware.TokenCookie)
	if err != nil {
		return false
	}
	_, err = h.tokens.ParseJWT(cookie.Value)
	return err == nil
}

func (h *AuthHandler) setSession(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     api_middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.tokens.TTL()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) LoginPage(c echo.Context) error {
	if h.authenticated(c) {
		return c.Redirect(http.StatusSeeOther, "/difficulty")
	}
	return c.Render(http.StatusOK, web.LoginPage, web.LoginData{})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req user.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.Render(http.StatusBadRequest, web.LoginPage, web.LoginData{Error: INVALID_REQUEST})
	}

	_, token, err := h.users.Login(c.Request().Context(), req)
	if err != nil {
		code := apperrors.Status(err)
		if code >= http.StatusInternalServerError {
			return err
		}
		return c.Render(code, web.LoginPage, web.LoginData{Error: apperrors.Message(err), Email: req.Email})
	}

	h.setSession(c, token)
	return c.Redirect(http.StatusSeeOther, "/difficulty")
}

func (h *AuthHandler) RegisterPage(c echo.Context) error {
	if h.authenticated(c) {
		return c.Redirect(http.StatusSeeOther, "/difficulty")
	}
	return c.Render(http.StatusOK, web.RegisterPage, web.RegisterData{})
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req user.SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.Render(http.StatusBadRequest, web.RegisterPage, web.RegisterData{Error: INVALID_REQUEST})
	}

	_, token, err := h.users.Signup(c.Request().Context(), req)
	if err != nil {
		code := apperrors.Status(err)
		if code >= http.StatusInternalServerError {
			return err
		}
		return c.Render(code, web.RegisterPage, web.RegisterData{
			Error:    apperrors.Message(err),
			Username: req.Username,
			Email:    req.Email,
		})
	}

	h.setSession(c, token)
	return c.Redirect(http.StatusSeeOther, "/difficulty")
}

func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     api_middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusSeeOther, "/login")
}
