package middleware

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/thesrcielos/PokeMemory/internal/user"
)

const (
	TokenCookie = "token"
	contextKey  = "user"
)

func jwtConfig(secret []byte, onError func(c echo.Context, err error) error) echojwt.Config {
	return echojwt.Config{
		SigningKey:    secret,
		SigningMethod: echojwt.AlgorithmHS256,
		ContextKey:    contextKey,
		TokenLookup:   "header:Authorization:Bearer ,cookie:" + TokenCookie,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(user.JwtCustomClaims)
		},
		ErrorHandler: onError,
	}
}

// SetupJWTMiddleware guards JSON routes; missing or invalid tokens get 401.
func SetupJWTMiddleware(secret []byte) echo.MiddlewareFunc {
	return echojwt.WithConfig(jwtConfig(secret, func(c echo.Context, err error) error {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"success": false,
			"error":   "unauthorized",
		})
	}))
}

// SetupPageJWTMiddleware guards HTML pages; unauthenticated visitors go to /login.
func SetupPageJWTMiddleware(secret []byte) echo.MiddlewareFunc {
	return echojwt.WithConfig(jwtConfig(secret, func(c echo.Context, err error) error {
		return c.Redirect(http.StatusSeeOther, "/login")
	}))
}

// Claims returns the claims of the authenticated request.
func Claims(c echo.Context) (*user.JwtCustomClaims, bool) {
	token, ok := c.Get(contextKey).(*jwt.Token)
	if !ok || token == nil {
		return nil, false
	}
	claims, ok := token.Claims.(*user.JwtCustomClaims)
	if !ok || claims.Id == 0 {
		return nil, false
	}
	return claims, true
}

func UserID(c echo.Context) uint {
	claims, ok := Claims(c)
	if !ok {
		return 0
	}
	return claims.Id
}
