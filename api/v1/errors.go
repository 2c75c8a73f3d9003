package v1

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/thesrcielos/PokeMemory/internal/apperrors"
)

const INVALID_REQUEST = "invalid request"

// HTTPErrorHandler renders every failure as {success:false, error}.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "internal server error"

	var appErr *apperrors.AppError
	var he *echo.HTTPError
	switch {
	case errors.As(err, &appErr):
		code = apperrors.Status(appErr)
		message = appErr.Message
	case errors.As(err, &he):
		code = he.Code
		message = fmt.Sprint(he.Message)
	}

	if code >= http.StatusInternalServerError {
		log.Printf("Error handling %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, echo.Map{
			"success": false,
			"error":   message,
		})
	}
	if err != nil {
		log.Println("Error writing error response:", err)
	}
}
