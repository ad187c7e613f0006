package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vlasovm/shop_backend/internal/service"
)

// ErrorHandler renders every error as {"detail": ...} and maps the service
// taxonomy onto status codes.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	detail := "Internal server error."

	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		code = he.Code
		detail = fmt.Sprint(he.Message)
	case errors.Is(err, service.ErrNotFound):
		code = http.StatusNotFound
		detail = err.Error()
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		code = http.StatusBadRequest
		detail = err.Error()
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(code)
	} else {
		writeErr = c.JSON(code, echo.Map{"detail": detail})
	}
	if writeErr != nil {
		c.Logger().Error(writeErr)
	}
}
