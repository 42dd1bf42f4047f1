package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shelterhub/backend/internal/apperr"
	"github.com/shelterhub/backend/internal/util"
)

// newErrorHandler maps every error leaving a handler into the uniform
// envelope. Operational errors surface their message verbatim; anything
// untagged is logged and reported as a generic internal error, with details
// attached only in debug mode.
func newErrorHandler(debug bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if e, ok := apperr.As(err); ok {
			_ = c.JSON(e.Kind.Status(), util.Failure(e.Message, nil))
			return
		}

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			message := fmt.Sprintf("%v", httpErr.Message)
			_ = c.JSON(httpErr.Code, util.Failure(message, nil))
			return
		}

		c.Logger().Error(err)
		var details any
		if debug {
			details = err.Error()
		}
		_ = c.JSON(http.StatusInternalServerError, util.Failure("internal server error", details))
	}
}

func respond(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, util.Success(message, data))
}
