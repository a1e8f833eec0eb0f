package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HTTPErrorHandler renders every error as {"error": message}. Errors that
// are not *echo.HTTPError become 500 with their own message.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		switch m := he.Message.(type) {
		case nil:
			msg = http.StatusText(code)
		case string:
			msg = m
		case error:
			msg = m.Error()
		default:
			msg = fmt.Sprint(m)
		}
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, map[string]string{"error": msg})
	}
	if err != nil {
		c.Logger().Error(err)
	}
}

// BindError turns a request decoding failure into a 400 "invalid request
// body" response. An oversized body keeps its 413.
func BindError(err error) error {
	msg := "invalid request body"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code == http.StatusRequestEntityTooLarge {
			return he
		}
		if he.Internal != nil {
			msg += ": " + he.Internal.Error()
		}
	} else if err != nil {
		msg += ": " + err.Error()
	}
	return echo.NewHTTPError(http.StatusBadRequest, msg).SetInternal(err)
}
