package http

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

func pathID(c echo.Context, name string) (int, error) {
	return strconv.Atoi(c.Param(name))
}
