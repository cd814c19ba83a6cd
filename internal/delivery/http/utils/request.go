package utils

import (
	"encoding/json"

	"github.com/labstack/echo/v4"
)

func ReadJSON(c echo.Context, v any) error {
	return json.NewDecoder(c.Request().Body).Decode(v)
}

func ReadQuery(c echo.Context, v any) error {
	return c.Bind(v)
}
