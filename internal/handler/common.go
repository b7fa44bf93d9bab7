package handler

import (
	"errors"

	"github.com/labstack/echo/v4"
)

var errNoUser = errors.New("no authenticated user in context")

// currentUserID extracts the numeric subject claim that JWTAuth stored in
// the Echo context under "user_id". JWT numeric claims decode as
// float64, so that's the type asserted here.
func currentUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case float64:
		return uint64(t), nil
	case uint64:
		return t, nil
	default:
		return 0, errNoUser
	}
}

func currentRole(c echo.Context) string {
	if v, ok := c.Get("role").(string); ok {
		return v
	}
	return ""
}
