package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// identity is the minimal projection of the acting user attached by the
// Session middleware.
type identity struct {
	ID         string
	Name       string
	Email      string
	Role       string
	Department string
}

// ctxIdentity extracts the identity injected by the Session middleware and
// fast-fails before any service call: a missing id means the middleware did
// not run, which is a wiring error surfaced as 401 rather than a panic.
func ctxIdentity(c echo.Context) (identity, error) {
	id, _ := c.Get("user_id").(string)
	if id == "" {
		return identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	name, _ := c.Get("user_name").(string)
	email, _ := c.Get("email").(string)
	role, _ := c.Get("role").(string)
	department, _ := c.Get("department").(string)

	return identity{ID: id, Name: name, Email: email, Role: role, Department: department}, nil
}
