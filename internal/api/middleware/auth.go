package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gitedu/docuvault/internal/api/metrics"
	"github.com/gitedu/docuvault/internal/core/domain"
	"github.com/gitedu/docuvault/internal/core/ports"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "jwt"

// ActingRoleHeader lets clients claim a role without a query parameter.
const ActingRoleHeader = "X-Acting-Role"

// Session authenticates the request from its session cookie and resolves the
// acting identity. The identity's fields are re-read from the store on every
// request; nothing beyond the subject is trusted from the token payload, so
// role changes and deletions take effect immediately.
func Session(tokens ports.TokenService, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				metrics.AuthRejectionsTotal.WithLabelValues("missing_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "please login to continue")
			}

			claims, err := tokens.Verify(cookie.Value)
			if err != nil {
				metrics.AuthRejectionsTotal.WithLabelValues("invalid_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token, please login again")
			}

			// Handles deleted-but-still-tokened accounts.
			user, err := users.FindByID(c.Request().Context(), claims.UserID)
			if err != nil {
				metrics.AuthRejectionsTotal.WithLabelValues("unknown_user").Inc()
				return echo.NewHTTPError(http.StatusNotFound, "user not found")
			}

			c.Set("user_id", user.ID)
			c.Set("user_name", user.Name)
			c.Set("email", user.Email)
			c.Set("role", user.Role)
			c.Set("department", user.Department)
			c.Set("verified", user.IsVerified)

			return next(c)
		}
	}
}

// MatchRole enforces that the role claimed by the request equals the stored
// identity's current role. The claim comes from the role path parameter, the
// role query parameter, or the X-Acting-Role header, in that order; an absent
// claim never matches.
func MatchRole() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claimed := c.Param("role")
			if claimed == "" {
				claimed = c.QueryParam("role")
			}
			if claimed == "" {
				claimed = c.Request().Header.Get(ActingRoleHeader)
			}

			role, _ := c.Get("role").(string)
			if claimed == "" || claimed != role {
				metrics.AuthRejectionsTotal.WithLabelValues("role_mismatch").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "you are not authorized to access this route")
			}
			return next(c)
		}
	}
}

// AdminOnly restricts a route to verified admin accounts.
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			verified, _ := c.Get("verified").(bool)
			if !verified {
				metrics.AuthRejectionsTotal.WithLabelValues("not_admin").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "please verify your email first")
			}

			role, _ := c.Get("role").(string)
			if role != domain.RoleAdmin {
				metrics.AuthRejectionsTotal.WithLabelValues("not_admin").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "you are not authorized to access this route")
			}
			return next(c)
		}
	}
}
