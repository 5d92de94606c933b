package middleware

import (
	"net/http"

	"github.com/inditecg-developers/EmoscreenPaid/internal/token"

	"github.com/labstack/echo/v4"
)

const ClaimsContextKey = "link_claims"

// LinkToken guards patient-facing routes: the signed payment link token must
// verify and must reference the order named in the path.
func LinkToken(issuer *token.Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.QueryParam("token")
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing link token")
			}

			claims, err := issuer.Verify(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid link token")
			}

			if claims.OrderCode != c.Param("orderCode") {
				return echo.NewHTTPError(http.StatusForbidden, "link token does not match order")
			}

			c.Set(ClaimsContextKey, claims)
			return next(c)
		}
	}
}
