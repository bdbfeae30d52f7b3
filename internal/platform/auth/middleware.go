package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Skipper decides whether a request bypasses authentication.
type Skipper func(c echo.Context) bool

// OpenEndpoints returns a skipper for the unauthenticated surface:
// registration, credential exchange, and health checks.
func OpenEndpoints() Skipper {
	open := map[string]bool{
		"/auth/register":      true,
		"/auth/login":         true,
		"/auth/token/refresh": true,
		"/health":             true,
	}
	return func(c echo.Context) bool {
		return open[c.Path()]
	}
}

// Middleware validates the bearer token and attaches the caller's Identity
// to the request context. A missing or invalid token is an authentication
// failure (401), never a role-based denial.
func Middleware(ti *TokenIssuer, skip Skipper) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skip != nil && skip(c) {
				return next(c)
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			id, err := ti.Verify(parts[1], TokenTypeAccess)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			ctx := WithIdentity(c.Request().Context(), id)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// RequireIdentity extracts the caller identity inside a handler, returning
// a 401 error when the middleware did not attach one.
func RequireIdentity(c echo.Context) (Identity, error) {
	id, ok := IdentityFromContext(c.Request().Context())
	if !ok {
		return Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return id, nil
}
