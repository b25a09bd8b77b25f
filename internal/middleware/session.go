package middleware

import (
	"net/http"

	"wmsconsole/internal/caching"
	"wmsconsole/internal/session"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	// LoginPath is where unauthorized requests are sent
	LoginPath = "/login"

	tokenContextKey = "session_token"
)

// RequireSession guards a route group. The signed session cookie is checked
// by echo-jwt, the session is loaded from the credential store once, and a
// request without an access token is redirected to the login page.
func RequireSession(manager *session.Manager, store caching.CredentialStore, logger logrus.FieldLogger) echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		SigningKey:  manager.SigningKey(),
		TokenLookup: "cookie:" + manager.CookieName(),
		ContextKey:  tokenContextKey,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(session.Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.Redirect(http.StatusSeeOther, LoginPath)
		},
	})

	load := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get(tokenContextKey).(*jwt.Token)
			if !ok {
				return c.Redirect(http.StatusSeeOther, LoginPath)
			}
			claims, ok := token.Claims.(*session.Claims)
			if !ok || claims.SID == "" {
				return c.Redirect(http.StatusSeeOther, LoginPath)
			}

			sc, err := session.Load(c.Request().Context(), store, claims.SID)
			if err != nil {
				logger.WithError(err).Error("failed to load session")
				return echo.NewHTTPError(http.StatusServiceUnavailable, "Session store unavailable")
			}
			if !sc.LoggedIn() {
				return c.Redirect(http.StatusSeeOther, LoginPath)
			}

			if err := manager.Renew(c, claims); err != nil {
				logger.WithError(err).Warn("failed to renew session cookie")
			}
			session.Attach(c, sc)
			return next(c)
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(load(next))
	}
}
