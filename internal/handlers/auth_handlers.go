package handlers

import (
	"errors"
	"net/http"
	"strings"

	"wmsconsole/internal/caching"
	"wmsconsole/internal/common"
	"wmsconsole/internal/render"
	"wmsconsole/internal/services"
	"wmsconsole/internal/session"
	"wmsconsole/internal/wmsapi"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// AuthHandlers serves the login page, logout and the home page
type AuthHandlers struct {
	responder
	authService services.AuthService
	store       caching.CredentialStore
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authService services.AuthService, store caching.CredentialStore, sessions *session.Manager, logger logrus.FieldLogger) *AuthHandlers {
	return &AuthHandlers{
		responder:   responder{sessions: sessions, logger: logger.WithField("handler", "auth")},
		authService: authService,
		store:       store,
	}
}

type loginForm struct {
	Username string
}

// current returns the session named by the request cookie, nil without a valid one
func (h *AuthHandlers) current(c echo.Context) *session.Context {
	cookie, err := c.Cookie(h.sessions.CookieName())
	if err != nil {
		return nil
	}
	sid, err := h.sessions.Parse(cookie.Value)
	if err != nil {
		return nil
	}
	sc, err := session.Load(c.Request().Context(), h.store, sid)
	if err != nil {
		h.logger.WithError(err).Warn("failed to load session")
		return nil
	}
	return sc
}

// LoginPage shows the login form, or sends a logged-in user home
func (h *AuthHandlers) LoginPage(c echo.Context) error {
	if sc := h.current(c); sc.LoggedIn() {
		return c.Redirect(http.StatusSeeOther, "/home")
	}
	return renderPage(c, http.StatusOK, "login", render.Page{Title: "Login", Data: loginForm{}})
}

// Login exchanges the credentials for a token set and starts a fresh session
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")

	if username == "" || password == "" {
		return renderPage(c, http.StatusUnprocessableEntity, "login", render.Page{
			Title: "Login",
			Error: "Username and password are required.",
			Data:  loginForm{Username: username},
		})
	}

	// the browser keeps its current session until the new one exists
	previous := h.current(c)
	sid := session.NewSID()
	sc := session.New(h.store, sid)

	if _, err := h.authService.Login(ctx, sc, c.RealIP(), username, password); err != nil {
		if services.IsCancelled(err) {
			return nil
		}
		status, msg := http.StatusUnauthorized, "Invalid username or password."
		if !errors.Is(err, wmsapi.ErrLoginFailed) {
			status, msg = statusFor(err), h.message(c, err)
		}
		return renderPage(c, status, "login", render.Page{
			Title: "Login",
			Error: msg,
			Data:  loginForm{Username: username},
		})
	}

	if err := h.sessions.SetCookie(c, sid); err != nil {
		if cerr := sc.Clear(ctx); cerr != nil {
			h.logger.WithError(cerr).Warn("failed to drop unissued session")
		}
		return err
	}
	if previous != nil {
		if err := previous.Clear(ctx); err != nil {
			h.logger.WithError(err).Warn("failed to drop previous session")
		}
	}
	return c.Redirect(http.StatusSeeOther, "/home")
}

// Logout clears the stored credentials and the cookie
func (h *AuthHandlers) Logout(c echo.Context) error {
	if sc := h.current(c); sc != nil {
		if err := h.authService.Logout(c.Request().Context(), sc); err != nil {
			h.logger.WithError(err).Error("failed to clear session on logout")
		}
	}
	h.sessions.ClearCookie(c)
	common.SetFlash(c, "You have been logged out.")
	return c.Redirect(http.StatusSeeOther, "/login")
}

// Home shows who is logged in and the sections they can open
func (h *AuthHandlers) Home(c echo.Context) error {
	return renderPage(c, http.StatusOK, "home", render.Page{Title: "Home"})
}
