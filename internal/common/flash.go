package common

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

const flashCookie = "wms_flash"

// Flash is a one-shot message shown on the next page view
type Flash struct {
	Notice string
	Error  string
}

// SetFlash keeps a notice for the next page view
func SetFlash(c echo.Context, message string) {
	setFlash(c, "notice", message)
}

// SetErrorFlash keeps an error banner for the next page view
func SetErrorFlash(c echo.Context, message string) {
	setFlash(c, "error", message)
}

func setFlash(c echo.Context, kind, message string) {
	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(kind + "|" + message),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash returns the pending message and clears it
func PopFlash(c echo.Context) Flash {
	cookie, err := c.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return Flash{}
	}
	c.SetCookie(&http.Cookie{Name: flashCookie, Path: "/", MaxAge: -1, HttpOnly: true})
	raw, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return Flash{}
	}
	kind, message, ok := strings.Cut(raw, "|")
	if !ok {
		return Flash{}
	}
	if kind == "error" {
		return Flash{Error: message}
	}
	return Flash{Notice: message}
}
