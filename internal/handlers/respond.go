package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"wmsconsole/internal/common"
	"wmsconsole/internal/middleware"
	"wmsconsole/internal/render"
	"wmsconsole/internal/services"
	"wmsconsole/internal/session"
	"wmsconsole/internal/wmsapi"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	msgSessionExpired = "Session expired. Please login again."
	msgTransport      = "The warehouse service could not be reached. Nothing was saved, please try again."
	msgInvalidForm    = "Please correct the errors below."
	msgUnexpected     = "Something went wrong. Please try again."
)

// responder holds what every view handler needs to present results
type responder struct {
	sessions *session.Manager
	logger   logrus.FieldLogger
}

// renderPage shows a page inside the layout, picking up any pending flash
func renderPage(c echo.Context, status int, name string, page render.Page) error {
	flash := common.PopFlash(c)
	if page.Flash == "" {
		page.Flash = flash.Notice
	}
	if page.Error == "" {
		page.Error = flash.Error
	}
	return c.Render(status, name, page)
}

// intercept handles the outcomes every view treats alike. handled is false
// when the caller still has to present err on its page.
func (r *responder) intercept(c echo.Context, err error, back string) (handled bool, result error) {
	switch {
	case services.IsCancelled(err):
		// the browser went away, nobody is left to answer
		return true, nil
	case errors.Is(err, wmsapi.ErrAuthExpired):
		return true, r.expire(c)
	case errors.Is(err, services.ErrUserAborted):
		return true, c.Redirect(http.StatusSeeOther, back)
	}
	return false, nil
}

// expire ends the browser session after the API rejected its token
func (r *responder) expire(c echo.Context) error {
	if sc := session.FromEcho(c); sc != nil {
		if err := sc.Clear(c.Request().Context()); err != nil {
			r.logger.WithError(err).Warn("failed to clear session")
		}
	}
	r.sessions.ClearCookie(c)
	common.SetErrorFlash(c, msgSessionExpired)
	return c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

// message is the banner text for err. Failures the user cannot act on are logged.
func (r *responder) message(c echo.Context, err error) string {
	var (
		validation *wmsapi.ValidationError
		transport  *wmsapi.TransportError
		apiErr     *wmsapi.APIError
		notFound   *services.ProductNotFoundError
	)
	entry := r.logger.WithFields(logrus.Fields{"path": c.Path(), "method": c.Request().Method})

	switch {
	case errors.As(err, &validation):
		if validation.Message != "" {
			return validation.Message
		}
		return msgInvalidForm
	case errors.As(err, &transport):
		entry.WithError(err).Error("warehouse api unreachable")
		return msgTransport
	case errors.As(err, &apiErr):
		entry.WithError(err).Warn("warehouse api refused request")
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fmt.Sprintf("The warehouse service answered with status %d.", apiErr.Status)
	case errors.As(err, &notFound),
		errors.Is(err, services.ErrNoFile),
		errors.Is(err, services.ErrNoProductSelected),
		errors.Is(err, services.ErrTooManyAttempts):
		return err.Error()
	default:
		entry.WithError(err).Error("unexpected failure")
		return msgUnexpected
	}
}

// statusFor picks the response status of a page re-rendered after err
func statusFor(err error) int {
	var (
		validation *wmsapi.ValidationError
		transport  *wmsapi.TransportError
		apiErr     *wmsapi.APIError
		notFound   *services.ProductNotFoundError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &notFound),
		errors.Is(err, services.ErrNoFile), errors.Is(err, services.ErrNoProductSelected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrTooManyAttempts):
		return http.StatusTooManyRequests
	case errors.As(err, &transport), errors.As(err, &apiErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// fieldErrors returns the per-field messages of a rejected form
func fieldErrors(err error) map[string][]string {
	var validation *wmsapi.ValidationError
	if errors.As(err, &validation) {
		return validation.Fields
	}
	return nil
}

// sessionOf returns the request's session. Guarded routes always have one.
func sessionOf(c echo.Context) *session.Context {
	return session.FromEcho(c)
}
