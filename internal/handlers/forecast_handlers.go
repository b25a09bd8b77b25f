package handlers

import (
	"net/http"

	"wmsconsole/internal/render"
	"wmsconsole/internal/services"
	"wmsconsole/internal/session"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type ForecastHandlers struct {
	responder
	forecastService services.ForecastService
}

func NewForecastHandlers(forecastService services.ForecastService, sessions *session.Manager, logger logrus.FieldLogger) *ForecastHandlers {
	return &ForecastHandlers{
		responder:       responder{sessions: sessions, logger: logger.WithField("handler", "forecast")},
		forecastService: forecastService,
	}
}

// Show handles GET /forecast?sku=
func (h *ForecastHandlers) Show(c echo.Context) error {
	sku := c.QueryParam("sku")
	view, err := h.forecastService.Load(c.Request().Context(), sessionOf(c), sku)
	if err != nil {
		if handled, result := h.intercept(c, err, "/home"); handled {
			return result
		}
		return renderPage(c, statusFor(err), "forecast", render.Page{
			Title: "Forecast",
			Error: h.message(c, err),
			Data:  &services.ForecastView{SKU: sku},
		})
	}
	return renderPage(c, http.StatusOK, "forecast", render.Page{Title: "Forecast", Data: view})
}
