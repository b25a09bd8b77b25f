package handlers

import (
	"net/http"

	"wmsconsole/internal/render"
	"wmsconsole/internal/services"
	"wmsconsole/internal/session"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type DashboardHandlers struct {
	responder
	dashboardService services.DashboardService
}

func NewDashboardHandlers(dashboardService services.DashboardService, sessions *session.Manager, logger logrus.FieldLogger) *DashboardHandlers {
	return &DashboardHandlers{
		responder:        responder{sessions: sessions, logger: logger.WithField("handler", "dashboard")},
		dashboardService: dashboardService,
	}
}

// Show handles GET /dashboard
func (h *DashboardHandlers) Show(c echo.Context) error {
	view, err := h.dashboardService.Load(c.Request().Context(), sessionOf(c))
	if err != nil {
		if handled, result := h.intercept(c, err, "/home"); handled {
			return result
		}
		return renderPage(c, statusFor(err), "dashboard", render.Page{
			Title: "Dashboard",
			Error: h.message(c, err),
			Data:  &services.DashboardView{},
		})
	}
	return renderPage(c, http.StatusOK, "dashboard", render.Page{Title: "Dashboard", Data: view})
}
