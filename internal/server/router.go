package server

import (
	"net/http"

	"wmsconsole/internal/caching"
	"wmsconsole/internal/handlers"
	"wmsconsole/internal/middleware"
	"wmsconsole/internal/models"
	"wmsconsole/internal/services"
	"wmsconsole/internal/session"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

// Handlers groups every view handler the router mounts
type Handlers struct {
	Auth       *handlers.AuthHandlers
	Dashboard  *handlers.DashboardHandlers
	Inventory  *handlers.InventoryHandlers
	Inbound    *handlers.LogisticsHandlers[models.InboundRecord, models.InboundInput]
	Outbound   *handlers.LogisticsHandlers[models.OutboundRecord, models.OutboundInput]
	CycleCount *handlers.CycleCountHandlers
	Forecast   *handlers.ForecastHandlers
	Health     *handlers.HealthHandlers
}

// Deps is the shared infrastructure of the router
type Deps struct {
	Sessions *session.Manager
	Store    caching.CredentialStore
	RBAC     services.RBACService
	Renderer echo.Renderer
	Logger   logrus.FieldLogger
	Version  string
}

// NewRouter builds the console's echo instance with every route mounted
func NewRouter(d Deps, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = d.Renderer
	e.HTTPErrorHandler = handlers.NewHTTPErrorHandler(d.Logger)

	// Global middleware
	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.VersionHeader(d.Version))
	e.Use(middleware.NewAuditMiddleware(d.Logger).AuditRequest())
	e.Use(echoMiddleware.BodyLimit("12M"))

	// Public routes
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, "/home")
	})
	e.GET("/login", h.Auth.LoginPage)
	e.POST("/login", h.Auth.Login)
	e.POST("/logout", h.Auth.Logout)
	e.GET("/health", h.Health.HealthCheck)
	e.GET("/health/live", h.Health.LivenessCheck)

	// Protected routes: a valid session, then the capability of each action
	app := e.Group("", middleware.RequireSession(d.Sessions, d.Store, d.Logger))
	rbac := middleware.NewRBACMiddleware(d.RBAC)
	can := rbac.RequireCapability

	app.GET("/home", h.Auth.Home)
	app.GET("/dashboard", h.Dashboard.Show)

	app.GET("/inventory", h.Inventory.List)
	app.GET("/inventory/export.xlsx", h.Inventory.Export)
	app.GET("/inventory/barcode/:sku", h.Inventory.Barcode)
	app.GET("/inventory/qrcode/:sku", h.Inventory.QRCode)
	app.POST("/inventory", h.Inventory.Create, can(services.CapProductCreate))
	app.POST("/inventory/import", h.Inventory.Import, can(services.CapProductImport))
	app.POST("/inventory/:id", h.Inventory.Update, can(services.CapProductUpdate))
	app.POST("/inventory/:id/archive", h.Inventory.SetArchived, can(services.CapProductArchive))
	app.POST("/inventory/:id/delete", h.Inventory.Delete, can(services.CapProductDelete))
	app.GET("/inventory/:id/logs", h.Inventory.AuditLog, can(services.CapAuditView))

	app.GET("/inbound", h.Inbound.List)
	app.POST("/inbound", h.Inbound.Create, can(services.CapInboundCreate))
	app.POST("/inbound/import", h.Inbound.Import, can(services.CapInboundImport))
	app.POST("/inbound/:id", h.Inbound.Update, can(services.CapInboundUpdate))
	app.POST("/inbound/:id/delete", h.Inbound.Delete, can(services.CapInboundDelete))

	app.GET("/outbound", h.Outbound.List)
	app.POST("/outbound", h.Outbound.Create, can(services.CapOutboundCreate))
	app.POST("/outbound/import", h.Outbound.Import, can(services.CapOutboundImport))
	app.POST("/outbound/:id", h.Outbound.Update, can(services.CapOutboundUpdate))
	app.POST("/outbound/:id/delete", h.Outbound.Delete, can(services.CapOutboundDelete))

	app.GET("/cycle-count", h.CycleCount.List, can(services.CapCycleCountCreate))
	app.POST("/cycle-count", h.CycleCount.Submit, can(services.CapCycleCountCreate))
	app.POST("/cycle-count/preview", h.CycleCount.Preview, can(services.CapCycleCountCreate))

	app.GET("/forecast", h.Forecast.Show)

	return e
}
