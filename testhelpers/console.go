package testhelpers

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"wmsconsole/internal/caching"
	"wmsconsole/internal/handlers"
	"wmsconsole/internal/models"
	"wmsconsole/internal/render"
	"wmsconsole/internal/server"
	"wmsconsole/internal/services"
	"wmsconsole/internal/session"
	"wmsconsole/internal/wmsapi"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

// Console is the console wired the way cmd/main.go wires it, backed by an
// in-memory credential store and pointed at a fake API
type Console struct {
	Server *httptest.Server
	Store  *caching.MemoryStore
	Logs   *test.Hook
}

// NewConsole starts a console in front of api. loginLimit caps failed logins
// per client within a minute.
func NewConsole(t *testing.T, api *FakeWMSAPI, loginLimit int) *Console {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	rbac, err := services.NewRBACService(nil)
	require.NoError(t, err)
	store := caching.NewMemoryStore(time.Hour)
	limiter := caching.NewMemoryRateLimiter()
	client := wmsapi.NewClient(api.URL(), wmsapi.WithHTTPClient(&http.Client{Timeout: 5 * time.Second}), wmsapi.WithLogger(logger))

	sessions, err := session.NewManager("integration-secret", time.Hour, session.WithSecureCookie(false))
	require.NoError(t, err)
	renderer, err := render.NewRenderer(rbac)
	require.NoError(t, err)

	authService := services.NewAuthService(client.Auth, limiter, loginLimit, time.Minute, logger)
	e := server.NewRouter(server.Deps{
		Sessions: sessions,
		Store:    store,
		RBAC:     rbac,
		Renderer: renderer,
		Logger:   logger,
		Version:  "test",
	}, server.Handlers{
		Auth:       handlers.NewAuthHandlers(authService, store, sessions, logger),
		Dashboard:  handlers.NewDashboardHandlers(services.NewDashboardService(client.Dashboard, logger), sessions, logger),
		Inventory:  handlers.NewInventoryHandlers(services.NewInventoryService(client.Products, client.AuditLog, nil, logger), sessions, logger),
		Inbound:    handlers.NewInboundHandlers(services.NewLogisticsService[models.InboundRecord]("inbound", client.Inbounds, client.Products, nil, logger), sessions, logger),
		Outbound:   handlers.NewOutboundHandlers(services.NewLogisticsService[models.OutboundRecord]("outbound", client.Outbounds, client.Products, nil, logger), sessions, logger),
		CycleCount: handlers.NewCycleCountHandlers(services.NewCycleCountService(client.CycleCounts, client.Products, logger), sessions, logger),
		Forecast:   handlers.NewForecastHandlers(services.NewForecastService(client.Forecast, client.Products, logger), sessions, logger),
		Health:     handlers.NewHealthHandlers(store, nil, "test"),
	})

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return &Console{Server: srv, Store: store, Logs: hook}
}

// Browser is an HTTP client that keeps cookies and does not follow redirects
type Browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func (c *Console) Browser(t *testing.T) *Browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &Browser{
		t:    t,
		base: c.Server.URL,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Get requests path and returns the response with its body read
func (b *Browser) Get(path string) (*http.Response, string) {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodGet, b.base+path, nil)
	require.NoError(b.t, err)
	return b.do(req)
}

// Post submits form to path as application/x-www-form-urlencoded
func (b *Browser) Post(path string, form url.Values) (*http.Response, string) {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodPost, b.base+path, strings.NewReader(form.Encode()))
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

// Login posts credentials and requires the redirect to /home
func (b *Browser) Login(username, password string) {
	b.t.Helper()
	res, _ := b.Post("/login", url.Values{"username": {username}, "password": {password}})
	require.Equal(b.t, http.StatusSeeOther, res.StatusCode)
	require.Equal(b.t, "/home", res.Header.Get("Location"))
}

func (b *Browser) do(req *http.Request) (*http.Response, string) {
	res, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer res.Body.Close()
	var body strings.Builder
	_, err = io.Copy(&body, res.Body)
	require.NoError(b.t, err)
	return res, body.String()
}
