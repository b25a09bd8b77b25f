package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"wmsconsole/internal/caching"
	"wmsconsole/internal/models"
	"wmsconsole/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, c *console, req *http.Request, role models.Role) *httptest.ResponseRecorder {
	t.Helper()
	if role != "" {
		req.AddCookie(c.login(t, role))
	}
	rec := httptest.NewRecorder()
	c.e.ServeHTTP(rec, req)
	return rec
}

func formRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func TestCycleCountHandlers(t *testing.T) {
	products := []models.Product{{ID: 3, Name: "Bolt", SKU: "B-1", Quantity: 10}}

	t.Run("scanned sku fills the draft", func(t *testing.T) {
		c := newConsole(t)
		service := &MockCycleCountService{}
		h := NewCycleCountHandlers(service, c.sessions, c.logger)
		c.guarded.GET("/cycle-count", h.List)
		service.On("List", mock.Anything).Return(&services.CycleCountView{Products: products}, nil).Once()

		rec := serve(t, c, httptest.NewRequest(http.MethodGet, "/cycle-count?sku=B-1", nil), models.RoleOperator)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `<option value="3" selected>`)
		assert.Contains(t, rec.Body.String(), "System quantity: <strong>10</strong>")
		service.AssertExpectations(t)
	})

	t.Run("preview shows the discrepancy", func(t *testing.T) {
		c := newConsole(t)
		service := &MockCycleCountService{}
		h := NewCycleCountHandlers(service, c.sessions, c.logger)
		c.guarded.POST("/cycle-count/preview", h.Preview)
		view := &services.CycleCountView{Products: products}
		view.Form.SelectProduct(products[0])
		view.Form.SetCounted(7)
		service.On("Preview", mock.Anything, 3, 7, "damaged").Return(view, nil).Once()

		rec := serve(t, c, formRequest("/cycle-count/preview", url.Values{"product": {"3"}, "counted_quantity": {"7"}, "reason": {"damaged"}}), models.RoleOperator)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `class="low">-3</strong>`)
		service.AssertExpectations(t)
	})

	t.Run("submit without product keeps the draft", func(t *testing.T) {
		c := newConsole(t)
		service := &MockCycleCountService{}
		h := NewCycleCountHandlers(service, c.sessions, c.logger)
		c.guarded.POST("/cycle-count", h.Submit)
		draft := &services.CycleCountView{Products: products}
		draft.Form.SetCounted(4)
		service.On("Submit", mock.Anything, 0, 4, "").Return(draft, services.ErrNoProductSelected).Once()
		service.On("List", mock.Anything).Return(&services.CycleCountView{Products: products}, nil).Once()

		rec := serve(t, c, formRequest("/cycle-count", url.Values{"counted_quantity": {"4"}}), models.RoleOperator)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "select a product to count")
		assert.Contains(t, rec.Body.String(), `value="4"`)
		service.AssertExpectations(t)
	})

	t.Run("non numeric count is not submitted", func(t *testing.T) {
		c := newConsole(t)
		service := &MockCycleCountService{}
		h := NewCycleCountHandlers(service, c.sessions, c.logger)
		c.guarded.POST("/cycle-count", h.Submit)
		service.On("Preview", mock.Anything, 3, 0, "").Return(&services.CycleCountView{Products: products}, nil).Once()

		rec := serve(t, c, formRequest("/cycle-count", url.Values{"product": {"3"}, "counted_quantity": {"ten"}}), models.RoleOperator)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "Enter a whole number of at least 0.")
		service.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("blank count is not submitted", func(t *testing.T) {
		c := newConsole(t)
		service := &MockCycleCountService{}
		h := NewCycleCountHandlers(service, c.sessions, c.logger)
		c.guarded.POST("/cycle-count", h.Submit)
		service.On("Preview", mock.Anything, 3, 0, "").Return(&services.CycleCountView{Products: products}, nil).Once()

		rec := serve(t, c, formRequest("/cycle-count", url.Values{"product": {"3"}, "counted_quantity": {"  "}}), models.RoleOperator)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "Enter a whole number of at least 0.")
		service.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("explicit zero is submitted", func(t *testing.T) {
		c := newConsole(t)
		service := &MockCycleCountService{}
		h := NewCycleCountHandlers(service, c.sessions, c.logger)
		c.guarded.POST("/cycle-count", h.Submit)
		service.On("Submit", mock.Anything, 3, 0, "").Return(&services.CycleCountView{Products: products, Notice: "Cycle count recorded."}, nil).Once()

		rec := serve(t, c, formRequest("/cycle-count", url.Values{"product": {"3"}, "counted_quantity": {"0"}}), models.RoleOperator)

		assert.Equal(t, http.StatusOK, rec.Code)
		service.AssertExpectations(t)
	})

	t.Run("submit success shows history", func(t *testing.T) {
		c := newConsole(t)
		service := &MockCycleCountService{}
		h := NewCycleCountHandlers(service, c.sessions, c.logger)
		c.guarded.POST("/cycle-count", h.Submit)
		service.On("Submit", mock.Anything, 3, 7, "damaged").Return(&services.CycleCountView{
			Products: products,
			Counts:   []models.CycleCount{{ID: 1, Product: 3, CountedQuantity: 7, SystemQuantity: 10, Discrepancy: -3, Reason: "damaged", CountedBy: "alice"}},
			Notice:   "Cycle count recorded.",
		}, nil).Once()

		rec := serve(t, c, formRequest("/cycle-count", url.Values{"product": {"3"}, "counted_quantity": {"7"}, "reason": {"damaged"}}), models.RoleOperator)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Cycle count recorded.")
		assert.Contains(t, rec.Body.String(), "<td>Bolt</td>")
		service.AssertExpectations(t)
	})
}

type stubForecastService struct {
	view *services.ForecastView
	err  error
	sku  string
}

func (s *stubForecastService) Load(ctx context.Context, sess services.SessionState, sku string) (*services.ForecastView, error) {
	s.sku = sku
	return s.view, s.err
}

func TestForecastHandlers_Urgent(t *testing.T) {
	c := newConsole(t)
	days := 3
	stub := &stubForecastService{view: &services.ForecastView{
		Products: []models.Product{{ID: 3, Name: "Bolt", SKU: "B-1"}},
		SKU:      "B-1",
		Forecast: &models.Forecast{Product: "Bolt", SKU: "B-1", Stock: 6, ForecastDaysLeft: models.DaysLeft{Days: &days}},
	}}
	c.guarded.GET("/forecast", NewForecastHandlers(stub, c.sessions, c.logger).Show)

	rec := serve(t, c, httptest.NewRequest(http.MethodGet, "/forecast?sku=B-1", nil), models.RoleOperator)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "B-1", stub.sku)
	assert.Contains(t, rec.Body.String(), `class="urgent">3</td>`)
	assert.Contains(t, rec.Body.String(), "Reorder soon")
}

func TestForecastHandlers_Message(t *testing.T) {
	c := newConsole(t)
	stub := &stubForecastService{view: &services.ForecastView{SKU: "B-1", Message: "Not enough data to forecast"}}
	c.guarded.GET("/forecast", NewForecastHandlers(stub, c.sessions, c.logger).Show)

	rec := serve(t, c, httptest.NewRequest(http.MethodGet, "/forecast?sku=B-1", nil), models.RoleOperator)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not enough data to forecast")
}

type stubDashboardService struct {
	view *services.DashboardView
	err  error
}

func (s *stubDashboardService) Load(ctx context.Context, sess services.SessionState) (*services.DashboardView, error) {
	return s.view, s.err
}

func TestDashboardHandlers(t *testing.T) {
	c := newConsole(t)
	stub := &stubDashboardService{view: &services.DashboardView{
		Summary:  &models.DashboardSummary{TotalProducts: 12, LowStockAlerts: 2},
		Daily:    []models.DailyTotals{{Date: "2024-05-01", Inbound: 10, Outbound: 5}},
		MaxDaily: 10,
	}}
	c.guarded.GET("/dashboard", NewDashboardHandlers(stub, c.sessions, c.logger).Show)

	rec := serve(t, c, httptest.NewRequest(http.MethodGet, "/dashboard", nil), models.RoleOperator)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<td>12</td>")
	assert.Contains(t, rec.Body.String(), "2024-05-01")
	assert.Contains(t, rec.Body.String(), "width: 50%")
}

func TestDashboardHandlers_AuthExpired(t *testing.T) {
	c := newConsole(t)
	c.guarded.GET("/dashboard", NewDashboardHandlers(&stubDashboardService{err: authExpired()}, c.sessions, c.logger).Show)

	rec := serve(t, c, httptest.NewRequest(http.MethodGet, "/dashboard", nil), models.RoleOperator)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
}

type failingArchiver struct{}

func (failingArchiver) Archive(ctx context.Context, kind, filename string, data []byte) (string, error) {
	return "", errors.New("down")
}
func (failingArchiver) EnsureBucketExists(ctx context.Context) error { return errors.New("down") }
func (failingArchiver) Ping(ctx context.Context) error                { return errors.New("down") }

func TestHealthCheck(t *testing.T) {
	store := caching.NewMemoryStore(0)

	cases := []struct {
		name     string
		archiver services.ImportArchiver
		status   int
		storage  string
	}{
		{"archive disabled", nil, http.StatusOK, "disabled"},
		{"archive unreachable", failingArchiver{}, http.StatusPartialContent, "unhealthy"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			e.GET("/health", NewHealthHandlers(store, tc.archiver, "test").HealthCheck)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			require.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Body.String(), `"session_store":"healthy"`)
			assert.Contains(t, rec.Body.String(), `"storage":"`+tc.storage+`"`)
		})
	}
}

func TestHTTPErrorHandler_RendersErrorPage(t *testing.T) {
	c := newConsole(t)

	rec := serve(t, c, httptest.NewRequest(http.MethodGet, "/nowhere", nil), models.RoleOperator)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not Found")
}
