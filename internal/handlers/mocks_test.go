package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"wmsconsole/internal/caching"
	"wmsconsole/internal/middleware"
	"wmsconsole/internal/models"
	"wmsconsole/internal/render"
	"wmsconsole/internal/services"
	"wmsconsole/internal/session"
	"wmsconsole/internal/wmsapi"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) view(args mock.Arguments) (*services.InventoryView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.InventoryView), args.Error(1)
}

func (m *MockInventoryService) List(ctx context.Context, sess services.SessionState, filter models.ProductFilter) (*services.InventoryView, error) {
	return m.view(m.Called(sess, filter))
}

func (m *MockInventoryService) Create(ctx context.Context, sess services.SessionState, filter models.ProductFilter, patch models.ProductPatch) (*services.InventoryView, error) {
	return m.view(m.Called(sess, filter, patch))
}

func (m *MockInventoryService) Update(ctx context.Context, sess services.SessionState, filter models.ProductFilter, id int, patch models.ProductPatch) (*services.InventoryView, error) {
	return m.view(m.Called(sess, filter, id, patch))
}

func (m *MockInventoryService) SetArchived(ctx context.Context, sess services.SessionState, filter models.ProductFilter, id int, archived bool) (*services.InventoryView, error) {
	return m.view(m.Called(sess, filter, id, archived))
}

func (m *MockInventoryService) Delete(ctx context.Context, sess services.SessionState, filter models.ProductFilter, id int, confirmed bool) (*services.InventoryView, error) {
	return m.view(m.Called(sess, filter, id, confirmed))
}

func (m *MockInventoryService) Import(ctx context.Context, sess services.SessionState, filter models.ProductFilter, file *models.Upload) (*services.InventoryView, error) {
	return m.view(m.Called(sess, filter, file))
}

func (m *MockInventoryService) AuditLog(ctx context.Context, sess services.SessionState, productID int) ([]models.AuditLogEntry, error) {
	args := m.Called(sess, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AuditLogEntry), args.Error(1)
}

func (m *MockInventoryService) Barcode(ctx context.Context, sess services.SessionState, sku string) (*wmsapi.Image, error) {
	args := m.Called(sess, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wmsapi.Image), args.Error(1)
}

func (m *MockInventoryService) QRCode(ctx context.Context, sess services.SessionState, sku string) (*wmsapi.Image, error) {
	args := m.Called(sess, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wmsapi.Image), args.Error(1)
}

func (m *MockInventoryService) Export(ctx context.Context, sess services.SessionState, filter models.ProductFilter) ([]byte, error) {
	args := m.Called(sess, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockLogisticsService[T any] struct {
	mock.Mock
}

func (m *MockLogisticsService[T]) view(args mock.Arguments) (*services.LogisticsView[T], error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.LogisticsView[T]), args.Error(1)
}

func (m *MockLogisticsService[T]) List(ctx context.Context, sess services.SessionState) (*services.LogisticsView[T], error) {
	return m.view(m.Called(sess))
}

func (m *MockLogisticsService[T]) ProductOptions(ctx context.Context, sess services.SessionState) ([]models.Product, error) {
	args := m.Called(sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockLogisticsService[T]) Create(ctx context.Context, sess services.SessionState, in models.MultipartInput) (*services.LogisticsView[T], error) {
	return m.view(m.Called(sess, in))
}

func (m *MockLogisticsService[T]) Update(ctx context.Context, sess services.SessionState, id int, in models.MultipartInput) (*services.LogisticsView[T], error) {
	return m.view(m.Called(sess, id, in))
}

func (m *MockLogisticsService[T]) Delete(ctx context.Context, sess services.SessionState, id int, confirmed bool) (*services.LogisticsView[T], error) {
	return m.view(m.Called(sess, id, confirmed))
}

func (m *MockLogisticsService[T]) Import(ctx context.Context, sess services.SessionState, file *models.Upload) (*services.LogisticsView[T], error) {
	return m.view(m.Called(sess, file))
}

type MockCycleCountService struct {
	mock.Mock
}

func (m *MockCycleCountService) view(args mock.Arguments) (*services.CycleCountView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CycleCountView), args.Error(1)
}

func (m *MockCycleCountService) List(ctx context.Context, sess services.SessionState) (*services.CycleCountView, error) {
	return m.view(m.Called(sess))
}

func (m *MockCycleCountService) Preview(ctx context.Context, sess services.SessionState, productID, counted int, reason string) (*services.CycleCountView, error) {
	return m.view(m.Called(sess, productID, counted, reason))
}

func (m *MockCycleCountService) Submit(ctx context.Context, sess services.SessionState, productID, counted int, reason string) (*services.CycleCountView, error) {
	return m.view(m.Called(sess, productID, counted, reason))
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, sess services.SessionState, clientKey, username, password string) (*models.Session, error) {
	args := m.Called(sess, clientKey, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, sess services.SessionState) error {
	return m.Called(sess).Error(0)
}

// console is a test server: real templates, real session guard, in-memory store
type console struct {
	e        *echo.Echo
	guarded  *echo.Group
	store    *caching.MemoryStore
	sessions *session.Manager
	logger   *logrus.Logger
}

func newConsole(t *testing.T) *console {
	t.Helper()
	logger, _ := test.NewNullLogger()
	rbac, err := services.NewRBACService(nil)
	require.NoError(t, err)
	renderer, err := render.NewRenderer(rbac)
	require.NoError(t, err)
	sessions, err := session.NewManager("handler-test-secret", time.Hour)
	require.NoError(t, err)
	store := caching.NewMemoryStore(time.Hour)

	e := echo.New()
	e.Renderer = renderer
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger)

	c := &console{e: e, store: store, sessions: sessions, logger: logger}
	c.guarded = e.Group("", middleware.RequireSession(sessions, store, logger))
	return c
}

// login stores a session for role and returns its cookie
func (c *console) login(t *testing.T, role models.Role) *http.Cookie {
	t.Helper()
	sid := "sid-" + string(role)
	require.NoError(t, c.store.Set(context.Background(), sid, &models.Session{AccessToken: "T1", RefreshToken: "R1", Username: "alice", Role: role}))
	value, err := c.sessions.Sign(sid)
	require.NoError(t, err)
	return &http.Cookie{Name: c.sessions.CookieName(), Value: value}
}

func cookieNamed(res *http.Response, name string) *http.Cookie {
	for _, cookie := range res.Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func authExpired() error {
	return &wmsapi.APIError{Method: "GET", Path: "/api/products/", Status: http.StatusUnauthorized, Message: "Given token not valid"}
}
