package services

import (
	"context"
	"io"
	"time"

	"wmsconsole/internal/caching"
	"wmsconsole/internal/models"
	"wmsconsole/internal/session"
	"wmsconsole/internal/wmsapi"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
)

type MockProductAPI struct {
	mock.Mock
}

func (m *MockProductAPI) List(ctx context.Context, token string, filter models.ProductFilter) ([]models.Product, error) {
	args := m.Called(ctx, token, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductAPI) Create(ctx context.Context, token string, patch models.ProductPatch) (*models.Product, error) {
	args := m.Called(ctx, token, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductAPI) Update(ctx context.Context, token string, id int, patch models.ProductPatch) (*models.Product, error) {
	args := m.Called(ctx, token, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductAPI) Remove(ctx context.Context, token string, id int) error {
	args := m.Called(ctx, token, id)
	return args.Error(0)
}

func (m *MockProductAPI) BulkImport(ctx context.Context, token string, file *models.Upload) (*models.ImportSummary, error) {
	args := m.Called(ctx, token, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ImportSummary), args.Error(1)
}

func (m *MockProductAPI) Barcode(ctx context.Context, token, sku string) (*wmsapi.Image, error) {
	args := m.Called(ctx, token, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wmsapi.Image), args.Error(1)
}

func (m *MockProductAPI) QRCode(ctx context.Context, token, sku string) (*wmsapi.Image, error) {
	args := m.Called(ctx, token, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wmsapi.Image), args.Error(1)
}

type MockAuditLogAPI struct {
	mock.Mock
}

func (m *MockAuditLogAPI) List(ctx context.Context, token string, productID int) ([]models.AuditLogEntry, error) {
	args := m.Called(ctx, token, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AuditLogEntry), args.Error(1)
}

type MockTransactionAPI[T any] struct {
	mock.Mock
}

func (m *MockTransactionAPI[T]) List(ctx context.Context, token string) ([]T, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockTransactionAPI[T]) Create(ctx context.Context, token string, in models.MultipartInput) (*T, error) {
	args := m.Called(ctx, token, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockTransactionAPI[T]) Update(ctx context.Context, token string, id int, in models.MultipartInput) (*T, error) {
	args := m.Called(ctx, token, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockTransactionAPI[T]) Remove(ctx context.Context, token string, id int) error {
	args := m.Called(ctx, token, id)
	return args.Error(0)
}

func (m *MockTransactionAPI[T]) BulkImport(ctx context.Context, token string, file *models.Upload) (*models.ImportSummary, error) {
	args := m.Called(ctx, token, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ImportSummary), args.Error(1)
}

type MockCycleCountAPI struct {
	mock.Mock
}

func (m *MockCycleCountAPI) List(ctx context.Context, token string) ([]models.CycleCount, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CycleCount), args.Error(1)
}

func (m *MockCycleCountAPI) Create(ctx context.Context, token string, in models.CycleCountInput) (*models.CycleCount, error) {
	args := m.Called(ctx, token, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CycleCount), args.Error(1)
}

type MockDashboardAPI struct {
	mock.Mock
}

func (m *MockDashboardAPI) Summary(ctx context.Context, token string) (*models.DashboardSummary, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DashboardSummary), args.Error(1)
}

func (m *MockDashboardAPI) DailyTransactions(ctx context.Context, token string) (*models.DailyVolume, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DailyVolume), args.Error(1)
}

type MockForecastAPI struct {
	mock.Mock
}

func (m *MockForecastAPI) Get(ctx context.Context, token, sku string) (*models.Forecast, error) {
	args := m.Called(ctx, token, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Forecast), args.Error(1)
}

type MockAuthAPI struct {
	mock.Mock
}

func (m *MockAuthAPI) Login(ctx context.Context, username, password string) (*models.Session, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

type MockArchiver struct {
	mock.Mock
}

func (m *MockArchiver) Archive(ctx context.Context, kind, filename string, data []byte) (string, error) {
	args := m.Called(ctx, kind, filename, data)
	return args.String(0), args.Error(1)
}

func (m *MockArchiver) EnsureBucketExists(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockArchiver) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// loggedInSession returns a session Context over a fresh memory store
func loggedInSession(role models.Role) (*session.Context, *caching.MemoryStore) {
	store := caching.NewMemoryStore(time.Hour)
	sc := session.New(store, "sid-test")
	_ = sc.Set(context.Background(), &models.Session{AccessToken: "T1", RefreshToken: "R1", Username: "alice", Role: role})
	return sc, store
}

func authExpired() error {
	return &wmsapi.APIError{Method: "GET", Path: "/api/", Status: 401, Message: "Given token not valid"}
}
