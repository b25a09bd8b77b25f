package services

import (
	"context"

	"wmsconsole/internal/models"
	"wmsconsole/internal/wmsapi"
)

// The API interfaces below are implemented by the wmsapi resources

type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*models.Session, error)
}

type ProductAPI interface {
	List(ctx context.Context, token string, filter models.ProductFilter) ([]models.Product, error)
	Create(ctx context.Context, token string, patch models.ProductPatch) (*models.Product, error)
	Update(ctx context.Context, token string, id int, patch models.ProductPatch) (*models.Product, error)
	Remove(ctx context.Context, token string, id int) error
	BulkImport(ctx context.Context, token string, file *models.Upload) (*models.ImportSummary, error)
	Barcode(ctx context.Context, token, sku string) (*wmsapi.Image, error)
	QRCode(ctx context.Context, token, sku string) (*wmsapi.Image, error)
}

type AuditLogAPI interface {
	List(ctx context.Context, token string, productID int) ([]models.AuditLogEntry, error)
}

type TransactionAPI[T any] interface {
	List(ctx context.Context, token string) ([]T, error)
	Create(ctx context.Context, token string, in models.MultipartInput) (*T, error)
	Update(ctx context.Context, token string, id int, in models.MultipartInput) (*T, error)
	Remove(ctx context.Context, token string, id int) error
	BulkImport(ctx context.Context, token string, file *models.Upload) (*models.ImportSummary, error)
}

type CycleCountAPI interface {
	List(ctx context.Context, token string) ([]models.CycleCount, error)
	Create(ctx context.Context, token string, in models.CycleCountInput) (*models.CycleCount, error)
}

type DashboardAPI interface {
	Summary(ctx context.Context, token string) (*models.DashboardSummary, error)
	DailyTransactions(ctx context.Context, token string) (*models.DailyVolume, error)
}

type ForecastAPI interface {
	Get(ctx context.Context, token, sku string) (*models.Forecast, error)
}

// SessionState is the request's session as the controllers see it.
// *session.Context implements it.
type SessionState interface {
	AccessToken() string
	Role() models.Role
	Username() string
	Set(ctx context.Context, s *models.Session) error
	Clear(ctx context.Context) error
}

// productOptions is the product list every logistics form selects from
var productOptions = models.ProductFilter{Archived: false, PageSize: models.DefaultPageSize}
