package services

import (
	"context"
	"strings"

	"wmsconsole/internal/models"

	"github.com/sirupsen/logrus"
)

// LogisticsView is what the inbound and outbound pages render
type LogisticsView[T any] struct {
	Records  []T
	Products []models.Product
	Notice   string
}

// LogisticsService is the controller behind the inbound and outbound views.
// Mutations re-list the records once on success and leave Products empty;
// the caller loads the product options it needs for the form.
type LogisticsService[T any] interface {
	List(ctx context.Context, sess SessionState) (*LogisticsView[T], error)
	ProductOptions(ctx context.Context, sess SessionState) ([]models.Product, error)
	Create(ctx context.Context, sess SessionState, in models.MultipartInput) (*LogisticsView[T], error)
	Update(ctx context.Context, sess SessionState, id int, in models.MultipartInput) (*LogisticsView[T], error)
	Delete(ctx context.Context, sess SessionState, id int, confirmed bool) (*LogisticsView[T], error)
	Import(ctx context.Context, sess SessionState, file *models.Upload) (*LogisticsView[T], error)
}

type logisticsService[T any] struct {
	kind     string
	records  TransactionAPI[T]
	products ProductAPI
	archiver ImportArchiver
	logger   logrus.FieldLogger
}

// NewLogisticsService builds the controller for one record kind ("inbound" or "outbound")
func NewLogisticsService[T any](kind string, records TransactionAPI[T], products ProductAPI, archiver ImportArchiver, logger logrus.FieldLogger) LogisticsService[T] {
	return &logisticsService[T]{
		kind:     kind,
		records:  records,
		products: products,
		archiver: archiver,
		logger:   logger.WithField("view", kind),
	}
}

func (s *logisticsService[T]) List(ctx context.Context, sess SessionState) (*LogisticsView[T], error) {
	products, err := s.ProductOptions(ctx, sess)
	if err != nil {
		return nil, err
	}
	view, err := s.relist(ctx, sess, "")
	if err != nil {
		return nil, err
	}
	view.Products = products
	return view, nil
}

func (s *logisticsService[T]) ProductOptions(ctx context.Context, sess SessionState) ([]models.Product, error) {
	products, err := s.products.List(ctx, sess.AccessToken(), productOptions)
	if err != nil {
		return nil, expireOnAuthFailure(ctx, sess, s.logger, err)
	}
	return products, nil
}

// MatchSKU maps a scanned code to one of the listed products
func MatchSKU(products []models.Product, sku string) (*models.Product, error) {
	sku = strings.TrimSpace(sku)
	product := models.FindProductBySKU(products, sku)
	if product == nil {
		return nil, &ProductNotFoundError{SKU: sku}
	}
	return product, nil
}

func (s *logisticsService[T]) relist(ctx context.Context, sess SessionState, notice string) (*LogisticsView[T], error) {
	records, err := s.records.List(ctx, sess.AccessToken())
	if err != nil {
		return nil, expireOnAuthFailure(ctx, sess, s.logger, err)
	}
	return &LogisticsView[T]{Records: records, Notice: notice}, nil
}

func (s *logisticsService[T]) Create(ctx context.Context, sess SessionState, in models.MultipartInput) (*LogisticsView[T], error) {
	if _, err := s.records.Create(ctx, sess.AccessToken(), in); err != nil {
		return nil, expireOnAuthFailure(ctx, sess, s.logger, err)
	}
	s.logger.WithField("user", sess.Username()).Info("record created")
	return s.relist(ctx, sess, s.title()+" recorded!")
}

func (s *logisticsService[T]) Update(ctx context.Context, sess SessionState, id int, in models.MultipartInput) (*LogisticsView[T], error) {
	if _, err := s.records.Update(ctx, sess.AccessToken(), id, in); err != nil {
		return nil, expireOnAuthFailure(ctx, sess, s.logger, err)
	}
	s.logger.WithFields(logrus.Fields{"id": id, "user": sess.Username()}).Info("record updated")
	return s.relist(ctx, sess, s.title()+" updated!")
}

func (s *logisticsService[T]) Delete(ctx context.Context, sess SessionState, id int, confirmed bool) (*LogisticsView[T], error) {
	if !confirmed {
		return nil, ErrUserAborted
	}
	if err := s.records.Remove(ctx, sess.AccessToken(), id); err != nil {
		return nil, expireOnAuthFailure(ctx, sess, s.logger, err)
	}
	s.logger.WithFields(logrus.Fields{"id": id, "user": sess.Username()}).Info("record deleted")
	return s.relist(ctx, sess, s.title()+" deleted.")
}

func (s *logisticsService[T]) Import(ctx context.Context, sess SessionState, file *models.Upload) (*LogisticsView[T], error) {
	data, upload, err := bufferUpload(file)
	if err != nil {
		return nil, err
	}
	summary, err := s.records.BulkImport(ctx, sess.AccessToken(), upload)
	if err != nil {
		return nil, expireOnAuthFailure(ctx, sess, s.logger, err)
	}
	archiveImport(ctx, s.archiver, s.logger, s.kind+"s", file.Filename, data)
	return s.relist(ctx, sess, importNotice(summary, "CSV uploaded!"))
}

func (s *logisticsService[T]) title() string {
	if s.kind == "" {
		return "Record"
	}
	return strings.ToUpper(s.kind[:1]) + s.kind[1:]
}
