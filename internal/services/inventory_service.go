package services

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"wmsconsole/internal/models"
	"wmsconsole/internal/wmsapi"

	"github.com/sirupsen/logrus"
)

// InventoryView is what the inventory page renders
type InventoryView struct {
	Filter   models.ProductFilter
	Products []models.Product
	Notice   string
}

// InventoryService is the inventory view controller. Every successful
// mutation is followed by exactly one re-list with the caller's filter;
// an expired token clears the session and skips the re-list.
type InventoryService interface {
	List(ctx context.Context, sess SessionState, filter models.ProductFilter) (*InventoryView, error)
	Create(ctx context.Context, sess SessionState, filter models.ProductFilter, patch models.ProductPatch) (*InventoryView, error)
	Update(ctx context.Context, sess SessionState, filter models.ProductFilter, id int, patch models.ProductPatch) (*InventoryView, error)
	SetArchived(ctx context.Context, sess SessionState, filter models.ProductFilter, id int, archived bool) (*InventoryView, error)
	Delete(ctx context.Context, sess SessionState, filter models.ProductFilter, id int, confirmed bool) (*InventoryView, error)
	Import(ctx context.Context, sess SessionState, filter models.ProductFilter, file *models.Upload) (*InventoryView, error)
	AuditLog(ctx context.Context, sess SessionState, productID int) ([]models.AuditLogEntry, error)
	Barcode(ctx context.Context, sess SessionState, sku string) (*wmsapi.Image, error)
	QRCode(ctx context.Context, sess SessionState, sku string) (*wmsapi.Image, error)
	Export(ctx context.Context, sess SessionState, filter models.ProductFilter) ([]byte, error)
}

type inventoryService struct {
	products ProductAPI
	auditLog AuditLogAPI
	archiver ImportArchiver
	logger   logrus.FieldLogger
}

// NewInventoryService wires the controller; archiver may be nil
func NewInventoryService(products ProductAPI, auditLog AuditLogAPI, archiver ImportArchiver, logger logrus.FieldLogger) InventoryService {
	return &inventoryService{
		products: products,
		auditLog: auditLog,
		archiver: archiver,
		logger:   logger.WithField("view", "inventory"),
	}
}

func normalizeFilter(filter models.ProductFilter) models.ProductFilter {
	if filter.PageSize <= 0 {
		filter.PageSize = models.DefaultPageSize
	}
	return filter
}

func (s *inventoryService) List(ctx context.Context, sess SessionState, filter models.ProductFilter) (*InventoryView, error) {
	filter = normalizeFilter(filter)
	products, err := s.products.List(ctx, sess.AccessToken(), filter)
	if err != nil {
		return nil, expireOnAuthFailure(ctx, sess, s.logger, err)
	}
	return &InventoryView{Filter: filter, Products: products}, nil
}

// relist runs after a mutation resolved successfully
func (s *inventoryService) relist(ctx context.Context, sess SessionState, filter models.ProductFilter, notice string) (*InventoryView, error) {
	view, err := s.List(ctx, sess, filter)
	if err != nil {
		return nil, err
	}
	view.Notice = notice
	return view, nil
}

func (s *inventoryService) Create(ctx context.Context, sess SessionState, filter models.ProductFilter, patch models.ProductPatch) (*InventoryView, error) {
	product, err := s.products.Create(ctx, sess.AccessToken(), patch)
	if err != nil {
		return nil, expireOnAuthFailure(ctx, sess, s.logger, err)
	}
	s.logger.WithFields(logrus.Fields{"product_id": product.ID, "user": sess.Username()}).Info("product created")
	return s.relist(ctx, sess, filter, "Product added!")
}

func (s *inventoryService) Update(ctx context.Context, sess SessionState, filter models.ProductFilter, id int, patch models.ProductPatch) (*InventoryView, error) {
	if _, err := s.products.Update(ctx, sess.AccessToken(), id, patch); err != nil {
		return nil, expireOnAuthFailure(ctx, sess, s.logger, err)
	}
	s.logger.WithFields(logrus.Fields{"product_id": id, "user": sess.Username()}).Info("product updated")
	return s.relist(ctx, sess, filter, "Product updated!")
}

// SetArchived sends only is_archived
func (s *inventoryService) SetArchived(ctx context.Context, sess SessionState, filter models.ProductFilter, id int, archived bool) (*InventoryView, error) {
	if _, err := s.products.Update(ctx, sess.AccessToken(), id, models.ProductPatch{IsArchived: &archived}); err != nil {
		return nil, expireOnAuthFailure(ctx, sess, s.logger, err)
	}
	notice := "Product archived."
	if !archived {
		notice = "Product restored."
	}
	return s.relist(ctx, sess, filter, notice)
}

func (s *inventoryService) Delete(ctx context.Context, sess SessionState, filter models.ProductFilter, id int, confirmed bool) (*InventoryView, error) {
	if !confirmed {
		return nil, ErrUserAborted
	}
	if err := s.products.Remove(ctx, sess.AccessToken(), id); err != nil {
		return nil, expireOnAuthFailure(ctx, sess, s.logger, err)
	}
	s.logger.WithFields(logrus.Fields{"product_id": id, "user": sess.Username()}).Info("product deleted")
	return s.relist(ctx, sess, filter, "Product deleted.")
}

func (s *inventoryService) Import(ctx context.Context, sess SessionState, filter models.ProductFilter, file *models.Upload) (*InventoryView, error) {
	data, upload, err := bufferUpload(file)
	if err != nil {
		return nil, err
	}
	summary, err := s.products.BulkImport(ctx, sess.AccessToken(), upload)
	if err != nil {
		return nil, expireOnAuthFailure(ctx, sess, s.logger, err)
	}
	archiveImport(ctx, s.archiver, s.logger, "products", file.Filename, data)
	return s.relist(ctx, sess, filter, importNotice(summary, "CSV uploaded successfully!"))
}

func (s *inventoryService) AuditLog(ctx context.Context, sess SessionState, productID int) ([]models.AuditLogEntry, error) {
	entries, err := s.auditLog.List(ctx, sess.AccessToken(), productID)
	if err != nil {
		return nil, expireOnAuthFailure(ctx, sess, s.logger, err)
	}
	return entries, nil
}

func (s *inventoryService) Barcode(ctx context.Context, sess SessionState, sku string) (*wmsapi.Image, error) {
	img, err := s.products.Barcode(ctx, sess.AccessToken(), sku)
	return img, expireOnAuthFailure(ctx, sess, s.logger, err)
}

func (s *inventoryService) QRCode(ctx context.Context, sess SessionState, sku string) (*wmsapi.Image, error) {
	img, err := s.products.QRCode(ctx, sess.AccessToken(), sku)
	return img, expireOnAuthFailure(ctx, sess, s.logger, err)
}

func (s *inventoryService) Export(ctx context.Context, sess SessionState, filter models.ProductFilter) ([]byte, error) {
	view, err := s.List(ctx, sess, filter)
	if err != nil {
		return nil, err
	}
	return ProductsWorkbook(view.Products)
}

// bufferUpload reads the upload once so it can be both sent and archived
func bufferUpload(file *models.Upload) ([]byte, *models.Upload, error) {
	if file == nil || file.Content == nil {
		return nil, nil, ErrNoFile
	}
	data, err := io.ReadAll(file.Content)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", file.Filename, err)
	}
	return data, &models.Upload{
		FieldName: file.FieldName,
		Filename:  file.Filename,
		Size:      int64(len(data)),
		Content:   bytes.NewReader(data),
	}, nil
}

func importNotice(summary *models.ImportSummary, fallback string) string {
	if summary != nil && summary.Message != "" {
		return summary.Message
	}
	return fallback
}
