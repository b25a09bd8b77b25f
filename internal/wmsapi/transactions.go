package wmsapi

import (
	"context"
	"net/http"

	"wmsconsole/internal/models"
)

// TransactionResource covers the inbound and outbound endpoints, which share
// one shape: multipart writes with an optional attachment and a CSV upload.
type TransactionResource[T any] struct {
	c          *Client
	path       string
	uploadPath string
}

func (r *TransactionResource[T]) List(ctx context.Context, token string) ([]T, error) {
	var items collection[T]
	if err := r.c.do(ctx, request{method: http.MethodGet, path: r.path, token: token}, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *TransactionResource[T]) Create(ctx context.Context, token string, in models.MultipartInput) (*T, error) {
	return r.write(ctx, http.MethodPost, r.path, token, in)
}

func (r *TransactionResource[T]) Update(ctx context.Context, token string, id int, in models.MultipartInput) (*T, error) {
	return r.write(ctx, http.MethodPatch, itemPath(r.path, id), token, in)
}

func (r *TransactionResource[T]) write(ctx context.Context, method, path, token string, in models.MultipartInput) (*T, error) {
	upload := in.File()
	if upload != nil && upload.FieldName == "" {
		copied := *upload
		copied.FieldName = "attachment"
		upload = &copied
	}
	req, err := r.c.multipartRequest(method, path, token, in.FormFields(), upload)
	if err != nil {
		return nil, err
	}
	var item T
	if err := r.c.do(ctx, req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *TransactionResource[T]) Remove(ctx context.Context, token string, id int) error {
	return r.c.do(ctx, request{method: http.MethodDelete, path: itemPath(r.path, id), token: token}, nil)
}

func (r *TransactionResource[T]) BulkImport(ctx context.Context, token string, file *models.Upload) (*models.ImportSummary, error) {
	return r.c.bulkImport(ctx, r.uploadPath, token, file)
}
