package wmsapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"wmsconsole/internal/models"
)

const (
	productsPath      = "/api/products/"
	productUploadPath = "/api/upload-products/"
)

// ProductResource covers the product endpoints
type ProductResource struct {
	c *Client
}

// Image is a generated barcode or QR code
type Image struct {
	ContentType string
	Data        []byte
}

func (r *ProductResource) List(ctx context.Context, token string, filter models.ProductFilter) ([]models.Product, error) {
	q := url.Values{}
	q.Set("search", filter.Search)
	q.Set("is_archived", strconv.FormatBool(filter.Archived))
	if filter.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(filter.PageSize))
	}

	var products collection[models.Product]
	if err := r.c.do(ctx, request{method: http.MethodGet, path: productsPath, query: q, token: token}, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductResource) Create(ctx context.Context, token string, patch models.ProductPatch) (*models.Product, error) {
	return r.write(ctx, http.MethodPost, productsPath, token, patch)
}

// Update sends only the fields set in patch
func (r *ProductResource) Update(ctx context.Context, token string, id int, patch models.ProductPatch) (*models.Product, error) {
	return r.write(ctx, http.MethodPatch, itemPath(productsPath, id), token, patch)
}

func (r *ProductResource) write(ctx context.Context, method, path, token string, patch models.ProductPatch) (*models.Product, error) {
	body, err := jsonBody(method, path, patch)
	if err != nil {
		return nil, err
	}
	var product models.Product
	if err := r.c.do(ctx, request{method: method, path: path, token: token, body: body, contentType: "application/json"}, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductResource) Remove(ctx context.Context, token string, id int) error {
	return r.c.do(ctx, request{method: http.MethodDelete, path: itemPath(productsPath, id), token: token}, nil)
}

func (r *ProductResource) BulkImport(ctx context.Context, token string, file *models.Upload) (*models.ImportSummary, error) {
	return r.c.bulkImport(ctx, productUploadPath, token, file)
}

func (r *ProductResource) Barcode(ctx context.Context, token, sku string) (*Image, error) {
	return r.image(ctx, token, sku, "barcode")
}

func (r *ProductResource) QRCode(ctx context.Context, token, sku string) (*Image, error) {
	return r.image(ctx, token, sku, "qrcode")
}

func (r *ProductResource) image(ctx context.Context, token, sku, kind string) (*Image, error) {
	path := fmt.Sprintf("%s%s/%s/", productsPath, url.PathEscape(sku), kind)
	resp, err := r.c.send(ctx, request{method: http.MethodGet, path: path, token: token})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: http.MethodGet, Path: path, Err: fmt.Errorf("failed to read image: %w", err)}
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}
	return &Image{ContentType: contentType, Data: data}, nil
}
