package wmsapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"wmsconsole/internal/models"
)

const auditLogPath = "/api/audit-log/"

type AuditLogResource struct {
	c *Client
}

// List returns the entries of one product, newest first as the API orders them
func (r *AuditLogResource) List(ctx context.Context, token string, productID int) ([]models.AuditLogEntry, error) {
	q := url.Values{}
	q.Set("product_id", strconv.Itoa(productID))

	var entries collection[models.AuditLogEntry]
	if err := r.c.do(ctx, request{method: http.MethodGet, path: auditLogPath, query: q, token: token}, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
