package wmsapi

import (
	"context"
	"net/http"
	"net/url"

	"wmsconsole/internal/models"
)

type ForecastResource struct {
	c *Client
}

// Get returns the depletion forecast of one SKU. An unknown SKU surfaces as
// *APIError with status 404 and too little history as *ValidationError.
func (r *ForecastResource) Get(ctx context.Context, token, sku string) (*models.Forecast, error) {
	path := "/api/forecast/" + url.PathEscape(sku) + "/"
	var forecast models.Forecast
	if err := r.c.do(ctx, request{method: http.MethodGet, path: path, token: token}, &forecast); err != nil {
		return nil, err
	}
	return &forecast, nil
}
