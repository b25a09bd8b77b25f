package wmsapi

import (
	"context"
	"net/http"

	"wmsconsole/internal/models"
)

type DashboardResource struct {
	c *Client
}

func (r *DashboardResource) Summary(ctx context.Context, token string) (*models.DashboardSummary, error) {
	var summary models.DashboardSummary
	if err := r.c.do(ctx, request{method: http.MethodGet, path: "/api/dashboard-summary/", token: token}, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *DashboardResource) DailyTransactions(ctx context.Context, token string) (*models.DailyVolume, error) {
	var volume models.DailyVolume
	if err := r.c.do(ctx, request{method: http.MethodGet, path: "/api/daily-transactions/", token: token}, &volume); err != nil {
		return nil, err
	}
	return &volume, nil
}
