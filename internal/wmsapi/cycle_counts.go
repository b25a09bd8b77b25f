package wmsapi

import (
	"context"
	"net/http"

	"wmsconsole/internal/models"
)

const cycleCountsPath = "/api/cycle-counts/"

type CycleCountResource struct {
	c *Client
}

func (r *CycleCountResource) List(ctx context.Context, token string) ([]models.CycleCount, error) {
	var counts collection[models.CycleCount]
	if err := r.c.do(ctx, request{method: http.MethodGet, path: cycleCountsPath, token: token}, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *CycleCountResource) Create(ctx context.Context, token string, in models.CycleCountInput) (*models.CycleCount, error) {
	body, err := jsonBody(http.MethodPost, cycleCountsPath, in)
	if err != nil {
		return nil, err
	}
	var count models.CycleCount
	req := request{method: http.MethodPost, path: cycleCountsPath, token: token, body: body, contentType: "application/json"}
	if err := r.c.do(ctx, req, &count); err != nil {
		return nil, err
	}
	return &count, nil
}
