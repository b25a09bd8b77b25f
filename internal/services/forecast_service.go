package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"wmsconsole/internal/models"
	"wmsconsole/internal/wmsapi"

	"github.com/sirupsen/logrus"
)

// ForecastView is what the forecast page renders. Message is set instead of
// Forecast when the API could not produce one for the SKU.
type ForecastView struct {
	Products []models.Product
	SKU      string
	Forecast *models.Forecast
	Message  string
}

type ForecastService interface {
	Load(ctx context.Context, sess SessionState, sku string) (*ForecastView, error)
}

type forecastService struct {
	forecast ForecastAPI
	products ProductAPI
	logger   logrus.FieldLogger
}

func NewForecastService(forecast ForecastAPI, products ProductAPI, logger logrus.FieldLogger) ForecastService {
	return &forecastService{forecast: forecast, products: products, logger: logger.WithField("view", "forecast")}
}

// Load lists the SKUs to choose from and, when sku is set, fetches its forecast.
// Unknown SKUs and SKUs without outbound history become a Message.
func (s *forecastService) Load(ctx context.Context, sess SessionState, sku string) (*ForecastView, error) {
	products, err := s.products.List(ctx, sess.AccessToken(), productOptions)
	if err != nil {
		return nil, expireOnAuthFailure(ctx, sess, s.logger, err)
	}
	view := &ForecastView{Products: products, SKU: strings.TrimSpace(sku)}
	if view.SKU == "" {
		return view, nil
	}

	forecast, err := s.forecast.Get(ctx, sess.AccessToken(), view.SKU)
	if err == nil {
		view.Forecast = forecast
		return view, nil
	}

	var valErr *wmsapi.ValidationError
	var apiErr *wmsapi.APIError
	switch {
	case errors.As(err, &valErr):
		view.Message = valErr.Message
		if view.Message == "" {
			view.Message = "Not enough data to forecast"
		}
		return view, nil
	case errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound:
		view.Message = apiErr.Message
		if view.Message == "" {
			view.Message = "Product not found"
		}
		return view, nil
	}
	return nil, expireOnAuthFailure(ctx, sess, s.logger, err)
}
