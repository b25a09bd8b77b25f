package wmsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"wmsconsole/internal/models"

	"github.com/sirupsen/logrus"
)

// maxErrorBody caps how much of an error response is kept
const maxErrorBody = 64 << 10

// Client talks to the remote WMS REST API. Each resource attaches the
// caller's bearer token; the client itself holds no credentials.
// Calls are never retried.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger

	Auth        *AuthResource
	Products    *ProductResource
	Inbounds    *TransactionResource[models.InboundRecord]
	Outbounds   *TransactionResource[models.OutboundRecord]
	CycleCounts *CycleCountResource
	AuditLog    *AuditLogResource
	Dashboard   *DashboardResource
	Forecast    *ForecastResource
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default transport. No timeout is set by default.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithLogger sets the logger used for request tracing
func WithLogger(l *logrus.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for the API rooted at baseURL (e.g. http://127.0.0.1:8000)
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		logger:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Auth = &AuthResource{c: c}
	c.Products = &ProductResource{c: c}
	c.Inbounds = &TransactionResource[models.InboundRecord]{c: c, path: "/api/inbounds/", uploadPath: "/api/upload-inbounds/"}
	c.Outbounds = &TransactionResource[models.OutboundRecord]{c: c, path: "/api/outbounds/", uploadPath: "/api/upload-outbounds/"}
	c.CycleCounts = &CycleCountResource{c: c}
	c.AuditLog = &AuditLogResource{c: c}
	c.Dashboard = &DashboardResource{c: c}
	c.Forecast = &ForecastResource{c: c}
	return c
}

// BaseURL returns the API root the client was built with
func (c *Client) BaseURL() string { return c.baseURL }

type request struct {
	method      string
	path        string
	query       url.Values
	token       string
	body        io.Reader
	contentType string
}

// exchange performs the round trip without interpreting the status code
func (c *Client) exchange(ctx context.Context, r request) (*http.Response, error) {
	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, r.body)
	if err != nil {
		return nil, &TransportError{Method: r.method, Path: r.path, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	c.logger.WithFields(logrus.Fields{"method": r.method, "path": r.path}).Debug("wms api request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Method: r.method, Path: r.path, Err: err}
	}
	return resp, nil
}

// send performs the request and turns any non-2xx status into a typed error
func (c *Client) send(ctx context.Context, r request) (*http.Response, error) {
	resp, err := c.exchange(ctx, r)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	message, fields := parseErrorBody(body)

	c.logger.WithFields(logrus.Fields{
		"method": r.method,
		"path":   r.path,
		"status": resp.StatusCode,
	}).Warn("wms api returned error status")

	if resp.StatusCode == http.StatusBadRequest {
		return nil, &ValidationError{Method: r.method, Path: r.path, Message: message, Fields: fields, Body: string(body)}
	}
	return nil, &APIError{Method: r.method, Path: r.path, Status: resp.StatusCode, Message: message, Body: string(body)}
}

// do sends the request and decodes a JSON answer into out when out is non-nil
func (c *Client) do(ctx context.Context, r request, out any) error {
	resp, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return &TransportError{Method: r.method, Path: r.path, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

func jsonBody(method, path string, payload any) (io.Reader, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: fmt.Errorf("failed to marshal payload: %w", err)}
	}
	return bytes.NewReader(data), nil
}

// collection accepts both a paginated {"results": [...]} body and a flat array
type collection[T any] []T

func (c *collection[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var page struct {
			Results []T `json:"results"`
		}
		if err := json.Unmarshal(data, &page); err != nil {
			return err
		}
		*c = page.Results
	} else {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*c = items
	}
	if *c == nil {
		*c = collection[T]{}
	}
	return nil
}

func itemPath(base string, id int) string {
	return fmt.Sprintf("%s%d/", base, id)
}
