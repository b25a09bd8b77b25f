// Package testhelpers provides a fake warehouse API and a fully wired console
// for tests that exercise the console end to end.
package testhelpers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"wmsconsole/internal/models"

	"github.com/labstack/echo/v4"
)

type apiUser struct {
	password string
	role     models.Role
}

// FakeWMSAPI is an in-memory stand-in for the warehouse REST API. It speaks
// the same paths and JSON shapes, issues bearer tokens and can revoke them.
type FakeWMSAPI struct {
	Server *httptest.Server

	mu       sync.Mutex
	users    map[string]apiUser
	tokens   map[string]string
	products map[int]models.Product
	counts   []models.CycleCount
	inbounds []models.InboundRecord
	nextID   int
	calls    map[string]int
}

// NewFakeWMSAPI starts the fake API; it is closed when the test ends
func NewFakeWMSAPI(t *testing.T) *FakeWMSAPI {
	t.Helper()
	f := &FakeWMSAPI{
		users:    map[string]apiUser{},
		tokens:   map[string]string{},
		products: map[int]models.Product{},
		nextID:   1,
		calls:    map[string]int{},
	}

	e := echo.New()
	e.HideBanner = true
	e.POST("/api/token/", f.token)

	api := e.Group("/api", f.authenticate)
	api.GET("/products/", f.listProducts)
	api.POST("/products/", f.createProduct)
	api.PATCH("/products/:id/", f.updateProduct)
	api.DELETE("/products/:id/", f.deleteProduct)
	api.GET("/inbounds/", f.listInbounds)
	api.GET("/cycle-counts/", f.listCounts)
	api.POST("/cycle-counts/", f.createCount)
	api.GET("/dashboard-summary/", f.summary)
	api.GET("/daily-transactions/", f.daily)

	f.Server = httptest.NewServer(e)
	t.Cleanup(f.Server.Close)
	return f
}

// URL is the base URL to point the console at
func (f *FakeWMSAPI) URL() string { return f.Server.URL }

// AddUser registers credentials the token endpoint accepts
func (f *FakeWMSAPI) AddUser(username, password string, role models.Role) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[username] = apiUser{password: password, role: role}
}

// AddProduct stores p under a new id and returns it
func (f *FakeWMSAPI) AddProduct(p models.Product) models.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = f.nextID
	f.nextID++
	f.products[p.ID] = p
	return p
}

// Product returns the stored product with id
func (f *FakeWMSAPI) Product(id int) (models.Product, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	return p, ok
}

// RevokeTokens makes every issued access token invalid
func (f *FakeWMSAPI) RevokeTokens() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = map[string]string{}
}

// Calls returns how many requests were made as "METHOD /path"
func (f *FakeWMSAPI) Calls(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method+" "+path]
}

func (f *FakeWMSAPI) record(c echo.Context) {
	f.calls[c.Request().Method+" "+c.Request().URL.Path]++
}

func (f *FakeWMSAPI) token(c echo.Context) error {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "invalid body"})
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(c)
	user, ok := f.users[body.Username]
	if !ok || user.password != body.Password {
		return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "No active account found with the given credentials"})
	}
	access := fmt.Sprintf("access-%s-%d", body.Username, time.Now().UnixNano())
	f.tokens[access] = body.Username

	resp := models.TokenResponse{Access: access, Refresh: "refresh-" + body.Username}
	resp.User.Username = body.Username
	resp.User.Role = user.role
	return c.JSON(http.StatusOK, resp)
}

func (f *FakeWMSAPI) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := strings.TrimPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
		f.mu.Lock()
		_, ok := f.tokens[token]
		f.record(c)
		f.mu.Unlock()
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type"})
		}
		return next(c)
	}
}

func (f *FakeWMSAPI) listProducts(c echo.Context) error {
	search := strings.ToLower(c.QueryParam("search"))
	archived := c.QueryParam("is_archived") == "true"

	f.mu.Lock()
	defer f.mu.Unlock()
	results := []models.Product{}
	for _, p := range f.products {
		if p.IsArchived != archived {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name+" "+p.SKU+" "+p.Tags), search) {
			continue
		}
		results = append(results, p)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return c.JSON(http.StatusOK, map[string]any{"count": len(results), "results": results})
}

func (f *FakeWMSAPI) createProduct(c echo.Context) error {
	var patch models.ProductPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "invalid body"})
	}
	if patch.SKU == nil || *patch.SKU == "" {
		return c.JSON(http.StatusBadRequest, map[string][]string{"sku": {"This field is required."}})
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.SKU == *patch.SKU {
			return c.JSON(http.StatusBadRequest, map[string][]string{"sku": {"product with this sku already exists."}})
		}
	}
	p := applyPatch(models.Product{ID: f.nextID, CreatedAt: time.Now().UTC()}, patch)
	f.nextID++
	f.products[p.ID] = p
	return c.JSON(http.StatusCreated, p)
}

func (f *FakeWMSAPI) updateProduct(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	var patch models.ProductPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "invalid body"})
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"detail": "Not found."})
	}
	p = applyPatch(p, patch)
	f.products[id] = p
	return c.JSON(http.StatusOK, p)
}

func (f *FakeWMSAPI) deleteProduct(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[id]; !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"detail": "Not found."})
	}
	delete(f.products, id)
	return c.NoContent(http.StatusNoContent)
}

func (f *FakeWMSAPI) listInbounds(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return c.JSON(http.StatusOK, append([]models.InboundRecord{}, f.inbounds...))
}

func (f *FakeWMSAPI) listCounts(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return c.JSON(http.StatusOK, append([]models.CycleCount{}, f.counts...))
}

func (f *FakeWMSAPI) createCount(c echo.Context) error {
	var in models.CycleCountInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "invalid body"})
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[in.Product]; !ok {
		return c.JSON(http.StatusBadRequest, map[string][]string{"product": {"Invalid pk - object does not exist."}})
	}
	count := models.CycleCount{
		ID:              len(f.counts) + 1,
		Product:         in.Product,
		CountedQuantity: in.CountedQuantity,
		SystemQuantity:  in.SystemQuantity,
		Discrepancy:     in.Discrepancy,
		Reason:          in.Reason,
		CountedBy:       f.tokens[strings.TrimPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")],
		CountedAt:       time.Now().UTC(),
	}
	f.counts = append(f.counts, count)
	return c.JSON(http.StatusCreated, count)
}

func (f *FakeWMSAPI) summary(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	low := 0
	for _, p := range f.products {
		if p.IsLowStock() {
			low++
		}
	}
	return c.JSON(http.StatusOK, models.DashboardSummary{TotalProducts: len(f.products), LowStockAlerts: low})
}

func (f *FakeWMSAPI) daily(c echo.Context) error {
	return c.JSON(http.StatusOK, models.DailyVolume{})
}

func applyPatch(p models.Product, patch models.ProductPatch) models.Product {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.SKU != nil {
		p.SKU = *patch.SKU
	}
	if patch.Tags != nil {
		p.Tags = *patch.Tags
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Quantity != nil {
		p.Quantity = *patch.Quantity
	}
	if patch.LowStockThreshold != nil {
		p.LowStockThreshold = *patch.LowStockThreshold
	}
	if patch.IsArchived != nil {
		p.IsArchived = *patch.IsArchived
	}
	p.UpdatedAt = time.Now().UTC()
	return p
}
