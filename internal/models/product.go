package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ProductFilter holds the list criteria the inventory view sends as query parameters
type ProductFilter struct {
	Search   string `json:"search,omitempty"`
	Archived bool   `json:"is_archived"`
	PageSize int    `json:"page_size,omitempty"`
}

// DefaultPageSize mirrors the page size the inventory view always asks for
const DefaultPageSize = 1000

type Product struct {
	ID                int       `json:"id"`
	Name              string    `json:"name"`
	SKU               string    `json:"sku"`
	Tags              string    `json:"tags"`
	Description       string    `json:"description"`
	Category          string    `json:"category"`
	Quantity          int       `json:"quantity"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	IsArchived        bool      `json:"is_archived"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// IsLowStock is derived on every read and never sent back to the API
func (p Product) IsLowStock() bool {
	return p.Quantity <= p.LowStockThreshold
}

// StockStatus returns the label shown in the inventory table
func (p Product) StockStatus() string {
	if p.IsLowStock() {
		return "LOW"
	}
	return "OK"
}

// ProductPatch is a partial product payload. Nil fields are omitted from the
// request body, so the same type serves create and partial update.
type ProductPatch struct {
	Name              *string `json:"name,omitempty"`
	SKU               *string `json:"sku,omitempty"`
	Tags              *string `json:"tags,omitempty"`
	Description       *string `json:"description,omitempty"`
	Category          *string `json:"category,omitempty"`
	Quantity          *int    `json:"quantity,omitempty"`
	LowStockThreshold *int    `json:"low_stock_threshold,omitempty"`
	IsArchived        *bool   `json:"is_archived,omitempty"`
}

// Empty reports whether the patch would send no fields at all
func (p ProductPatch) Empty() bool {
	return p == ProductPatch{}
}

// FindProductBySKU returns the product with the given SKU or nil
func FindProductBySKU(products []Product, sku string) *Product {
	for i := range products {
		if products[i].SKU == sku {
			return &products[i]
		}
	}
	return nil
}

// FindProductByID returns the product with the given id or nil
func FindProductByID(products []Product, id int) *Product {
	for i := range products {
		if products[i].ID == id {
			return &products[i]
		}
	}
	return nil
}

// ProductForm is the add/edit product form as posted by the browser
type ProductForm struct {
	Name              string `form:"name" validate:"required,max=255"`
	SKU               string `form:"sku" validate:"required,max=100"`
	Tags              string `form:"tags" validate:"max=255"`
	Description       string `form:"description"`
	Category          string `form:"category" validate:"required,max=100"`
	Quantity          string `form:"quantity" validate:"omitempty,number"`
	LowStockThreshold string `form:"low_stock_threshold" validate:"omitempty,number"`
}

// Patch converts the form into an API payload. Blank numbers are left out so
// the API applies its own defaults.
func (f ProductForm) Patch() (ProductPatch, error) {
	patch := ProductPatch{
		Name:        strPtr(strings.TrimSpace(f.Name)),
		SKU:         strPtr(strings.TrimSpace(f.SKU)),
		Tags:        strPtr(f.Tags),
		Description: strPtr(f.Description),
		Category:    strPtr(strings.TrimSpace(f.Category)),
	}
	var err error
	if patch.Quantity, err = optionalInt("quantity", f.Quantity); err != nil {
		return ProductPatch{}, err
	}
	if patch.LowStockThreshold, err = optionalInt("low_stock_threshold", f.LowStockThreshold); err != nil {
		return ProductPatch{}, err
	}
	return patch, nil
}

// FormFromProduct prefills the edit form
func FormFromProduct(p Product) ProductForm {
	return ProductForm{
		Name:              p.Name,
		SKU:               p.SKU,
		Tags:              p.Tags,
		Description:       p.Description,
		Category:          p.Category,
		Quantity:          strconv.Itoa(p.Quantity),
		LowStockThreshold: strconv.Itoa(p.LowStockThreshold),
	}
}

func strPtr(s string) *string { return &s }

func optionalInt(field, raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a whole number", field)
	}
	return &n, nil
}
