package models

import (
	"io"
	"strings"
)

// InboundRecord is a goods-received entry
type InboundRecord struct {
	ID               int    `json:"id"`
	Product          int    `json:"product"`
	Supplier         string `json:"supplier"`
	Quantity         int    `json:"quantity"`
	InvoiceReference string `json:"invoice_reference"`
	ReceivedDate     string `json:"received_date"`
	Attachment       string `json:"attachment"`
}

// OutboundRecord is a dispatch entry
type OutboundRecord struct {
	ID           int    `json:"id"`
	Product      int    `json:"product"`
	Customer     string `json:"customer"`
	Quantity     int    `json:"quantity"`
	SOReference  string `json:"so_reference"`
	DispatchDate string `json:"dispatch_date"`
	Attachment   string `json:"attachment"`
}

// FormField is one multipart text field
type FormField struct {
	Name  string
	Value string
}

// Upload is a file chosen in a form, forwarded as a multipart part
type Upload struct {
	FieldName string
	Filename  string
	Size      int64
	Content   io.Reader
}

// MultipartInput is a write payload encoded as multipart form data
type MultipartInput interface {
	FormFields() []FormField
	File() *Upload
}

// InboundInput is the inbound form. On create the validate tags apply;
// on update every field is optional.
type InboundInput struct {
	Product          string  `form:"product" validate:"required,number"`
	Supplier         string  `form:"supplier" validate:"required"`
	Quantity         string  `form:"quantity" validate:"required,number"`
	InvoiceReference string  `form:"invoice_reference"`
	ReceivedDate     string  `form:"received_date" validate:"required,datetime=2006-01-02"`
	Attachment       *Upload `form:"-"`
}

func (in InboundInput) FormFields() []FormField {
	return nonEmpty(
		FormField{"product", in.Product},
		FormField{"supplier", in.Supplier},
		FormField{"quantity", in.Quantity},
		FormField{"invoice_reference", in.InvoiceReference},
		FormField{"received_date", in.ReceivedDate},
	)
}

func (in InboundInput) File() *Upload { return in.Attachment }

// OutboundInput is the outbound form
type OutboundInput struct {
	Product      string  `form:"product" validate:"required,number"`
	Customer     string  `form:"customer" validate:"required"`
	Quantity     string  `form:"quantity" validate:"required,number"`
	SOReference  string  `form:"so_reference"`
	DispatchDate string  `form:"dispatch_date" validate:"required,datetime=2006-01-02"`
	Attachment   *Upload `form:"-"`
}

func (in OutboundInput) FormFields() []FormField {
	return nonEmpty(
		FormField{"product", in.Product},
		FormField{"customer", in.Customer},
		FormField{"quantity", in.Quantity},
		FormField{"so_reference", in.SOReference},
		FormField{"dispatch_date", in.DispatchDate},
	)
}

func (in OutboundInput) File() *Upload { return in.Attachment }

// nonEmpty drops blank fields; the API must never receive empty strings
func nonEmpty(fields ...FormField) []FormField {
	out := make([]FormField, 0, len(fields))
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			continue
		}
		out = append(out, f)
	}
	return out
}

// ImportSummary is whatever the bulk upload endpoints answer with
type ImportSummary struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
