package models

import "time"

// AuditLogEntry is one read-only change record of a product
type AuditLogEntry struct {
	ID          int       `json:"id"`
	Product     int       `json:"product"`
	ProductName string    `json:"product_name"`
	Action      string    `json:"action"`
	PerformedBy string    `json:"performed_by"`
	Timestamp   time.Time `json:"timestamp"`
}

// Action values the API records
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)
