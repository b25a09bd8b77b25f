package models

import "time"

// CycleCount is a recorded physical count
type CycleCount struct {
	ID              int       `json:"id"`
	Product         int       `json:"product"`
	CountedQuantity int       `json:"counted_quantity"`
	SystemQuantity  int       `json:"system_quantity"`
	Discrepancy     int       `json:"discrepancy"`
	Reason          string    `json:"reason"`
	Adjusted        bool      `json:"adjusted"`
	CountedBy       string    `json:"counted_by"`
	CountedAt       time.Time `json:"counted_at"`
}

// CycleCountInput is the JSON body of POST /api/cycle-counts/
type CycleCountInput struct {
	Product         int    `json:"product"`
	CountedQuantity int    `json:"counted_quantity"`
	SystemQuantity  int    `json:"system_quantity"`
	Discrepancy     int    `json:"discrepancy"`
	Reason          string `json:"reason"`
}
