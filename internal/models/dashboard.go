package models

import "time"

// DashboardSummary is the body of GET /api/dashboard-summary/
type DashboardSummary struct {
	TotalProducts    int        `json:"total_products"`
	InboundToday     int        `json:"inbound_today"`
	OutboundToday    int        `json:"outbound_today"`
	LowStockAlerts   int        `json:"low_stock_alerts"`
	RecentActivities []Activity `json:"recent_activities"`
}

// Activity is one entry of the recent activity feed
type Activity struct {
	Product     string    `json:"product"`
	Action      string    `json:"action"`
	PerformedBy string    `json:"performed_by"`
	Timestamp   time.Time `json:"timestamp"`
}

// VolumePoint is a per-day quantity total
type VolumePoint struct {
	Date  string `json:"date"`
	Total int    `json:"total"`
}

// DailyVolume is the body of GET /api/daily-transactions/
type DailyVolume struct {
	Inbound  []VolumePoint `json:"inbound"`
	Outbound []VolumePoint `json:"outbound"`
}

// DailyTotals is one merged row of the daily transaction chart
type DailyTotals struct {
	Date     string
	Inbound  int
	Outbound int
}
