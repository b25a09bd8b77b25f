package services

import (
	"context"
	"sort"

	"wmsconsole/internal/models"

	"github.com/sirupsen/logrus"
)

// DashboardView is what the dashboard page renders
type DashboardView struct {
	Summary *models.DashboardSummary
	Daily   []models.DailyTotals
	// MaxDaily scales the chart bars
	MaxDaily int
}

type DashboardService interface {
	Load(ctx context.Context, sess SessionState) (*DashboardView, error)
}

type dashboardService struct {
	dashboard DashboardAPI
	logger    logrus.FieldLogger
}

func NewDashboardService(dashboard DashboardAPI, logger logrus.FieldLogger) DashboardService {
	return &dashboardService{dashboard: dashboard, logger: logger.WithField("view", "dashboard")}
}

func (s *dashboardService) Load(ctx context.Context, sess SessionState) (*DashboardView, error) {
	summary, err := s.dashboard.Summary(ctx, sess.AccessToken())
	if err != nil {
		return nil, expireOnAuthFailure(ctx, sess, s.logger, err)
	}
	volume, err := s.dashboard.DailyTransactions(ctx, sess.AccessToken())
	if err != nil {
		return nil, expireOnAuthFailure(ctx, sess, s.logger, err)
	}

	daily := MergeDaily(volume)
	view := &DashboardView{Summary: summary, Daily: daily}
	for _, d := range daily {
		view.MaxDaily = max(view.MaxDaily, d.Inbound, d.Outbound)
	}
	return view, nil
}

// MergeDaily joins the inbound and outbound series by date, ascending.
// A date present on one side only gets zero on the other.
func MergeDaily(volume *models.DailyVolume) []models.DailyTotals {
	if volume == nil {
		return []models.DailyTotals{}
	}

	byDate := make(map[string]*models.DailyTotals)
	row := func(date string) *models.DailyTotals {
		if byDate[date] == nil {
			byDate[date] = &models.DailyTotals{Date: date}
		}
		return byDate[date]
	}
	for _, p := range volume.Inbound {
		row(p.Date).Inbound += p.Total
	}
	for _, p := range volume.Outbound {
		row(p.Date).Outbound += p.Total
	}

	result := make([]models.DailyTotals, 0, len(byDate))
	for _, totals := range byDate {
		result = append(result, *totals)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result
}
