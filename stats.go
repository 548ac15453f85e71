package quizdesk

import (
	"context"

	"github.com/quizdesk/quizdesk-go/pkg/api"
	"github.com/quizdesk/quizdesk-go/pkg/models"
)

// Stats fetches the dashboard landing numbers and the analytics trends.
// Both are read-only snapshots with no mutation protocol, so Stats sits
// outside the list store machinery.
type Stats struct {
	client *api.Client
}

func newStats(client *api.Client) *Stats {
	return &Stats{client: client}
}

// Dashboard fetches the stat-card numbers for the landing view.
func (s *Stats) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	resp, err := s.client.Get(ctx, "/dashboard/", nil)
	if err != nil {
		return nil, err
	}
	if err := api.AsError(resp); err != nil {
		return nil, err
	}
	var stats models.DashboardStats
	if err := resp.Decode(&stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Analytics fetches the reports-analytics trends and highlights.
func (s *Stats) Analytics(ctx context.Context) (*models.Analytics, error) {
	resp, err := s.client.Get(ctx, "/dashboard/analytics/", nil)
	if err != nil {
		return nil, err
	}
	if err := api.AsError(resp); err != nil {
		return nil, err
	}
	var analytics models.Analytics
	if err := resp.Decode(&analytics); err != nil {
		return nil, err
	}
	return &analytics, nil
}
