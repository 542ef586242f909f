package queries

import (
	"context"

	"github.com/google/uuid"
)

type DashboardQueries interface {
	AdvisorDashboard(ctx context.Context, advisorID uuid.UUID) (*AdvisorDashboardView, error)
	AdminDashboard(ctx context.Context) (*AdminDashboardView, error)
	MonthlyFunding(ctx context.Context, months int) ([]MonthlyFundingPoint, error)
	AdvisorsWithStats(ctx context.Context) ([]*AdvisorStatsView, error)
	RecentActivity(ctx context.Context, limit int) ([]*ActivityView, error)
}

type DashboardReadStore interface {
	AdvisorSummary(ctx context.Context, advisorID uuid.UUID) (*AdvisorDashboardView, error)
	AdminSummary(ctx context.Context) (*AdminDashboardView, error)
	MonthlyFunding(ctx context.Context, months int) ([]MonthlyFundingPoint, error)
	AdvisorsWithStats(ctx context.Context) ([]*AdvisorStatsView, error)
	RecentActivity(ctx context.Context, limit int) ([]*ActivityView, error)
}

type dashboardQueriesImpl struct {
	readStore DashboardReadStore
}

func NewDashboardQueries(readStore DashboardReadStore) DashboardQueries {
	return &dashboardQueriesImpl{readStore: readStore}
}

func (q *dashboardQueriesImpl) AdvisorDashboard(ctx context.Context, advisorID uuid.UUID) (*AdvisorDashboardView, error) {
	return q.readStore.AdvisorSummary(ctx, advisorID)
}

func (q *dashboardQueriesImpl) AdminDashboard(ctx context.Context) (*AdminDashboardView, error) {
	return q.readStore.AdminSummary(ctx)
}

func (q *dashboardQueriesImpl) MonthlyFunding(ctx context.Context, months int) ([]MonthlyFundingPoint, error) {
	if months <= 0 || months > 36 {
		months = 12
	}
	return q.readStore.MonthlyFunding(ctx, months)
}

func (q *dashboardQueriesImpl) AdvisorsWithStats(ctx context.Context) ([]*AdvisorStatsView, error) {
	return q.readStore.AdvisorsWithStats(ctx)
}

func (q *dashboardQueriesImpl) RecentActivity(ctx context.Context, limit int) ([]*ActivityView, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return q.readStore.RecentActivity(ctx, limit)
}
